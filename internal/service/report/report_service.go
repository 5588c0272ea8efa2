package report

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReportService interface {
	Run(ctx context.Context, metric string) (Result, error)
}

// Result keeps the column order of the query.
type Result struct {
	Metric  Metric
	Columns []string
	Rows    [][]any
}

type reportService struct {
	warehouse *gorm.DB
	logger    *zap.Logger
}

func NewReportService(warehouse *gorm.DB, logger *zap.Logger) ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &reportService{warehouse: warehouse, logger: logger}
}

func (s *reportService) Run(ctx context.Context, metric string) (Result, error) {
	m, known := ParseMetric(metric)
	if !known && strings.TrimSpace(metric) != "" {
		s.logger.Debug("unknown metric, using default", zap.String("metric", metric), zap.String("default", m.String()))
	}

	res := Result{Metric: m}
	err := s.warehouse.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		rows, err := tx.Raw(queries[m]).Rows()
		if err != nil {
			return err
		}
		defer rows.Close()

		res.Columns, res.Rows, err = readAll(rows)
		return err
	})
	if err != nil {
		return Result{}, fmt.Errorf("consulta %s: %w", m, err)
	}

	s.logger.Info("report executed", zap.String("metric", m.String()), zap.Int("rows", len(res.Rows)))
	return res, nil
}

func readAll(rows *sql.Rows) ([]string, [][]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, err
	}

	out := [][]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		for i := range values {
			values[i] = normalize(values[i], types[i].DatabaseTypeName())
		}
		out = append(out, values)
	}
	return columns, out, rows.Err()
}

// normalize turns NUMERIC columns into decimals and raw bytes into strings.
func normalize(v any, dbType string) any {
	numeric := strings.EqualFold(dbType, "NUMERIC") || strings.EqualFold(dbType, "DECIMAL")
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		if numeric {
			if d, err := decimal.NewFromString(string(x)); err == nil {
				return d
			}
		}
		return string(x)
	case string:
		if numeric {
			if d, err := decimal.NewFromString(x); err == nil {
				return d
			}
		}
		return x
	case float64:
		if numeric {
			return decimal.NewFromFloat(x)
		}
		return x
	default:
		return v
	}
}
