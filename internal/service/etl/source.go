package etl

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Row is one source record keyed by column name.
type Row map[string]any

// SourceReader issues read queries against the operational schema.
type SourceReader struct {
	db *gorm.DB
}

func NewSourceReader(db *gorm.DB) SourceReader {
	return SourceReader{db: db}
}

// Query returns the rows lazily; the caller closes them.
func (s SourceReader) Query(ctx context.Context, query string) (*sql.Rows, error) {
	return s.db.WithContext(ctx).Raw(query).Rows()
}

func (s SourceReader) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Table(table).Count(&n).Error
	return n, err
}

func scanRow(rows *sql.Rows, columns []string) (Row, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(Row, len(columns))
	for i, c := range columns {
		if b, ok := values[i].([]byte); ok {
			row[c] = string(b)
			continue
		}
		row[c] = values[i]
	}
	return row, nil
}
