package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/care-services/api-bi/internal/service/eventservice"
)

const (
	KindRun   = "run"
	KindPurge = "purge"
)

type EtlService interface {
	// Run empties the warehouse, then loads every mapping in order and stops
	// at the first failure.
	Run(ctx context.Context, log *RunLog) (RunResult, error)
	// Purge deletes every warehouse row, facts first.
	Purge(ctx context.Context, log *RunLog) (RunResult, error)
	Status(ctx context.Context) (Status, error)
}

type TableResult struct {
	Name  string `json:"name"`
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

type RunResult struct {
	RunID      uuid.UUID     `json:"run_id"`
	Kind       string        `json:"kind"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Tables     []TableResult `json:"tables"`
}

func (r RunResult) TotalRows() int64 {
	var n int64
	for _, t := range r.Tables {
		n += t.Rows
	}
	return n
}

type TableStatus struct {
	Name       string    `json:"name"`
	Table      string    `json:"table"`
	Kind       TableKind `json:"kind"`
	Rows       int64     `json:"rows"`
	SourceRows int64     `json:"source_rows"`
}

type Status struct {
	Populated bool          `json:"populated"`
	Tables    []TableStatus `json:"tables"`
}

type etlService struct {
	source    *gorm.DB
	warehouse *gorm.DB
	mappings  []TableMapping
	gen       *Generator
	events    eventservice.EventPublisher
	logger    *zap.Logger
}

func NewEtlService(source, warehouse *gorm.DB, gen *Generator, events eventservice.EventPublisher, logger *zap.Logger) EtlService {
	if gen == nil {
		gen = NewGenerator(time.Now().UnixNano())
	}
	if events == nil {
		events = eventservice.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &etlService{
		source:    source,
		warehouse: warehouse,
		mappings:  Mappings(),
		gen:       gen,
		events:    events,
		logger:    logger,
	}
}

// withConnections pins one source and one warehouse connection for the
// duration of fn; both are released on every exit path.
func (s *etlService) withConnections(ctx context.Context, fn func(src SourceReader, wh WarehouseWriter) error) error {
	var inner, whErr error
	err := s.source.WithContext(ctx).Connection(func(src *gorm.DB) error {
		whErr = s.warehouse.WithContext(ctx).Connection(func(wh *gorm.DB) error {
			inner = fn(NewSourceReader(src), NewWarehouseWriter(wh))
			return inner
		})
		return whErr
	})
	switch {
	case inner != nil:
		return inner
	case whErr != nil:
		return fmt.Errorf("conectar al warehouse: %w", whErr)
	case err != nil:
		return fmt.Errorf("conectar al origen: %w", err)
	}
	return nil
}

func (s *etlService) Run(ctx context.Context, log *RunLog) (RunResult, error) {
	res := RunResult{RunID: uuid.New(), Kind: KindRun, StartedAt: time.Now().UTC()}
	logger := s.logger.With(zap.String("run_id", res.RunID.String()), zap.String("kind", KindRun))
	logger.Info("etl run started")
	log.Linef("Run %s", res.RunID)

	err := s.withConnections(ctx, func(src SourceReader, wh WarehouseWriter) error {
		if _, err := s.purge(ctx, wh, log); err != nil {
			return err
		}
		for _, m := range s.mappings {
			n, err := load(ctx, src, wh, m, s.gen, log)
			res.Tables = append(res.Tables, TableResult{Name: m.Name, Table: m.Table(), Rows: int64(n)})
			if err != nil {
				return err
			}
		}
		return nil
	})
	res.FinishedAt = time.Now().UTC()

	if err != nil {
		logger.Error("etl run failed", zap.Error(err))
	} else {
		logger.Info("etl run finished", zap.Int64("rows", res.TotalRows()), zap.Duration("took", res.FinishedAt.Sub(res.StartedAt)))
	}
	s.publish(ctx, res, err)
	return res, err
}

func (s *etlService) Purge(ctx context.Context, log *RunLog) (RunResult, error) {
	res := RunResult{RunID: uuid.New(), Kind: KindPurge, StartedAt: time.Now().UTC()}
	logger := s.logger.With(zap.String("run_id", res.RunID.String()), zap.String("kind", KindPurge))
	logger.Info("etl purge started")
	log.Linef("Run %s", res.RunID)

	err := s.warehouse.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		tables, err := s.purge(ctx, NewWarehouseWriter(tx), log)
		res.Tables = tables
		return err
	})
	res.FinishedAt = time.Now().UTC()

	if err != nil {
		logger.Error("etl purge failed", zap.Error(err))
	} else {
		logger.Info("etl purge finished", zap.Int64("rows", res.TotalRows()))
	}
	s.publish(ctx, res, err)
	return res, err
}

// purge reports the number of rows deleted per table.
func (s *etlService) purge(ctx context.Context, wh WarehouseWriter, log *RunLog) ([]TableResult, error) {
	var out []TableResult
	for _, m := range purgeOrder(s.mappings) {
		log.Linef("Clearing table %s...", m.Name)
		n, err := wh.DeleteAll(ctx, m.Table())
		if err != nil {
			return out, errors.Wrapf(err, "vaciar %s", m.Table())
		}
		out = append(out, TableResult{Name: m.Name, Table: m.Table(), Rows: n})
	}
	return out, nil
}

func (s *etlService) Status(ctx context.Context) (Status, error) {
	var st Status
	src := NewSourceReader(s.source)
	wh := NewWarehouseWriter(s.warehouse)
	for _, m := range s.mappings {
		rows, err := wh.Count(ctx, m.Table())
		if err != nil {
			return Status{}, errors.Wrapf(err, "contar %s", m.Table())
		}
		srcRows, err := src.Count(ctx, m.Source.TableName())
		if err != nil {
			return Status{}, errors.Wrapf(err, "contar origen %s", m.Source.TableName())
		}
		if rows > 0 {
			st.Populated = true
		}
		st.Tables = append(st.Tables, TableStatus{
			Name:       m.Name,
			Table:      m.Table(),
			Kind:       m.Kind,
			Rows:       rows,
			SourceRows: srcRows,
		})
	}
	return st, nil
}

// publish never fails the operation: a broker outage only costs the event.
func (s *etlService) publish(ctx context.Context, res RunResult, runErr error) {
	e := eventservice.PipelineEvent{
		RunID:      res.RunID.String(),
		Kind:       res.Kind,
		Status:     eventservice.StatusSucceeded,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	}
	if runErr != nil {
		e.Status = eventservice.StatusFailed
		e.Error = runErr.Error()
	}
	for _, t := range res.Tables {
		e.Tables = append(e.Tables, eventservice.TableCount{Name: t.Table, Rows: t.Rows})
	}
	if err := s.events.PublishPipeline(context.WithoutCancel(ctx), e); err != nil {
		s.logger.Warn("pipeline event not published", zap.String("run_id", e.RunID), zap.Error(err))
	}
}
