package etl

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/care-services/api-bi/internal/service/eventservice"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventservice.PipelineEvent
	err    error
}

func (p *recordingPublisher) PublishPipeline(_ context.Context, e eventservice.PipelineEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func mapping(t *testing.T, name string) TableMapping {
	t.Helper()
	for _, m := range Mappings() {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("no mapping named %s", name)
	return TableMapping{}
}
