package cmd

import (
	"context"
	"fmt"

	"github.com/wagslane/go-rabbitmq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/care-services/api-bi/internal/config"
	"github.com/care-services/api-bi/internal/service/etl"
	"github.com/care-services/api-bi/internal/service/eventservice"
	"github.com/care-services/api-bi/internal/service/report"
)

// application holds what every command needs once configuration is loaded.
type application struct {
	cfg       *config.Config
	log       *zap.Logger
	source    *gorm.DB
	warehouse *gorm.DB

	mqConn *rabbitmq.Conn
	mqPub  *rabbitmq.Publisher
}

func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, err
	}
	log, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	app := &application{cfg: cfg, log: log}

	if cfg.Bootstrap {
		if err := config.Bootstrap(ctx, cfg, log); err != nil {
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
	}

	if app.source, err = config.NewPostgresDB(cfg.Source, cfg.Log.Level, log); err != nil {
		return nil, fmt.Errorf("oltp: %w", err)
	}
	if app.warehouse, err = config.NewPostgresDB(cfg.Warehouse, cfg.Log.Level, log); err != nil {
		app.close()
		return nil, fmt.Errorf("olap: %w", err)
	}
	return app, nil
}

// events connects to the broker on first use. Without a broker, or when it
// cannot be reached, events are dropped.
func (a *application) events() eventservice.EventPublisher {
	if !a.cfg.MQ.Enabled() {
		return eventservice.NopPublisher{}
	}
	if a.mqPub == nil {
		conn, pub, err := config.RabbitPublisher(a.cfg.MQ)
		if err != nil {
			a.log.Warn("rabbitmq unavailable, pipeline events disabled", zap.Error(err))
			return eventservice.NopPublisher{}
		}
		a.mqConn, a.mqPub = conn, pub
	}
	return eventservice.NewMQPublisher(a.mqPub, a.cfg.MQ.Exchange, a.log)
}

func (a *application) etlService() etl.EtlService {
	return etl.NewEtlService(a.source, a.warehouse, nil, a.events(), a.log)
}

func (a *application) reportService() report.ReportService {
	return report.NewReportService(a.warehouse, a.log)
}

// archive returns nil when no export bucket is configured.
func (a *application) archive(ctx context.Context) (report.ArchiveService, error) {
	up, err := config.S3ConfigService(ctx, a.cfg.S3, a.cfg.Region)
	if err != nil || up == nil {
		return nil, err
	}
	return report.NewS3Archive(up.Uploader, up.Bucket, up.Prefix), nil
}

func (a *application) close() {
	if a.mqPub != nil {
		a.mqPub.Close()
	}
	if a.mqConn != nil {
		a.mqConn.Close()
	}
	if a.source != nil {
		config.ClosePostgresDB(a.source, a.log)
	}
	if a.warehouse != nil {
		config.ClosePostgresDB(a.warehouse, a.log)
	}
	a.log.Sync()
}
