package eventservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wagslane/go-rabbitmq"
	"go.uber.org/zap"
)

type EventPublisher interface {
	PublishPipeline(ctx context.Context, e PipelineEvent) error
}

// rabbitPublisher is the subset of *rabbitmq.Publisher used here.
type rabbitPublisher interface {
	PublishWithDeferredConfirmWithContext(ctx context.Context, data []byte, routingKeys []string, optionFuncs ...func(*rabbitmq.PublishOptions)) (rabbitmq.PublisherConfirmation, error)
}

type MQPublisher struct {
	pub      rabbitPublisher
	exchange string
	logger   *zap.Logger
}

func NewMQPublisher(pub rabbitPublisher, exchange string, logger *zap.Logger) *MQPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MQPublisher{pub: pub, exchange: exchange, logger: logger}
}

func (p *MQPublisher) PublishPipeline(ctx context.Context, e PipelineEvent) error {
	if e.EventID == "" {
		e.EventID = newUUID()
	}
	if e.EventType == "" {
		e.EventType = "etl." + e.Kind
	}
	if e.Version == "" {
		e.Version = "1"
	}
	if e.Source == "" {
		e.Source = EventSource
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	p.logger.Info("publishing pipeline event",
		zap.String("run_id", e.RunID),
		zap.String("kind", e.Kind),
		zap.String("status", e.Status))
	return p.publishJSON(ctx, RoutingKey(e.Kind, e.Status), e.EventID, e, rabbitmq.Table{
		"type":          e.EventType,
		"version":       e.Version,
		"correlationId": e.CorrelationID,
	})
}

// NopPublisher drops every event; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishPipeline(context.Context, PipelineEvent) error { return nil }

func newUUID() string { return uuid.New().String() }
