package consumer

import (
	"fmt"
	"sync"

	"github.com/wagslane/go-rabbitmq"
	"go.uber.org/zap"

	"github.com/care-services/api-bi/internal/config"
	"github.com/care-services/api-bi/internal/service/etl"
	"github.com/care-services/api-bi/internal/service/eventservice"
)

type runner interface {
	Run(handler rabbitmq.Handler) error
	Close()
}

// Listener runs or purges the warehouse when a command arrives on the
// pipeline exchange. Commands are handled one at a time.
type Listener struct {
	consumer runner
	etl      etl.EtlService
	logger   *zap.Logger

	mu sync.Mutex
}

func NewListener(conn *rabbitmq.Conn, mq config.MQConfig, svc etl.EtlService, logger *zap.Logger) (*Listener, error) {
	c, err := rabbitmq.NewConsumer(
		conn,
		mq.Queue,
		rabbitmq.WithConsumerOptionsRoutingKey(eventservice.CommandRunKey),
		rabbitmq.WithConsumerOptionsRoutingKey(eventservice.CommandPurgeKey),
		rabbitmq.WithConsumerOptionsExchangeName(mq.Exchange),
		rabbitmq.WithConsumerOptionsExchangeKind("topic"),
		rabbitmq.WithConsumerOptionsExchangeDurable,
		rabbitmq.WithConsumerOptionsExchangeDeclare,
		rabbitmq.WithConsumerOptionsQueueDurable,
		rabbitmq.WithConsumerOptionsConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("error creando consumidor: %w", err)
	}
	return newListener(c, svc, logger), nil
}

func newListener(c runner, svc etl.EtlService, logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener{consumer: c, etl: svc, logger: logger}
}

// StartListening blocks until the consumer is closed.
func (l *Listener) StartListening() error {
	l.logger.Info("listener started, waiting for commands")
	return l.consumer.Run(l.handle)
}

func (l *Listener) Close() {
	l.consumer.Close()
}

func (l *Listener) handle(d rabbitmq.Delivery) rabbitmq.Action {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logger.Info("command received", zap.String("routing_key", d.RoutingKey), zap.String("message_id", d.MessageId))
	switch d.RoutingKey {
	case eventservice.CommandRunKey:
		return l.handleCommand(d.Body, etl.KindRun)
	case eventservice.CommandPurgeKey:
		return l.handleCommand(d.Body, etl.KindPurge)
	default:
		l.logger.Warn("no handler for routing key", zap.String("routing_key", d.RoutingKey))
		return rabbitmq.NackDiscard
	}
}
