package eventservice

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/wagslane/go-rabbitmq"
	"go.uber.org/zap"
)

// ErrNotConfirmed is returned when the broker nacks a published event.
var ErrNotConfirmed = errors.New("evento no confirmado por el broker")

const confirmTimeout = 5 * time.Second

// confirmation is satisfied by *amqp091.DeferredConfirmation.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

func (p *MQPublisher) publishJSON(ctx context.Context, routingKey, messageID string, msg any, headers rabbitmq.Table) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	p.logger.Debug("publishing json", zap.String("routing_key", routingKey), zap.Int("bytes", len(body)))

	ctx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	confs, err := p.pub.PublishWithDeferredConfirmWithContext(ctx, body, []string{routingKey},
		rabbitmq.WithPublishOptionsContentType("application/json"),
		rabbitmq.WithPublishOptionsExchange(p.exchange),
		rabbitmq.WithPublishOptionsPersistentDelivery,
		rabbitmq.WithPublishOptionsMessageID(messageID),
		rabbitmq.WithPublishOptionsTimestamp(time.Now()),
		rabbitmq.WithPublishOptionsHeaders(headers),
	)
	if err != nil {
		return err
	}

	// entries are nil when the channel is not in confirm mode
	waits := make([]confirmation, 0, len(confs))
	for _, c := range confs {
		if c != nil {
			waits = append(waits, c)
		}
	}
	return p.awaitConfirms(ctx, routingKey, messageID, waits)
}

func (p *MQPublisher) awaitConfirms(ctx context.Context, routingKey, messageID string, confs []confirmation) error {
	for _, c := range confs {
		ok, err := c.WaitContext(ctx)
		if err != nil {
			p.logger.Warn("publish confirm not received",
				zap.String("routing_key", routingKey),
				zap.String("message_id", messageID),
				zap.Error(err))
			return err
		}
		if !ok {
			p.logger.Warn("publish nacked by broker",
				zap.String("routing_key", routingKey),
				zap.String("message_id", messageID))
			return ErrNotConfirmed
		}
	}
	return nil
}
