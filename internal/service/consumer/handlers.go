package consumer

import (
	"context"
	"encoding/json"

	"github.com/wagslane/go-rabbitmq"
	"go.uber.org/zap"

	"github.com/care-services/api-bi/internal/service/etl"
	"github.com/care-services/api-bi/internal/service/eventservice"
)

// handleCommand acks even when the pipeline fails: the outcome is reported by
// the pipeline event and runs are never retried.
func (l *Listener) handleCommand(body []byte, kind string) rabbitmq.Action {
	var cmd eventservice.PipelineCommand
	if len(body) > 0 {
		if err := json.Unmarshal(body, &cmd); err != nil {
			l.logger.Error("error parseando PipelineCommand", zap.Error(err))
			return rabbitmq.NackDiscard
		}
	}

	logger := l.logger.With(zap.String("kind", kind), zap.String("requested_by", cmd.RequestedBy), zap.String("correlation_id", cmd.CorrelationID))
	log := etl.NewRunLog(logger)

	var (
		res etl.RunResult
		err error
	)
	ctx := context.Background()
	switch kind {
	case etl.KindPurge:
		res, err = l.etl.Purge(ctx, log)
	default:
		res, err = l.etl.Run(ctx, log)
	}
	if err != nil {
		logger.Error("command failed", zap.String("run_id", res.RunID.String()), zap.Error(err))
		return rabbitmq.Ack
	}
	logger.Info("command completed", zap.String("run_id", res.RunID.String()), zap.Int64("rows", res.TotalRows()))
	return rabbitmq.Ack
}
