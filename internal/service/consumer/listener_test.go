package consumer

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/wagslane/go-rabbitmq"

	"github.com/care-services/api-bi/internal/service/etl"
	"github.com/care-services/api-bi/internal/service/eventservice"
)

type fakeEtl struct {
	runs, purges int
	err          error
}

func (f *fakeEtl) Run(context.Context, *etl.RunLog) (etl.RunResult, error) {
	f.runs++
	return etl.RunResult{Kind: etl.KindRun}, f.err
}

func (f *fakeEtl) Purge(context.Context, *etl.RunLog) (etl.RunResult, error) {
	f.purges++
	return etl.RunResult{Kind: etl.KindPurge}, f.err
}

func (f *fakeEtl) Status(context.Context) (etl.Status, error) { return etl.Status{}, nil }

type fakeRunner struct {
	deliveries []rabbitmq.Delivery
	actions    []rabbitmq.Action
	closed     bool
}

func (f *fakeRunner) Run(handler rabbitmq.Handler) error {
	for _, d := range f.deliveries {
		f.actions = append(f.actions, handler(d))
	}
	return nil
}

func (f *fakeRunner) Close() { f.closed = true }

func delivery(key, body string) rabbitmq.Delivery {
	return rabbitmq.Delivery{Delivery: amqp.Delivery{RoutingKey: key, Body: []byte(body)}}
}

func TestListenerDispatchesCommands(t *testing.T) {
	svc := &fakeEtl{}
	runner := &fakeRunner{deliveries: []rabbitmq.Delivery{
		delivery(eventservice.CommandRunKey, `{"requested_by":"scheduler"}`),
		delivery(eventservice.CommandPurgeKey, ""),
		delivery("etl.command.unknown", "{}"),
		delivery(eventservice.CommandRunKey, "{broken"),
	}}
	l := newListener(runner, svc, nil)

	assert.NoError(t, l.StartListening())

	assert.Equal(t, 1, svc.runs)
	assert.Equal(t, 1, svc.purges)
	assert.Equal(t, []rabbitmq.Action{rabbitmq.Ack, rabbitmq.Ack, rabbitmq.NackDiscard, rabbitmq.NackDiscard}, runner.actions)
}

func TestListenerAcksFailedRun(t *testing.T) {
	svc := &fakeEtl{err: errors.New("conectar al origen: refused")}
	l := newListener(&fakeRunner{}, svc, nil)

	assert.Equal(t, rabbitmq.Ack, l.handle(delivery(eventservice.CommandRunKey, "{}")))
	assert.Equal(t, 1, svc.runs)
}

func TestListenerClose(t *testing.T) {
	runner := &fakeRunner{}
	newListener(runner, &fakeEtl{}, nil).Close()
	assert.True(t, runner.closed)
}
