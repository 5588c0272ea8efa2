package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/care-services/api-bi/internal/service/consumer"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run or purge the warehouse on etl.command.* messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer app.close()

		if !app.cfg.MQ.Enabled() {
			return errors.New("worker requires mq.host or mq.url")
		}
		svc := app.etlService()
		if app.mqConn == nil {
			return errors.New("rabbitmq unavailable")
		}

		l, err := consumer.NewListener(app.mqConn, app.cfg.MQ, svc, app.log)
		if err != nil {
			return err
		}
		go func() {
			<-ctx.Done()
			l.Close()
		}()
		return l.StartListening()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
