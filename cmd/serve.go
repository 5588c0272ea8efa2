package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpserver "github.com/care-services/api-bi/internal/http"
	"github.com/care-services/api-bi/internal/http/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ETL and reporting API with the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer app.close()

		archive, err := app.archive(ctx)
		if err != nil {
			return err
		}

		r := httpserver.NewRouter(httpserver.Deps{
			Etl:         app.etlService(),
			Reports:     app.reportService(),
			Archive:     archive,
			CORSOrigins: app.cfg.CORSOrigins,
			Logger:      app.log,
			Checks: map[string]handlers.Check{
				"oltp": pingCheck(app.source),
				"olap": pingCheck(app.warehouse),
			},
		})

		srv := &http.Server{
			Addr:              app.cfg.Addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			app.log.Info("API listening", zap.String("addr", app.cfg.Addr))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		app.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
