package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/care-services/api-bi/internal/service/etl"
)

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Run, purge or inspect the warehouse load",
}

var etlRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Empty the warehouse and reload it from the operational database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context(), "Starting ETL...", "ETL job completed successfully!", "ETL failed",
			func(ctx context.Context, svc etl.EtlService, log *etl.RunLog) (etl.RunResult, error) {
				return svc.Run(ctx, log)
			})
	},
}

var etlPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every warehouse row without reloading",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context(), "Clearing...", "Clear completed successfully!", "Clear failed",
			func(ctx context.Context, svc etl.EtlService, log *etl.RunLog) (etl.RunResult, error) {
				return svc.Purge(ctx, log)
			})
	},
}

var etlStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show warehouse and source row counts per table",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication(cmd.Context())
		if err != nil {
			return err
		}
		defer app.close()

		st, err := app.etlService().Status(cmd.Context())
		if err != nil {
			return err
		}
		renderStatus(st)
		return nil
	},
}

type pipelineFunc func(ctx context.Context, svc etl.EtlService, log *etl.RunLog) (etl.RunResult, error)

func runPipeline(ctx context.Context, banner, done, failed string, fn pipelineFunc) error {
	app, err := newApplication(ctx)
	if err != nil {
		return err
	}
	defer app.close()

	log := etl.NewRunLog(app.log)
	log.Line(banner)
	res, err := fn(ctx, app.etlService(), log)
	fmt.Print(log.String())
	if err != nil {
		color.Red("%s: %s", failed, err)
		return fmt.Errorf("run %s failed", res.RunID)
	}
	color.Green("%s (%d rows)", done, res.TotalRows())
	return nil
}

func renderStatus(st etl.Status) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Table", "Kind", "Warehouse rows", "Source rows"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, t := range st.Tables {
		rows := strconv.FormatInt(t.Rows, 10)
		if t.Rows == 0 {
			rows = color.YellowString(rows)
		}
		table.Append([]string{t.Table, string(t.Kind), rows, strconv.FormatInt(t.SourceRows, 10)})
	}
	table.Render()

	if st.Populated {
		color.Green("warehouse populated")
	} else {
		color.Yellow("warehouse empty")
	}
}

func pingCheck(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func init() {
	etlCmd.AddCommand(etlRunCmd, etlPurgeCmd, etlStatusCmd)
	rootCmd.AddCommand(etlCmd)
}
