package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/care-services/api-bi/internal/service/report"
)

var (
	reportMetric string
	reportFormat string
	exportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print an analytics report",
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportFormat != "table" && reportFormat != "json" {
			return fmt.Errorf("invalid format: %s, must be 'table' or 'json'", reportFormat)
		}
		app, err := newApplication(cmd.Context())
		if err != nil {
			return err
		}
		defer app.close()

		res, err := app.reportService().Run(cmd.Context(), reportMetric)
		if err != nil {
			return err
		}
		if reportFormat == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res.Records())
		}
		renderReport(os.Stdout, res)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an analytics report to an xlsx file",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication(cmd.Context())
		if err != nil {
			return err
		}
		defer app.close()

		res, err := app.reportService().Run(cmd.Context(), reportMetric)
		if err != nil {
			return err
		}
		body, err := report.Export(res)
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			out = report.ExportFilename(res.Metric)
		}
		if err := os.WriteFile(out, body, 0o644); err != nil {
			return fmt.Errorf("escribir %s: %w", out, err)
		}
		color.Green("wrote %s (%d rows)", out, len(res.Rows))
		return nil
	},
}

func renderReport(w io.Writer, res report.Result) {
	color.New(color.Bold).Fprintln(w, res.Metric.Label())
	table := tablewriter.NewWriter(w)
	table.SetHeader(res.Columns)
	for _, row := range res.Rows {
		line := make([]string, len(row))
		for i, v := range row {
			line[i] = formatCell(v)
		}
		table.Append(line)
	}
	table.Render()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case decimal.Decimal:
		return x.StringFixed(2)
	default:
		return fmt.Sprint(x)
	}
}

func init() {
	for _, c := range []*cobra.Command{reportCmd, exportCmd} {
		c.Flags().StringVarP(&reportMetric, "metric", "m", "profit", "profit, staffing, damages or collectionrate")
	}
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "table", "table or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default <metric>-analytics.xlsx)")
	rootCmd.AddCommand(reportCmd, exportCmd)
}
