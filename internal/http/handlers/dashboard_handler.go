package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/care-services/api-bi/internal/service/report"
)

const ArchiveKeyHeader = "X-Export-Archive-Key"

// Bodies of 500 responses; the cause only goes to the log.
const (
	errReportFailed = "report query failed"
	errExportFailed = "export failed"
)

type DashboardHandler struct {
	Service report.ReportService
	// Archive is nil when no export bucket is configured.
	Archive report.ArchiveService
	Logger  *zap.Logger
}

type metricInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Analytics answers with the rows of ?metric= as JSON objects. Unknown
// metrics get the profit report.
func (d DashboardHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	res, err := d.Service.Run(ctx, r.URL.Query().Get("metric"))
	if err != nil {
		d.logger().Error("analytics failed", zap.Error(err))
		http.Error(w, errReportFailed, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res.Records())
}

func (d DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	res, err := d.Service.Run(ctx, r.URL.Query().Get("metric"))
	if err != nil {
		d.logger().Error("export query failed", zap.Error(err))
		http.Error(w, errReportFailed, http.StatusInternalServerError)
		return
	}

	body, err := report.Export(res)
	if err != nil {
		d.logger().Error("export render failed", zap.Error(err))
		http.Error(w, errExportFailed, http.StatusInternalServerError)
		return
	}

	if d.Archive != nil {
		key, err := d.Archive.Archive(ctx, res.Metric, body)
		if err != nil {
			d.logger().Warn("export not archived", zap.String("metric", res.Metric.String()), zap.Error(err))
		} else {
			w.Header().Set(ArchiveKeyHeader, key)
		}
	}

	w.Header().Set("Content-Type", report.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.ExportFilename(res.Metric)))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Write(body)
}

func (d DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	var out []metricInfo
	for _, m := range report.Metrics() {
		out = append(out, metricInfo{Key: m.String(), Label: m.Label()})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (d DashboardHandler) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
