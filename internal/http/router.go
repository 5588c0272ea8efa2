package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/care-services/api-bi/internal/http/handlers"
	"github.com/care-services/api-bi/internal/http/web"
	"github.com/care-services/api-bi/internal/service/etl"
	"github.com/care-services/api-bi/internal/service/report"
)

const EtlBasePath = "/api/etl"
const ReportsBasePath = "/api/reports"
const HealthPath = "/api/v1" + "/health"
const DashboardPage = "/chart.html"

type Deps struct {
	Etl     etl.EtlService
	Reports report.ReportService
	// Archive may be nil.
	Archive     report.ArchiveService
	Checks      map[string]handlers.Check
	CORSOrigins []string
	Logger      *zap.Logger
}

func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition", handlers.ArchiveKeyHeader},
	}))

	h := handlers.NewStatusHandler(d.Checks)
	etlHandler := &handlers.EtlHandler{Service: d.Etl, Logger: d.Logger}
	dashboard := handlers.DashboardHandler{Service: d.Reports, Archive: d.Archive, Logger: d.Logger}

	initHealthRoutes(r, h)
	initEtlRoutes(r, etlHandler)
	initReportRoutes(r, dashboard)
	initStaticRoutes(r)

	return r
}

func initHealthRoutes(r *chi.Mux, h *handlers.StatusHandler) {
	r.Get(HealthPath, h.Health)
}

func initEtlRoutes(r *chi.Mux, h *handlers.EtlHandler) {
	r.Route(EtlBasePath, func(r chi.Router) {
		r.Get("/run", h.Run)
		r.Get("/purge", h.Purge)
		r.Get("/status", h.Status)
	})
}

func initReportRoutes(r *chi.Mux, h handlers.DashboardHandler) {
	r.Route(ReportsBasePath, func(r chi.Router) {
		r.Get("/analytics", h.Analytics)
		r.Get("/export", h.Export)
		r.Get("/metrics", h.Metrics)
	})
}

func initStaticRoutes(r *chi.Mux) {
	files := http.FileServer(http.FS(web.Static()))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, DashboardPage, http.StatusFound)
	})
	r.Get(DashboardPage, files.ServeHTTP)
	r.Get("/chart.js", files.ServeHTTP)
}
