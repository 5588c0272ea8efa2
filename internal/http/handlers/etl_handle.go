package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/care-services/api-bi/internal/service/etl"
)

// EtlHandler serves the pipeline endpoints. Run and Purge never overlap.
type EtlHandler struct {
	Service etl.EtlService
	Logger  *zap.Logger

	mu sync.Mutex
}

// Run always answers 200 with the plain-text log; a failure is the last line.
func (h *EtlHandler) Run(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	log := etl.NewRunLog(h.Logger)
	log.Line("Starting ETL...")

	// Un cliente que se desconecta no debe dejar el warehouse a medio cargar.
	if _, err := h.Service.Run(context.WithoutCancel(r.Context()), log); err != nil {
		log.Linef("ETL failed: %s", err)
	} else {
		log.Line("ETL job completed successfully!")
	}
	writeText(w, log.String())
}

func (h *EtlHandler) Purge(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	log := etl.NewRunLog(h.Logger)
	log.Line("Clearing...")

	if _, err := h.Service.Purge(context.WithoutCancel(r.Context()), log); err != nil {
		log.Linef("Clear failed: %s", err)
	} else {
		log.Line("Clear completed successfully!")
	}
	writeText(w, log.String())
}

func (h *EtlHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	st, err := h.Service.Status(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}
