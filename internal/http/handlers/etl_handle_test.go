package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/care-services/api-bi/internal/service/etl"
)

type fakeEtl struct {
	runErr    error
	purgeErr  error
	status    etl.Status
	statusErr error
	runs      int
}

func (f *fakeEtl) Run(_ context.Context, log *etl.RunLog) (etl.RunResult, error) {
	f.runs++
	log.Line("Loading DimEmployee...")
	return etl.RunResult{Kind: etl.KindRun}, f.runErr
}

func (f *fakeEtl) Purge(_ context.Context, log *etl.RunLog) (etl.RunResult, error) {
	log.Line("Clearing table FactRentalHistory...")
	return etl.RunResult{Kind: etl.KindPurge}, f.purgeErr
}

func (f *fakeEtl) Status(context.Context) (etl.Status, error) {
	return f.status, f.statusErr
}

func TestEtlRunSuccess(t *testing.T) {
	h := &EtlHandler{Service: &fakeEtl{}}
	rec := httptest.NewRecorder()

	h.Run(rec, httptest.NewRequest(http.MethodGet, "/api/etl/run", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Starting ETL...\nLoading DimEmployee...\nETL job completed successfully!\n", rec.Body.String())
}

func TestEtlRunFailureStillOK(t *testing.T) {
	h := &EtlHandler{Service: &fakeEtl{runErr: errors.New("insertar en DimClient: duplicate key")}}
	rec := httptest.NewRecorder()

	h.Run(rec, httptest.NewRequest(http.MethodGet, "/api/etl/run", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Loading DimEmployee...")
	assert.Contains(t, rec.Body.String(), "ETL failed: insertar en DimClient: duplicate key\n")
	assert.NotContains(t, rec.Body.String(), "completed successfully")
}

func TestEtlPurge(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ok", nil, "Clearing...\nClearing table FactRentalHistory...\nClear completed successfully!\n"},
		{"failed", errors.New("permission denied"), "Clearing...\nClearing table FactRentalHistory...\nClear failed: permission denied\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &EtlHandler{Service: &fakeEtl{purgeErr: tt.err}}
			rec := httptest.NewRecorder()

			h.Purge(rec, httptest.NewRequest(http.MethodGet, "/api/etl/purge", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestEtlStatus(t *testing.T) {
	svc := &fakeEtl{status: etl.Status{Populated: true, Tables: []etl.TableStatus{{Name: "DimClient", Table: "dim_client", Kind: etl.KindDimension, Rows: 2, SourceRows: 2}}}}
	h := &EtlHandler{Service: svc}
	rec := httptest.NewRecorder()

	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/etl/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"populated":true,"tables":[{"name":"DimClient","table":"dim_client","kind":"dimension","rows":2,"source_rows":2}]}`, rec.Body.String())
}

func TestEtlStatusError(t *testing.T) {
	h := &EtlHandler{Service: &fakeEtl{statusErr: errors.New("db down")}}
	rec := httptest.NewRecorder()

	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/etl/status", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
