package etl

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/care-services/api-bi/internal/service/eventservice"
)

func newTestService(src, wh *gorm.DB, pub eventservice.EventPublisher, mappings ...TableMapping) *etlService {
	svc := NewEtlService(src, wh, NewGenerator(1), pub, zap.NewNop()).(*etlService)
	if len(mappings) > 0 {
		svc.mappings = mappings
	}
	return svc
}

func expectClientAndRenterLoad(src, wh sqlmock.Sqlmock, client, renter TableMapping) {
	wh.ExpectExec(q("DELETE FROM dim_renter")).WillReturnResult(sqlmock.NewResult(0, 1))
	wh.ExpectExec(q("DELETE FROM dim_client")).WillReturnResult(sqlmock.NewResult(0, 2))

	src.ExpectQuery(q(client.Query)).WillReturnRows(
		sqlmock.NewRows([]string{"client_id", "name", "address", "contact_info"}).
			AddRow(1, "Ann", nil, nil).
			AddRow(2, "Bob", nil, nil),
	)
	wh.ExpectExec("INSERT INTO dim_client").WithArgs(1, "Ann", nil, nil).WillReturnResult(sqlmock.NewResult(0, 1))
	wh.ExpectExec("INSERT INTO dim_client").WithArgs(2, "Bob", nil, nil).WillReturnResult(sqlmock.NewResult(0, 1))

	src.ExpectQuery(q(renter.Query)).WillReturnRows(
		sqlmock.NewRows([]string{"renter_id", "name", "emergency_contact", "family_doctor"}).
			AddRow(10, "Rita", "555-0199", nil),
	)
	wh.ExpectExec("INSERT INTO dim_renter").WithArgs(10, "Rita", "555-0199", nil).WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestRunPurgesThenLoads(t *testing.T) {
	srcDB, src := newMockDB(t)
	whDB, wh := newMockDB(t)
	client, renter := mapping(t, "DimClient"), mapping(t, "DimRenter")
	pub := &recordingPublisher{}
	svc := newTestService(srcDB, whDB, pub, client, renter)

	expectClientAndRenterLoad(src, wh, client, renter)

	log := NewRunLog(nil)
	res, err := svc.Run(context.Background(), log)

	require.NoError(t, err)
	assert.Equal(t, KindRun, res.Kind)
	assert.Equal(t, []TableResult{
		{Name: "DimClient", Table: "dim_client", Rows: 2},
		{Name: "DimRenter", Table: "dim_renter", Rows: 1},
	}, res.Tables)
	assert.EqualValues(t, 3, res.TotalRows())

	out := log.String()
	assert.Contains(t, out, "Run "+res.RunID.String())
	assert.Less(t, strings.Index(out, "Clearing table DimClient..."), strings.Index(out, "Loading DimClient..."))
	assert.Contains(t, out, "DimRenter loaded successfully (1 rows).")

	require.Len(t, pub.events, 1)
	assert.Equal(t, eventservice.StatusSucceeded, pub.events[0].Status)
	assert.Equal(t, res.RunID.String(), pub.events[0].RunID)
	assert.Equal(t, KindRun, pub.events[0].Kind)

	assert.NoError(t, src.ExpectationsWereMet())
	assert.NoError(t, wh.ExpectationsWereMet())
}

func TestRunTwiceIssuesSameStatements(t *testing.T) {
	srcDB, src := newMockDB(t)
	whDB, wh := newMockDB(t)
	client, renter := mapping(t, "DimClient"), mapping(t, "DimRenter")
	svc := newTestService(srcDB, whDB, nil, client, renter)

	expectClientAndRenterLoad(src, wh, client, renter)
	expectClientAndRenterLoad(src, wh, client, renter)

	first, err := svc.Run(context.Background(), NewRunLog(nil))
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), NewRunLog(nil))
	require.NoError(t, err)

	assert.Equal(t, first.Tables, second.Tables)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.NoError(t, src.ExpectationsWereMet())
	assert.NoError(t, wh.ExpectationsWereMet())
}

func TestRunStopsAtFirstFailingLoader(t *testing.T) {
	srcDB, src := newMockDB(t)
	whDB, wh := newMockDB(t)
	client, renter := mapping(t, "DimClient"), mapping(t, "DimRenter")
	pub := &recordingPublisher{}
	svc := newTestService(srcDB, whDB, pub, client, renter)

	wh.ExpectExec("DELETE FROM dim_renter").WillReturnResult(sqlmock.NewResult(0, 0))
	wh.ExpectExec("DELETE FROM dim_client").WillReturnResult(sqlmock.NewResult(0, 0))
	src.ExpectQuery(q(client.Query)).WillReturnError(errors.New("connection reset"))

	log := NewRunLog(nil)
	res, err := svc.Run(context.Background(), log)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DimClient")
	assert.Contains(t, log.String(), "Loading DimClient...")
	assert.NotContains(t, log.String(), "Loading DimRenter...")
	assert.Len(t, res.Tables, 1)

	require.Len(t, pub.events, 1)
	assert.Equal(t, eventservice.StatusFailed, pub.events[0].Status)
	assert.Contains(t, pub.events[0].Error, "connection reset")
	assert.NoError(t, src.ExpectationsWereMet())
}

func TestRunSourceUnavailable(t *testing.T) {
	srcDB, src := newMockDB(t)
	whDB, _ := newMockDB(t)
	sqlDB, err := srcDB.DB()
	require.NoError(t, err)
	src.ExpectClose()
	require.NoError(t, sqlDB.Close())

	svc := newTestService(srcDB, whDB, nil, mapping(t, "DimClient"))
	_, err = svc.Run(context.Background(), NewRunLog(nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "conectar al origen")
}

func TestPurgeDeletesEveryTable(t *testing.T) {
	srcDB, _ := newMockDB(t)
	whDB, wh := newMockDB(t)
	pub := &recordingPublisher{}
	svc := newTestService(srcDB, whDB, pub)

	for _, m := range purgeOrder(Mappings()) {
		wh.ExpectExec(q("DELETE FROM " + m.Table())).WillReturnResult(sqlmock.NewResult(0, 4))
	}

	log := NewRunLog(nil)
	res, err := svc.Purge(context.Background(), log)

	require.NoError(t, err)
	assert.Len(t, res.Tables, 13)
	assert.EqualValues(t, 52, res.TotalRows())
	assert.Contains(t, log.String(), "Clearing table FactRentalHistory...")
	assert.Contains(t, log.String(), "Clearing table DimEmployee...")
	assert.NotContains(t, log.String(), "Loading")

	require.Len(t, pub.events, 1)
	assert.Equal(t, KindPurge, pub.events[0].Kind)
	assert.Len(t, pub.events[0].Tables, 13)
	assert.NoError(t, wh.ExpectationsWereMet())
}

func TestPurgeFailureNamesTable(t *testing.T) {
	srcDB, _ := newMockDB(t)
	whDB, wh := newMockDB(t)
	svc := newTestService(srcDB, whDB, nil, mapping(t, "DimClient"), mapping(t, "FactInvoice"))

	wh.ExpectExec("DELETE FROM fact_invoice").WillReturnError(errors.New("permission denied"))

	log := NewRunLog(nil)
	_, err := svc.Purge(context.Background(), log)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fact_invoice")
	assert.NotContains(t, log.String(), "Clearing table DimClient...")
}

func TestPublishFailureDoesNotFailPurge(t *testing.T) {
	srcDB, _ := newMockDB(t)
	whDB, wh := newMockDB(t)
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestService(srcDB, whDB, pub, mapping(t, "DimClient"))

	wh.ExpectExec("DELETE FROM dim_client").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.Purge(context.Background(), NewRunLog(nil))

	require.NoError(t, err)
	assert.Len(t, pub.events, 1)
}

func TestStatus(t *testing.T) {
	srcDB, src := newMockDB(t)
	whDB, wh := newMockDB(t)
	svc := newTestService(srcDB, whDB, nil, mapping(t, "DimClient"), mapping(t, "FactDamageReport"))

	wh.ExpectQuery(q(`SELECT count(*) FROM "dim_client"`)).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	src.ExpectQuery(q(`SELECT count(*) FROM "client"`)).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	wh.ExpectQuery(q(`SELECT count(*) FROM "fact_damage_report"`)).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	src.ExpectQuery(q(`SELECT count(*) FROM "asset"`)).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	st, err := svc.Status(context.Background())

	require.NoError(t, err)
	assert.True(t, st.Populated)
	require.Len(t, st.Tables, 2)
	assert.Equal(t, TableStatus{Name: "DimClient", Table: "dim_client", Kind: KindDimension, Rows: 3, SourceRows: 3}, st.Tables[0])
	assert.Equal(t, TableStatus{Name: "FactDamageReport", Table: "fact_damage_report", Kind: KindFact, Rows: 0, SourceRows: 2}, st.Tables[1])
	assert.NoError(t, src.ExpectationsWereMet())
	assert.NoError(t, wh.ExpectationsWereMet())
}

func TestStatusEmptyWarehouse(t *testing.T) {
	srcDB, src := newMockDB(t)
	whDB, wh := newMockDB(t)
	svc := newTestService(srcDB, whDB, nil, mapping(t, "DimAsset"))

	wh.ExpectQuery("SELECT count").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	src.ExpectQuery("SELECT count").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	st, err := svc.Status(context.Background())

	require.NoError(t, err)
	assert.False(t, st.Populated)
}
