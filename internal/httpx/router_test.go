package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/guardianads/pulse/internal/aggregate"
	"github.com/guardianads/pulse/internal/budget"
	"github.com/guardianads/pulse/internal/ingest"
	"github.com/guardianads/pulse/internal/insights"
	"github.com/guardianads/pulse/internal/models"
	"github.com/guardianads/pulse/internal/store"
)

func newTestRouter(t *testing.T) (http.Handler, *store.MemoryStore) {
	t.Helper()

	st := store.NewMemoryStore()
	log := zap.NewNop()
	budgets := budget.NewStore(filepath.Join(t.TempDir(), "budgets.yaml"), log)
	agg := aggregate.NewService(st)
	pacing := insights.NewPacingCalculator(budgets, st)

	return NewRouter(Deps{
		Log:     log,
		Agg:     agg,
		Pacing:  pacing,
		Movers:  insights.NewMoverRanker(agg),
		Health:  insights.NewHealthComposer(agg, pacing),
		Budgets: budgets,
		Loader:  ingest.NewLoader(ingest.NewHTTPClient(time.Second), st, log, ""),
	}), st
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	h, _ := newTestRouter(t)
	require.Equal(t, 200, get(t, h, "/healthz").Code)
	require.Equal(t, 200, get(t, h, "/readyz").Code)
}

func TestCampaignsEndpointAggregates(t *testing.T) {
	h, st := newTestRouter(t)
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	st.AddCampaigns(
		models.CampaignRecord{Date: yesterday, Name: "termlife-leadgen", Product: "Term Life", BaseMetrics: models.BaseMetrics{Spend: 100, Clicks: 20, Impressions: 400}},
		models.CampaignRecord{Date: yesterday.AddDate(0, 0, -1), Name: "termlife-leadgen", Product: "Term Life", BaseMetrics: models.BaseMetrics{Spend: 50, Clicks: 10, Impressions: 100}},
	)

	rec := get(t, h, "/api/campaigns?window=7d")
	require.Equal(t, 200, rec.Code)

	var rows []aggregate.CampaignRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	require.Equal(t, 150.0, rows[0].Spend)
	require.Equal(t, 30, rows[0].Clicks)
}

func TestWindowValidation(t *testing.T) {
	h, _ := newTestRouter(t)
	require.Equal(t, 400, get(t, h, "/api/campaigns?window=2y").Code)
}

func TestUnknownMetricRejected(t *testing.T) {
	h, _ := newTestRouter(t)
	require.Equal(t, 400, get(t, h, "/api/heatmap?metric=bananas").Code)
	require.Equal(t, 400, get(t, h, "/api/movers?metric=bananas").Code)
}

func TestHeatmapReturnsFullGrid(t *testing.T) {
	h, st := newTestRouter(t)
	st.AddHourly(models.HourlyRecord{Date: time.Now().UTC().AddDate(0, 0, -1), DayOfWeek: 2, Hour: 14, BaseMetrics: models.BaseMetrics{Spend: 9}})

	rec := get(t, h, "/api/heatmap?window=7d")
	require.Equal(t, 200, rec.Code)

	var cells []models.HeatmapCell
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cells))
	require.Len(t, cells, 168)
}

func TestBudgetRoundTripAndValidation(t *testing.T) {
	h, _ := newTestRouter(t)

	put := httptest.NewRequest(http.MethodPut, "/api/budgets", strings.NewReader(`{"Term Life": 70000}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, put)
	require.Equal(t, 200, rec.Code)

	rec = get(t, h, "/api/budgets")
	require.Equal(t, 200, rec.Code)
	var budgets map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &budgets))
	require.Equal(t, map[string]float64{"Term Life": 70000}, budgets)

	put = httptest.NewRequest(http.MethodPut, "/api/budgets", strings.NewReader(`{"Term Life": -5}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, put)
	require.Equal(t, 400, rec.Code)
}

func TestPacingEndpointUsesDefaultsWithoutConfig(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := get(t, h, "/api/pacing")
	require.Equal(t, 200, rec.Code)

	var rows []models.BudgetPacingRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, len(budget.Defaults))
}

func TestIngestWithoutFeedConfiguredFails(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingest/run", nil))
	require.Equal(t, 502, rec.Code)
}
