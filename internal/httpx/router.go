package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/guardianads/pulse/internal/aggregate"
	"github.com/guardianads/pulse/internal/budget"
	"github.com/guardianads/pulse/internal/ingest"
	"github.com/guardianads/pulse/internal/insights"
	"github.com/guardianads/pulse/internal/models"
	"github.com/guardianads/pulse/internal/timewindow"
	"github.com/guardianads/pulse/internal/utils"
)

var knownMetrics = map[models.Metric]bool{
	models.MetricSpend:       true,
	models.MetricImpressions: true,
	models.MetricClicks:      true,
	models.MetricConversions: true,
	models.MetricConvValue:   true,
	models.MetricCTR:         true,
	models.MetricCPC:         true,
	models.MetricCPA:         true,
	models.MetricROAS:        true,
	models.MetricConvRate:    true,
}

type Deps struct {
	Log     *zap.Logger
	Agg     *aggregate.Service
	Pacing  *insights.PacingCalculator
	Movers  *insights.MoverRanker
	Health  *insights.HealthComposer
	Budgets *budget.Store
	Loader  *ingest.Loader
}

func NewRouter(d Deps) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(d.Log))
	mux.Use(utils.Metrics)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/ingest/run", func(w http.ResponseWriter, r *http.Request) {
		if err := d.Loader.Run(r.Context()); err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		w.WriteHeader(202)
		w.Write([]byte("ingest complete"))
	})

	windowed := func(fn func(timewindow.Window, time.Time) any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			win, err := timewindow.Parse(q.Get("window"), q.Get("from"), q.Get("to"))
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			writeJSON(w, fn(win, time.Now()))
		}
	}

	mux.Get("/api/campaigns", windowed(func(win timewindow.Window, now time.Time) any { return d.Agg.Campaigns(win, now) }))
	mux.Get("/api/keywords", windowed(func(win timewindow.Window, now time.Time) any { return d.Agg.Keywords(win, now) }))
	mux.Get("/api/search-terms", windowed(func(win timewindow.Window, now time.Time) any { return d.Agg.SearchTerms(win, now) }))
	mux.Get("/api/ads", windowed(func(win timewindow.Window, now time.Time) any { return d.Agg.Ads(win, now) }))
	mux.Get("/api/geo", windowed(func(win timewindow.Window, now time.Time) any { return d.Agg.Geo(win, now) }))
	mux.Get("/api/devices", windowed(func(win timewindow.Window, now time.Time) any { return d.Agg.Devices(win, now) }))
	mux.Get("/api/hourly", windowed(func(win timewindow.Window, now time.Time) any { return d.Agg.Hourly(win, now) }))
	mux.Get("/api/quality-score", windowed(func(win timewindow.Window, now time.Time) any { return d.Agg.QualityScore(win, now) }))
	mux.Get("/api/conversions", windowed(func(win timewindow.Window, now time.Time) any { return d.Agg.Conversions(win, now) }))
	mux.Get("/api/landing-pages", windowed(func(win timewindow.Window, now time.Time) any { return d.Agg.LandingPages(win, now) }))
	mux.Get("/api/competitors", windowed(func(win timewindow.Window, now time.Time) any { return d.Agg.Competitors(win, now) }))

	mux.Get("/api/pacing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d.Pacing.Compute(time.Now()))
	})

	mux.Get("/api/movers", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		win, err := timewindow.Parse(q.Get("window"), q.Get("from"), q.Get("to"))
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		metric := models.Metric(q.Get("metric"))
		if metric == "" {
			metric = models.MetricConversions
		}
		if !knownMetrics[metric] {
			http.Error(w, "unknown metric", 400)
			return
		}
		writeJSON(w, d.Movers.Compute(metric, win, time.Now()))
	})

	mux.Get("/api/alerts", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		win, err := timewindow.Parse(q.Get("window"), q.Get("from"), q.Get("to"))
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		now := time.Now()
		// the feed watches conversion volume plus the inverse metric CPA
		movers := d.Movers.All(models.MetricConversions, win, now)
		movers = append(movers, d.Movers.All(models.MetricCPA, win, now)...)
		alerts := insights.GenerateAlerts(movers, d.Pacing.Compute(now), now)
		writeJSON(w, alerts)
	})

	mux.Get("/api/health", windowed(func(win timewindow.Window, now time.Time) any { return d.Health.Compute(win, now) }))

	mux.Get("/api/heatmap", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		win, err := timewindow.Parse(q.Get("window"), q.Get("from"), q.Get("to"))
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		metric := models.Metric(q.Get("metric"))
		if metric == "" {
			metric = models.MetricSpend
		}
		if !knownMetrics[metric] {
			http.Error(w, "unknown metric", 400)
			return
		}
		writeJSON(w, insights.BuildHeatmap(d.Agg.Hourly(win, time.Now()), metric))
	})

	mux.Get("/api/budgets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d.Budgets.Budgets())
	})

	mux.Put("/api/budgets", func(w http.ResponseWriter, r *http.Request) {
		var budgets map[string]float64
		if err := json.NewDecoder(r.Body).Decode(&budgets); err != nil {
			http.Error(w, "bad budgets payload", 400)
			return
		}
		for product, amount := range budgets {
			if product == "" || amount < 0 {
				http.Error(w, "budgets must be non-negative with named products", 400)
				return
			}
		}
		if err := d.Budgets.Save(budgets); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, budgets)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
