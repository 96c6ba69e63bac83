package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/guardianads/pulse/internal/aggregate"
	"github.com/guardianads/pulse/internal/budget"
	"github.com/guardianads/pulse/internal/config"
	"github.com/guardianads/pulse/internal/httpx"
	"github.com/guardianads/pulse/internal/ingest"
	"github.com/guardianads/pulse/internal/insights"
	"github.com/guardianads/pulse/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	st := store.NewMemoryStore()
	loader := ingest.NewLoader(cl, st, logger, cfg.DataAPIURL)

	budgets := budget.NewStore(cfg.BudgetFile, logger)
	agg := aggregate.NewService(st)
	pacing := insights.NewPacingCalculator(budgets, st)

	// Budget edits only change derived numbers; aggregation is
	// per-request, so a change just needs a fresh record snapshot.
	go func() {
		for range budgets.Subscribe() {
			logger.Info("budget configuration changed")
			if cfg.DataAPIURL != "" {
				if err := loader.Run(context.Background()); err != nil {
					logger.Warn("refresh after budget change failed", zap.Error(err))
				}
			}
		}
	}()

	r := httpx.NewRouter(httpx.Deps{
		Log:     logger,
		Agg:     agg,
		Pacing:  pacing,
		Movers:  insights.NewMoverRanker(agg),
		Health:  insights.NewHealthComposer(agg, pacing),
		Budgets: budgets,
		Loader:  loader,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		lvl = parsed
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
