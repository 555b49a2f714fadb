package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iqbalbaharum/swap-executor/internal/health"
	"github.com/iqbalbaharum/swap-executor/internal/types"
)

type ExecutionSearcher interface {
	Search(ctx context.Context, filter types.ExecutionFilter) ([]types.Execution, error)
}

// CreateRoutes mounts /executions only when history is configured. A nil
// aggregator leaves it out of /health.
func CreateRoutes(probe *health.Probe, aggregator AggregatorChecker, history ExecutionSearcher) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	var HealthHandler = NewHealthHandler(probe, aggregator)
	r.Get("/health", HealthHandler.Get)

	if history != nil {
		var ExecutionHandler = NewExecutionHandler(history)
		r.Get("/executions", ExecutionHandler.Get)
	}

	return r
}
