package handler

import (
	"context"
	"net/http"

	"github.com/iqbalbaharum/swap-executor/internal/health"
	"github.com/iqbalbaharum/swap-executor/internal/utils"
)

type AggregatorChecker interface {
	HealthCheck(ctx context.Context) (bool, error)
}

type healthResponse struct {
	*health.Report
	Aggregator      string `json:"aggregator,omitempty"`
	AggregatorError string `json:"aggregator_error,omitempty"`
}

type healthHandler struct {
	probe      *health.Probe
	aggregator AggregatorChecker
}

func NewHealthHandler(probe *health.Probe, aggregator AggregatorChecker) *healthHandler {
	return &healthHandler{probe: probe, aggregator: aggregator}
}

func (h *healthHandler) Get(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{Report: h.probe.Run(r.Context())}
	healthy := response.Healthy

	if h.aggregator != nil {
		ok, err := h.aggregator.HealthCheck(r.Context())
		switch {
		case err != nil:
			response.Aggregator = "unavailable"
			response.AggregatorError = err.Error()
			healthy = false
		case !ok:
			response.Aggregator = "unavailable"
			healthy = false
		default:
			response.Aggregator = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	utils.Encode(w, r, status, response)
}
