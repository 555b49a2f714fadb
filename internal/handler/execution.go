package handler

import (
	"net/http"
	"strconv"

	"github.com/iqbalbaharum/swap-executor/internal/types"
	"github.com/iqbalbaharum/swap-executor/internal/utils"
)

type executionHandler struct {
	history ExecutionSearcher
}

func NewExecutionHandler(history ExecutionSearcher) *executionHandler {
	return &executionHandler{history: history}
}

func parseFilter(r *http.Request) (types.ExecutionFilter, error) {
	q := r.URL.Query()
	filter := types.ExecutionFilter{
		IdempotencyKey: q.Get("idempotency_key"),
		Signature:      q.Get("signature"),
	}

	var err error
	if v := q.Get("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil {
			return filter, err
		}
	}
	if v := q.Get("offset"); v != "" {
		if filter.Offset, err = strconv.Atoi(v); err != nil {
			return filter, err
		}
	}
	if v := q.Get("success"); v != "" {
		success, err := strconv.ParseBool(v)
		if err != nil {
			return filter, err
		}
		filter.Success = &success
	}

	return filter, nil
}

func (h *executionHandler) Get(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, ErrInvalidQuery+": "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	executions, err := h.history.Search(ctx, filter)

	if err != nil {
		select {
		case <-ctx.Done():
			http.Error(w, ErrTimeout, http.StatusGatewayTimeout)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	utils.Encode(w, r, http.StatusOK, executions)
}
