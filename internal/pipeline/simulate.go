package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/iqbalbaharum/swap-executor/internal/instructions"
	"github.com/iqbalbaharum/swap-executor/internal/transaction"
	"github.com/iqbalbaharum/swap-executor/internal/types"
)

type SimulateRequest struct {
	RouteRequest
	UserPublicKey solana.PublicKey
}

func (p *Pipeline) Simulate(ctx context.Context, req SimulateRequest) *types.ExecutorResult {
	log := newRunLog(p.logger)

	expectedOut, units, err := p.simulate(ctx, req, log)
	if err != nil {
		return log.fail("Simulation failed", err)
	}

	log.add("Expected output: %s", expectedOut)
	log.add("Compute units used: %d", units)

	return &types.ExecutorResult{
		Success:          true,
		ExpectedOut:      types.StringPtr(expectedOut),
		ComputeUnitsUsed: types.Uint64Ptr(units),
		Logs:             log.lines,
	}
}

func (p *Pipeline) simulate(ctx context.Context, req SimulateRequest, log *runLog) (string, uint64, error) {
	if req.UserPublicKey == (solana.PublicKey{}) {
		return "", 0, types.NewExecError(types.ErrInvalidInput, "user public key is required", nil)
	}

	route, err := p.resolveRoute(ctx, req.RouteRequest, log)
	if err != nil {
		return "", 0, err
	}

	swap, err := p.routes.GetSwapTransaction(ctx, route, req.UserPublicKey.String())
	if err != nil {
		return "", 0, err
	}

	tx, err := transaction.Decode(swap.SwapTransaction)
	if err != nil {
		return "", 0, err
	}

	tx, err = transaction.PrepareSimulation(tx, instructions.ComputeUnit{
		Units:         p.cfg.SimulationUnits,
		MicroLamports: p.cfg.DefaultMicroLamports,
	})
	if err != nil {
		return "", 0, err
	}

	sim, err := p.ledger.SimulateTransaction(ctx, tx)
	if err != nil {
		return "", 0, types.NewExecError(types.ErrRpcUnavailable, "simulateTransaction failed", err)
	}

	log.lines = append(log.lines, sim.Logs...)

	if sim.Err != nil {
		return "", 0, types.NewExecError(types.ErrSimulationFailed, fmt.Sprintf("simulation error: %v", sim.Err), nil)
	}

	units := ConsumedUnits(sim.Logs)
	if sim.UnitsConsumed != nil {
		units = *sim.UnitsConsumed
	}

	expectedOut := route.Quote.OutAmount
	if expectedOut == "" {
		expectedOut = "0"
	}

	return expectedOut, units, nil
}

// ConsumedUnits reads the last "consumed N of M compute units" program log.
func ConsumedUnits(logs []string) uint64 {
	var units uint64

	for _, line := range logs {
		if !strings.Contains(line, "consumed") || !strings.Contains(line, "compute units") {
			continue
		}

		for _, field := range strings.Fields(line) {
			if n, err := strconv.ParseUint(field, 10, 64); err == nil {
				units = n
				break
			}
		}
	}

	return units
}
