package pipeline

import (
	"context"
	"errors"

	"github.com/iqbalbaharum/swap-executor/internal/health"
	"github.com/iqbalbaharum/swap-executor/internal/types"
	"github.com/iqbalbaharum/swap-executor/internal/utils"
)

func (p *Pipeline) Ping(ctx context.Context) *types.ExecutorResult {
	log := newRunLog(p.logger)
	log.add("RPC endpoint: %s", p.endpoint)

	report := health.NewProbe(p.ledger).Run(ctx)

	if !report.Healthy {
		log.add("Failed check: %s", report.FailedCheck)
		log.add("Response time: %s", utils.FormatDuration(report.Latency))
		err := types.NewExecError(types.ErrRpcUnavailable, report.FailedCheck, errors.New(report.Error))
		return log.fail("Ping failed", err)
	}

	log.add("Current slot: %d", report.Slot)
	log.add("Block height: %d", report.BlockHeight)
	log.add("Epoch: %d", report.Epoch)
	log.add("Recent blockhash: %s", report.Blockhash)
	log.add("Response time: %s", utils.FormatDuration(report.Latency))

	return &types.ExecutorResult{
		Success: true,
		Slot:    types.Uint64Ptr(report.Slot),
		Logs:    log.lines,
	}
}
