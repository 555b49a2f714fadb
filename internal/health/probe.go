package health

import (
	"context"
	"fmt"
	"time"

	"github.com/iqbalbaharum/swap-executor/internal/config"
	"github.com/iqbalbaharum/swap-executor/internal/rpc"
)

const (
	CHECK_SLOT             = "slot"
	CHECK_BLOCK_HEIGHT     = "block_height"
	CHECK_EPOCH_INFO       = "epoch_info"
	CHECK_LATEST_BLOCKHASH = "latest_blockhash"
	CHECK_ACCOUNT          = "account"
)

type Report struct {
	Healthy     bool          `json:"healthy"`
	FailedCheck string        `json:"failed_check,omitempty"`
	Error       string        `json:"error,omitempty"`
	Latency     time.Duration `json:"-"`
	LatencyMs   int64         `json:"latency_ms"`
	Slot        uint64        `json:"slot,omitempty"`
	BlockHeight uint64        `json:"block_height,omitempty"`
	Epoch       uint64        `json:"epoch,omitempty"`
	Blockhash   string        `json:"blockhash,omitempty"`
	Passed      []string      `json:"passed"`
}

type Probe struct {
	ledger rpc.Ledger
}

func NewProbe(ledger rpc.Ledger) *Probe {
	return &Probe{ledger: ledger}
}

// Run performs the checks once, in order, and stops at the first failure.
func (p *Probe) Run(ctx context.Context) *Report {
	report := &Report{Passed: []string{}}
	start := time.Now()

	checks := []struct {
		name string
		run  func() error
	}{
		{CHECK_SLOT, func() (err error) {
			report.Slot, err = p.ledger.GetSlot(ctx)
			return err
		}},
		{CHECK_BLOCK_HEIGHT, func() (err error) {
			report.BlockHeight, err = p.ledger.GetBlockHeight(ctx)
			return err
		}},
		{CHECK_EPOCH_INFO, func() error {
			info, err := p.ledger.GetEpochInfo(ctx)
			if err != nil {
				return err
			}
			report.Epoch = info.Epoch
			return nil
		}},
		{CHECK_LATEST_BLOCKHASH, func() error {
			hash, err := p.ledger.GetLatestBlockhash(ctx)
			if err != nil {
				return err
			}
			report.Blockhash = hash.Hash.String()
			return nil
		}},
		{CHECK_ACCOUNT, func() error {
			info, err := p.ledger.GetAccountInfo(ctx, config.SYSTEM_PROGRAM)
			if err != nil {
				if rpc.IsNotFound(err) {
					return fmt.Errorf("account %s not found", config.SYSTEM_PROGRAM)
				}
				return err
			}
			if !info.Executable {
				return fmt.Errorf("%s is not executable", config.SYSTEM_PROGRAM)
			}
			return nil
		}},
	}

	for _, check := range checks {
		if err := check.run(); err != nil {
			report.FailedCheck = check.name
			report.Error = fmt.Sprintf("%s check failed: %v", check.name, err)
			report.setLatency(time.Since(start))
			return report
		}
		report.Passed = append(report.Passed, check.name)
	}

	report.Healthy = true
	report.setLatency(time.Since(start))
	return report
}

func (r *Report) setLatency(d time.Duration) {
	r.Latency = d
	r.LatencyMs = d.Milliseconds()
}
