package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/iqbalbaharum/swap-executor/internal/rpc"
)

// Confirmer polls the ledger until a signature reaches a terminal state.
type Confirmer struct {
	ledger rpc.Ledger
	cfg    Config
	logger *zap.Logger
}

func NewConfirmer(ledger rpc.Ledger, cfg Config, logger *zap.Logger) *Confirmer {
	return &Confirmer{
		ledger: ledger,
		cfg:    cfg,
		logger: logger,
	}
}

// AwaitConfirmation checks the signature status before the block height on
// every tick. The loop ends on confirmation, on-chain failure, once the
// height passes startHeight+ExpiryWindow, after MaxAttempts unresolved
// polls, or when ctx is done.
func (c *Confirmer) AwaitConfirmation(ctx context.Context, signature solana.Signature, startHeight uint64) *Outcome {
	lastValid := startHeight + c.cfg.ExpiryWindow
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	outcome := &Outcome{Signature: signature}
	started := time.Now()

	for {
		status, err := c.ledger.GetSignatureStatus(ctx, signature)
		if err != nil {
			c.logger.Warn("signature status query failed", zap.Stringer("signature", signature), zap.Error(err))
		}

		if err == nil && status != nil {
			if status.Failed() {
				outcome.Status = STATUS_FAILED
				outcome.Slot = status.Slot
				outcome.Reason = fmt.Sprintf("%v", status.Err)
				return outcome
			}

			outcome.Status = STATUS_CONFIRMED
			outcome.Slot = status.Slot
			c.fetchMetadata(ctx, outcome)
			c.logger.Info("transaction confirmed",
				zap.Stringer("signature", signature),
				zap.Uint64("slot", outcome.Slot),
				zap.Int("attempts", outcome.Attempts),
				zap.Duration("elapsed", time.Since(started)))
			return outcome
		}

		height, err := c.ledger.GetBlockHeight(ctx)
		if err != nil {
			c.logger.Warn("block height query failed", zap.Stringer("signature", signature), zap.Error(err))
		} else if height > lastValid {
			outcome.Status = STATUS_EXPIRED
			outcome.Reason = fmt.Sprintf("current height %d > last valid %d", height, lastValid)
			return outcome
		}

		outcome.Attempts++
		if outcome.Attempts >= c.cfg.MaxAttempts {
			outcome.Status = STATUS_TIMED_OUT
			return outcome
		}

		select {
		case <-ctx.Done():
			c.logger.Warn("confirmation abandoned", zap.Stringer("signature", signature), zap.Error(ctx.Err()))
			outcome.Status = STATUS_TIMED_OUT
			return outcome
		case <-ticker.C:
		}
	}
}

func (c *Confirmer) fetchMetadata(ctx context.Context, outcome *Outcome) {
	tx, err := c.ledger.GetTransaction(ctx, outcome.Signature)
	if err == nil && tx == nil {
		err = errors.New("transaction not found")
	}
	if err != nil {
		c.logger.Warn("failed to fetch confirmed transaction", zap.Stringer("signature", outcome.Signature), zap.Error(err))
		return
	}

	outcome.Transaction = tx
	if tx.Slot != 0 {
		outcome.Slot = tx.Slot
	}
}
