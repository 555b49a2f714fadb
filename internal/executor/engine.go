package executor

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/iqbalbaharum/swap-executor/internal/rpc"
	"github.com/iqbalbaharum/swap-executor/internal/types"
)

type Engine struct {
	ledger   rpc.Ledger
	strategy SubmissionStrategy
	logger   *zap.Logger
}

func NewEngine(ledger rpc.Ledger, strategy SubmissionStrategy, logger *zap.Logger) *Engine {
	return &Engine{
		ledger:   ledger,
		strategy: strategy,
		logger:   logger,
	}
}

func (e *Engine) Strategy() SubmissionStrategy {
	return e.strategy
}

// Broadcast reads the current block height and submits tx once. It returns
// the signature together with that height, which anchors the expiry window.
func (e *Engine) Broadcast(ctx context.Context, tx *solana.Transaction) (solana.Signature, uint64, error) {
	height, err := e.ledger.GetBlockHeight(ctx)
	if err != nil {
		return solana.Signature{}, 0, types.NewExecError(types.ErrRpcUnavailable, "failed to read block height", err)
	}

	signature, err := e.strategy.Submit(ctx, tx)
	if err != nil {
		return solana.Signature{}, height, types.NewExecError(types.ErrBroadcastFailed, "failed to send transaction via "+e.strategy.Name(), err)
	}

	e.logger.Info("transaction sent",
		zap.String("mode", e.strategy.Name()),
		zap.Stringer("signature", signature),
		zap.Uint64("block_height", height))

	return signature, height, nil
}

// Execute broadcasts tx and waits for a terminal outcome. The error is set
// only when nothing reached the cluster.
func (e *Engine) Execute(ctx context.Context, tx *solana.Transaction) (*Outcome, error) {
	signature, height, err := e.Broadcast(ctx, tx)
	if err != nil {
		return nil, err
	}

	return e.strategy.AwaitConfirmation(ctx, signature, height), nil
}
