package executor

import (
	"context"
	"strings"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/iqbalbaharum/swap-executor/internal/rpc"
)

const (
	MODE_DIRECT    = "direct"
	MODE_SIMPLE    = "simple"
	MODE_JITO      = "jito"
	MODE_BLOXROUTE = "bloxroute"
)

// Submitter sends a signed transaction and returns its signature.
type Submitter interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

type SubmissionStrategy interface {
	Name() string
	Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	AwaitConfirmation(ctx context.Context, signature solana.Signature, startHeight uint64) *Outcome
}

// relayStrategy submits through one channel and confirms through the ledger.
type relayStrategy struct {
	*Confirmer
	name      string
	submitter Submitter
}

func (s *relayStrategy) Name() string {
	return s.name
}

func (s *relayStrategy) Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return s.submitter.SendTransaction(ctx, tx)
}

func NewDirectStrategy(ledger rpc.Ledger, cfg Config, logger *zap.Logger) SubmissionStrategy {
	return &relayStrategy{
		Confirmer: NewConfirmer(ledger, cfg, logger),
		name:      MODE_DIRECT,
		submitter: ledger,
	}
}

func NewJitoStrategy(relay *rpc.JitoRpc, ledger rpc.Ledger, cfg Config, logger *zap.Logger) SubmissionStrategy {
	return &relayStrategy{
		Confirmer: NewConfirmer(ledger, cfg, logger),
		name:      MODE_JITO,
		submitter: relay,
	}
}

func NewBloxRouteStrategy(relay *rpc.BloxRouteRpc, ledger rpc.Ledger, cfg Config, logger *zap.Logger) SubmissionStrategy {
	return &relayStrategy{
		Confirmer: NewConfirmer(ledger, cfg, logger),
		name:      MODE_BLOXROUTE,
		submitter: relay,
	}
}

type Relays struct {
	Jito      *rpc.JitoRpc
	BloxRoute *rpc.BloxRouteRpc
}

// StrategyFor picks the submission channel for mode. Unknown modes, and
// relay modes without a configured relay, fall back to direct submission.
func StrategyFor(mode string, ledger rpc.Ledger, relays Relays, cfg Config, logger *zap.Logger) SubmissionStrategy {
	switch strings.ToLower(mode) {
	case MODE_DIRECT, MODE_SIMPLE, "":
		return NewDirectStrategy(ledger, cfg, logger)
	case MODE_JITO:
		if relays.Jito != nil {
			return NewJitoStrategy(relays.Jito, ledger, cfg, logger)
		}
	case MODE_BLOXROUTE:
		if relays.BloxRoute != nil {
			return NewBloxRouteStrategy(relays.BloxRoute, ledger, cfg, logger)
		}
	}

	logger.Warn("unknown or unavailable execution mode, falling back to direct", zap.String("mode", mode))
	return NewDirectStrategy(ledger, cfg, logger)
}
