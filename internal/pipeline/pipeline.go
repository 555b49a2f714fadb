package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/iqbalbaharum/swap-executor/internal/executor"
	"github.com/iqbalbaharum/swap-executor/internal/jupiter"
	"github.com/iqbalbaharum/swap-executor/internal/rpc"
	"github.com/iqbalbaharum/swap-executor/internal/types"
)

type RouteSource interface {
	GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps uint16) (*jupiter.Route, error)
	GetSwapTransaction(ctx context.Context, route *jupiter.Route, userPublicKey string) (*jupiter.SwapResponse, error)
}

type AttemptGuard interface {
	Reserve(ctx context.Context, key string, fingerprint string) (*types.Attempt, error)
	Update(ctx context.Context, attempt *types.Attempt, status string, signature string) error
	Release(ctx context.Context, attempt *types.Attempt) error
}

type HistoryRecorder interface {
	Record(ctx context.Context, execution *types.Execution) error
}

type Pipeline struct {
	endpoint string
	routes   RouteSource
	ledger   rpc.Ledger
	relays   executor.Relays
	cfg      executor.Config
	attempts AttemptGuard
	history  HistoryRecorder
	logger   *zap.Logger
}

type Option func(*Pipeline)

func WithRelays(relays executor.Relays) Option {
	return func(p *Pipeline) {
		p.relays = relays
	}
}

func WithAttemptGuard(guard AttemptGuard) Option {
	return func(p *Pipeline) {
		p.attempts = guard
	}
}

func WithHistory(history HistoryRecorder) Option {
	return func(p *Pipeline) {
		p.history = history
	}
}

func New(endpoint string, routes RouteSource, ledger rpc.Ledger, cfg executor.Config, logger *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		endpoint: endpoint,
		routes:   routes,
		ledger:   ledger,
		cfg:      cfg,
		logger:   logger,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// runLog collects the human-readable lines returned in ExecutorResult.logs
// and mirrors them to the structured logger.
type runLog struct {
	lines  []string
	logger *zap.SugaredLogger
}

func newRunLog(logger *zap.Logger) *runLog {
	return &runLog{
		lines:  []string{},
		logger: logger.Sugar(),
	}
}

func (r *runLog) add(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	r.lines = append(r.lines, line)
	r.logger.Info(line)
}

func (r *runLog) fail(prefix string, err error) *types.ExecutorResult {
	r.lines = append(r.lines, fmt.Sprintf("Error: %v", err))
	r.logger.Errorw(prefix, "kind", string(types.KindOf(err)), "error", err)

	return &types.ExecutorResult{
		Success: false,
		Error:   types.StringPtr(fmt.Sprintf("%s: %v", prefix, err)),
		Logs:    r.lines,
	}
}
