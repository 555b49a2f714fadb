package pipeline

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/iqbalbaharum/swap-executor/internal/executor"
	"github.com/iqbalbaharum/swap-executor/internal/instructions"
	"github.com/iqbalbaharum/swap-executor/internal/jupiter"
	bot "github.com/iqbalbaharum/swap-executor/internal/library"
	"github.com/iqbalbaharum/swap-executor/internal/transaction"
	"github.com/iqbalbaharum/swap-executor/internal/types"
	"github.com/iqbalbaharum/swap-executor/internal/utils"
)

type SwapRequest struct {
	RouteRequest
	Wallet         solana.PrivateKey
	Mode           string
	IdempotencyKey string
	Compute        transaction.ComputeOption
}

type swapResult struct {
	signature solana.Signature
	received  string
	slot      uint64
}

func (p *Pipeline) Swap(ctx context.Context, req SwapRequest) *types.ExecutorResult {
	log := newRunLog(p.logger)
	if req.IdempotencyKey != "" {
		log.add("Idempotency key: %s", req.IdempotencyKey)
	}

	res, err := p.swap(ctx, req, log)

	var result *types.ExecutorResult
	if err != nil {
		result = log.fail("Swap failed", err)
		if res != nil && res.signature != (solana.Signature{}) {
			result.Signature = types.StringPtr(res.signature.String())
		}
	} else {
		log.add("Transaction signature: %s", res.signature)
		log.add("Received amount: %s", res.received)
		log.add("Confirmed at slot: %d", res.slot)

		result = &types.ExecutorResult{
			Success:        true,
			Signature:      types.StringPtr(res.signature.String()),
			ReceivedAmount: types.StringPtr(res.received),
			Slot:           types.Uint64Ptr(res.slot),
			Logs:           log.lines,
		}
	}

	result.IdempotencyKey = types.OptionalString(req.IdempotencyKey)
	p.record(ctx, req, result, err)

	return result
}

// swap returns a partial result alongside the error once a signature exists.
func (p *Pipeline) swap(ctx context.Context, req SwapRequest, log *runLog) (*swapResult, error) {
	if len(req.Wallet) != 64 {
		return nil, types.NewExecError(types.ErrInvalidWalletFormat, "wallet keypair is not loaded", nil)
	}
	owner := req.Wallet.PublicKey()
	log.add("Wallet: %s", owner)

	route, err := p.resolveRoute(ctx, req.RouteRequest, log)
	if err != nil {
		return nil, err
	}

	var attempt *types.Attempt
	if p.attempts != nil && req.IdempotencyKey != "" {
		attempt, err = p.attempts.Reserve(ctx, req.IdempotencyKey, route.Fingerprint())
		if err != nil {
			return nil, err
		}
	}

	res, err := p.execute(ctx, req, route, attempt, log)

	if attempt != nil {
		p.settleAttempt(ctx, attempt, res, err)
	}

	return res, err
}

// settleAttempt releases the reservation when the transaction can no longer
// land: it was never broadcast, or its blockhash expired. A timed out
// transaction may still land, so it stays SUBMITTED.
func (p *Pipeline) settleAttempt(ctx context.Context, attempt *types.Attempt, res *swapResult, err error) {
	switch {
	case err == nil:
		p.updateAttempt(ctx, attempt, types.ATTEMPT_CONFIRMED, res)
	case res == nil || res.signature == (solana.Signature{}), types.KindOf(err) == types.ErrExpired:
		if rerr := p.attempts.Release(context.WithoutCancel(ctx), attempt); rerr != nil {
			p.logger.Warn("failed to release attempt", zap.String("key", attempt.Key), zap.Error(rerr))
		}
	case types.KindOf(err) == types.ErrTimedOut:
	default:
		p.updateAttempt(ctx, attempt, types.ATTEMPT_FAILED, res)
	}
}

func (p *Pipeline) execute(ctx context.Context, req SwapRequest, route *jupiter.Route, attempt *types.Attempt, log *runLog) (*swapResult, error) {
	owner := req.Wallet.PublicKey()

	swap, err := p.routes.GetSwapTransaction(ctx, route, owner.String())
	if err != nil {
		return nil, err
	}

	tx, err := transaction.Decode(swap.SwapTransaction)
	if err != nil {
		return nil, err
	}

	tx, err = transaction.Sign(tx, req.Wallet, tx.Message.RecentBlockhash)
	if err != nil {
		return nil, err
	}

	if req.Compute.Requested() {
		var compute instructions.ComputeUnit
		tx, compute, err = transaction.InjectComputeDirectives(tx, req.Compute, p.cfg.DefaultMicroLamports, req.Wallet)
		if err != nil {
			return nil, err
		}
		log.add("Added compute budget: %d CU limit, %d microlamports priority fee", compute.Units, compute.MicroLamports)
	}
	log.add("Transaction built: %d instructions, fee payer %s", len(tx.Message.Instructions), transaction.FeePayer(tx))

	strategy := executor.StrategyFor(req.Mode, p.ledger, p.relays, p.cfg, p.logger)
	engine := executor.NewEngine(p.ledger, strategy, p.logger)

	signature, height, err := engine.Broadcast(ctx, tx)
	if err != nil {
		return nil, err
	}
	log.add("Transaction sent via %s: %s", strategy.Name(), signature)
	log.add("Current block height: %d, last valid: %d", height, height+p.cfg.ExpiryWindow)

	res := &swapResult{signature: signature}
	if attempt != nil {
		p.updateAttempt(ctx, attempt, types.ATTEMPT_SUBMITTED, res)
	}

	started := time.Now()
	outcome := strategy.AwaitConfirmation(ctx, signature, height)
	log.add("Confirmation: %s after %d attempts (%s)", outcome.Status, outcome.Attempts, utils.FormatDuration(time.Since(started)))

	res.slot = outcome.Slot
	if err := outcome.Err(); err != nil {
		return res, err
	}

	res.received = bot.ZERO_AMOUNT
	if outcome.Transaction != nil {
		outputMint := utils.IfEmptyElse(route.Quote.OutputMint, req.OutputMint)
		res.received = bot.ReceivedAmount(outcome.Transaction.PostTokenBalances, outputMint, owner.String())
	} else {
		log.add("Transaction metadata unavailable, reporting received amount %s", bot.ZERO_AMOUNT)
	}

	return res, nil
}

func (p *Pipeline) updateAttempt(ctx context.Context, attempt *types.Attempt, status string, res *swapResult) {
	sig := ""
	if res != nil && res.signature != (solana.Signature{}) {
		sig = res.signature.String()
	}

	if err := p.attempts.Update(context.WithoutCancel(ctx), attempt, status, sig); err != nil {
		p.logger.Warn("failed to update attempt", zap.String("key", attempt.Key), zap.String("status", status), zap.Error(err))
	}
}

func (p *Pipeline) record(ctx context.Context, req SwapRequest, result *types.ExecutorResult, err error) {
	if p.history == nil {
		return
	}

	execution := &types.Execution{
		IdempotencyKey: req.IdempotencyKey,
		InputMint:      req.InputMint,
		OutputMint:     req.OutputMint,
		Amount:         req.Amount,
		Mode:           utils.IfEmptyElse(req.Mode, executor.MODE_SIMPLE),
		Success:        result.Success,
		ErrorKind:      string(types.KindOf(err)),
		CreatedAt:      time.Now().UTC(),
	}
	if result.Signature != nil {
		execution.Signature = *result.Signature
	}
	if result.ReceivedAmount != nil {
		execution.ReceivedAmount = *result.ReceivedAmount
	}
	if result.Slot != nil {
		execution.Slot = *result.Slot
	}
	if result.Error != nil {
		execution.Error = *result.Error
	}

	if rerr := p.history.Record(context.WithoutCancel(ctx), execution); rerr != nil {
		p.logger.Warn("failed to record execution", zap.Error(rerr))
	}
}
