package pipeline

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/iqbalbaharum/swap-executor/internal/jupiter"
	"github.com/iqbalbaharum/swap-executor/internal/types"
	"github.com/iqbalbaharum/swap-executor/internal/utils"
)

type RouteRequest struct {
	InputMint   string
	OutputMint  string
	Amount      string
	SlippageBps uint16
	// RouteInfo is a pre-fetched quote in JSON; when set, no quote is requested.
	RouteInfo string
}

func (r RouteRequest) validate() (uint64, error) {
	if _, err := solana.PublicKeyFromBase58(r.InputMint); err != nil {
		return 0, types.NewExecError(types.ErrInvalidInput, "invalid input mint "+r.InputMint, err)
	}
	if _, err := solana.PublicKeyFromBase58(r.OutputMint); err != nil {
		return 0, types.NewExecError(types.ErrInvalidInput, "invalid output mint "+r.OutputMint, err)
	}

	amount, err := utils.ParseAmount(r.Amount)
	if err != nil {
		return 0, types.NewExecError(types.ErrInvalidInput, "invalid amount "+r.Amount, err)
	}
	if amount == 0 {
		return 0, types.NewExecError(types.ErrInvalidInput, "amount must be greater than 0", nil)
	}

	return amount, nil
}

func (p *Pipeline) resolveRoute(ctx context.Context, req RouteRequest, log *runLog) (*jupiter.Route, error) {
	amount, err := req.validate()
	if err != nil {
		return nil, err
	}

	if req.RouteInfo != "" {
		route, err := jupiter.ParseRoute([]byte(req.RouteInfo))
		if err != nil {
			return nil, types.NewExecError(types.ErrInvalidInput, "failed to parse route info", err)
		}
		log.add("Using supplied route: out amount %s", route.Quote.OutAmount)
		return route, nil
	}

	route, err := p.routes.GetQuote(ctx, req.InputMint, req.OutputMint, amount, req.SlippageBps)
	if err != nil {
		return nil, err
	}

	log.add("Quote: %s %s -> %s %s (%d bps)", route.Quote.InAmount, req.InputMint, route.Quote.OutAmount, req.OutputMint, req.SlippageBps)
	return route, nil
}
