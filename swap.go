package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iqbalbaharum/swap-executor/internal/adapter"
	"github.com/iqbalbaharum/swap-executor/internal/executor"
	bot "github.com/iqbalbaharum/swap-executor/internal/library"
	"github.com/iqbalbaharum/swap-executor/internal/pipeline"
	"github.com/iqbalbaharum/swap-executor/internal/rpc"
	"github.com/iqbalbaharum/swap-executor/internal/utils"
)

var (
	swapRoute          pipeline.RouteRequest
	swapWalletPath     string
	swapMode           string
	swapIdempotencyKey string
	swapPriorityFee    uint64
	swapComputeLimit   uint32
)

var swapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Execute a swap and wait for confirmation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		wallet, err := utils.LoadWallet(swapWalletPath)
		if err != nil {
			return printResult(failure("Swap failed", err))
		}

		req := pipeline.SwapRequest{
			RouteRequest:   swapRoute,
			Wallet:         wallet,
			Mode:           swapMode,
			IdempotencyKey: swapIdempotencyKey,
		}
		if cmd.Flags().Changed("priority-fee") {
			req.Compute.MicroLamports = &swapPriorityFee
		}
		if cmd.Flags().Changed("compute-unit-limit") {
			req.Compute.Limit = &swapComputeLimit
		}

		opts := []pipeline.Option{pipeline.WithRelays(loadRelays())}

		if cfg.RedisAddr != "" {
			if err := adapter.InitRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
				return printResult(failure("Swap failed", fmt.Errorf("attempt ledger: %w", err)))
			}
			defer adapter.CloseRedisClients()

			opts = append(opts, pipeline.WithAttemptGuard(bot.NewAttemptLedger(cfg.RedisDB)))
		}

		if cfg.MySqlDsn != "" {
			if err := adapter.InitMySQLClient(cfg.MySqlDsn, cfg.MySqlDbName); err != nil {
				return printResult(failure("Swap failed", fmt.Errorf("execution history: %w", err)))
			}

			opts = append(opts, pipeline.WithHistory(bot.ExecutionHistory{}))
		}

		return printResult(newPipeline(opts...).Swap(ctx, req))
	},
}

func init() {
	addRouteFlags(swapCmd, &swapRoute)
	swapCmd.Flags().StringVar(&swapWalletPath, "wallet", "", "wallet file holding the 64 byte secret key")
	swapCmd.Flags().StringVar(&swapMode, "mode", executor.MODE_SIMPLE, "submission mode: simple, direct, jito or bloxroute")
	swapCmd.Flags().StringVar(&swapIdempotencyKey, "idempotency-key", "", "caller key that guards against executing the same swap twice")
	swapCmd.Flags().Uint64Var(&swapPriorityFee, "priority-fee", 0, "compute unit price in micro-lamports")
	swapCmd.Flags().Uint32Var(&swapComputeLimit, "compute-unit-limit", 0, "compute unit limit, derived from the instruction count when only --priority-fee is set")

	swapCmd.MarkFlagRequired("wallet")
}

func loadRelays() executor.Relays {
	relays := executor.Relays{}

	if cfg.BlockEngineUrl != "" {
		relays.Jito = rpc.NewJitoRpc(cfg.BlockEngineUrl)
	}
	if cfg.BloxRouteToken != "" {
		relays.BloxRoute = rpc.NewBloxRouteRpc(cfg.BloxRouteUrl, cfg.BloxRouteToken, cfg.BloxRouteStake)
	}

	return relays
}
