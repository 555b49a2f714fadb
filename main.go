package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"github.com/iqbalbaharum/swap-executor/internal/config"
	"github.com/iqbalbaharum/swap-executor/internal/executor"
	"github.com/iqbalbaharum/swap-executor/internal/jupiter"
	"github.com/iqbalbaharum/swap-executor/internal/logger"
	"github.com/iqbalbaharum/swap-executor/internal/pipeline"
	"github.com/iqbalbaharum/swap-executor/internal/rpc"
	"github.com/iqbalbaharum/swap-executor/internal/types"
)

// errUnsuccessful marks a result that was already printed.
var errUnsuccessful = errors.New("unsuccessful result")

var (
	envFile    string
	rpcUrl     string
	jupiterUrl string

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "swap-executor",
	Short:         "Execute Jupiter swaps on Solana and report the outcome as JSON",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		var envFiles []string
		if envFile != "" {
			envFiles = append(envFiles, envFile)
		}

		cfg, err = config.Load(envFiles...)
		if err != nil {
			return err
		}

		if rpcUrl != "" {
			cfg.RpcHttpUrl = rpcUrl
		}
		if jupiterUrl != "" {
			cfg.JupiterUrl = jupiterUrl
		}

		log, err = logger.New(logger.LogOption{
			Format:   cfg.Log.Format,
			LogDir:   cfg.Log.LogDir,
			Level:    cfg.Log.Level,
			Compress: cfg.Log.Compress,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default .env)")
	rootCmd.PersistentFlags().StringVar(&rpcUrl, "rpc-url", "", "Solana RPC endpoint, overrides RPC_HTTP_URL")
	rootCmd.PersistentFlags().StringVar(&jupiterUrl, "jupiter-url", "", "Jupiter API base url, overrides JUPITER_URL")

	rootCmd.AddCommand(pingCmd, simulateCmd, swapCmd, serveCmd)
}

func newPipeline(opts ...pipeline.Option) *pipeline.Pipeline {
	return pipeline.New(
		cfg.RpcHttpUrl,
		jupiter.NewClient(cfg.JupiterUrl),
		rpc.NewClient(cfg.RpcHttpUrl),
		executor.ConfigFrom(cfg.Confirm),
		log,
		opts...,
	)
}

// printResult writes the result to stdout and reports whether it succeeded.
func printResult(result *types.ExecutorResult) error {
	if result.Logs == nil {
		result.Logs = []string{}
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, string(out))

	if !result.Success {
		return errUnsuccessful
	}
	return nil
}

func failure(prefix string, err error) *types.ExecutorResult {
	return &types.ExecutorResult{
		Success: false,
		Error:   types.StringPtr(fmt.Sprintf("%s: %v", prefix, err)),
		Logs:    []string{fmt.Sprintf("Error: %v", err)},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errUnsuccessful) {
			_ = printResult(failure("Command failed", err))
		}
		stop()
		os.Exit(1)
	}
}
