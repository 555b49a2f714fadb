package main

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/iqbalbaharum/swap-executor/internal/pipeline"
	"github.com/iqbalbaharum/swap-executor/internal/types"
	"github.com/iqbalbaharum/swap-executor/internal/utils"
)

var (
	simulateRoute      pipeline.RouteRequest
	simulateUser       string
	simulateWalletPath string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Build a swap transaction and simulate it without broadcasting",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := pipeline.SimulateRequest{RouteRequest: simulateRoute}

		switch {
		case simulateUser != "":
			user, err := solana.PublicKeyFromBase58(simulateUser)
			if err != nil {
				return printResult(failure("Simulation failed", types.NewExecError(types.ErrInvalidInput, "invalid user public key", err)))
			}
			req.UserPublicKey = user
		case simulateWalletPath != "":
			wallet, err := utils.LoadWallet(simulateWalletPath)
			if err != nil {
				return printResult(failure("Simulation failed", err))
			}
			req.UserPublicKey = wallet.PublicKey()
		}

		return printResult(newPipeline().Simulate(cmd.Context(), req))
	},
}

func init() {
	addRouteFlags(simulateCmd, &simulateRoute)
	simulateCmd.Flags().StringVar(&simulateUser, "user-public-key", "", "public key the swap transaction is built for")
	simulateCmd.Flags().StringVar(&simulateWalletPath, "wallet", "", "wallet file, used for its public key when --user-public-key is not set")
}

func addRouteFlags(cmd *cobra.Command, req *pipeline.RouteRequest) {
	cmd.Flags().StringVar(&req.InputMint, "input-mint", "", "mint of the token to sell")
	cmd.Flags().StringVar(&req.OutputMint, "output-mint", "", "mint of the token to buy")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "amount to sell in base units")
	cmd.Flags().Uint16Var(&req.SlippageBps, "slippage-bps", 50, "slippage tolerance in basis points")
	cmd.Flags().StringVar(&req.RouteInfo, "route-info", "", "pre-fetched quote response as JSON")

	cmd.MarkFlagRequired("input-mint")
	cmd.MarkFlagRequired("output-mint")
	cmd.MarkFlagRequired("amount")
}
