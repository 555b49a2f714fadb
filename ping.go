package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var pingTimeout int

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Probe the RPC endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(pingTimeout)*time.Second)
		defer cancel()

		return printResult(newPipeline().Ping(ctx))
	},
}

func init() {
	pingCmd.Flags().IntVar(&pingTimeout, "timeout", 30, "probe timeout in seconds")
}
