package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iqbalbaharum/swap-executor/internal/adapter"
	"github.com/iqbalbaharum/swap-executor/internal/handler"
	"github.com/iqbalbaharum/swap-executor/internal/health"
	"github.com/iqbalbaharum/swap-executor/internal/jupiter"
	bot "github.com/iqbalbaharum/swap-executor/internal/library"
	"github.com/iqbalbaharum/swap-executor/internal/rpc"
)

type Server struct {
	Router *chi.Mux
}

func CreateServer(probe *health.Probe, aggregator handler.AggregatorChecker, history handler.ExecutionSearcher) *Server {
	server := &Server{
		Router: handler.CreateRoutes(probe, aggregator, history),
	}

	return server
}

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the health probe and execution history over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var history handler.ExecutionSearcher
		if cfg.MySqlDsn != "" {
			if err := adapter.InitMySQLClient(cfg.MySqlDsn, cfg.MySqlDbName); err != nil {
				return fmt.Errorf("failed to initialize SQL client: %w", err)
			}
			history = bot.ExecutionHistory{}
		}

		port := cfg.ServerPort
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		server := CreateServer(
			health.NewProbe(rpc.NewClient(cfg.RpcHttpUrl)),
			jupiter.NewClient(cfg.JupiterUrl),
			history,
		)
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           server.Router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		log.Info("server running", zap.Int("port", port), zap.Bool("history", history != nil))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port, overrides PORT")
}
