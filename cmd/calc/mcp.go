package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/mcpserver"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve calculator sessions as MCP tools on stdio",
		Long: `Serves the calculator.press and calculator.clear tools over the Model
Context Protocol on stdin/stdout. Logs go to stderr. Session limits come from
the same CALC_* environment variables as the HTTP service.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := observability.InitLogger(cfg.LogLevel); err != nil {
				return err
			}
			defer observability.SyncLogger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store := session.NewStore(session.Options{
				TTL:         cfg.SessionTTL,
				MaxSessions: cfg.MaxSessions,
				Logger:      observability.Logger,
			})

			srv := mcpserver.New(store, version, observability.Logger)
			if err := srv.ServeStdio(ctx, cfg.SessionSweepInterval); err != nil {
				observability.Logger.Error("mcp server stopped", zap.Error(err))
				return fmt.Errorf("mcp: %w", err)
			}
			return nil
		},
	}
}
