// Command pricectl runs one-shot maintenance tasks against the price store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cryptorates-service/internal/bootstrap"
	"cryptorates-service/internal/config"
	"cryptorates-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func init() { _ = godotenv.Load() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "pricectl",
	Short:         "Maintenance commands for the crypto rates service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			level = config.Load().LogLevel
		}
		logx.SetLevel(level)
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(aprCmd)
}

// withCLI builds the dependency graph for one command and tears it down after.
func withCLI(cmd *cobra.Command, fn func(ctx context.Context, cli *bootstrap.CLI) error) error {
	ctx := cmd.Context()
	cli, cleanup, err := bootstrap.InitCLI(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer cleanup()
	return fn(ctx, cli)
}
