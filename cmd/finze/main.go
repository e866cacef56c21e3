package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "finze",
		Short: "Budget monitoring and spending insights",
		Long: `finze analyzes transactions and budgets: category breakdowns, budget alerts,
a financial health score and prioritized suggestions.

Run it offline over JSON files with "analyze", or against the service
database with "score-all" and "migrate".`,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}

	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(analyzeCmd())
	root.AddCommand(scoreAllCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "finze", version)
		},
	}
}
