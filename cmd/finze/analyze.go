package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/finze/finze-backend/internal/cli"
	"github.com/finze/finze-backend/internal/config"
	"github.com/finze/finze-backend/internal/domain"
	"github.com/finze/finze-backend/internal/insights"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const localUser = "local"

// budgetRecord is the loosely typed budget shape accepted from files.
// Budgets are active unless isActive is false.
type budgetRecord struct {
	Category string `json:"category"`
	Limit    any    `json:"limit"`
	Period   string `json:"period"`
	IsActive *bool  `json:"isActive"`
}

type analyzeOptions struct {
	transactionsPath string
	budgetsPath      string
	period           string
	date             string
	format           string
}

func analyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze transactions and budgets from JSON files",
		Long: `Run the insight engine over a JSON array of transactions and an optional
JSON array of budgets. Amounts may be numbers or strings; dirty records are
coerced rather than rejected. Thresholds come from the same environment
variables as the API (WARNING_THRESHOLD, TREND_THRESHOLD_PERCENT, ...).`,
		Example: `  finze analyze --transactions tx.json --budgets budgets.json --period monthly
  finze analyze --transactions tx.json --date 2026-10-19 --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd.OutOrStdout(), opts, time.Now())
		},
	}

	cmd.Flags().StringVarP(&opts.transactionsPath, "transactions", "t", "", "path to a JSON array of transactions (required)")
	cmd.Flags().StringVarP(&opts.budgetsPath, "budgets", "b", "", "path to a JSON array of budgets")
	cmd.Flags().StringVarP(&opts.period, "period", "p", "monthly", "analysis period (daily, weekly, monthly, yearly)")
	cmd.Flags().StringVarP(&opts.date, "date", "d", "", "reference date YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format (text, json)")
	_ = cmd.MarkFlagRequired("transactions")

	return cmd
}

func runAnalyze(w io.Writer, opts analyzeOptions, now time.Time) error {
	period, err := domain.ParsePeriod(opts.period)
	if err != nil {
		return fmt.Errorf("--period: %w", err)
	}

	format := strings.ToLower(opts.format)
	if format != "text" && format != "json" {
		return fmt.Errorf("--format must be text or json, got %q", opts.format)
	}

	ref := now
	if opts.date != "" {
		ref, err = time.ParseInLocation("2006-01-02", opts.date, now.Location())
		if err != nil {
			return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}
	}

	cfg, err := config.LoadEngine()
	if err != nil {
		return err
	}
	engine, err := insights.NewEngine(cfg)
	if err != nil {
		return err
	}

	txns, err := readTransactions(opts.transactionsPath, now)
	if err != nil {
		return err
	}
	var budgets []domain.Budget
	if opts.budgetsPath != "" {
		budgets, err = readBudgets(opts.budgetsPath)
		if err != nil {
			return err
		}
	}

	log.Debug().
		Int("transactions", len(txns)).
		Int("budgets", len(budgets)).
		Str("period", string(period)).
		Time("ref", ref).
		Msg("Running analysis")

	report, err := engine.Analyze(txns, budgets, period, ref)
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return cli.RenderReport(w, report)
}

func readTransactions(path string, now time.Time) ([]domain.Transaction, error) {
	var records []domain.TransactionInput
	if err := readJSON(path, &records); err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}

	txns := make([]domain.Transaction, len(records))
	for i, rec := range records {
		txns[i] = insights.FromInput(localUser, rec, now)
	}
	return txns, nil
}

func readBudgets(path string) ([]domain.Budget, error) {
	var records []budgetRecord
	if err := readJSON(path, &records); err != nil {
		return nil, fmt.Errorf("read budgets: %w", err)
	}

	budgets := make([]domain.Budget, len(records))
	for i, rec := range records {
		period, err := domain.ParsePeriod(rec.Period)
		if err != nil {
			return nil, fmt.Errorf("budget %d (%s): %w", i, rec.Category, err)
		}
		budgets[i] = insights.NormalizeBudget(domain.Budget{
			UserID:   localUser,
			Category: strings.TrimSpace(rec.Category),
			Limit:    insights.CoerceAmount(rec.Limit),
			Period:   period,
			IsActive: rec.IsActive == nil || *rec.IsActive,
		})
	}
	return budgets, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
