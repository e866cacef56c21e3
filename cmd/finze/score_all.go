package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/finze/finze-backend/internal/cli"
	"github.com/finze/finze-backend/internal/config"
	"github.com/finze/finze-backend/internal/domain"
	"github.com/finze/finze-backend/internal/insights"
	"github.com/finze/finze-backend/internal/repository/postgres"
	"github.com/finze/finze-backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// healthScorer is the part of service.InsightService used by score-all
type healthScorer interface {
	ListUsers() ([]string, error)
	GetHealth(userID string, period domain.Period, ref *time.Time) (domain.HealthScore, error)
}

func scoreAllCmd() *cobra.Command {
	var (
		periodFlag  string
		format      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "score-all",
		Short: "Compute the financial health score of every user in the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := domain.ParsePeriod(periodFlag)
			if err != nil {
				return fmt.Errorf("--period: %w", err)
			}
			if concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1")
			}
			format = strings.ToLower(format)
			if format != "text" && format != "json" {
				return fmt.Errorf("--format must be text or json, got %q", format)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			engine, err := insights.NewEngine(cfg.Engine)
			if err != nil {
				return err
			}

			pool, err := pgxpool.New(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			svc := service.NewInsightService(engine,
				postgres.NewTransactionRepository(pool),
				postgres.NewBudgetRepository(pool))

			scores, err := scoreUsers(cmd.Context(), svc, period, time.Now().UTC(), concurrency, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(scores)
			}
			return cli.RenderScores(cmd.OutOrStdout(), scores)
		},
	}

	cmd.Flags().StringVarP(&periodFlag, "period", "p", "monthly", "analysis period (daily, weekly, monthly, yearly)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "number of users scored in parallel")

	return cmd
}

// scoreUsers scores every user with at most concurrency requests in flight.
// A failure for one user is recorded in its row; only cancellation aborts the run.
// Results keep the order returned by ListUsers.
func scoreUsers(ctx context.Context, scorer healthScorer, period domain.Period, ref time.Time, concurrency int, progress io.Writer) ([]cli.UserScore, error) {
	users, err := scorer.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	bar := progressbar.NewOptions(len(users),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Scoring users"),
		progressbar.OptionClearOnFinish(),
	)

	scores := make([]cli.UserScore, len(users))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, userID := range users {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			row := cli.UserScore{UserID: userID}
			health, err := scorer.GetHealth(userID, period, &ref)
			if err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("Failed to score user")
				row.Err = err.Error()
			} else {
				row.Health = health
			}
			scores[i] = row
			_ = bar.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	_ = bar.Finish()
	return scores, nil
}
