package cli

import (
	"github.com/okian/betterrest/internal/loadtest"
	"github.com/spf13/cobra"
)

func newLoadCmd() *cobra.Command {
	cfg := loadtest.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Drive a running server with concurrent form sessions and verify them",
		Example: `  bedtime load --url http://localhost:8080 --forms 1000 --workers 32
  bedtime load --seed 42 --replay 0.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := loadtest.Run(cmd.Context(), cfg)

			p := newPrinter(cmd.OutOrStdout())
			p.field("forms opened", stats.FormsOpened)
			p.field("forms verified", stats.FormsVerified)
			p.field("changes sent", stats.ChangesSent)
			p.field("recalculations", stats.Recalculations)
			p.field("duplicates", stats.Duplicates)
			p.field("failed", stats.Failed)
			p.field("mismatches", stats.Mismatches)
			p.field("calc errors", stats.CalculationFails)
			p.field("duration", stats.Duration)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Base URL of the service")
	f.IntVar(&cfg.Forms, "forms", cfg.Forms, "Number of form sessions")
	f.IntVar(&cfg.ChangesPerForm, "changes", cfg.ChangesPerForm, "Changes sent per session")
	f.Float64Var(&cfg.ReplayRatio, "replay", cfg.ReplayRatio, "Share of changes re-sent with a used change id")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of concurrent sessions")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	f.Uint64Var(&cfg.Seed, "seed", 0, "Random seed (0 picks one)")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every session")
	return cmd
}
