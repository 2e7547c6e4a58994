// Package cli implements the bedtime command line client.
package cli

import (
	"context"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/okian/betterrest/internal/adapters/artifact"
	"github.com/okian/betterrest/internal/domain/estimator"
	"github.com/okian/betterrest/internal/domain/predictor"
	"github.com/okian/betterrest/pkg/logger"
	"github.com/spf13/cobra"
)

const (
	modelLoadAttempts = 3
	modelLoadDelay    = 100 * time.Millisecond
)

// options are the persistent flags shared by every command.
type options struct {
	modelPath string
	noColor   bool
	logLevel  string
}

// NewRootCmd builds the bedtime command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "bedtime",
		Short: "Recommend a bedtime from wake time, sleep goal and coffee intake",
		Long: `bedtime evaluates the pretrained sleep model and prints the time you
should go to bed to wake up rested.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if o.noColor {
				color.NoColor = true
			}
			if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr())); err != nil {
				return err
			}
			return logger.SetLevelString(o.logLevel)
		},
	}
	root.CompletionOptions.HiddenDefaultCmd = true

	root.PersistentFlags().StringVarP(&o.modelPath, "model", "m", "", "Path to a YAML/JSON model artifact (default: built-in model)")
	root.PersistentFlags().BoolVar(&o.noColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(
		newEstimateCmd(o),
		newWatchCmd(o),
		newModelCmd(o),
		newLoadCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// source returns the configured artifact loader.
func (o *options) source() *artifact.Loader {
	if o.modelPath != "" {
		return artifact.File(o.modelPath)
	}
	return artifact.Embedded()
}

// newEstimator loads the model once and builds an estimator over it.
func (o *options) newEstimator(ctx context.Context) *estimator.Estimator {
	log := logger.Get()
	src := o.source()
	p := predictor.New(ctx,
		artifact.Retrying(src, modelLoadAttempts, modelLoadDelay, log.Named("artifact")),
		predictor.WithSource(src.Source()),
	)
	if err := p.Err(); err != nil {
		log.Warn(ctx, "model unavailable", logger.String("source", src.Source()), logger.Error(err))
	}
	return estimator.New(p, estimator.WithLogger(log.Named("estimator")))
}
