package cli

import (
	"github.com/okian/betterrest/internal/domain/model"
	"github.com/spf13/cobra"
)

func newEstimateCmd(o *options) *cobra.Command {
	var (
		wake   string
		sleep  float64
		coffee int
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Print the recommended bedtime once",
		Example: `  bedtime estimate --wake 06:30 --sleep 7.5 --coffee 2
  bedtime estimate --wake "6:30 AM"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := inputsFromFlags(wake, sleep, coffee)
			if err != nil {
				return err
			}
			est := o.newEstimator(cmd.Context())
			newPrinter(cmd.OutOrStdout()).result(est.Estimate(cmd.Context(), in))
			return nil
		},
	}

	cmd.Flags().StringVarP(&wake, "wake", "w", model.DefaultWakeUp().String(), "Wake-up time, HH:MM or 3:04 PM")
	cmd.Flags().Float64VarP(&sleep, "sleep", "s", model.DefaultSleepHours, "Desired hours of sleep (4-12)")
	cmd.Flags().IntVarP(&coffee, "coffee", "c", model.DefaultCoffeeCups, "Daily cups of coffee (1-5)")
	return cmd
}
