package cli

import (
	"github.com/spf13/cobra"
)

func newModelCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "model",
		Short: "Print the model artifact in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src := o.source()
			a, err := src.Artifact(cmd.Context())
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			p.field("source", src.Source())
			p.field("name", a.Name)
			p.field("version", a.Version)
			p.field("target", a.Target)
			p.field("wake", a.Coefficients.Wake)
			p.field("estimated_sleep", a.Coefficients.Sleep)
			p.field("coffee", a.Coefficients.Coffee)
			p.field("bias", a.Coefficients.Bias)
			return nil
		},
	}
}
