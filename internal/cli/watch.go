package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/betterrest/internal/domain/form"
	"github.com/okian/betterrest/internal/domain/model"
	"github.com/okian/betterrest/pkg/logger"
	"github.com/spf13/cobra"
)

var errUnknownCommand = errors.New("unknown command")

func newWatchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Edit the inputs interactively and see the bedtime after every change",
		Long: `watch opens a form with the default inputs and reads one change per line:

  wake 06:30
  sleep 7.5
  coffee 3
  quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p := newPrinter(cmd.OutOrStdout())
			f := form.New(ctx, o.newEstimator(ctx), model.DefaultInputs(),
				form.WithObserver(p.state),
				form.WithLogger(logger.Get().Named("form")),
			)

			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				if line == "" {
					continue
				}
				if line == "quit" || line == "exit" {
					return nil
				}
				c, err := parseChange(line)
				if err != nil {
					p.note("%v", err)
					continue
				}
				if _, n := f.Apply(ctx, c); n == 0 {
					p.note("unchanged")
				}
			}
			return sc.Err()
		},
	}
}

// parseChange reads lines such as "wake 06:30", "sleep 7.5" or "coffee 3".
func parseChange(line string) (form.Change, error) {
	name, value, ok := strings.Cut(line, " ")
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return form.Change{}, fmt.Errorf("%w: %q", errUnknownCommand, line)
	}

	switch name {
	case "wake":
		t, err := model.ParseTimeOfDay(value)
		if err != nil {
			return form.Change{}, err
		}
		return form.Change{WakeUp: &t}, nil
	case "sleep":
		h, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return form.Change{}, fmt.Errorf("%w: %q", model.ErrSleepOutOfRange, value)
		}
		if err := model.ValidateSleepHours(h); err != nil {
			return form.Change{}, err
		}
		return form.Change{SleepHours: &h}, nil
	case "coffee":
		n, err := strconv.Atoi(value)
		if err != nil {
			return form.Change{}, fmt.Errorf("%w: %q", model.ErrCoffeeOutOfRange, value)
		}
		if err := model.ValidateCoffeeCups(n); err != nil {
			return form.Change{}, err
		}
		return form.Change{CoffeeCups: &n}, nil
	default:
		return form.Change{}, fmt.Errorf("%w: %q", errUnknownCommand, name)
	}
}
