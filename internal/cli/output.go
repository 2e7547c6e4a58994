package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/okian/betterrest/internal/domain/estimator"
	"github.com/okian/betterrest/internal/domain/form"
	"github.com/okian/betterrest/internal/domain/model"
)

// printer renders results. Colors follow color.NoColor.
type printer struct {
	w       io.Writer
	bedtime *color.Color
	failure *color.Color
	dim     *color.Color
	label   *color.Color
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:       w,
		bedtime: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		dim:     color.New(color.FgHiBlack),
		label:   color.New(color.FgCyan),
	}
}

func (p *printer) result(res estimator.Result) {
	if !res.OK() {
		p.failure.Fprintf(p.w, "%s: ", res.Err.Title)
		fmt.Fprintln(p.w, res.Err.Message)
		return
	}
	fmt.Fprint(p.w, "Your ideal bedtime is ")
	p.bedtime.Fprintln(p.w, res.Bedtime.Kitchen())
}

func (p *printer) state(s form.State) {
	p.dim.Fprintf(p.w, "[%d] ", s.Revision)
	fmt.Fprintf(p.w, "%s, %s, %s: ", s.Inputs.WakeUp.Kitchen(), hoursLabel(s.Inputs.SleepHours), cupsLabel(s.Inputs.CoffeeCups))
	p.result(s.Result)
}

func (p *printer) field(name string, value any) {
	p.label.Fprintf(p.w, "%-16s", name)
	fmt.Fprintln(p.w, value)
}

func (p *printer) note(format string, args ...any) {
	p.dim.Fprintf(p.w, format+"\n", args...)
}

func hoursLabel(h float64) string {
	s := strconv.FormatFloat(h, 'f', -1, 64)
	if h == 1 {
		return s + " hour"
	}
	return s + " hours"
}

func cupsLabel(n int) string {
	if n == 1 {
		return "1 cup"
	}
	return strconv.Itoa(n) + " cups"
}

// inputsFromFlags validates the raw flag values.
func inputsFromFlags(wake string, sleep float64, coffee int) (model.Inputs, error) {
	t, err := model.ParseTimeOfDay(wake)
	if err != nil {
		return model.Inputs{}, err
	}
	in := model.Inputs{WakeUp: t, SleepHours: sleep, CoffeeCups: coffee}
	if err := in.Validate(); err != nil {
		return model.Inputs{}, err
	}
	return in, nil
}
