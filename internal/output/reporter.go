package output

import (
	"fmt"
	"io"
)

// Reporter writes successes to Out and failures to ErrOut
type Reporter struct {
	Out    io.Writer
	ErrOut io.Writer
	Mode   Mode
}

// Summary counts what a Reporter printed
type Summary struct {
	Succeeded int
	Failed    int
}

// Report prints one line per outcome, in the order given. Failures never
// reach Out.
func (r *Reporter) Report(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		if o.OK() {
			fmt.Fprintln(r.Out, o.Line(r.Mode))
			s.Succeeded++
			continue
		}
		fmt.Fprintln(r.ErrOut, o.Err)
		s.Failed++
	}
	return s
}
