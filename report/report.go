// Package report renders the optional metrics printed after a run.
package report

import (
	"fmt"
	"io"

	"evr/core/execution"
)

type Options struct {
	// Time prints the wall-clock duration of the run.
	Time bool
	// Memory prints the peak resident set size.
	Memory bool
}

func (o Options) Enabled() bool { return o.Time || o.Memory }

// Lines returns the metric lines requested by opts. A timed out run has no
// usage, so only its elapsed time can be reported.
func Lines(outcome execution.Outcome, opts Options) []string {
	if outcome == nil {
		return nil
	}
	var lines []string
	u, wall, ok := execution.Measured(outcome)
	if !ok {
		if t, isTimeout := outcome.(execution.TimedOut); isTimeout && opts.Time {
			lines = append(lines, fmt.Sprintf("wall time: %v", t.Elapsed))
		}
		return lines
	}
	if opts.Time {
		lines = append(lines, fmt.Sprintf("wall time: %v", wall))
	}
	if opts.Memory {
		lines = append(lines, fmt.Sprintf("rss: %dK", u.MaxRSSKB()))
	}
	return lines
}

func Write(w io.Writer, outcome execution.Outcome, opts Options) error {
	for _, line := range Lines(outcome, opts) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// ExitCode maps an outcome onto the process exit status evr itself returns.
func ExitCode(outcome execution.Outcome) int {
	switch o := outcome.(type) {
	case nil, execution.Success:
		return 0
	case execution.ExitCode:
		return o.Code
	case execution.TimedOut:
		return 124
	case execution.Signaled:
		return 128 + int(o.Signal)
	default:
		return 1
	}
}
