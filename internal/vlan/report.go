package vlan

import "errors"

// Report aggregates the outcome of a full Apply or Clean pass.
type Report struct {
	// Switches lists the switches that were processed, in order.
	Switches []string

	// Commands is the number of commands issued, failed ones included.
	Commands int

	// Failures holds every LookupError, InterfaceError and CommandError, in
	// order of occurrence.
	Failures []error
}

func (r *Report) record(err error) {
	r.Failures = append(r.Failures, err)
}

// Failed reports whether any failure was recorded.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

// Err joins all failures, or returns nil when there were none.
func (r *Report) Err() error {
	return errors.Join(r.Failures...)
}

// FailuresFor returns the CommandErrors recorded against one switch.
func (r *Report) FailuresFor(switchName string) []*CommandError {
	var out []*CommandError
	for _, err := range r.Failures {
		var ce *CommandError
		if errors.As(err, &ce) && ce.Switch == switchName {
			out = append(out, ce)
		}
	}
	return out
}
