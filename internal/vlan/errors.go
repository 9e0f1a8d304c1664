package vlan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plexsphere/vlanctl/internal/command"
)

// LookupError is returned when a switch node has no live counterpart.
type LookupError struct {
	NodeID string
	Err    error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("vlan: lookup switch %q: %v", e.NodeID, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// CommandError records a failed command with its switch and interface context.
// Interface is empty for bridge-level commands.
type CommandError struct {
	Switch    string
	Interface string
	Command   command.Command
	Output    string
	Err       error
}

func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "vlan: switch %q", e.Switch)
	if e.Interface != "" {
		fmt.Fprintf(&b, " interface %q", e.Interface)
	}
	fmt.Fprintf(&b, ": %q: %v", e.Command.String(), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		fmt.Fprintf(&b, ": %s", out)
	}
	return b.String()
}

func (e *CommandError) Unwrap() error { return e.Err }

// InterfaceError records a port whose VLAN configuration could not be used.
// The port is skipped; the rest of the switch is still configured.
type InterfaceError struct {
	Switch    string
	Interface string
	Err       error
}

func (e *InterfaceError) Error() string {
	return fmt.Sprintf("vlan: switch %q interface %q skipped: %v", e.Switch, e.Interface, e.Err)
}

func (e *InterfaceError) Unwrap() error { return e.Err }

// IsLookupError reports whether err contains a LookupError.
func IsLookupError(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}

// IsCommandError reports whether err contains a CommandError.
func IsCommandError(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce)
}
