package vlan

import (
	"context"

	"github.com/plexsphere/vlanctl/internal/command"
)

// Switch is the live handle of a Layer-2 switch in the running network.
type Switch interface {
	// Name is the switch name the bridge name is derived from.
	Name() string

	// Run executes one command in the switch's network namespace and
	// returns its combined output. A non-nil error means the command failed.
	Run(ctx context.Context, cmd command.Command) (string, error)
}

// Network is the live network handle.
type Network interface {
	// Switch resolves the live switch for a topology node ID.
	Switch(id string) (Switch, error)

	// Switches enumerates every live switch.
	Switches() []Switch
}
