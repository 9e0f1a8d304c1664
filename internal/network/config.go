// Package network provides the live network handle vlanctl configures: the
// switches, the namespaces they live in, and the executors that run commands there.
package network

import (
	"errors"
	"fmt"
	"time"
)

const (
	// ExecutorShell runs the literal commands through the iproute2, sysctl and
	// bridge-utils binaries.
	ExecutorShell = "shell"

	// ExecutorNetlink performs the same operations through netlink and /proc/sys.
	ExecutorNetlink = "netlink"
)

const (
	DefaultExecutor       = ExecutorShell
	DefaultNetnsDir       = "/var/run/netns"
	DefaultCommandTimeout = 10 * time.Second
	DefaultMaxOutputBytes = 64 << 10
)

// ErrUnknownExecutor is returned for an executor name that is neither shell nor netlink.
var ErrUnknownExecutor = errors.New("network: unknown executor")

// SwitchConfig maps a topology node to a live switch.
type SwitchConfig struct {
	// ID is the topology node ID.
	ID string `yaml:"id"`

	// Name is the live switch name the bridge is named after.
	// Default: ID.
	Name string `yaml:"name"`

	// Namespace is the named network namespace the switch lives in.
	// Empty means the namespace vlanctl runs in.
	Namespace string `yaml:"namespace"`
}

// Config holds the configuration of the live network handle.
// Config is passed as a constructor argument; no file I/O in this package.
type Config struct {
	// Executor selects how commands are run: "shell" or "netlink".
	// Default: "shell"
	Executor string `yaml:"executor"`

	// NetnsDir is where named network namespaces are mounted.
	// Default: /var/run/netns
	NetnsDir string `yaml:"netns_dir"`

	// CommandTimeout bounds a single command.
	// Default: 10s. Minimum: 100ms.
	CommandTimeout time.Duration `yaml:"command_timeout"`

	// MaxOutputBytes caps the output kept per command.
	// Default: 64 KiB. Minimum: 256.
	MaxOutputBytes int64 `yaml:"max_output_bytes"`

	// Switches lists the live switches. When empty, one switch per Layer-2
	// switch node is derived, named after the node ID, in the current namespace.
	Switches []SwitchConfig `yaml:"switches"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Executor == "" {
		c.Executor = DefaultExecutor
	}
	if c.NetnsDir == "" {
		c.NetnsDir = DefaultNetnsDir
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = DefaultCommandTimeout
	}
	if c.MaxOutputBytes == 0 {
		c.MaxOutputBytes = DefaultMaxOutputBytes
	}
	for i := range c.Switches {
		if c.Switches[i].Name == "" {
			c.Switches[i].Name = c.Switches[i].ID
		}
	}
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	if c.Executor != ExecutorShell && c.Executor != ExecutorNetlink {
		return fmt.Errorf("network: config: %w %q (must be %q or %q)", ErrUnknownExecutor, c.Executor, ExecutorShell, ExecutorNetlink)
	}
	if c.CommandTimeout < 100*time.Millisecond {
		return fmt.Errorf("network: config: CommandTimeout must be at least 100ms")
	}
	if c.MaxOutputBytes < 256 {
		return fmt.Errorf("network: config: MaxOutputBytes must be at least 256")
	}
	ids := make(map[string]struct{}, len(c.Switches))
	names := make(map[string]struct{}, len(c.Switches))
	for _, sw := range c.Switches {
		if sw.ID == "" {
			return fmt.Errorf("network: config: switch id is required")
		}
		if _, dup := ids[sw.ID]; dup {
			return fmt.Errorf("network: config: duplicate switch id %q", sw.ID)
		}
		ids[sw.ID] = struct{}{}
		name := sw.Name
		if name == "" {
			name = sw.ID
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("network: config: duplicate switch name %q", name)
		}
		names[name] = struct{}{}
	}
	return nil
}
