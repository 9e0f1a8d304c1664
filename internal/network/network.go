package network

import (
	"context"
	"errors"
	"fmt"

	"github.com/plexsphere/vlanctl/internal/command"
	"github.com/plexsphere/vlanctl/internal/topology"
	"github.com/plexsphere/vlanctl/internal/vlan"
)

// ErrSwitchNotFound is returned when a node ID has no live switch.
var ErrSwitchNotFound = errors.New("network: switch not found")

// Switch is a live switch: a name, the namespace it lives in, and the
// executor that reaches it.
type Switch struct {
	id        string
	name      string
	namespace string
	exec      Executor
}

func (s *Switch) ID() string        { return s.id }
func (s *Switch) Name() string      { return s.name }
func (s *Switch) Namespace() string { return s.namespace }

// Run executes cmd in the switch's namespace.
func (s *Switch) Run(ctx context.Context, cmd command.Command) (string, error) {
	return s.exec.Exec(ctx, s.namespace, cmd)
}

// Network is the set of live switches, addressable by topology node ID.
type Network struct {
	byID  map[string]*Switch
	order []*Switch
}

var _ vlan.Network = (*Network)(nil)

// New builds the live network. Switches come from cfg.Switches; when none are
// configured they are derived from the Layer-2 switch nodes of topo, which may
// then not be nil. cfg must have defaults applied.
func New(cfg Config, exec Executor, topo *topology.Topology) (*Network, error) {
	n := &Network{byID: make(map[string]*Switch)}

	if len(cfg.Switches) > 0 {
		for _, sc := range cfg.Switches {
			name := sc.Name
			if name == "" {
				name = sc.ID
			}
			if err := n.add(&Switch{id: sc.ID, name: name, namespace: sc.Namespace, exec: exec}); err != nil {
				return nil, err
			}
		}
		return n, nil
	}

	if topo == nil {
		return nil, fmt.Errorf("network: no switches configured and no topology to derive them from")
	}
	for _, node := range topo.Switches() {
		if _, dup := n.byID[node.ID]; dup {
			continue
		}
		if err := n.add(&Switch{id: node.ID, name: node.ID, exec: exec}); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (n *Network) add(sw *Switch) error {
	if sw.id == "" {
		return fmt.Errorf("network: switch id is required")
	}
	if _, dup := n.byID[sw.id]; dup {
		return fmt.Errorf("network: duplicate switch id %q", sw.id)
	}
	n.byID[sw.id] = sw
	n.order = append(n.order, sw)
	return nil
}

// Switch resolves the live switch for a node ID.
func (n *Network) Switch(id string) (vlan.Switch, error) {
	sw, ok := n.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSwitchNotFound, id)
	}
	return sw, nil
}

// Switches returns every live switch in configuration order.
func (n *Network) Switches() []vlan.Switch {
	out := make([]vlan.Switch, len(n.order))
	for i, sw := range n.order {
		out[i] = sw
	}
	return out
}
