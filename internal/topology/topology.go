// Package topology holds the read-only node and interface model that vlanctl
// applies VLAN configuration to, and decodes it from YAML or JSON.
package topology

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxVLANID is the highest usable 802.1Q VLAN ID.
const MaxVLANID = 4094

// SwitchL2Type is the node type tag identifying a Layer-2 switch.
const SwitchL2Type = "l2_switch"

// NodeKind is decided once when the topology is decoded.
type NodeKind int

const (
	KindOther NodeKind = iota
	KindSwitchL2
)

func (k NodeKind) String() string {
	if k == KindSwitchL2 {
		return SwitchL2Type
	}
	return "other"
}

// UnmarshalYAML maps the type tag to a NodeKind. Unknown tags are KindOther.
func (k *NodeKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("topology: node type: %w", err)
	}
	if s == SwitchL2Type {
		*k = KindSwitchL2
	} else {
		*k = KindOther
	}
	return nil
}

// ConnectionType selects access or trunk semantics for a switch port.
type ConnectionType int

const (
	// ConnectionUnknown marks a missing, null or unrecognised type_connection.
	// Such ports are left unconfigured.
	ConnectionUnknown ConnectionType = -1
	Access            ConnectionType = 0
	Trunk             ConnectionType = 1
)

func (c ConnectionType) String() string {
	switch c {
	case ConnectionUnknown:
		return "unknown"
	case Access:
		return "access"
	case Trunk:
		return "trunk"
	}
	return "connection(" + strconv.Itoa(int(c)) + ")"
}

// UnmarshalYAML accepts the numeric flag (0 access, 1 trunk) or its name.
// Anything else decodes to ConnectionUnknown.
func (c *ConnectionType) UnmarshalYAML(value *yaml.Node) error {
	*c = ConnectionUnknown
	if value.Kind != yaml.ScalarNode {
		return nil
	}
	switch strings.ToLower(value.Value) {
	case "0", "access":
		*c = Access
	case "1", "trunk":
		*c = Trunk
	}
	return nil
}

// Interface is one port of a Node.
type Interface struct {
	Name       string
	Connection ConnectionType

	// VLANs is nil when the interface carries no VLAN configuration and
	// empty, not nil, for an empty trunk list. Access interfaces hold
	// exactly one ID.
	VLANs []int

	// Err is set when the vlan field is present but unusable. VLANs is nil
	// in that case.
	Err error
}

// HasVLAN reports whether VLAN configuration is present.
func (i Interface) HasVLAN() bool {
	return i.VLANs != nil
}

// AccessVLAN returns the access VLAN, or 0 when none is configured.
func (i Interface) AccessVLAN() int {
	if len(i.VLANs) == 0 {
		return 0
	}
	return i.VLANs[0]
}

// TrunkVLANs returns the trunk VLAN set in ascending order.
func (i Interface) TrunkVLANs() []int {
	if i.VLANs == nil {
		return nil
	}
	vids := slices.Clone(i.VLANs)
	slices.Sort(vids)
	return slices.Compact(vids)
}

type rawInterface struct {
	Name           string          `yaml:"name"`
	TypeConnection *ConnectionType `yaml:"type_connection"`
	VLAN           yaml.Node       `yaml:"vlan"`
}

// UnmarshalYAML decodes the vlan field according to the connection type:
// a scalar for access ports, a scalar or list for trunks. A vlan value that
// cannot be used is kept in Err so the rest of the document still decodes.
func (i *Interface) UnmarshalYAML(value *yaml.Node) error {
	var raw rawInterface
	if err := value.Decode(&raw); err != nil {
		return err
	}
	i.Name = raw.Name
	i.Connection = ConnectionUnknown
	if raw.TypeConnection != nil {
		i.Connection = *raw.TypeConnection
	}
	i.VLANs = nil
	i.Err = nil

	vlan := &raw.VLAN
	if vlan.Kind == 0 || vlan.Tag == "!!null" {
		return nil
	}

	vids, err := decodeVLANs(vlan, i.Connection)
	if err != nil {
		i.Err = fmt.Errorf("topology: interface %q: %w", raw.Name, err)
		return nil
	}
	i.VLANs = vids
	return nil
}

func decodeVLANs(vlan *yaml.Node, conn ConnectionType) ([]int, error) {
	var vids []int
	switch vlan.Kind {
	case yaml.ScalarNode:
		var vid int
		if err := vlan.Decode(&vid); err != nil {
			return nil, fmt.Errorf("vlan: %w", err)
		}
		vids = []int{vid}
	case yaml.SequenceNode:
		if conn == Access {
			return nil, fmt.Errorf("access port takes a single vlan, got a list")
		}
		if err := vlan.Decode(&vids); err != nil {
			return nil, fmt.Errorf("vlan: %w", err)
		}
		if vids == nil {
			vids = []int{}
		}
	default:
		return nil, fmt.Errorf("vlan: line %d: expected scalar or list", vlan.Line)
	}

	for _, vid := range vids {
		if vid < 1 || vid > MaxVLANID {
			return nil, fmt.Errorf("vlan %d out of range 1-%d", vid, MaxVLANID)
		}
	}
	if conn == Trunk {
		slices.Sort(vids)
		vids = slices.Compact(vids)
	}
	return vids, nil
}

// Node is a topology entity. Only KindSwitchL2 nodes are configured.
type Node struct {
	ID         string
	Kind       NodeKind
	Interfaces []Interface
}

// rawNode accepts both the flat form (id, type) and the nested form
// exported by the topology editor (data.id, config.type).
type rawNode struct {
	ID         string      `yaml:"id"`
	Type       *NodeKind   `yaml:"type"`
	Interfaces []Interface `yaml:"interface"`
	Data       struct {
		ID string `yaml:"id"`
	} `yaml:"data"`
	Config struct {
		Type *NodeKind `yaml:"type"`
	} `yaml:"config"`
}

func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var raw rawNode
	if err := value.Decode(&raw); err != nil {
		return err
	}
	n.ID = raw.ID
	if n.ID == "" {
		n.ID = raw.Data.ID
	}
	n.Kind = KindOther
	switch {
	case raw.Type != nil:
		n.Kind = *raw.Type
	case raw.Config.Type != nil:
		n.Kind = *raw.Config.Type
	}
	n.Interfaces = raw.Interfaces
	return nil
}

// IsSwitchL2 reports whether the node is a Layer-2 switch.
func (n Node) IsSwitchL2() bool {
	return n.Kind == KindSwitchL2
}

// Topology is the decoded topology document.
type Topology struct {
	Nodes []Node `yaml:"nodes"`
}

// Switches returns the Layer-2 switch nodes in document order.
func (t *Topology) Switches() []Node {
	var out []Node
	for _, n := range t.Nodes {
		if n.IsSwitchL2() {
			out = append(out, n)
		}
	}
	return out
}

// Parse decodes a topology document. JSON input is accepted as YAML.
func Parse(data []byte) (*Topology, error) {
	t, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("topology: parse: %w", err)
	}
	return t, nil
}

// Load reads and decodes a topology file.
func Load(path string) (*Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topology: read %s: %w", path, err)
	}
	t, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("topology: parse %s: %w", path, err)
	}
	return t, nil
}

func decode(data []byte) (*Topology, error) {
	var t Topology
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
