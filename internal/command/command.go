// Package command models the system commands vlanctl issues against a switch
// as structured values, rendered to their literal form only at the boundary.
package command

import (
	"strconv"
	"strings"
)

// DefaultVID is the VLAN every bridge port joins when it is enslaved.
const DefaultVID = 1

// Verb identifies the kind of operation a Command performs.
type Verb int

const (
	// VerbBridgeCreate creates a bridge device.
	VerbBridgeCreate Verb = iota
	// VerbLinkUp sets a device administratively up.
	VerbLinkUp
	// VerbVlanFiltering turns on 802.1Q filtering on a bridge.
	VerbVlanFiltering
	// VerbSysctl sets a per-device IPv4 sysctl to 1.
	VerbSysctl
	// VerbSetMaster attaches a device to a bridge.
	VerbSetMaster
	// VerbVlanDel removes a VLAN from a bridge port.
	VerbVlanDel
	// VerbVlanAdd adds a VLAN to a bridge port.
	VerbVlanAdd
	// VerbLinkDown sets a device administratively down.
	VerbLinkDown
	// VerbBridgeDelete deletes a bridge device.
	VerbBridgeDelete
)

var verbNames = map[Verb]string{
	VerbBridgeCreate:  "bridge-create",
	VerbLinkUp:        "link-up",
	VerbVlanFiltering: "vlan-filtering",
	VerbSysctl:        "sysctl",
	VerbSetMaster:     "set-master",
	VerbVlanDel:       "vlan-del",
	VerbVlanAdd:       "vlan-add",
	VerbLinkDown:      "link-down",
	VerbBridgeDelete:  "bridge-delete",
}

// String returns the short name of the verb.
func (v Verb) String() string {
	if name, ok := verbNames[v]; ok {
		return name
	}
	return "verb(" + strconv.Itoa(int(v)) + ")"
}

// SysctlKey is a per-device IPv4 setting under net.ipv4.conf.<device>.
type SysctlKey string

const (
	ProxyARPKey   SysctlKey = "proxy_arp"
	ForwardingKey SysctlKey = "forwarding"
)

// Command is a single system command targeting one device.
// The zero value is not meaningful; use the constructors.
type Command struct {
	Verb Verb

	// Device is the target device (bridge, port or sub-interface).
	Device string

	// Master is the bridge a port is attached to. Only for VerbSetMaster.
	Master string

	// VID is the VLAN ID. Only for VerbVlanAdd and VerbVlanDel.
	VID int

	// Untagged marks the VLAN as the port's PVID, egressing untagged.
	// Only for VerbVlanAdd.
	Untagged bool

	// Key is the sysctl to enable. Only for VerbSysctl.
	Key SysctlKey
}

// BridgeName returns the bridge owned by the named switch.
func BridgeName(switchName string) string {
	return "br-" + switchName
}

// SubInterface returns the VLAN sub-interface name for a port and VLAN ID.
func SubInterface(intf string, vid int) string {
	return intf + "." + strconv.Itoa(vid)
}

func BridgeCreate(bridge string) Command {
	return Command{Verb: VerbBridgeCreate, Device: bridge}
}

func LinkUp(dev string) Command {
	return Command{Verb: VerbLinkUp, Device: dev}
}

func VlanFiltering(bridge string) Command {
	return Command{Verb: VerbVlanFiltering, Device: bridge}
}

func ProxyARP(dev string) Command {
	return Command{Verb: VerbSysctl, Device: dev, Key: ProxyARPKey}
}

func Forwarding(dev string) Command {
	return Command{Verb: VerbSysctl, Device: dev, Key: ForwardingKey}
}

func SetMaster(dev, bridge string) Command {
	return Command{Verb: VerbSetMaster, Device: dev, Master: bridge}
}

func VlanDel(dev string, vid int) Command {
	return Command{Verb: VerbVlanDel, Device: dev, VID: vid}
}

// VlanAdd adds a tagged VLAN to a port.
func VlanAdd(dev string, vid int) Command {
	return Command{Verb: VerbVlanAdd, Device: dev, VID: vid}
}

// VlanAddUntagged adds vid as the port's PVID, egressing untagged.
func VlanAddUntagged(dev string, vid int) Command {
	return Command{Verb: VerbVlanAdd, Device: dev, VID: vid, Untagged: true}
}

func LinkDown(dev string) Command {
	return Command{Verb: VerbLinkDown, Device: dev}
}

func BridgeDelete(bridge string) Command {
	return Command{Verb: VerbBridgeDelete, Device: bridge}
}

// SysctlName returns the dotted sysctl name, e.g. net.ipv4.conf.eth0.proxy_arp.
func (c Command) SysctlName() string {
	return "net.ipv4.conf." + c.Device + "." + string(c.Key)
}

// Args returns the argv form of the command. The first element is the program.
// Unknown verbs return nil.
func (c Command) Args() []string {
	switch c.Verb {
	case VerbBridgeCreate:
		return []string{"ip", "link", "add", "name", c.Device, "type", "bridge"}
	case VerbLinkUp:
		return []string{"ip", "link", "set", "dev", c.Device, "up"}
	case VerbVlanFiltering:
		return []string{"ip", "link", "set", "dev", c.Device, "type", "bridge", "vlan_filtering", "1"}
	case VerbSysctl:
		return []string{"sysctl", "-w", c.SysctlName() + "=1"}
	case VerbSetMaster:
		return []string{"ip", "link", "set", c.Device, "master", c.Master}
	case VerbVlanDel:
		return []string{"bridge", "vlan", "del", "dev", c.Device, "vid", strconv.Itoa(c.VID)}
	case VerbVlanAdd:
		args := []string{"bridge", "vlan", "add", "dev", c.Device, "vid", strconv.Itoa(c.VID)}
		if c.Untagged {
			args = append(args, "pvid", "untagged")
		}
		return args
	case VerbLinkDown:
		return []string{"ip", "link", "set", c.Device, "down"}
	case VerbBridgeDelete:
		return []string{"brctl", "delbr", c.Device}
	}
	return nil
}

// String renders the command exactly as it would be typed in a shell.
func (c Command) String() string {
	return strings.Join(c.Args(), " ")
}

// Strings renders a sequence of commands.
func Strings(cmds []Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.String()
	}
	return out
}
