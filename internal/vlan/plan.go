// Package vlan decides and applies the VLAN-aware bridge configuration of
// Layer-2 switch nodes, and tears the bridges down again.
//
// Planning is pure: ProvisionBridge, AccessPort, TrunkPort and CleanBridge map
// a switch and port configuration to an ordered command sequence. Applier and
// Cleaner run those sequences against a live Network and aggregate failures.
package vlan

import (
	"github.com/plexsphere/vlanctl/internal/command"
	"github.com/plexsphere/vlanctl/internal/topology"
)

// ProvisionBridge returns the commands that create the switch's bridge, bring
// it up, turn on VLAN filtering and enable ARP proxy and forwarding on it.
func ProvisionBridge(switchName string) []command.Command {
	br := command.BridgeName(switchName)
	return []command.Command{
		command.BridgeCreate(br),
		command.LinkUp(br),
		command.VlanFiltering(br),
		command.ProxyARP(br),
		command.Forwarding(br),
	}
}

// AccessPort returns the commands that attach intf to the switch's bridge as
// an access port carrying vid untagged.
func AccessPort(switchName, intf string, vid int) []command.Command {
	cmds := attach(switchName, intf)
	cmds = append(cmds, command.VlanAddUntagged(intf, vid))
	cmds = append(cmds, enableProxy(intf)...)
	// Set even when the sub-interface does not exist yet.
	return append(cmds, enableProxy(command.SubInterface(intf, vid))...)
}

// TrunkPort returns the commands that attach intf to the switch's bridge as a
// trunk carrying vids tagged, in the given order. Callers sort vids.
func TrunkPort(switchName, intf string, vids []int) []command.Command {
	cmds := attach(switchName, intf)
	for _, vid := range vids {
		cmds = append(cmds, command.VlanAdd(intf, vid))
		cmds = append(cmds, enableProxy(command.SubInterface(intf, vid))...)
	}
	return append(cmds, enableProxy(intf)...)
}

// CleanBridge returns the commands that bring the switch's bridge down and delete it.
func CleanBridge(switchName string) []command.Command {
	br := command.BridgeName(switchName)
	return []command.Command{
		command.LinkDown(br),
		command.BridgeDelete(br),
	}
}

// attach enslaves intf to the bridge and strips the default VLAN, which must
// happen before any other VLAN membership is added.
func attach(switchName, intf string) []command.Command {
	return []command.Command{
		command.SetMaster(intf, command.BridgeName(switchName)),
		command.VlanDel(intf, command.DefaultVID),
	}
}

func enableProxy(dev string) []command.Command {
	return []command.Command{
		command.ProxyARP(dev),
		command.Forwarding(dev),
	}
}

// PortPlan is the command sequence for one interface.
type PortPlan struct {
	Interface  string
	Connection topology.ConnectionType
	VLANs      []int
	Commands   []command.Command
}

// SwitchPlan is the full command sequence for one switch node.
type SwitchPlan struct {
	NodeID string
	Switch string
	Bridge []command.Command
	Ports  []PortPlan

	// Invalid lists access and trunk ports left out because their vlan
	// value could not be used.
	Invalid []*InterfaceError
}

// Commands flattens the plan in execution order.
func (p SwitchPlan) Commands() []command.Command {
	cmds := append([]command.Command(nil), p.Bridge...)
	for _, port := range p.Ports {
		cmds = append(cmds, port.Commands...)
	}
	return cmds
}

// PlanSwitch builds the plan for a switch node whose live switch is named
// switchName. Interfaces without VLAN configuration or with an unknown
// connection type are left out.
func PlanSwitch(switchName string, node topology.Node) SwitchPlan {
	plan := SwitchPlan{
		NodeID: node.ID,
		Switch: switchName,
		Bridge: ProvisionBridge(switchName),
	}
	for _, iface := range node.Interfaces {
		if iface.Err != nil && knownConnection(iface.Connection) {
			plan.Invalid = append(plan.Invalid, &InterfaceError{
				Switch:    switchName,
				Interface: iface.Name,
				Err:       iface.Err,
			})
			continue
		}
		if port, ok := planPort(switchName, iface); ok {
			plan.Ports = append(plan.Ports, port)
		}
	}
	return plan
}

func planPort(switchName string, iface topology.Interface) (PortPlan, bool) {
	if !iface.HasVLAN() {
		return PortPlan{}, false
	}
	port := PortPlan{Interface: iface.Name, Connection: iface.Connection}
	switch iface.Connection {
	case topology.Access:
		if len(iface.VLANs) != 1 {
			return PortPlan{}, false
		}
		port.VLANs = []int{iface.AccessVLAN()}
		port.Commands = AccessPort(switchName, iface.Name, iface.AccessVLAN())
	case topology.Trunk:
		port.VLANs = iface.TrunkVLANs()
		port.Commands = TrunkPort(switchName, iface.Name, port.VLANs)
	default:
		return PortPlan{}, false
	}
	return port, true
}

func knownConnection(c topology.ConnectionType) bool {
	return c == topology.Access || c == topology.Trunk
}
