package vlan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/plexsphere/vlanctl/internal/command"
)

var errNoSwitch = errors.New("no such switch")

// portVLAN is the membership state of one VID on a bridge port.
type portVLAN struct {
	PVID     bool
	Untagged bool
}

// fakeSwitch is a test double for Switch. It records every command and
// applies its effect to a small model of the switch's kernel state.
type fakeSwitch struct {
	mu   sync.Mutex
	name string

	calls []string

	// failFor injects an error for an exact command string.
	failFor map[string]error

	bridges map[string]bool
	masters map[string]string
	vlans   map[string]map[int]portVLAN
	sysctls map[string]bool
}

func newFakeSwitch(name string) *fakeSwitch {
	return &fakeSwitch{
		name:    name,
		failFor: make(map[string]error),
		bridges: make(map[string]bool),
		masters: make(map[string]string),
		vlans:   make(map[string]map[int]portVLAN),
		sysctls: make(map[string]bool),
	}
}

func (s *fakeSwitch) Name() string { return s.name }

func (s *fakeSwitch) Run(_ context.Context, cmd command.Command) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := cmd.String()
	s.calls = append(s.calls, line)
	if err, ok := s.failFor[line]; ok {
		return "injected", err
	}

	switch cmd.Verb {
	case command.VerbBridgeCreate:
		if s.bridges[cmd.Device] {
			return "RTNETLINK answers: File exists", errors.New("exit status 2")
		}
		s.bridges[cmd.Device] = true
	case command.VerbLinkUp, command.VerbLinkDown, command.VerbVlanFiltering:
		if !s.bridges[cmd.Device] {
			return fmt.Sprintf("Cannot find device %q", cmd.Device), errors.New("exit status 1")
		}
	case command.VerbBridgeDelete:
		if !s.bridges[cmd.Device] {
			return fmt.Sprintf("bridge %s doesn't exist; can't delete it", cmd.Device), errors.New("exit status 1")
		}
		delete(s.bridges, cmd.Device)
	case command.VerbSetMaster:
		if !s.bridges[cmd.Master] {
			return "", errors.New("master does not exist")
		}
		s.masters[cmd.Device] = cmd.Master
		// The kernel enrols every new port in the default VLAN.
		s.vlans[cmd.Device] = map[int]portVLAN{command.DefaultVID: {PVID: true, Untagged: true}}
	case command.VerbVlanDel:
		delete(s.vlans[cmd.Device], cmd.VID)
	case command.VerbVlanAdd:
		if s.vlans[cmd.Device] == nil {
			return "", errors.New("not a bridge port")
		}
		s.vlans[cmd.Device][cmd.VID] = portVLAN{PVID: cmd.Untagged, Untagged: cmd.Untagged}
	case command.VerbSysctl:
		s.sysctls[cmd.SysctlName()] = true
	}
	return "", nil
}

func (s *fakeSwitch) commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// fakeNetwork is a test double for Network keyed by node ID.
type fakeNetwork struct {
	byID  map[string]*fakeSwitch
	order []*fakeSwitch
}

func newFakeNetwork(ids ...string) *fakeNetwork {
	n := &fakeNetwork{byID: make(map[string]*fakeSwitch)}
	for _, id := range ids {
		sw := newFakeSwitch(id)
		n.byID[id] = sw
		n.order = append(n.order, sw)
	}
	return n
}

func (n *fakeNetwork) Switch(id string) (Switch, error) {
	sw, ok := n.byID[id]
	if !ok {
		return nil, errNoSwitch
	}
	return sw, nil
}

func (n *fakeNetwork) Switches() []Switch {
	out := make([]Switch, len(n.order))
	for i, sw := range n.order {
		out[i] = sw
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
