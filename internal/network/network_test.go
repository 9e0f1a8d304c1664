package network

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/plexsphere/vlanctl/internal/command"
	"github.com/plexsphere/vlanctl/internal/topology"
	"github.com/plexsphere/vlanctl/internal/vlan"
)

type execCall struct {
	Namespace string
	Command   string
}

// recordingExecutor is a test double for Executor.
type recordingExecutor struct {
	mu    sync.Mutex
	calls []execCall
	err   error
}

func (r *recordingExecutor) Exec(_ context.Context, namespace string, cmd command.Command) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, execCall{Namespace: namespace, Command: cmd.String()})
	return "", r.err
}

func testTopology() *topology.Topology {
	return &topology.Topology{Nodes: []topology.Node{
		{ID: "sw1", Kind: topology.KindSwitchL2, Interfaces: []topology.Interface{
			{Name: "sw1-eth1", Connection: topology.Access, VLANs: []int{10}},
		}},
		{ID: "h1", Kind: topology.KindOther},
		{ID: "sw2", Kind: topology.KindSwitchL2},
	}}
}

func TestNew_DerivesSwitchesFromTopology(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	n, err := New(cfg, &recordingExecutor{}, testTopology())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var names []string
	for _, sw := range n.Switches() {
		names = append(names, sw.Name())
	}
	if diff := cmp.Diff([]string{"sw1", "sw2"}, names); diff != "" {
		t.Errorf("switches mismatch (-want +got):\n%s", diff)
	}

	_, err = n.Switch("h1")
	if !errors.Is(err, ErrSwitchNotFound) {
		t.Errorf("Switch(h1) error = %v, want ErrSwitchNotFound", err)
	}
}

func TestNew_FromConfig(t *testing.T) {
	cfg := Config{Switches: []SwitchConfig{
		{ID: "sw1", Name: "s1", Namespace: "ns-s1"},
		{ID: "sw2"},
	}}
	cfg.ApplyDefaults()
	exec := &recordingExecutor{}

	n, err := New(cfg, exec, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sw, err := n.Switch("sw1")
	if err != nil {
		t.Fatalf("Switch(sw1): %v", err)
	}
	if sw.Name() != "s1" {
		t.Errorf("Name() = %q, want s1", sw.Name())
	}
	if _, err := sw.Run(context.Background(), command.LinkUp("br-s1")); err != nil {
		t.Fatalf("Run: %v", err)
	}

	live := sw.(*Switch)
	if live.ID() != "sw1" || live.Namespace() != "ns-s1" {
		t.Errorf("switch = %q/%q, want sw1/ns-s1", live.ID(), live.Namespace())
	}
	want := []execCall{{Namespace: "ns-s1", Command: "ip link set dev br-s1 up"}}
	if diff := cmp.Diff(want, exec.calls); diff != "" {
		t.Errorf("exec calls mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_Errors(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if _, err := New(cfg, &recordingExecutor{}, nil); err == nil {
		t.Error("expected error without switches or topology")
	}

	cfg.Switches = []SwitchConfig{{ID: "a"}, {ID: "a"}}
	if _, err := New(cfg, &recordingExecutor{}, nil); err == nil {
		t.Error("expected error for duplicate ids")
	}
}

func TestNetwork_DrivesApplierAndCleaner(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	exec := &recordingExecutor{}
	topo := testTopology()

	n, err := New(cfg, exec, topo)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	report := vlan.NewApplier(n, discardLogger()).Apply(context.Background(), topo.Nodes)
	if report.Failed() {
		t.Fatalf("apply: %v", report.Err())
	}
	// sw1: 5 bridge + 7 access port commands; sw2: 5 bridge commands.
	if len(exec.calls) != 17 {
		t.Errorf("expected 17 commands, got %d", len(exec.calls))
	}

	exec.calls = nil
	exec.err = errors.New("exit status 1")
	report = vlan.NewCleaner(n, discardLogger()).Clean(context.Background())
	if len(report.Failures) != 4 {
		t.Errorf("expected 4 cleanup failures, got %d", len(report.Failures))
	}
	want := []execCall{
		{Command: "ip link set br-sw1 down"},
		{Command: "brctl delbr br-sw1"},
		{Command: "ip link set br-sw2 down"},
		{Command: "brctl delbr br-sw2"},
	}
	if diff := cmp.Diff(want, exec.calls); diff != "" {
		t.Errorf("cleanup calls mismatch (-want +got):\n%s", diff)
	}
}

func TestNewExecutor(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	e, err := NewExecutor(cfg, discardLogger())
	if err != nil {
		t.Fatalf("NewExecutor(shell): %v", err)
	}
	if _, ok := e.(*ShellExecutor); !ok {
		t.Errorf("NewExecutor(shell) = %T, want *ShellExecutor", e)
	}

	cfg.Executor = "bogus"
	if _, err := NewExecutor(cfg, discardLogger()); !errors.Is(err, ErrUnknownExecutor) {
		t.Errorf("NewExecutor(bogus) error = %v, want ErrUnknownExecutor", err)
	}
}
