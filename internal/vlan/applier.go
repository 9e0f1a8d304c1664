package vlan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plexsphere/vlanctl/internal/command"
	"github.com/plexsphere/vlanctl/internal/topology"
)

// Applier configures VLAN-aware bridges on every Layer-2 switch of a topology.
// Applier is not concurrent-safe; callers serialize passes over the same network.
type Applier struct {
	net    Network
	logger *slog.Logger
}

// NewApplier creates an Applier over the given live network.
func NewApplier(net Network, logger *slog.Logger) *Applier {
	return &Applier{
		net:    net,
		logger: logger.With("component", "vlan"),
	}
}

// Plan resolves every switch node against the live network and returns the
// plans without running them. Lookup failures are recorded in the report.
func (a *Applier) Plan(nodes []topology.Node) ([]SwitchPlan, *Report) {
	report := &Report{}
	var plans []SwitchPlan
	for _, node := range nodes {
		if !node.IsSwitchL2() {
			continue
		}
		sw, err := a.lookup(report, node.ID)
		if err != nil {
			continue
		}
		plan := PlanSwitch(sw.Name(), node)
		a.recordInvalid(report, plan)
		plans = append(plans, plan)
	}
	return plans, report
}

// Apply configures every switch node in order. Failures are recorded per node
// and per interface; the pass continues past them. It stops early only when
// ctx is done.
func (a *Applier) Apply(ctx context.Context, nodes []topology.Node) *Report {
	report := &Report{}
	for _, node := range nodes {
		if !node.IsSwitchL2() {
			continue
		}
		if err := ctx.Err(); err != nil {
			report.record(fmt.Errorf("vlan: apply: %w", err))
			return report
		}

		sw, err := a.lookup(report, node.ID)
		if err != nil {
			continue
		}

		plan := PlanSwitch(sw.Name(), node)
		report.Switches = append(report.Switches, sw.Name())
		a.recordInvalid(report, plan)

		if !runSequence(ctx, a.logger, report, sw, "", plan.Bridge) {
			report.record(fmt.Errorf("vlan: apply: %w", ctx.Err()))
			return report
		}
		for _, port := range plan.Ports {
			a.logger.Debug("configuring port",
				"switch", sw.Name(),
				"interface", port.Interface,
				"mode", port.Connection.String(),
				"vlans", port.VLANs,
			)
			if !runSequence(ctx, a.logger, report, sw, port.Interface, port.Commands) {
				report.record(fmt.Errorf("vlan: apply: %w", ctx.Err()))
				return report
			}
		}

		a.logger.Info("switch configured",
			"switch", sw.Name(),
			"bridge", command.BridgeName(sw.Name()),
			"ports", len(plan.Ports),
			"failures", len(report.FailuresFor(sw.Name())),
			"skipped", len(plan.Invalid),
		)
	}
	return report
}

func (a *Applier) recordInvalid(report *Report, plan SwitchPlan) {
	for _, ierr := range plan.Invalid {
		a.logger.Warn("interface skipped",
			"switch", ierr.Switch,
			"interface", ierr.Interface,
			"error", ierr.Err,
		)
		report.record(ierr)
	}
}

func (a *Applier) lookup(report *Report, id string) (Switch, error) {
	sw, err := a.net.Switch(id)
	if err != nil {
		lerr := &LookupError{NodeID: id, Err: err}
		a.logger.Error("switch lookup failed", "node_id", id, "error", err)
		report.record(lerr)
		return nil, lerr
	}
	return sw, nil
}

// runSequence runs cmds in order on sw, recording each failure and carrying on.
// It returns false when ctx is done before the sequence completes.
func runSequence(ctx context.Context, logger *slog.Logger, report *Report, sw Switch, intf string, cmds []command.Command) bool {
	for _, cmd := range cmds {
		if ctx.Err() != nil {
			return false
		}
		report.Commands++
		out, err := sw.Run(ctx, cmd)
		if err != nil {
			logger.Warn("command failed",
				"switch", sw.Name(),
				"interface", intf,
				"command", cmd.String(),
				"error", err,
			)
			report.record(&CommandError{
				Switch:    sw.Name(),
				Interface: intf,
				Command:   cmd,
				Output:    out,
				Err:       err,
			})
			continue
		}
		logger.Debug("command ok", "switch", sw.Name(), "command", cmd.String())
	}
	return true
}
