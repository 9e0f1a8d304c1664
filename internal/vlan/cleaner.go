package vlan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plexsphere/vlanctl/internal/command"
)

// Cleaner removes the bridges created by Applier from every live switch.
type Cleaner struct {
	net    Network
	logger *slog.Logger
}

// NewCleaner creates a Cleaner over the given live network.
func NewCleaner(net Network, logger *slog.Logger) *Cleaner {
	return &Cleaner{
		net:    net,
		logger: logger.With("component", "vlan"),
	}
}

// Clean brings each switch's bridge down and deletes it, whether or not it was
// ever configured. A missing bridge is recorded as a failure for that switch
// and the pass continues.
func (c *Cleaner) Clean(ctx context.Context) *Report {
	report := &Report{}
	for _, sw := range c.net.Switches() {
		report.Switches = append(report.Switches, sw.Name())
		if !runSequence(ctx, c.logger, report, sw, "", CleanBridge(sw.Name())) {
			report.record(fmt.Errorf("vlan: clean: %w", ctx.Err()))
			return report
		}
		c.logger.Info("bridge cleanup finished",
			"switch", sw.Name(),
			"bridge", command.BridgeName(sw.Name()),
			"failures", len(report.FailuresFor(sw.Name())),
		)
	}
	return report
}
