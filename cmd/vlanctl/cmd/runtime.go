package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/plexsphere/vlanctl/internal/config"
	"github.com/plexsphere/vlanctl/internal/network"
	"github.com/plexsphere/vlanctl/internal/topology"
	"github.com/plexsphere/vlanctl/internal/vlan"
)

// runtime bundles what every subcommand needs.
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
	topo   *topology.Topology
	net    *network.Network
}

// loadRuntime parses the config, applies flag overrides, loads the topology
// and builds the live network. When requireTopology is false a missing
// topology is tolerated as long as the config lists the switches.
func loadRuntime(stderr io.Writer, requireTopology bool) (*runtime, error) {
	cfg, err := config.ParseConfig(cfgFile, cfgFile == config.DefaultPath)
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides.
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if executorName != "" {
		cfg.Network.Executor = executorName
	}
	if topologyFile != "" {
		cfg.Topology = topologyFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := setupLogger(stderr, cfg.LogLevel)

	var topo *topology.Topology
	switch {
	case cfg.Topology != "":
		topo, err = topology.Load(cfg.Topology)
		if err != nil {
			return nil, err
		}
	case requireTopology:
		return nil, fmt.Errorf("no topology given (use --topology or set topology in %s)", cfgFile)
	}

	exec, err := network.NewExecutor(cfg.Network, logger)
	if err != nil {
		return nil, err
	}
	net, err := network.New(cfg.Network, exec, topo)
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, logger: logger, topo: topo, net: net}, nil
}

func setupLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// logReport logs every failure of a pass and returns a summary error when
// there were any.
func logReport(logger *slog.Logger, op string, report *vlan.Report) error {
	for _, err := range report.Failures {
		logger.Error(op+" failure", "error", err)
	}
	logger.Info(op+" finished",
		"switches", len(report.Switches),
		"commands", report.Commands,
		"failures", len(report.Failures),
	)
	if report.Failed() {
		return fmt.Errorf("%d failure(s) during %s", len(report.Failures), op)
	}
	return nil
}
