package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/plexsphere/vlanctl/internal/vlan"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Configure VLAN bridges on every Layer-2 switch",
	Long: "Create br-<switch> on every Layer-2 switch of the topology, enable VLAN\n" +
		"filtering, attach access and trunk ports, and enable ARP proxy and forwarding.\n" +
		"Failures are reported per switch and interface after the full pass.",
	SilenceUsage: true,
	RunE:         runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd.ErrOrStderr(), true)
	if err != nil {
		return fmt.Errorf("vlanctl apply: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	rt.logger.Info("applying vlans",
		"topology", rt.cfg.Topology,
		"executor", rt.cfg.Network.Executor,
		"nodes", len(rt.topo.Nodes),
	)
	report := vlan.NewApplier(rt.net, rt.logger).Apply(ctx, rt.topo.Nodes)
	if err := logReport(rt.logger, "apply", report); err != nil {
		return fmt.Errorf("vlanctl apply: %w", err)
	}
	return nil
}
