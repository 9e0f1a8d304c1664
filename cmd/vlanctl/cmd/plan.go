package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/vlanctl/internal/command"
	"github.com/plexsphere/vlanctl/internal/vlan"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the commands apply would run, without running them",
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd.ErrOrStderr(), true)
	if err != nil {
		return fmt.Errorf("vlanctl plan: %w", err)
	}

	plans, report := vlan.NewApplier(rt.net, rt.logger).Plan(rt.topo.Nodes)

	w := cmd.OutOrStdout()
	for i, p := range plans {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# node %s: switch %s, bridge %s\n", p.NodeID, p.Switch, command.BridgeName(p.Switch))
		for _, c := range p.Bridge {
			fmt.Fprintln(w, c.String())
		}
		for _, port := range p.Ports {
			fmt.Fprintf(w, "# %s: %s %v\n", port.Interface, port.Connection, port.VLANs)
			for _, c := range port.Commands {
				fmt.Fprintln(w, c.String())
			}
		}
		for _, ierr := range p.Invalid {
			fmt.Fprintf(w, "# %s: skipped: %v\n", ierr.Interface, ierr.Err)
		}
	}

	if err := logReport(rt.logger, "plan", report); err != nil {
		return fmt.Errorf("vlanctl plan: %w", err)
	}
	return nil
}
