// Package cmd wires the vlanctl subcommands onto a shared runtime.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/vlanctl/internal/config"
)

var (
	cfgFile      string
	logLevel     string
	executorName string
	topologyFile string
)

var rootCmd = &cobra.Command{
	Use:   "vlanctl",
	Short: "Configure VLAN bridges on emulated Layer-2 switches",
	Long: `Every l2_switch node in the topology gets a bridge named br-<switch> with
VLAN filtering on. Its ports join as access ports (one untagged VLAN) or trunks
(tagged VLANs), and proxy ARP plus IPv4 forwarding are enabled along the way.

  vlanctl plan   --topology topo.yaml   show the commands
  vlanctl apply  --topology topo.yaml   run them
  vlanctl clean                         remove the bridges again`,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", config.DefaultPath, "YAML config; a missing file at the default path is ignored")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&executorName, "executor", "", "how commands reach a switch: shell or netlink")
	flags.StringVar(&topologyFile, "topology", "", "topology document (YAML or JSON)")

	SetVersionInfo("dev", "none", "unknown")
}

// SetVersionInfo records the build metadata printed by --version.
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("vlanctl {{.Version}} (commit %s, built %s)\n", commit, date))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
