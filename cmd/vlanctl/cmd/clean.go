package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/plexsphere/vlanctl/internal/vlan"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the VLAN bridges from every switch",
	Long: "Bring br-<switch> down and delete it on every live switch, whether or not\n" +
		"it was configured. Missing bridges are reported and cleanup continues.",
	SilenceUsage: true,
	RunE:         runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd.ErrOrStderr(), false)
	if err != nil {
		return fmt.Errorf("vlanctl clean: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	report := vlan.NewCleaner(rt.net, rt.logger).Clean(ctx)
	if err := logReport(rt.logger, "clean", report); err != nil {
		return fmt.Errorf("vlanctl clean: %w", err)
	}
	return nil
}
