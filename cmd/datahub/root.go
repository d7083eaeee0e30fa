// Command datahub runs and administers a standalone Data Hub process.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "datahub",
		Short: "Data Hub: an in-process telemetry broker for producers and consumers",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "./data/config.yaml", "path to the hub's runtime configuration file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newValidateAdminCmd())
	root.AddCommand(newStatsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
