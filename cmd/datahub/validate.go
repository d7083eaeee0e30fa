package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/databroker/datahub/pkg/datahub"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the hub's runtime configuration file without starting it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := datahub.LoadConfig(configPath); err != nil {
				return err
			}
			fmt.Printf("%s is valid\n", configPath)
			return nil
		},
	}
}

func newValidateAdminCmd() *cobra.Command {
	var adminPath string
	cmd := &cobra.Command{
		Use:   "validate-admin",
		Short: "Schema-validate an admin observation/state config document",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(adminPath)
			if err != nil {
				return err
			}
			cfg, err := datahub.ValidateAdminConfig(raw)
			if err != nil {
				return err
			}
			fmt.Printf("%s is valid: %d observation(s), %d state assignment(s)\n", adminPath, len(cfg.Observations), len(cfg.State))
			return nil
		},
	}
	cmd.Flags().StringVar(&adminPath, "file", "", "path to the admin config document")
	cmd.MarkFlagRequired("file")
	return cmd
}
