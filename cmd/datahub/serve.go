package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/databroker/datahub/pkg/datahub"
)

func newServeCmd() *cobra.Command {
	var adminPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the hub, serving metrics and applying an optional admin config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := datahub.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			backupOpt, err := datahub.WithSQLiteBackup(cfg.Backup.Dir)
			if err != nil {
				return fmt.Errorf("open backup store: %w", err)
			}
			obs := datahub.NewPrometheusObservability()
			h := datahub.NewHub(datahub.WithObservability(obs), backupOpt)

			if adminPath != "" {
				raw, err := os.ReadFile(adminPath)
				if err != nil {
					return fmt.Errorf("read admin config: %w", err)
				}
				adminCfg, err := datahub.ValidateAdminConfig(raw)
				if err != nil {
					return fmt.Errorf("admin config: %w", err)
				}
				if err := datahub.ApplyAdminConfig(h, adminCfg); err != nil {
					return fmt.Errorf("apply admin config: %w", err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- datahub.ServeMetrics(cfg.Metrics.Addr) }()

			select {
			case <-ctx.Done():
				return nil
			case err := <-errCh:
				return err
			}
		},
	}
	cmd.Flags().StringVar(&adminPath, "admin-config", "", "optional admin observation/state config to apply at startup")
	return cmd
}
