package cli

import (
	"fmt"
	"listings-service/internal"
	"listings-service/internal/configs"

	"github.com/spf13/cobra"
)

type configLoader func() (*configs.AppConfig, error)

func ServeCmd(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("error loading application configuration: %w", err)
			}

			app, err := internal.NewApp(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return app.Run()
		},
	}
}

func MigrateCmd(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the listings table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("error loading application configuration: %w", err)
			}
			return internal.Migrate(cmd.Context(), cfg)
		},
	}
}
