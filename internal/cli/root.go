package cli

import (
	"listings-service/internal/configs"

	"github.com/spf13/cobra"
)

// NewRootCmd собирает корневую команду. Без подкоманды запускается serve.
func NewRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "listings-service",
		Short:         "Marketplace of businesses for sale",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default: ./.env if present)")

	loadConfig := func() (*configs.AppConfig, error) {
		return configs.LoadConfig(envFile)
	}

	serveCmd := ServeCmd(loadConfig)
	rootCmd.AddCommand(serveCmd, MigrateCmd(loadConfig))
	rootCmd.RunE = serveCmd.RunE

	return rootCmd
}
