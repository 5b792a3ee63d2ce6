package server

import (
	"context"
	"fmt"

	"github.com/samanvaya/samanvaya/internal/agent"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	config "github.com/samanvaya/samanvaya/internal/config/server"
)

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Samanvaya API server",
		Long: `Start the Samanvaya API server.

The metadata store is migrated and the configured bootstrap users and
category information are seeded before the HTTP listener starts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig()
			if err != nil {
				return fmt.Errorf("failed to load server configuration: %w", err)
			}

			return agent.NewAgent(cfg).Serve(context.Background())
		},
	}

	cmd.Flags().String("address", "", "HTTP listen address (overrides http.address)")
	viper.BindPFlag("http.address", cmd.Flags().Lookup("address"))

	return cmd
}
