package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/easycontent/contentgen/internal/config"
	"github.com/easycontent/contentgen/internal/server"
)

var activityLogDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API",
	Long: `Starts the HTTP API. Configuration comes from the environment and an
optional .env file. Usage:

	contentgen serve --activity-log-dir logs
`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	srv, err := server.New(cmd.Context(), cfg, server.Options{ActivityLogDir: activityLogDir})
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	if err := srv.Start(cmd.Context()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.PersistentFlags().StringVar(&activityLogDir, "activity-log-dir", "logs", "directory the activity consumer writes activity.log into")
}
