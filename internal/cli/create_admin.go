package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/easycontent/contentgen/internal/config"
	"github.com/easycontent/contentgen/internal/database"
	"github.com/easycontent/contentgen/internal/repository"
	"github.com/easycontent/contentgen/internal/service"
)

var adminInput service.RegisterInput

// createAdminCmd bootstraps the first administrator, since the API only
// lets existing admins promote accounts.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Creates an administrator account",
	Long: `Creates an active administrator account directly in the database. Usage:

	contentgen create-admin --username root --email root@example.com --password s3cret!
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		db, err := database.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		auth := service.NewAuthService(repository.NewUserRepo(db), nil, cfg.BcryptCost, nil)
		u, err := auth.CreateAdmin(cmd.Context(), adminInput)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %q (id=%d)\n", u.Username, u.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVar(&adminInput.Username, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminInput.Email, "email", "", "admin email address")
	createAdminCmd.Flags().StringVar(&adminInput.Password, "password", "", "admin password (min 6 characters)")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
