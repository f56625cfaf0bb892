package commands

import (
	"fmt"

	"north_staffing_backend/internal/config"

	"github.com/spf13/cobra"
)

var createAdminFlags struct {
	name     string
	email    string
	password string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	Long:  "Create an admin account. Email and password default to ADMIN_EMAIL and ADMIN_PASSWORD.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Database.Driver == config.DriverMemory {
			return fmt.Errorf("create-admin needs a persistent store, STORE_DRIVER is %s", config.DriverMemory)
		}

		email, password := createAdminFlags.email, createAdminFlags.password
		if email == "" {
			email = cfg.AdminEmail
		}
		if password == "" {
			password = cfg.AdminPassword
		}

		store, err := openStore(cfg, true)
		if err != nil {
			return err
		}
		defer store.Close()

		created, err := ensureAdmin(cmd.Context(), store, createAdminFlags.name, email, password)
		if err != nil {
			return err
		}
		if !created {
			fmt.Fprintf(cmd.OutOrStdout(), "User %s already exists.\n", email)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created.\n", email)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&createAdminFlags.name, "name", "Administrator", "full name")
	createAdminCmd.Flags().StringVar(&createAdminFlags.email, "email", "", "login email (default $ADMIN_EMAIL)")
	createAdminCmd.Flags().StringVar(&createAdminFlags.password, "password", "", "password (default $ADMIN_PASSWORD)")
}
