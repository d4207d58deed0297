package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parkqr/parking/internal/auth"
	"github.com/parkqr/parking/internal/db"
	"github.com/parkqr/parking/internal/repository/postgresql"
)

const passwordEnv = "PARKCTL_ADMIN_PASSWORD"

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(adminCreateCmd())
	cmd.AddCommand(hashPasswordCmd())
	return cmd
}

func adminCreateCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account in the row store",
		Long: `Create an admin account in the row store.

The password is read from --password or, when the flag is omitted, from
` + passwordEnv + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			if username == "" || password == "" {
				return fmt.Errorf("--username and a password are required")
			}

			cfg, err := loadDatabaseConfig()
			if err != nil {
				return err
			}
			database, err := db.NewDb(cmd.Context(), cfg.DSN())
			if err != nil {
				return err
			}
			defer database.Close()

			authenticator := auth.NewAuthenticator(postgresql.NewAdminUserRepo(database))
			if err := authenticator.CreateUser(cmd.Context(), username, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password (prefer "+passwordEnv+")")
	return cmd
}

// hashPasswordCmd prints a bcrypt hash for ADMIN_PASSWORD_HASH.
func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashed, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hashed)
			return nil
		},
	}
}
