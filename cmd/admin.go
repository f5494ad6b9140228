package main

import (
	"context"
	"fmt"
	"time"

	"github.com/glefebvre/cineflix/internal/auth"
	"github.com/glefebvre/cineflix/internal/database"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	Long: `Create an account allowed to sign in to the admin API. Accounts are only
created from the command line; the API has no sign-up endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := database.Initialize(); err != nil {
			return err
		}
		defer database.Close()

		svc := auth.NewService(database.Get(), time.Duration(cfg.Auth.SessionTTLMinutes)*time.Minute)
		user, err := svc.CreateUser(context.Background(), email, password)
		if err != nil {
			return err
		}
		fmt.Printf("Created admin %s (%s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().String("email", "", "admin email address")
	adminCreateCmd.Flags().String("password", "", "admin password, at least 8 characters")
	adminCreateCmd.MarkFlagRequired("email")
	adminCreateCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(adminCreateCmd)
	rootCmd.AddCommand(adminCmd)
}
