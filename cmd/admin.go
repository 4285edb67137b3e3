package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage who may change the shared categories",
}

var adminGrantCmd = &cobra.Command{
	Use:   "grant <email>",
	Short: "Give an account the admin role",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setAdmin(args[0], true)
	},
}

var adminRevokeCmd = &cobra.Command{
	Use:   "revoke <email>",
	Short: "Take the admin role away from an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setAdmin(args[0], false)
	},
}

func setAdmin(email string, admin bool) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	user, err := app.Auth.SetAdmin(context.Background(), email, admin)
	if err != nil {
		return err
	}
	if admin {
		fmt.Printf("%s is now an admin\n", user.Email)
	} else {
		fmt.Printf("%s is no longer an admin\n", user.Email)
	}
	return nil
}

func init() {
	adminCmd.AddCommand(adminGrantCmd, adminRevokeCmd)
}
