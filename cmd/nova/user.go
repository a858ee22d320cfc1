package main

import (
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username> <email> <password>",
	Short: "Register an account",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := getStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := store.CreateUser(ctx, args[0], args[1], args[2])
		if err != nil {
			return reportStorageError(err)
		}
		logger.Info("Created user", "id", user.ID, "username", novaStyle.Render(user.Username))
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show <username>",
	Short: "Show an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := getStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := store.GetUserByUsername(ctx, args[0])
		if err != nil {
			return reportStorageError(err)
		}

		println(novaStyle.Render(user.Username) + " " + dimStyle.Render("<"+user.Email+">"))
		println("  " + dimStyle.Render("registered:") + " " + user.RegistrationDate.Format("2006-01-02"))
		if user.LastLogin != nil {
			println("  " + dimStyle.Render("last login:") + " " + user.LastLogin.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

// Deleting a user takes their notes and history with them, so it sits
// behind the same --yes gate as history clear.
var userDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete an account and everything it owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			logger.Error("This deletes the account, its notes and its history; re-run with --yes to confirm")
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := getStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := store.GetUserByUsername(ctx, args[0])
		if err != nil {
			return reportStorageError(err)
		}
		if err := store.DeleteUser(ctx, user.ID); err != nil {
			return reportStorageError(err)
		}
		logger.Info("Deleted user", "username", args[0])
		return nil
	},
}

func init() {
	userDeleteCmd.Flags().Bool("yes", false, "confirm deletion")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userDeleteCmd)
}
