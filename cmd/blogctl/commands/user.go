package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/blogicum/internal/service"
	"github.com/spf13/cobra"
)

func userCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(userCreateCmd(a), userListCmd(a), userDeleteCmd(a))
	return cmd
}

func userCreateCmd(a *app) *cobra.Command {
	var username, password, email string

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Register a new account",
		Example: `  blogctl user create --username alice --password 's3cret-pass'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := a.database()
			if err != nil {
				return err
			}
			users := service.NewUserService(gdb)
			user, err := users.Register(service.RegistrationInput{
				Username:  username,
				Password1: password,
				Password2: password,
			})
			if err != nil {
				return err
			}
			if email != "" {
				if user, err = users.UpdateProfile(user.ID, service.ProfileInput{Username: user.Username, Email: email}); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login name")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 8 characters")
	cmd.Flags().StringVar(&email, "email", "", "Optional e-mail address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func userListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := a.database()
			if err != nil {
				return err
			}
			users, err := service.NewUserService(gdb).List()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tEMAIL")
			for _, user := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", user.ID, user.Username, user.FullName(), user.Email)
			}
			return w.Flush()
		},
	}
}

func userDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete an account with its posts and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := a.database()
			if err != nil {
				return err
			}
			users := service.NewUserService(gdb)
			user, err := users.GetByUsername(args[0])
			if err != nil {
				return err
			}
			if err := users.Delete(user.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", user.Username)
			return nil
		},
	}
}
