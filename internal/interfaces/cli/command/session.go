package command

import (
	"fmt"

	"github.com/erp/client/internal/bootstrap"
	"github.com/erp/client/internal/domain/identity"
	"github.com/erp/client/internal/interfaces/cli"
	"github.com/spf13/cobra"
)

func newLoginCommand(o *options) *cobra.Command {
	var creds identity.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prompter := cli.NewPrompter(isTerminal(o.stdin), false)
			filled, err := prompter.Credentials(cmd.Context(), creds)
			if err != nil {
				return fmt.Errorf("username and password are required: %w", err)
			}

			return o.withClient(cmd, func(c *bootstrap.Client) error {
				if err := c.Session.Login(cmd.Context(), filled); err != nil {
					return err
				}
				if !c.Session.IsLoggedIn() {
					return fmt.Errorf("login succeeded but the user profile could not be loaded")
				}
				user := c.Session.CurrentUser()
				fmt.Fprintf(o.stdout, "已登录: %s (%s)\n", user.FullName, user.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "password")
	return cmd
}

func newLogoutCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withClient(cmd, func(c *bootstrap.Client) error {
				c.Session.Logout(cmd.Context())
				fmt.Fprintln(o.stdout, "已退出登录")
				return nil
			})
		},
	}
}

func newWhoamiCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the saved user profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withClient(cmd, func(c *bootstrap.Client) error {
				if !c.Session.IsLoggedIn() {
					return fmt.Errorf("not logged in")
				}
				return o.printJSON(c.Session.CurrentUser())
			})
		},
	}
}
