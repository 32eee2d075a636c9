package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "auth", Short: "Authentication commands"}

	var email, password string
	login := &cobra.Command{
		Use:   "login",
		Short: "Login and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Email: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil {
					return err
				}
				email = strings.TrimSpace(line)
			}
			if password == "" {
				pass, err := promptPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = string(pass)
			}
			user, err := a.manager.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Email, user.Role)
			fmt.Fprintf(cmd.OutOrStdout(), "Dashboard: %s\n", user.Role.DashboardPath())
			return nil
		},
	}
	login.Flags().StringVar(&email, "email", "", "login email (prompted when omitted)")
	login.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.AddCommand(login)

	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Run: func(cmd *cobra.Command, args []string) {
			a.manager.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.manager.Hydrate(cmd.Context())
			user, ok := a.manager.CurrentUser()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			return printJSON(cmd, user)
		},
	})

	return cmd
}

func promptPassword(cmd *cobra.Command, prompt string) ([]byte, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		pass, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.OutOrStdout())
		return pass, err
	}
	// Piped stdin (tests, scripts): read a line instead.
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return nil, err
	}
	return []byte(strings.TrimSpace(line)), nil
}
