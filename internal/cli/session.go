package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Email    string
	Password string
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		Long: `Log in with email and password and print the issued access token.

Example:
  export SUBWAY_TOKEN=$(subway login --email me@example.com --password secret -q)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "member email")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password (read from stdin when empty)")
	cmd.Flags().BoolP("quiet", "q", false, "print only the token")

	return cmd
}

func runLogin(cmd *cobra.Command, opts *LoginOptions) error {
	if opts.Email == "" {
		return fmt.Errorf("--email is required")
	}
	password := opts.Password
	if password == "" {
		p, err := readLine(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = p
	}

	a, err := newApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if _, err := a.client.Login(ctx, opts.Email, password).Await(ctx); err != nil {
		return commandError(a.client.Session.State().LoginStatus.Message, err)
	}

	s := a.client.Session.State()
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		fmt.Fprintln(cmd.OutOrStdout(), s.Token)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", s.Email)
	fmt.Fprintf(cmd.OutOrStdout(), "token: %s\n", s.Token)
	return nil
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the member owning the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.resume(cmd.Context(), opts.Token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.client.Session.State().Email)
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
