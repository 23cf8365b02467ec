// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/toeirei/fleetmaster/internal/i18n"
)

func newLoginCmd() *cobra.Command {
	var dev bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appConfig)
			if err != nil {
				return err
			}
			if dev {
				sess, err := a.DevLogin()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.signed_in", sess.Subject))
				return nil
			}
			sess, err := a.Login(cmd.Context(), func(url string) error {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("login.open_url"))
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			})
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.signed_in", sess.Subject))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dev, "dev", false, "Mint a local development token instead of the configured flow")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appConfig)
			if err != nil {
				return err
			}
			if err := a.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.signed_out"))
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the sign-in state and the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appConfig)
			if err != nil {
				return err
			}
			id := a.Identity()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "store: %s\n", a.Gateway.BaseURL())
			fmt.Fprintf(out, "auth mode: %s\n", id.Mode)
			fmt.Fprintf(out, "authenticated: %t\n", id.Authenticated)
			if id.Subject != "" {
				fmt.Fprintf(out, "subject: %s\n", id.Subject)
			}
			if !id.Expiry.IsZero() {
				fmt.Fprintf(out, "expires: %s (%s)\n", id.Expiry.Format("2006-01-02 15:04:05 MST"), humanize.Time(id.Expiry))
			}
			return nil
		},
	}
}
