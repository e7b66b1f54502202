package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/its-jojoo/clipshelf/internal/adapter/prefs"
	"github.com/its-jojoo/clipshelf/internal/core"
)

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <user-id>",
		Short: "Sign in as user-id on this machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session().Login(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed in as", args[0])
			return nil
		},
	}
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session().Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.session().RequireUser()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), uid)
			return nil
		},
	}
}

func (a *app) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Show or set the colour theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(core.ThemeLight), string(core.ThemeDark), string(core.ThemeSystem)},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := prefs.New(a.cfg.DataDir)
			if len(args) == 0 {
				th, err := p.Theme()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), th)
				return nil
			}
			th, ok := core.ParseTheme(args[0])
			if !ok {
				return fmt.Errorf("unknown theme %q", args[0])
			}
			if err := p.SetTheme(th); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "theme set to", th)
			return nil
		},
	}
}
