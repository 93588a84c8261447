package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mmcdole/mcc/internal/adapter"
)

func newLoginCmd(a *app) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := a.serverURL()
			if err != nil {
				return err
			}
			creds, err := promptCredentials("Log in to "+server, username)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()
			session, err := a.account.Login(ctx, server, creds)
			if err != nil {
				return err
			}

			a.cfg.Server.URL = server
			if err := adapter.SaveConfig(a.cfg); err != nil {
				a.logger.Warn("failed to save server url", "error", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s\n", session.APIBaseURL, creds.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted when empty)")
	return cmd
}

func newSignupCmd(a *app) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := a.serverURL()
			if err != nil {
				return err
			}
			creds, err := promptCredentials("Create an account on "+server, username)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()
			user, err := a.account.Signup(ctx, server, creds)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created account %s. Run `mcc login` to start.\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted when empty)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.account.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the server version and whether it accepts signups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := a.serverURL()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()
			info, err := a.account.Info(ctx, server)
			if err != nil {
				return err
			}

			signups := "disabled"
			if info.AccountCreation {
				signups = "enabled"
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Server:   %s\n", server)
			fmt.Fprintf(w, "Version:  %s\n", info.Version)
			fmt.Fprintf(w, "Signups:  %s\n", signups)
			if s, ok := a.sessions.Current(); ok {
				fmt.Fprintf(w, "Session:  %s\n", s.APIBaseURL)
			} else {
				fmt.Fprintln(w, "Session:  not logged in")
			}
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show counters for your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			stats, err := a.account.Stats(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Recipes:       %d\n", stats.RecipeCount)
			fmt.Fprintf(w, "Pantry items:  %d\n", stats.PantryItemCount)
			fmt.Fprintf(w, "Labels:        %d\n", stats.LabelCount)
			fmt.Fprintf(w, "Users:         %d\n", stats.UserCount)
			return nil
		},
	}
}

func newLabelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "labels [query]",
		Short: "List labels, or those matching a fuzzy query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			w := cmd.OutOrStdout()

			if len(args) == 0 {
				labels, err := a.labels.Fetch(ctx)
				if err != nil {
					return err
				}
				sorted := append([]string(nil), labels...)
				sort.Strings(sorted)
				for _, label := range sorted {
					fmt.Fprintln(w, label)
				}
				return nil
			}

			matches, err := a.labels.Suggest(ctx, args[0])
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Fprintf(w, "No labels match %q\n", args[0])
			}
			for _, m := range matches {
				fmt.Fprintln(w, m.Label)
			}
			return nil
		},
	}
}
