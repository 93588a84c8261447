package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "mcc",
		Short: "Manage recipes and pantry items on a cook server",
		Long: `mcc is a terminal client for a self-hosted recipe and pantry server.

Configuration is read from ~/.config/mcc/config.yaml, a .env file in the
working directory, and MCC_* environment variables (e.g. MCC_SERVER_URL).`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
	}
	root.PersistentFlags().StringVar(&a.server, "server", "", "Server base URL (overrides server.url)")

	root.AddCommand(
		newLoginCmd(a),
		newSignupCmd(a),
		newLogoutCmd(a),
		newInfoCmd(a),
		newStatsCmd(a),
		newLabelsCmd(a),
		newRecipesCmd(a),
		newRecipeCmd(a),
		newPantryCmd(a),
	)
	return root
}

// commandContext is cancelled on SIGINT or SIGTERM
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
