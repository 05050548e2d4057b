package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the accounts CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Member accounts service",
		Long: `accounts registers members and authenticates them with short-lived
JWT access tokens and HttpOnly refresh cookies.

Configuration is read from the environment (JWT_SECRET, MONGO_URI, ...).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewCreateSuperuserCmd())

	return cmd
}
