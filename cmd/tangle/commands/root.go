// Package commands implements the tangle CLI's subcommands, grounded
// on babble's cmd/babble/commands package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/joshuadahlunr/tangle/config"
)

var appConfig = config.NewDefaultConfig()

// RootCmd is the root command for the tangle CLI.
var RootCmd = &cobra.Command{
	Use:              "tangle",
	Short:            "tangle DAG ledger node",
	TraverseChildren: true,
	SilenceUsage:     true,
}

func init() {
	RootCmd.AddCommand(NewKeygenCmd())
	RootCmd.AddCommand(NewRunCmd())
	RootCmd.AddCommand(NewPeerCmd())
}
