// Command tangle runs a DAG ledger node, or manages the keys and
// snapshots one needs, grounded on babble's cmd/babble/main.go.
package main

import (
	"errors"
	"os"

	"github.com/joshuadahlunr/tangle/cmd/tangle/commands"
)

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		if errors.Is(err, commands.ErrNetworkConnect) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
