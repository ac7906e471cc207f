// Command regkeymap lists the registry keys behind the integer key IDs of a
// firmware's registry manager, with their read/write permissions.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "regkeymap",
		Short:        "Resolve registry manager key IDs to registry key paths",
		SilenceUsage: true,
	}

	root.AddCommand(newResolveCmd(), newFindCmd(), newInspectCmd(), newSaveCmd())

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
