package main

import (
	"github.com/cuemby/printplan/pkg/coordinator"
	"github.com/spf13/cobra"
)

// newCoordinator builds a Coordinator from the root command's persistent
// flags, shared by every subcommand that needs one.
func newCoordinator(cmd *cobra.Command) (*coordinator.Coordinator, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	mirrorURL, _ := cmd.Flags().GetString("mirror-url")
	mirrorToken, _ := cmd.Flags().GetString("mirror-token")

	return coordinator.New(coordinator.Config{
		DataDir:       dataDir,
		MirrorBaseURL: mirrorURL,
		MirrorToken:   mirrorToken,
	})
}
