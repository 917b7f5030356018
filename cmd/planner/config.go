package main

import (
	"fmt"

	"github.com/cuemby/printplan/pkg/config"
	"github.com/cuemby/printplan/pkg/store"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage factory settings",
}

var configLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load factory settings from a YAML file into the data store",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		dataDir, _ := cmd.Flags().GetString("data-dir")

		settings, err := config.LoadFactorySettings(file)
		if err != nil {
			return fmt.Errorf("load factory settings: %w", err)
		}

		st, err := store.NewBoltStore(dataDir)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := st.WriteFactorySettings(settings); err != nil {
			return fmt.Errorf("write factory settings: %w", err)
		}

		fmt.Printf("✓ Factory settings loaded from %s\n", file)
		return nil
	},
}

func init() {
	configLoadCmd.Flags().StringP("file", "f", "", "YAML factory settings file (required)")
	_ = configLoadCmd.MarkFlagRequired("file")

	configCmd.AddCommand(configLoadCmd)
}
