package main

import (
	"fmt"
	"os"

	"github.com/cuemby/printplan/pkg/log"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Planner - 3D-printing production scheduling engine",
	Long: `Planner turns a factory's projects, printers, materials and work
calendar into a planned schedule of print cycles, and keeps that schedule in
sync with a remote mirror.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("planner version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().String("data-dir", "./data", "BoltDB database file path")
	rootCmd.PersistentFlags().String("mirror-url", "", "Remote mirror base URL (empty disables remote sync)")
	rootCmd.PersistentFlags().String("mirror-token", "", "Remote mirror bearer token")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(recalculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(capacityCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}
