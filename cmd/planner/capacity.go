package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Show printing capacity for the week starting on a given date",
	RunE: func(cmd *cobra.Command, args []string) error {
		weekFlag, _ := cmd.Flags().GetString("week")
		weekStart, err := time.Parse("2006-01-02", weekFlag)
		if err != nil {
			return fmt.Errorf("parse --week: %w", err)
		}

		c, err := newCoordinator(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		info, err := c.CalculateWeekCapacity(weekStart)
		if err != nil {
			return fmt.Errorf("calculate week capacity: %w", err)
		}

		fmt.Printf("Week of %s:\n", info.WeekStart.Format("2006-01-02"))
		fmt.Printf("  hours available:  %.1f\n", info.HoursAvailable)
		fmt.Printf("  hours scheduled:  %.1f\n", info.HoursScheduled)
		fmt.Printf("  utilization:      %.0f%%\n", info.UtilizationRatio*100)
		fmt.Printf("  estimated spare capacity: %d units\n", info.EstimatedUnitsCapacity)
		return nil
	},
}

func init() {
	capacityCmd.Flags().String("week", time.Now().Format("2006-01-02"), "Monday of the week to inspect (YYYY-MM-DD)")
}
