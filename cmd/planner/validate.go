package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run integrity checks against the persisted plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCoordinator(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		result, err := c.ValidateExistingPlan()
		if err != nil {
			return fmt.Errorf("validate plan: %w", err)
		}

		if result.IsValid {
			fmt.Println("✓ Plan is valid")
			return nil
		}

		fmt.Printf("✗ Plan has %d issue(s):\n", len(result.Issues))
		for _, issue := range result.Issues {
			fmt.Printf("  [%s] cycle=%s printer=%s project=%s: %s\n",
				issue.Check, issue.CycleID, issue.PrinterID, issue.ProjectID, issue.Detail)
		}
		return nil
	},
}
