package main

import (
	"context"
	"fmt"

	"github.com/cuemby/printplan/pkg/recalculator"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run a replan from now, without locking in-progress cycles",
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")

		c, err := newCoordinator(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		result, err := c.RunReplanNow(context.Background(), reason)
		if err != nil {
			return fmt.Errorf("run replan: %w", err)
		}
		printRecalculateResult(result)
		return nil
	},
}

var recalculateCmd = &cobra.Command{
	Use:   "recalculate",
	Short: "Recalculate the plan over an explicit scope",
	RunE: func(cmd *cobra.Command, args []string) error {
		scopeFlag, _ := cmd.Flags().GetString("scope")
		lockInProgress, _ := cmd.Flags().GetBool("lock-in-progress")
		reason, _ := cmd.Flags().GetString("reason")

		scope, err := parseScope(scopeFlag)
		if err != nil {
			return err
		}

		c, err := newCoordinator(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		result, err := c.RecalculatePlan(context.Background(), scope, lockInProgress, reason)
		if err != nil {
			return fmt.Errorf("recalculate plan: %w", err)
		}
		printRecalculateResult(result)
		return nil
	},
}

func init() {
	planCmd.Flags().String("reason", "manual", "Reason recorded in the planning log")

	recalculateCmd.Flags().String("scope", "from_now", "Replan scope: from_now, from_tomorrow, whole_week")
	recalculateCmd.Flags().Bool("lock-in-progress", false, "Preserve in-progress cycles even if not manually locked")
	recalculateCmd.Flags().String("reason", "manual", "Reason recorded in the planning log")
}

func parseScope(s string) (recalculator.Scope, error) {
	switch s {
	case string(recalculator.ScopeFromNow):
		return recalculator.ScopeFromNow, nil
	case string(recalculator.ScopeFromTomorrow):
		return recalculator.ScopeFromTomorrow, nil
	case string(recalculator.ScopeWholeWeek):
		return recalculator.ScopeWholeWeek, nil
	default:
		return "", fmt.Errorf("unknown scope %q (want from_now, from_tomorrow, or whole_week)", s)
	}
}

func printRecalculateResult(result *recalculator.Result) {
	fmt.Printf("✓ Plan generated: %d preserved, %d created, %d discarded, %d units\n",
		result.CyclesPreserved, result.CyclesCreated, result.CyclesDiscarded, result.UnitsPlanned)
	if !result.CloudSyncSuccess {
		if result.Deferred {
			fmt.Println("  remote sync deferred")
		} else {
			fmt.Println("  remote sync failed")
		}
	}
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	for _, issue := range result.Issues {
		fmt.Printf("  issue: %s\n", issue)
	}
}
