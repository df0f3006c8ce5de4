package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mahefa-ra/agentwatch/pkg/client"
)

func newAlertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Review suspicious-activity alerts",
	}

	cmd.AddCommand(newAlertListCmd())
	cmd.AddCommand(newAlertSummaryCmd())
	cmd.AddCommand(newAlertEvaluateCmd())
	cmd.AddCommand(newAlertDismissCmd())
	cmd.AddCommand(newAlertRestoreCmd())
	cmd.AddCommand(newAlertDismissedCmd())

	return cmd
}

func newAlertListCmd() *cobra.Command {
	var includeDismissed bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts, most urgent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			list, err := apiClient.Alerts().List(ctx, &client.AlertListOptions{
				IncludeDismissed: includeDismissed,
			})
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(list)
			}

			t := NewTable("SEVERITY", "RULE", "AGENT", "TIME", "DETAILS")
			for _, a := range list.Alerts {
				agent := a.AgentName
				if agent == "" {
					agent = a.AgentID
				}
				details := a.Details
				if a.Dismissed {
					details += " (dismissed)"
				}
				t.AddRow(a.Severity, a.RuleType, agent, a.Timestamp.Local().Format(time.RFC3339), details)
			}
			t.Render()

			if !list.EvaluatedAt.IsZero() {
				fmt.Printf("\nEvaluated at %s\n", list.EvaluatedAt.Local().Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeDismissed, "include-dismissed", false, "include dismissed alerts")
	return cmd
}

func newAlertSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show active alert counts per severity",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := apiClient.Alerts().Summary(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get summary: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(summary)
			}

			t := NewTable("CRITICAL", "WARNING", "INFO", "TOTAL")
			t.AddRow(
				fmt.Sprint(summary.Critical),
				fmt.Sprint(summary.Warning),
				fmt.Sprint(summary.Info),
				fmt.Sprint(summary.Total),
			)
			t.Render()
			return nil
		},
	}
}

func newAlertEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "Trigger a re-evaluation cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Alerts().Evaluate(context.Background()); err != nil {
				return fmt.Errorf("failed to trigger evaluation: %w", err)
			}
			fmt.Println("Evaluation triggered")
			return nil
		},
	}
}

func newAlertDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <alert-id>",
		Short: "Dismiss an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Alerts().Dismiss(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to dismiss alert: %w", err)
			}
			fmt.Printf("Alert %s dismissed\n", args[0])
			return nil
		},
	}
}

func newAlertRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <alert-id>",
		Short: "Restore a dismissed alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Alerts().Restore(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to restore alert: %w", err)
			}
			fmt.Printf("Alert %s restored\n", args[0])
			return nil
		},
	}
}

func newAlertDismissedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismissed",
		Short: "List dismissed alert IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := apiClient.Alerts().ListDismissed(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list dismissed alerts: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(ids)
			}

			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
}
