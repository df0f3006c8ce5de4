package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mahefa-ra/agentwatch/pkg/client"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit log",
	}

	cmd.AddCommand(newAuditListCmd())
	cmd.AddCommand(newAuditRecordCmd())

	return cmd
}

func newAuditListCmd() *cobra.Command {
	var agentID, actionType string
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiClient.Audit().List(context.Background(), &client.AuditListOptions{
				AgentID:    agentID,
				ActionType: actionType,
				Page:       page,
				PageSize:   pageSize,
			})
			if err != nil {
				return fmt.Errorf("failed to list audit entries: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(result)
			}

			t := NewTable("TIME", "AGENT", "ACTION", "SIGNALEMENT", "ID")
			for _, e := range result.Data {
				t.AddRow(
					e.CreatedAt.Local().Format(time.RFC3339),
					e.AgentID,
					e.ActionType,
					e.SignalementID,
					e.ID,
				)
			}
			t.Render()

			fmt.Printf("\nPage %d of %d (%d entries)\n", result.Page, result.TotalPages, result.TotalItems)
			return nil
		},
	}

	cmd.Flags().StringVar(&agentID, "agent", "", "filter by agent ID")
	cmd.Flags().StringVar(&actionType, "action", "", "filter by action type")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "entries per page")

	return cmd
}

func newAuditRecordCmd() *cobra.Command {
	var agentID, actionType, signalementID string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Ingest one audit entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := apiClient.Audit().Record(context.Background(), client.RecordAuditRequest{
				AgentID:       agentID,
				ActionType:    actionType,
				SignalementID: signalementID,
			})
			if err != nil {
				return fmt.Errorf("failed to record audit entry: %w", err)
			}

			fmt.Printf("Recorded entry %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&agentID, "agent", "", "agent ID (required)")
	cmd.Flags().StringVar(&actionType, "action", "", "action type (required)")
	cmd.Flags().StringVar(&signalementID, "signalement", "", "signalement ID")
	_ = cmd.MarkFlagRequired("agent")
	_ = cmd.MarkFlagRequired("action")

	return cmd
}
