package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show service status and alert summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if getOutputFormat() != "table" {
				summary := map[string]interface{}{}

				if health, err := apiClient.Ready(ctx); err == nil {
					summary["status"] = health.Status
					summary["database"] = health.Database
				} else {
					summary["status"] = fmt.Sprintf("unreachable: %v", err)
				}
				if counts, err := apiClient.Alerts().Summary(ctx); err == nil {
					summary["alerts"] = counts
				}
				return printOutput(summary)
			}

			fmt.Println("AgentWatch")
			fmt.Println(strings.Repeat("=", 40))

			health, err := apiClient.Ready(ctx)
			if err != nil {
				fmt.Printf("  Service:   (unreachable: %v)\n", err)
				return nil
			}
			fmt.Printf("  Service:   %s\n", health.Status)
			fmt.Printf("  Database:  %s\n", health.Database)

			counts, err := apiClient.Alerts().Summary(ctx)
			if err != nil {
				fmt.Printf("  Alerts:    (error: %v)\n", err)
				return nil
			}
			fmt.Printf("  Alerts:    %d active (%d critical, %d warning, %d info)\n",
				counts.Total, counts.Critical, counts.Warning, counts.Info)

			return nil
		},
	}
}
