package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newThresholdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threshold",
		Short: "Manage detection thresholds",
	}

	cmd.AddCommand(newThresholdGetCmd())
	cmd.AddCommand(newThresholdSetCmd())
	cmd.AddCommand(newThresholdResetCmd())

	return cmd
}

func newThresholdGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the active threshold configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := apiClient.Thresholds().Get(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get thresholds: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(cfg)
			}

			t := NewTable("SETTING", "VALUE")
			t.AddRow("rapidActionsCount", strconv.Itoa(cfg.RapidActionsCount))
			t.AddRow("rapidActionsWindowMinutes", strconv.Itoa(cfg.RapidActionsWindowMinutes))
			t.AddRow("massStatusChangesCount", strconv.Itoa(cfg.MassStatusChangesCount))
			t.AddRow("massStatusChangesWindowMinutes", strconv.Itoa(cfg.MassStatusChangesWindowMinutes))
			t.AddRow("massRejectionsCount", strconv.Itoa(cfg.MassRejectionsCount))
			t.AddRow("massRejectionsWindowMinutes", strconv.Itoa(cfg.MassRejectionsWindowMinutes))
			t.AddRow("quickResolutionMinutes", strconv.Itoa(cfg.QuickResolutionMinutes))
			t.AddRow("offHoursStart", strconv.Itoa(cfg.OffHoursStart))
			t.AddRow("offHoursEnd", strconv.Itoa(cfg.OffHoursEnd))
			t.AddRow("notifyEmail", strconv.FormatBool(cfg.NotifyEmail))
			t.AddRow("notifyInApp", strconv.FormatBool(cfg.NotifyInApp))
			t.Render()
			return nil
		},
	}
}

// setters maps flag names to config fields for threshold set.
func newThresholdSetCmd() *cobra.Command {
	var (
		rapidCount, rapidWindow   int
		statusCount, statusWindow int
		rejectCount, rejectWindow int
		quickMinutes              int
		offStart, offEnd          int
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update threshold settings",
		Long: `Update threshold settings. Unset flags keep their current values;
the resulting configuration replaces the active one atomically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := apiClient.Thresholds().Get(ctx)
			if err != nil {
				return fmt.Errorf("failed to get thresholds: %w", err)
			}

			if cmd.Flags().Changed("rapid-count") {
				cfg.RapidActionsCount = rapidCount
			}
			if cmd.Flags().Changed("rapid-window") {
				cfg.RapidActionsWindowMinutes = rapidWindow
			}
			if cmd.Flags().Changed("status-count") {
				cfg.MassStatusChangesCount = statusCount
			}
			if cmd.Flags().Changed("status-window") {
				cfg.MassStatusChangesWindowMinutes = statusWindow
			}
			if cmd.Flags().Changed("reject-count") {
				cfg.MassRejectionsCount = rejectCount
			}
			if cmd.Flags().Changed("reject-window") {
				cfg.MassRejectionsWindowMinutes = rejectWindow
			}
			if cmd.Flags().Changed("quick-minutes") {
				cfg.QuickResolutionMinutes = quickMinutes
			}
			if cmd.Flags().Changed("off-hours-start") {
				cfg.OffHoursStart = offStart
			}
			if cmd.Flags().Changed("off-hours-end") {
				cfg.OffHoursEnd = offEnd
			}

			if err := apiClient.Thresholds().Update(ctx, *cfg); err != nil {
				return fmt.Errorf("failed to update thresholds: %w", err)
			}

			fmt.Println("Thresholds updated")
			return nil
		},
	}

	cmd.Flags().IntVar(&rapidCount, "rapid-count", 0, "rapid actions count threshold")
	cmd.Flags().IntVar(&rapidWindow, "rapid-window", 0, "rapid actions window in minutes")
	cmd.Flags().IntVar(&statusCount, "status-count", 0, "mass status changes count threshold")
	cmd.Flags().IntVar(&statusWindow, "status-window", 0, "mass status changes window in minutes")
	cmd.Flags().IntVar(&rejectCount, "reject-count", 0, "mass rejections count threshold")
	cmd.Flags().IntVar(&rejectWindow, "reject-window", 0, "mass rejections window in minutes")
	cmd.Flags().IntVar(&quickMinutes, "quick-minutes", 0, "quick resolution threshold in minutes")
	cmd.Flags().IntVar(&offStart, "off-hours-start", 0, "off-hours range start (0-23)")
	cmd.Flags().IntVar(&offEnd, "off-hours-end", 0, "off-hours range end (0-23)")

	return cmd
}

func newThresholdResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := apiClient.Thresholds().Reset(context.Background())
			if err != nil {
				return fmt.Errorf("failed to reset thresholds: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(cfg)
			}

			fmt.Println("Thresholds reset to defaults")
			return nil
		},
	}
}
