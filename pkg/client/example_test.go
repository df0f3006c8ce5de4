package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/mahefa-ra/agentwatch/pkg/client"
)

// Example demonstrates basic usage of the AgentWatch client
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()

	alerts, err := c.Alerts().List(ctx, nil)
	if err != nil {
		log.Fatal(err)
	}

	for _, a := range alerts.Alerts {
		fmt.Printf("[%s] %s: %s\n", a.Severity, a.AgentID, a.Details)
	}
}

// ExampleAlertService_Dismiss demonstrates suppressing a finding
func ExampleAlertService_Dismiss() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()

	if err := c.Alerts().Dismiss(ctx, "off-hours-agent-7-2026-03-10"); err != nil {
		log.Fatal(err)
	}
}

// ExampleThresholdService_Update demonstrates tuning the detection rules
func ExampleThresholdService_Update() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	cfg, err := c.Thresholds().Get(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	cfg.RapidActionsCount = 20
	if err := c.Thresholds().Update(context.Background(), *cfg); err != nil {
		log.Fatal(err)
	}
}
