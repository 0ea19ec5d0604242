package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cloudbees-io/deployment-auto-approval/internal/auto_approval"
)

var (
	cmd = &cobra.Command{
		Use:   "deployment-auto-approval",
		Short: "Auto-approve pending deployment reviews for eligible reviewers",
		Long: "Approve the pending deployment reviews of the current workflow run for the requested environment " +
			"when the actor is one of its required reviewers, directly or through team membership.",
		RunE: run,
	}
	cfg auto_approval.Config
)

func Execute() error {
	return cmd.Execute()
}

func run(command *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown arguments: %v", args)
	}
	newContext, cancel := context.WithCancel(context.Background())
	defer cancel()
	osChannel := make(chan os.Signal, 1)
	signal.Notify(osChannel, os.Interrupt)
	defer signal.Stop(osChannel)
	go func() {
		select {
		case <-osChannel:
			cancel()
		case <-newContext.Done():
		}
	}()

	return cfg.Run(newContext)
}

func init() {
	// Define flags for configuring the auto approval
	cmd.Flags().StringVar(&cfg.Environment, "environment", "", "Name of the environment to approve. Overrides the INPUT_ENVIRONMENT variable.")
}
