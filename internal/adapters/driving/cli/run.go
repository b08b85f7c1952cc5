package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/operand-hq/crewd/internal/core/domain"
)

var runCmd = &cobra.Command{
	Use:   "run [message]",
	Short: "Send a message to the company",
	Long: `Sends a CEO message through intent classification and the matching
workflow. Task requests are decomposed and executed by department agents;
questions are answered from the knowledge corpus.

Examples:
  crewd run "create a coffee roasting company"
  crewd run "add a sales department"
  crewd run "draft an outreach email for wholesale buyers"
  crewd run "what has marketing shipped recently?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if dispatchService == nil {
		return errors.New("dispatch service not configured")
	}

	message := strings.Join(args, " ")
	events, err := dispatchService.Dispatch(cmd.Context(), message)
	if err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}

	failed := false
	for event := range events {
		printEvent(cmd, event)
		if event.Type == domain.EventError {
			failed = true
		}
	}

	if failed {
		return errors.New("one or more tasks failed")
	}
	return nil
}

// printEvent renders one lifecycle event for the terminal.
func printEvent(cmd *cobra.Command, event domain.Event) {
	switch event.Type {
	case domain.EventActive:
		if event.TaskText != "" {
			cmd.Printf("* %s: %s\n", event.AgentName, event.TaskText)
		} else {
			cmd.Printf("* %s\n", event.AgentName)
		}
	case domain.EventToolCall:
		cmd.Printf("  > %s\n", event.ToolName)
	case domain.EventToolResult:
		if event.Err != "" {
			cmd.Printf("  ! %s: %s\n", event.ToolName, event.Err)
		}
	case domain.EventResult:
		cmd.Println()
		cmd.Println(event.Text)
	case domain.EventError:
		cmd.Printf("\nError: %s\n", event.Err)
	case domain.EventComplete:
		cmd.Println()
	}
}
