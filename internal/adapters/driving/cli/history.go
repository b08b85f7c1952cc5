package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/operand-hq/crewd/internal/core/domain"
)

var (
	historyDepartment string
	historyLimit      int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past executions",
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent executions",
	RunE:  runHistoryList,
}

var historyFeedbackCmd = &cobra.Command{
	Use:   "feedback [execution-id] [rating 1-5] [comment]",
	Short: "Rate an execution",
	Long: `Attaches a 1-5 star rating and an optional comment to an execution.
The three most recent rated executions per department are fed back into that
department's future runs.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runHistoryFeedback,
}

func init() {
	historyCmd.PersistentFlags().StringVarP(&historyDepartment, "department", "d", "", "filter by department")
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of records")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyFeedbackCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if historyStore == nil {
		return errors.New("execution history not available")
	}

	records, err := historyStore.Recent(cmd.Context(), historyDepartment, historyLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No executions recorded.")
		return nil
	}

	for _, rec := range records {
		rating := "unrated"
		if rec.Feedback != nil {
			rating = fmt.Sprintf("%d/5", rec.Feedback.Rating)
		}
		cmd.Printf("%s  [%s] %s (%s, %s)\n", rec.ID, rec.Department, truncateLine(rec.Input, 60), rec.Status, rating)
	}
	return nil
}

func runHistoryFeedback(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if historyStore == nil {
		return errors.New("execution history not available")
	}

	rating, err := strconv.Atoi(args[1])
	if err != nil || rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be 1-5", domain.ErrInvalidInput)
	}

	feedback := domain.Feedback{
		Rating:  rating,
		Comment: strings.Join(args[2:], " "),
	}
	if err := historyStore.SetFeedback(cmd.Context(), args[0], feedback); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no execution with id %q", args[0])
		}
		return fmt.Errorf("saving feedback: %w", err)
	}

	cmd.Println("Feedback saved.")
	return nil
}

// truncateLine shortens s to max characters for one-line display.
func truncateLine(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
