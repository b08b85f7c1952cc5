package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/operand-hq/crewd/internal/core/domain"
)

var (
	knowledgeIndustry string
	knowledgeMission  string
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Inspect and edit the knowledge corpus",
	Long: `The knowledge corpus is a markdown file describing the company, its
departments and their past work. Agents ground their answers in it.`,
	RunE: runKnowledgeShow,
}

var knowledgeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the corpus",
	RunE:  runKnowledgeShow,
}

var knowledgeInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a minimal corpus",
	Long: `Creates the corpus file with a company overview. Existing overview
fields are kept unless new values are given.

Example:
  crewd knowledge init --industry "dog grooming" --mission "Happy dogs, happy owners"`,
	RunE: runKnowledgeInit,
}

var knowledgeNoteCmd = &cobra.Command{
	Use:   "note [text]",
	Short: "Add a shared note",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKnowledgeNote,
}

var knowledgeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show retrieval index statistics",
	RunE:  runKnowledgeStats,
}

func init() {
	knowledgeInitCmd.Flags().StringVar(&knowledgeIndustry, "industry", "", "company industry")
	knowledgeInitCmd.Flags().StringVar(&knowledgeMission, "mission", "", "company mission")
	knowledgeCmd.AddCommand(knowledgeShowCmd)
	knowledgeCmd.AddCommand(knowledgeInitCmd)
	knowledgeCmd.AddCommand(knowledgeNoteCmd)
	knowledgeCmd.AddCommand(knowledgeStatsCmd)
	rootCmd.AddCommand(knowledgeCmd)
}

func runKnowledgeShow(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	text, err := knowledgeService.Read(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Println("No knowledge corpus yet. Run 'crewd knowledge init' or 'crewd run \"create a ... company\"'.")
			return nil
		}
		return fmt.Errorf("reading corpus: %w", err)
	}

	cmd.Print(text)
	return nil
}

func runKnowledgeInit(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	if err := knowledgeService.SetOverview(cmd.Context(), knowledgeIndustry, knowledgeMission); err != nil {
		return fmt.Errorf("initialising corpus: %w", err)
	}

	cmd.Println("Knowledge corpus initialised.")
	return nil
}

func runKnowledgeNote(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	note := strings.Join(args, " ")
	if err := knowledgeService.AppendNote(cmd.Context(), note); err != nil {
		return fmt.Errorf("adding note: %w", err)
	}

	cmd.Println("Note added.")
	return nil
}

func runKnowledgeStats(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	stats, err := retrievalService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading index stats: %w", err)
	}

	cmd.Printf("Chunks: %d\n", stats.TotalDocuments)
	cmd.Printf("Terms:  %d\n", stats.VocabularySize)
	return nil
}
