package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/operand-hq/crewd/internal/core/domain"
)

var (
	searchLimit      int
	searchDepartment string
	searchType       string
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge corpus",
	Long: `Performs lexical search over the company knowledge corpus and prints
the most relevant chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchDepartment, "department", "d", "", "restrict results to a department")
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "restrict results to a chunk type (goal, problem, learning, general)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	opts := domain.SearchOptions{
		Department: searchDepartment,
		Type:       domain.ChunkType(searchType),
		Limit:      searchLimit,
	}

	chunks, err := retrievalService.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, chunks)
	}

	return outputSearchList(cmd, chunks)
}

func outputSearchJSON(cmd *cobra.Command, chunks []domain.Chunk) error {
	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchList(cmd *cobra.Command, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range chunks {
		cmd.Printf("  [%d] %s (%s)\n", i+1, chunks[i].Section, chunks[i].Type)
		cmd.Printf("      %s\n", chunks[i].Content)
		cmd.Println()
	}

	return nil
}
