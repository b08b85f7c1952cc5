package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/operand-hq/crewd/internal/adapters/driven/ai"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and edit the crewd configuration file.

Recognised keys:
  llm.provider        anthropic or ollama
  llm.model           model name (provider default when empty)
  llm.api_key         API key for anthropic
  llm.base_url        API endpoint override
  knowledge.path      corpus file path (default ~/.crewd/knowledge.md)
  execution.max_turns agent loop turn cap (default 10)`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the LLM configuration by pinging the provider",
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

// configKeys is the set of keys the CLI knows how to display.
var configKeys = []string{
	"llm.provider",
	"llm.model",
	"llm.api_key",
	"llm.base_url",
	"knowledge.path",
	"execution.max_turns",
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if configStore == nil {
		return errors.New("config store not configured")
	}

	keys := append([]string(nil), configKeys...)
	sort.Strings(keys)
	for _, key := range keys {
		val, ok := configStore.Get(key)
		if !ok {
			continue
		}
		if key == "llm.api_key" {
			val = maskSecret(fmt.Sprintf("%v", val))
		}
		cmd.Printf("%s = %v\n", key, val)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if err := configStore.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	cmd.Printf("Set %s.\n", args[0])
	return nil
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if configStore == nil {
		return errors.New("config store not configured")
	}

	settings := llmSettingsFromConfig(configStore)
	if !settings.IsConfigured() {
		cmd.Println("No LLM provider configured. Run 'crewd config set llm.provider anthropic'.")
		return nil
	}

	cmd.Print("Validating configuration... ")
	if err := ai.ValidateLLMConfig(settings); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println(configStore.Path())
	return nil
}

// maskSecret hides all but the last four characters of a secret.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
