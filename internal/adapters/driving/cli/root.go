// Package cli provides the cobra command surface for crewd.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/operand-hq/crewd/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// SetVersion overrides the reported version. Called from main.
func SetVersion(v string) {
	version = v
}

var (
	flagVerbose   bool
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "crewd",
	Short: "Run a company of department agents from your terminal",
	Long: `crewd maintains a markdown knowledge corpus describing your company and
its departments, and dispatches CEO messages to per-department agents that
execute tasks with tools.

Start by creating a company, then hand it work:

  crewd run "create a dog grooming company"
  crewd run "add a marketing department"
  crewd run "write a launch announcement for our new service"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.crewd)")
}

// Execute runs the CLI.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}
