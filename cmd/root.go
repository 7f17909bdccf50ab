// Package cmd implements the CLI commands for ccgate.
package cmd

import (
	"fmt"
	"os"

	"github.com/dgerlanc/ccgate/internal/constants"
	"github.com/dgerlanc/ccgate/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	dryRun     bool
	configPath string
	debugLog   string

	// Hook flags
	auditEnabled bool
	auditLog     string
	notifierCmd  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ccgate [event]",
	Short: "Permission gate for Claude Code tool calls",
	Long: `ccgate is a Claude Code hook that decides whether a tool call is allowed,
denied, or needs confirmation, based on the permission modes and categories in
~/.claude/permissions.json.

When called without a subcommand, it reads one hook event as JSON from stdin.
PreToolUse events produce a permission decision on stdout. Stop and
PermissionRequest events select a desktop notification and print nothing.
If stdin is not valid JSON, the optional [event] argument names the event.

Usage in ~/.claude/settings.json:
  "hooks": {
    "PreToolUse": [{
      "matcher": "*",
      "hooks": [{"type": "command", "command": "ccgate"}]
    }]
  }`,
	Args: cobra.MaximumNArgs(1),
	// Run the hook by default when no subcommand is given
	Run: runHook,
	// Silence usage on errors
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer logger.Close()
	return rootCmd.Execute()
}

func init() {
	// Initialize before running any command
	cobra.OnInitialize(initApp)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print a readable verdict to stderr instead of JSON")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Permission file (or set "+constants.EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&debugLog, "debug-log", "", "Append debug logs to this file (or set "+constants.EnvDebugLog+")")

	rootCmd.Flags().BoolVar(&auditEnabled, "audit", false, "Record PreToolUse decisions in the audit log")
	rootCmd.Flags().StringVar(&auditLog, "audit-log", "", "Audit log path, implies --audit (or set "+constants.EnvAuditLog+")")
	rootCmd.Flags().StringVar(&notifierCmd, "notifier", "", "Command that delivers notifications; title, message and sound are appended")
}

// initApp initializes the logger
func initApp() {
	if debugLog == "" {
		debugLog = os.Getenv(constants.EnvDebugLog)
	}

	if err := logger.Init(logger.Options{Verbose: verbose, FilePath: debugLog}); err != nil {
		fmt.Fprintf(os.Stderr, "ccgate: %v\n", err)
	}
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// IsDryRun returns whether dry-run mode is enabled
func IsDryRun() bool {
	return dryRun
}

// GetConfigPath returns the --config flag value
func GetConfigPath() string {
	return configPath
}
