package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/dgerlanc/ccgate/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the permission file and show its modes and categories",
	Long: `Validate checks the permission file against the ccgate schema and displays
every mode with its enabled switches and every category with its patterns.

This is useful for:
- Checking that your permissions.json (or .toml/.yaml) is well formed
- Seeing which switches each mode turns on
- Debugging why a command lands in a category`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, err := config.ResolvePath(configPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read permissions file: %w", err)
	}
	doc, err := config.Decode(data, config.FormatFor(path))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := config.ValidateSchema(doc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	cfg, err := config.FromDocument(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration valid: %s\n", path)
	fmt.Fprintln(out)

	names := cfg.ModeNames()
	fmt.Fprintf(out, "Modes: %d\n", len(names))
	for _, name := range names {
		mode, _ := cfg.Mode(name)
		enabled := mode.Enabled()
		if len(enabled) == 0 {
			fmt.Fprintf(out, "  - %s: (all off)\n", name)
			continue
		}
		fmt.Fprintf(out, "  - %s: %s\n", name, strings.Join(enabled, ", "))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Categories:")
	for _, name := range config.CategoryNames {
		cat := cfg.Category(name)
		fmt.Fprintf(out, "  - %s: %d tools, %d commands\n", name, len(cat.Tools), len(cat.Commands))
		if verbose {
			for _, p := range cat.Tools {
				fmt.Fprintf(out, "      tool    %s\n", p)
			}
			for _, p := range cat.Commands {
				fmt.Fprintf(out, "      command %s\n", p)
			}
		}
	}

	if cfg.Notifications.Enabled {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Notifications: completion=%t permissionRequest=%t\n",
			cfg.Notifications.OnCompletion.Enabled, cfg.Notifications.OnPermissionRequest.Enabled)
	}

	return nil
}
