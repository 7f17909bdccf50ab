package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgerlanc/ccgate/internal/config"
	"github.com/dgerlanc/ccgate/internal/constants"
	"github.com/dgerlanc/ccgate/internal/hook"
	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

var (
	initForce          bool
	initConfigOnly     bool
	initClaudeSettings string
	initBinary         string
)

// hookEvents are the events ccgate registers for, in settings order.
var hookEvents = []string{hook.EventPreToolUse, hook.EventStop, hook.EventPermissionRequest}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default permission file and register the Claude Code hooks",
	Long: `Initialize writes the default permission file and registers ccgate in
Claude Code's settings for the PreToolUse, Stop and PermissionRequest events.

The permission file is written to ~/.claude/permissions.json (or the path given
by --config or CCGATE_CONFIG). An existing file is kept unless --force is set.

Hooks are merged into ~/.claude/settings.json (or --claude-settings). Existing
settings and other hooks are preserved, and events that already run ccgate are
left alone. Use --config-only to skip this step.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing permission file")
	initCmd.Flags().BoolVar(&initConfigOnly, "config-only", false, "Only write the permission file, do not modify Claude settings")
	initCmd.Flags().StringVar(&initClaudeSettings, "claude-settings", "", "Path to Claude settings.json (default ~/.claude/settings.json)")
	initCmd.Flags().StringVar(&initBinary, "binary", constants.AppName, "Executable written into the hook commands")
}

func runInit(cmd *cobra.Command, args []string) error {
	path, err := config.ResolvePath(configPath)
	if err != nil {
		return err
	}

	written, err := config.WriteDefault(path, initForce)
	if err != nil {
		return err
	}
	if written {
		fmt.Fprintf(cmd.OutOrStdout(), "Permissions written to: %s\n", path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Permission file already exists at %s (use --force to overwrite)\n", path)
	}

	if initConfigOnly {
		return nil
	}

	settingsPath := initClaudeSettings
	if settingsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		settingsPath = filepath.Join(home, constants.ClaudeConfigDir, constants.ClaudeSettingsFile)
	}

	if err := configureClaudeSettings(cmd, settingsPath); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Run '%s validate' to verify your permissions.\n", constants.AppName)
	return nil
}

func configureClaudeSettings(cmd *cobra.Command, settingsPath string) error {
	settings := map[string]any{}
	data, err := os.ReadFile(settingsPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &settings); err != nil {
			return fmt.Errorf("failed to parse %s: %w", settingsPath, err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to read %s: %w", settingsPath, err)
	}

	var added []string
	for _, event := range hookEvents {
		if isHookPresent(settings, event) {
			continue
		}
		command, err := hookCommand(initBinary, event)
		if err != nil {
			return err
		}
		settings = addHook(settings, event, command)
		added = append(added, event)
	}

	if len(added) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "ccgate hooks already configured in %s\n", settingsPath)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(settingsPath), constants.DirMode); err != nil {
		return fmt.Errorf("failed to create Claude directory: %w", err)
	}
	out, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(settingsPath, append(out, '\n'), constants.FileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", settingsPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Registered hooks %v in %s\n", added, settingsPath)
	return nil
}

// hookCommand returns the shell command Claude Code runs for event. The
// event is passed as an argument so it survives unreadable stdin.
func hookCommand(binary, event string) (string, error) {
	quoted, err := syntax.Quote(binary, syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("cannot quote hook binary %q: %w", binary, err)
	}
	return quoted + " " + event, nil
}

// isHookPresent reports whether any hook registered for event runs ccgate.
func isHookPresent(settings map[string]any, event string) bool {
	hooks, ok := settings["hooks"].(map[string]any)
	if !ok {
		return false
	}
	entries, ok := hooks[event].([]any)
	if !ok {
		return false
	}

	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		inner, ok := m["hooks"].([]any)
		if !ok {
			continue
		}
		for _, h := range inner {
			hm, ok := h.(map[string]any)
			if !ok {
				continue
			}
			command, _ := hm["command"].(string)
			if runsCcgate(command) {
				return true
			}
		}
	}
	return false
}

// runsCcgate reports whether a hook command line invokes a ccgate binary,
// either by its default name or by the name given to --binary.
func runsCcgate(command string) bool {
	fields, err := shell.Fields(command, func(string) string { return "" })
	if err != nil || len(fields) == 0 {
		return false
	}
	name := strings.TrimSuffix(filepath.Base(fields[0]), ".exe")
	if name == constants.AppName {
		return true
	}
	return initBinary != "" && name == strings.TrimSuffix(filepath.Base(initBinary), ".exe")
}

// addHook appends a catch-all matcher that runs command for event.
func addHook(settings map[string]any, event, command string) map[string]any {
	if settings == nil {
		settings = map[string]any{}
	}
	hooks, ok := settings["hooks"].(map[string]any)
	if !ok {
		hooks = map[string]any{}
		settings["hooks"] = hooks
	}
	entries, _ := hooks[event].([]any)

	hooks[event] = append(entries, map[string]any{
		"matcher": "*",
		"hooks": []any{
			map[string]any{
				"type":    "command",
				"command": command,
			},
		},
	})
	return settings
}
