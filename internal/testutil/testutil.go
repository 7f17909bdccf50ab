// Package testutil provides shared test utilities for ccgate tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgerlanc/ccgate/internal/config"
	"github.com/dgerlanc/ccgate/internal/constants"
)

// WritePermissions writes content to permissions.json in a fresh temp
// directory and points CCGATE_CONFIG at it. Returns the file path.
func WritePermissions(t *testing.T, content string) string {
	t.Helper()
	return WritePermissionsFile(t, constants.PermissionsFileName, content)
}

// WritePermissionsFile is WritePermissions with an explicit file name, so
// tests can pick the format by extension.
func WritePermissionsFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), constants.FileMode); err != nil {
		t.Fatal(err)
	}
	t.Setenv(constants.EnvConfig, path)
	return path
}

// MustParse parses a JSON permission document or fails the test.
func MustParse(t *testing.T, content string) *config.PermissionConfig {
	t.Helper()

	cfg, err := config.Parse([]byte(content), config.FormatJSON)
	if err != nil {
		t.Fatalf("config.Parse() error = %v", err)
	}
	return cfg
}

// MinimalPermissions is a small permission file for tests. The "default"
// mode allows reads inside the workspace and asks for everything else.
const MinimalPermissions = `{
  "modes": {
    "default": {"globalAllow": true, "globalDeny": true, "read": true},
    "open": {
      "globalAllow": 1, "globalDeny": 1,
      "read": 1, "readAllFiles": 1,
      "edit": 1, "editAllFiles": 1,
      "risky": 1, "riskyAllFiles": 1,
      "useWeb": 1, "useMcp": 1, "allowUnknownCommand": 1
    },
    "empty": {}
  },
  "categories": {
    "globalAllow": {"tools": ["TodoWrite"], "commands": ["pwd"]},
    "globalDeny": {"tools": [], "commands": ["rm -rf *"]},
    "risky": {"tools": ["Bash"], "commands": ["rm *", "sudo *"]},
    "edit": {"tools": ["Edit", "Write"], "commands": ["touch *"]},
    "read": {"tools": ["Read"], "commands": ["cat *", "ls", "ls *"]},
    "useWeb": {"tools": ["WebFetch"], "commands": ["curl *"]},
    "useMcp": {"tools": ["mcp__*"], "commands": []}
  },
  "notifications": {
    "enabled": true,
    "onCompletion": {"enabled": true, "title": "Done"},
    "onPermissionRequest": {"enabled": true}
  }
}`
