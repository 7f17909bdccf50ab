// Package constants defines shared constants used across the ccgate codebase.
package constants

import "os"

// File permissions
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// Environment variables
const (
	EnvConfig   = "CCGATE_CONFIG"
	EnvDebugLog = "CCGATE_DEBUG_LOG"
	EnvAuditLog = "CCGATE_AUDIT_LOG"
)

// Application paths
const (
	AppName             = "ccgate"
	ClaudeConfigDir     = ".claude"
	ClaudeSettingsFile  = "settings.json"
	PermissionsFileName = "permissions.json"
	AuditLogFileName    = "audit.log"
)
