// ccgate - permission gate for Claude Code tool calls
//
// Every PreToolUse event is resolved against the permission modes and
// categories in ~/.claude/permissions.json:
//
//	globalDeny > globalAllow > category switch (inside/outside workspace)
//
// Compound Bash commands are split on &&, || and ; and the strictest
// part decides (deny > ask > allow).
//
// Usage in ~/.claude/settings.json:
//
//	"hooks": {
//	  "PreToolUse": [{
//	    "matcher": "*",
//	    "hooks": [{"type": "command", "command": "ccgate PreToolUse"}]
//	  }]
//	}
//
// Test:
//
//	echo '{"hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"ls"}}' | ccgate --dry-run
package main

import (
	"os"

	"github.com/dgerlanc/ccgate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
