package hook

import (
	"github.com/dgerlanc/ccgate/internal/notify"
	"github.com/dgerlanc/ccgate/internal/policy"
)

/*
Type Relationships in the hook package:

Data Flow:
  Input (JSON from Claude Code)
    → Process()
      → config.Load() → PermissionConfig
      → PreToolUse: policy.Engine.Evaluate() → policy.Result
      → Stop / PermissionRequest: notify.ForStop() / notify.ForPermissionRequest()
    → Result (returned to caller)
    → Output (JSON to Claude Code, PreToolUse only)

Related packages:
  - policy.Verdict: per sub-command or per tool decision
  - audit.Entry: logged for each PreToolUse decision with one Subject per verdict
*/

// Hook event names
const (
	EventPreToolUse        = "PreToolUse"
	EventStop              = "Stop"
	EventPermissionRequest = "PermissionRequest"
	EventUnknown           = "unknown"
)

// Input is the JSON object Claude Code writes to the hook's stdin.
//
// See: https://docs.anthropic.com/en/docs/claude-code/hooks
type Input struct {
	SessionID      string         `json:"session_id"`
	TranscriptPath string         `json:"transcript_path"`
	Cwd            string         `json:"cwd"`
	PermissionMode string         `json:"permission_mode"`
	HookEventName  string         `json:"hook_event_name"`
	ToolName       string         `json:"tool_name"`
	ToolInput      map[string]any `json:"tool_input"`
	ToolUseID      string         `json:"tool_use_id"`
}

// Command returns tool_input.command when it is a string.
func (in Input) Command() string {
	s, _ := in.ToolInput["command"].(string)
	return s
}

// Output wraps SpecificOutput in the shape Claude Code expects.
type Output struct {
	HookSpecificOutput SpecificOutput `json:"hookSpecificOutput"`
}

// SpecificOutput carries the permission decision. PermissionDecision is
// only set for PreToolUse.
type SpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision,omitempty"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
}

// Result is the outcome of one hook invocation.
type Result struct {
	Event        string               // Event that was dispatched
	Input        Input                // Decoded input, or a stub built from the fallback event
	Evaluation   *policy.Result       // Set for PreToolUse
	Notification *notify.Notification // Set when a lifecycle event should notify
	ConfigPath   string               // Permission file that was read
	ConfigErr    error                // Why configuration could not be used, if it could not
	Output       string               // JSON for stdout; empty means stay silent
}

// Decision returns the PreToolUse decision, or Ask when none was made.
func (r Result) Decision() policy.Decision {
	if r.Evaluation == nil {
		return policy.Ask
	}
	return r.Evaluation.Decision
}
