package hook

import (
	"encoding/json"

	"github.com/dgerlanc/ccgate/internal/logger"
	"github.com/dgerlanc/ccgate/internal/policy"
)

// fallbackAsk is emitted if the decision itself cannot be marshaled.
const fallbackAsk = `{"hookSpecificOutput":{"hookEventName":"PreToolUse","permissionDecision":"ask","permissionDecisionReason":"internal error"}}`

// FormatDecision returns the PreToolUse JSON output for d.
func FormatDecision(d policy.Decision, reason string) string {
	output := Output{
		HookSpecificOutput: SpecificOutput{
			HookEventName:            EventPreToolUse,
			PermissionDecision:       d.String(),
			PermissionDecisionReason: reason,
		},
	}
	data, err := json.Marshal(output)
	if err != nil {
		logger.Debug("failed to marshal decision output", "error", err)
		return fallbackAsk
	}
	return string(data)
}

// FormatAsk returns the PreToolUse JSON output for an Ask decision.
func FormatAsk(reason string) string {
	return FormatDecision(policy.Ask, reason)
}
