// Package hook dispatches one Claude Code hook event: it decodes the
// event, loads the permission file and either resolves a permission
// decision or selects a notification.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/dgerlanc/ccgate/internal/audit"
	"github.com/dgerlanc/ccgate/internal/config"
	"github.com/dgerlanc/ccgate/internal/logger"
	"github.com/dgerlanc/ccgate/internal/notify"
	"github.com/dgerlanc/ccgate/internal/policy"
	"github.com/dgerlanc/ccgate/internal/workspace"
)

// Options configures Process.
type Options struct {
	// ConfigPath is the permission file to read
	ConfigPath string
	// FallbackEvent names the event when stdin is not valid JSON
	FallbackEvent string
	// Classifier overrides the workspace classifier (tests)
	Classifier *workspace.Classifier
	// Logger receives engine traces; defaults to the global logger
	Logger *slog.Logger
	// GOOS selects platform-specific notification sounds; defaults to runtime.GOOS
	GOOS string
}

// Process reads one event from r and returns what to do about it. It never
// fails: every error path resolves to Ask for PreToolUse and to silence
// for everything else.
func Process(r io.Reader, opts Options) Result {
	startTime := time.Now()

	rawBytes, err := io.ReadAll(r)
	if err != nil {
		logger.Debug("failed to read input", "error", err)
	}
	rawInput := string(rawBytes)

	input, ok := decodeInput(rawBytes)
	if !ok {
		event := opts.FallbackEvent
		if event == "" {
			event = EventUnknown
		}
		logger.Debug("input is not valid JSON, using fallback event", "event", event)
		input = Input{HookEventName: event}
	} else if input.HookEventName == "" && opts.FallbackEvent != "" {
		input.HookEventName = opts.FallbackEvent
	}

	result := Result{
		Event:      input.HookEventName,
		Input:      input,
		ConfigPath: opts.ConfigPath,
	}
	logger.Debug("hook event", "event", result.Event, "tool", input.ToolName)

	switch result.Event {
	case EventPreToolUse:
		handlePreToolUse(&result, opts)
		logAudit(result, rawInput, time.Since(startTime))
	case EventStop, EventPermissionRequest:
		handleLifecycle(&result, opts)
	default:
		logger.Debug("ignoring unrecognized event", "event", result.Event)
	}

	return result
}

// decodeInput accepts any JSON object. Fields of the wrong type are left
// empty so that a PreToolUse event always reaches a decision.
func decodeInput(data []byte) (Input, bool) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		logger.Debug("failed to decode input", "error", err)
		return Input{}, false
	}

	str := func(key string) string {
		s, ok := raw[key].(string)
		if !ok && raw[key] != nil {
			logger.Debug("ignoring input field of unexpected type", "field", key)
		}
		return s
	}
	toolInput, ok := raw["tool_input"].(map[string]any)
	if !ok && raw["tool_input"] != nil {
		logger.Debug("ignoring input field of unexpected type", "field", "tool_input")
	}

	return Input{
		SessionID:      str("session_id"),
		TranscriptPath: str("transcript_path"),
		Cwd:            str("cwd"),
		PermissionMode: str("permission_mode"),
		HookEventName:  str("hook_event_name"),
		ToolName:       str("tool_name"),
		ToolInput:      toolInput,
		ToolUseID:      str("tool_use_id"),
	}, true
}

func loadConfig(result *Result) *config.PermissionConfig {
	cfg, err := config.Load(result.ConfigPath)
	if err != nil {
		logger.Debug("permission file unavailable", "path", result.ConfigPath, "error", err)
		result.ConfigErr = err
		return nil
	}
	return cfg
}

func handlePreToolUse(result *Result, opts Options) {
	cfg := loadConfig(result)
	if cfg == nil {
		eval := policy.Result{Verdict: policy.Verdict{
			Subject:  result.Input.ToolName,
			Decision: policy.Ask,
			Reason:   "permission configuration unavailable",
		}}
		result.Evaluation = &eval
		result.Output = FormatAsk(eval.Reason)
		return
	}

	log := opts.Logger
	if log == nil {
		log = logger.Logger()
	}
	engine := policy.New(cfg, policy.WithLogger(log), policy.WithClassifier(opts.Classifier))

	eval := engine.Evaluate(policy.Request{
		ToolName:  result.Input.ToolName,
		ToolInput: result.Input.ToolInput,
		Mode:      result.Input.PermissionMode,
		WorkDir:   result.Input.Cwd,
	})
	result.Evaluation = &eval
	result.Output = FormatDecision(eval.Decision, reason(eval))
	logger.Debug("decision", "decision", eval.Decision.String(), "reason", eval.Reason)
}

// reason names the deciding subject when a command was split.
func reason(eval policy.Result) string {
	if len(eval.Subjects) > 1 {
		return fmt.Sprintf("%s: %s", eval.Subject, eval.Reason)
	}
	return eval.Reason
}

func handleLifecycle(result *Result, opts Options) {
	cfg := loadConfig(result)
	if cfg == nil {
		return
	}

	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	var (
		n  notify.Notification
		ok bool
	)
	if result.Event == EventStop {
		n, ok = notify.ForStop(cfg.Notifications, goos)
	} else {
		n, ok = notify.ForPermissionRequest(cfg.Notifications, result.Input.ToolName, goos)
	}
	if !ok {
		logger.Debug("notification disabled", "event", result.Event)
		return
	}
	result.Notification = &n
	logger.Debug("notification selected", "title", n.Title, "message", n.Message, "sound", n.Sound)
}

// logAudit records a PreToolUse decision. It is a no-op unless auditing
// was initialized.
func logAudit(result Result, rawInput string, elapsed time.Duration) {
	if !audit.IsEnabled() {
		return
	}

	entry := audit.Entry{
		Version:    audit.Version,
		SessionID:  result.Input.SessionID,
		ToolUseID:  result.Input.ToolUseID,
		DurationMs: float64(elapsed.Microseconds()) / 1000.0,
		Tool:       result.Input.ToolName,
		Mode:       result.Input.PermissionMode,
		Command:    result.Input.Command(),
		Decision:   result.Decision().String(),
		Cwd:        result.Input.Cwd,
		Input:      rawInput,
		Output:     result.Output,
		ConfigPath: result.ConfigPath,
	}
	if result.ConfigErr != nil {
		entry.ConfigError = result.ConfigErr.Error()
	}
	if eval := result.Evaluation; eval != nil {
		entry.Reason = eval.Reason
		for _, v := range eval.Subjects {
			entry.Subjects = append(entry.Subjects, audit.Subject{
				Subject:  v.Subject,
				Decision: v.Decision.String(),
				Category: string(v.Category),
				Pattern:  v.Pattern,
				Switch:   v.Switch,
				Outside:  v.Outside,
				Paths:    v.Paths,
			})
		}
	}

	if err := audit.Log(entry); err != nil {
		logger.Warn("failed to write audit entry", "error", err)
	}
}
