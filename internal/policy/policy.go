// Package policy resolves a permission decision for one command or tool
// invocation against a permission mode.
//
// Resolution runs in a fixed order for every subject: global deny, global
// allow, categorization, workspace classification, then a switch lookup
// in the active mode. Compound commands are split first and every part is
// resolved on its own; the strictest decision wins.
package policy

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dgerlanc/ccgate/internal/command"
	"github.com/dgerlanc/ccgate/internal/config"
	"github.com/dgerlanc/ccgate/internal/workspace"
)

// Decision is the outcome for one subject. Higher values are stricter.
type Decision int

const (
	Allow Decision = iota
	Ask
	Deny
)

// String returns the wire form of the decision.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "ask"
	}
}

// Category is the bucket a subject was classified into.
type Category string

const (
	CategoryGlobalAllow   Category = "globalAllow"
	CategoryGlobalDeny    Category = "globalDeny"
	CategoryRisky         Category = "risky"
	CategoryEdit          Category = "edit"
	CategoryRead          Category = "read"
	CategoryUseWeb        Category = "useWeb"
	CategoryUseMcp        Category = "useMcp"
	CategoryUnknown       Category = "unknown"
	CategoryUncategorized Category = "uncategorized"
	CategoryNone          Category = ""
)

// Verdict is the decision for one subject along with how it was reached.
type Verdict struct {
	Subject  string
	Decision Decision
	Category Category
	Pattern  string
	Switch   string
	Outside  bool
	Paths    []string
	Reason   string
}

// Result is the aggregated outcome of one evaluation. Verdict is the
// deciding subject; Subjects holds every per-subject verdict in order.
type Result struct {
	Verdict
	Subjects []Verdict
}

// Engine evaluates subjects against a PermissionConfig. It never mutates
// the configuration and is safe for concurrent use.
type Engine struct {
	cfg        *config.PermissionConfig
	classifier *workspace.Classifier
	log        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sends decision traces to l. A nil logger discards them.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClassifier overrides the workspace classifier, mainly so tests can
// pin the home directory.
func WithClassifier(c *workspace.Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// New returns an Engine for cfg.
func New(cfg *config.PermissionConfig, opts ...Option) *Engine {
	e := &Engine{
		cfg:        cfg,
		classifier: workspace.New(),
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Request is one PreToolUse evaluation.
type Request struct {
	ToolName  string
	ToolInput map[string]any
	Mode      string
	WorkDir   string
}

// BashTool is the tool whose command input is split and evaluated per
// sub-command.
const BashTool = "Bash"

// DefaultMode is used when a request names no mode.
const DefaultMode = "default"

// Evaluate resolves a full request. An unknown mode, or a Bash call with
// no command, yields Ask.
func (e *Engine) Evaluate(req Request) Result {
	modeName := req.Mode
	if modeName == "" {
		modeName = DefaultMode
	}
	e.log.Debug("evaluating", "tool", req.ToolName, "mode", modeName, "cwd", req.WorkDir)

	mode, err := e.cfg.Mode(modeName)
	if err != nil {
		e.log.Debug("mode lookup failed", "mode", modeName, "error", err)
		return single(Verdict{
			Subject:  req.ToolName,
			Decision: Ask,
			Reason:   fmt.Sprintf("permission mode %q not configured", modeName),
		})
	}

	if req.ToolName == BashTool {
		cmd, _ := req.ToolInput["command"].(string)
		if cmd == "" {
			return single(Verdict{
				Subject:  req.ToolName,
				Decision: Ask,
				Reason:   "empty command",
			})
		}
		return e.EvaluateCommand(cmd, mode, req.WorkDir)
	}

	return single(e.EvaluateTool(req.ToolName, req.ToolInput, mode, req.WorkDir))
}

// EvaluateCommand splits cmd and resolves every sub-command.
func (e *Engine) EvaluateCommand(cmd string, mode config.Mode, workDir string) Result {
	subs := command.Split(cmd)
	e.log.Debug("split command", "count", len(subs), "commands", subs)

	verdicts := make([]Verdict, 0, len(subs))
	for _, sub := range subs {
		v := e.resolveCommand(sub, mode, workDir)
		e.log.Debug("sub-command decision",
			"command", sub,
			"decision", v.Decision.String(),
			"category", string(v.Category),
			"outside", v.Outside)
		verdicts = append(verdicts, v)
	}

	result := Aggregate(verdicts)
	e.log.Debug("final decision", "decision", result.Decision.String(), "subject", result.Subject)
	return result
}

// EvaluateTool resolves a non-command tool. The workspace path is taken
// from file_path, falling back to path.
func (e *Engine) EvaluateTool(name string, input map[string]any, mode config.Mode, workDir string) Verdict {
	v := e.resolve(subject{
		text:    name,
		list:    toolList,
		rules:   toolRules,
		noMatch: CategoryUncategorized,
	}, mode, func() []string {
		if p := toolPath(input); p != "" {
			return []string{p}
		}
		return nil
	}, workDir)
	e.log.Debug("tool decision",
		"tool", name,
		"decision", v.Decision.String(),
		"category", string(v.Category),
		"outside", v.Outside)
	return v
}

func (e *Engine) resolveCommand(sub string, mode config.Mode, workDir string) Verdict {
	return e.resolve(subject{
		text:    sub,
		list:    commandList,
		rules:   commandRules,
		noMatch: CategoryUnknown,
	}, mode, func() []string {
		return command.ExtractPaths(sub)
	}, workDir)
}

// Aggregate folds per-subject verdicts into one result. Deny beats Ask
// and Ask beats Allow; the reported subject is the first verdict carrying
// the winning decision. An empty input yields Ask.
func Aggregate(verdicts []Verdict) Result {
	if len(verdicts) == 0 {
		return Result{Verdict: Verdict{Decision: Ask, Reason: "nothing to evaluate"}}
	}

	winner := 0
	for i, v := range verdicts {
		if v.Decision > verdicts[winner].Decision {
			winner = i
		}
	}

	return Result{Verdict: verdicts[winner], Subjects: verdicts}
}

func single(v Verdict) Result {
	return Result{Verdict: v, Subjects: []Verdict{v}}
}

func toolPath(input map[string]any) string {
	for _, key := range []string{"file_path", "path"} {
		if s, ok := input[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
