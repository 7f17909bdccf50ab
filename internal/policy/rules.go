package policy

import (
	"fmt"

	"github.com/dgerlanc/ccgate/internal/config"
	"github.com/dgerlanc/ccgate/internal/patterns"
)

// rule maps a category to the mode switches consulted for it. An empty
// outside switch means the category ignores the workspace.
type rule struct {
	category Category
	inside   string
	outside  string
}

// commandRules are tried in priority order for shell sub-commands.
var commandRules = []rule{
	{CategoryRisky, config.SwitchRisky, config.SwitchRiskyAllFiles},
	{CategoryEdit, config.SwitchEdit, config.SwitchEditAllFiles},
	{CategoryRead, config.SwitchRead, config.SwitchReadAllFiles},
	{CategoryUseWeb, config.SwitchUseWeb, ""},
}

// toolRules are tried in priority order for tool names.
var toolRules = []rule{
	{CategoryUseMcp, config.SwitchUseMcp, ""},
	{CategoryUseWeb, config.SwitchUseWeb, ""},
	{CategoryRisky, config.SwitchRisky, config.SwitchRiskyAllFiles},
	{CategoryEdit, config.SwitchEdit, config.SwitchEditAllFiles},
	{CategoryRead, config.SwitchRead, config.SwitchReadAllFiles},
}

// unknownCommand is the rule used when no command category matches.
var unknownCommand = rule{CategoryUnknown, config.SwitchAllowUnknownCommand, ""}

// listFunc selects the tool or command pattern list of a category.
type listFunc func(config.Category) patterns.List

func commandList(c config.Category) patterns.List { return c.Commands }
func toolList(c config.Category) patterns.List    { return c.Tools }

type subject struct {
	text    string
	list    listFunc
	rules   []rule
	noMatch Category
}

// resolve runs the resolution steps for one subject. paths is only
// called once a category has been found.
func (e *Engine) resolve(s subject, mode config.Mode, paths func() []string, workDir string) Verdict {
	v := Verdict{Subject: s.text}

	if mode.GlobalDeny {
		if p, ok := s.list(e.cfg.Category(config.GlobalDeny)).First(s.text); ok {
			v.Decision, v.Category, v.Pattern = Deny, CategoryGlobalDeny, p.Raw
			v.Switch = config.SwitchGlobalDeny
			v.Reason = fmt.Sprintf("%q matches globalDeny pattern %q", s.text, p.Raw)
			return v
		}
	}

	if mode.GlobalAllow {
		if p, ok := s.list(e.cfg.Category(config.GlobalAllow)).First(s.text); ok {
			v.Decision, v.Category, v.Pattern = Allow, CategoryGlobalAllow, p.Raw
			v.Switch = config.SwitchGlobalAllow
			v.Reason = fmt.Sprintf("%q matches globalAllow pattern %q", s.text, p.Raw)
			return v
		}
	}

	r, matched := e.categorize(s, &v)
	if !matched {
		if s.noMatch == CategoryUncategorized {
			v.Decision, v.Category = Ask, CategoryUncategorized
			v.Reason = fmt.Sprintf("%q is not in any category", s.text)
			return v
		}
		r = unknownCommand
	}
	v.Category = r.category

	v.Paths = paths()
	if outside, ok := e.classifier.AnyOutside(v.Paths, workDir); ok {
		v.Outside = true
		e.log.Debug("path outside workspace", "path", outside, "cwd", workDir)
	}

	v.Switch = r.inside
	if v.Outside && r.outside != "" {
		v.Switch = r.outside
	}

	where := "inside workspace"
	if v.Outside {
		where = "outside workspace"
	}
	if mode.Switch(v.Switch) {
		v.Decision = Allow
		v.Reason = fmt.Sprintf("%s %s, %s on", v.Category, where, v.Switch)
	} else {
		v.Decision = Ask
		v.Reason = fmt.Sprintf("%s %s, %s off", v.Category, where, v.Switch)
	}
	return v
}

// categorize returns the first rule whose category patterns match.
func (e *Engine) categorize(s subject, v *Verdict) (rule, bool) {
	for _, r := range s.rules {
		list := s.list(e.cfg.Category(config.CategoryName(r.category)))
		if p, ok := list.First(s.text); ok {
			v.Pattern = p.Raw
			return r, true
		}
	}
	return rule{}, false
}
