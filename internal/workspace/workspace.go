// Package workspace decides whether a path lies inside the active working
// directory.
//
// Every comparison is a plain string-prefix test on normalized paths. It
// is not segment aware: "/work2/x" counts as inside a workspace of "/work".
// Policies written against this package rely on that exact behavior.
package workspace

import (
	"os"
	"regexp"
	"strings"
)

// drivePrefix matches a Windows drive-letter prefix such as "C:".
var drivePrefix = regexp.MustCompile(`^[A-Za-z]:`)

// lowerDrivePrefix matches a drive prefix after normalization.
var lowerDrivePrefix = regexp.MustCompile(`^[a-z]:`)

// SystemDirs are locations that are never treated as part of a workspace
// unless the workspace itself contains them. Compared case-insensitively.
var SystemDirs = []string{
	"/etc/", "/usr/", "/var/", "/tmp/",
	"/system/", "/library/",
	"c:/windows", "c:/program files", "c:/programdata", "c:/temp",
}

// Rule identifies which containment rule produced a classification.
type Rule string

const (
	RuleUNC      Rule = "unc"
	RuleDrive    Rule = "drive"
	RuleWSL      Rule = "wsl"
	RuleUnix     Rule = "unix"
	RuleSystem   Rule = "system-dir"
	RuleRelative Rule = "relative"
)

// Classifier normalizes and classifies paths. Home is used to expand a
// leading "~"; when empty the process home directory is looked up.
type Classifier struct {
	Home string
}

// New returns a Classifier bound to the current user's home directory.
// If the home directory cannot be determined, "~" is left unexpanded.
func New() *Classifier {
	home, _ := os.UserHomeDir()
	return &Classifier{Home: home}
}

// Normalize expands a leading "~", converts backslashes to forward slashes
// and lower-cases paths that start with a drive letter. UNC paths and
// everything else keep their case.
func (c *Classifier) Normalize(path string) string {
	path = c.expandHome(path)
	normalized := strings.ReplaceAll(path, `\`, "/")

	if strings.HasPrefix(normalized, "//") {
		return normalized
	}
	if drivePrefix.MatchString(normalized) {
		return strings.ToLower(normalized)
	}
	return normalized
}

func (c *Classifier) expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home := c.Home
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	// ~user forms are not expanded.
	if rest := path[1:]; strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, `\`) {
		return home + rest
	}
	return path
}

// IsOutside reports whether path lies outside workDir.
func (c *Classifier) IsOutside(path, workDir string) bool {
	outside, _ := c.Classify(path, workDir)
	return outside
}

// Classify is IsOutside plus the rule that decided it.
func (c *Classifier) Classify(path, workDir string) (outside bool, rule Rule) {
	p := c.Normalize(path)
	wd := c.Normalize(workDir)

	switch {
	case strings.HasPrefix(p, "//"):
		return !(strings.HasPrefix(wd, "//") && strings.HasPrefix(p, wd)), RuleUNC

	case lowerDrivePrefix.MatchString(p):
		return !(lowerDrivePrefix.MatchString(wd) && strings.HasPrefix(p, wd)), RuleDrive

	case strings.HasPrefix(p, "/mnt/"):
		return !(strings.HasPrefix(wd, "/mnt/") && strings.HasPrefix(p, wd)), RuleWSL

	case strings.HasPrefix(p, "/"):
		if strings.HasPrefix(p, wd) {
			return false, RuleUnix
		}
		if IsSystemPath(p) {
			return true, RuleSystem
		}
		return true, RuleUnix
	}

	return false, RuleRelative
}

// IsSystemPath reports whether a normalized path starts with one of
// SystemDirs, ignoring case.
func IsSystemPath(normalized string) bool {
	lower := strings.ToLower(normalized)
	for _, dir := range SystemDirs {
		if strings.HasPrefix(lower, dir) {
			return true
		}
	}
	return false
}

// AnyOutside reports whether any of paths lies outside workDir, and
// returns the first such path.
func (c *Classifier) AnyOutside(paths []string, workDir string) (string, bool) {
	for _, p := range paths {
		if c.IsOutside(p, workDir) {
			return p, true
		}
	}
	return "", false
}
