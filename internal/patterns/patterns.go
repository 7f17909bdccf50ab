// Package patterns implements the anchored wildcard matching used by
// permission categories.
//
// A pattern is literal text except for two wildcards:
//
//	*  zero or more of any character (including '/')
//	?  exactly one character
//
// Matching is case-sensitive and must consume the whole input.
package patterns

import (
	"regexp"
	"strings"
)

// wildcards turns the escaped wildcards left by regexp.QuoteMeta back into
// their regular expression forms. Both cross newlines.
var wildcards = strings.NewReplacer(`\*`, `(?s:.*)`, `\?`, `(?s:.)`)

// Pattern holds a compiled pattern and the text it was built from.
type Pattern struct {
	re  *regexp.Regexp
	Raw string
}

// Match reports whether text matches the pattern.
// A pattern that failed to compile never matches.
func (p Pattern) Match(text string) bool {
	if p.re == nil {
		return false
	}
	return p.re.MatchString(text)
}

// String returns the raw pattern.
func (p Pattern) String() string {
	return p.Raw
}

// Quote converts a raw pattern into an anchored regular expression where
// only '*' and '?' are wildcards. Everything else is literal.
func Quote(raw string) string {
	return "^" + wildcards.Replace(regexp.QuoteMeta(raw)) + "$"
}

// Compile compiles a raw pattern.
// Returns an error if the pattern is invalid.
func Compile(raw string) (Pattern, error) {
	re, err := regexp.Compile(Quote(raw))
	if err != nil {
		return Pattern{Raw: raw}, err
	}
	return Pattern{re: re, Raw: raw}, nil
}

// Matches reports whether text matches pattern. It compiles pattern on
// every call; use a List when the same patterns are tested repeatedly.
func Matches(text, pattern string) bool {
	p, err := Compile(pattern)
	if err != nil {
		return false
	}
	return p.Match(text)
}

// List is an ordered list of compiled patterns. Order is significant:
// the first matching pattern wins.
type List []Pattern

// CompileList compiles every raw pattern in order. Patterns that fail to
// compile are kept (they never match) and their errors are returned
// together so callers can report them.
func CompileList(raws []string) (List, []error) {
	list := make(List, 0, len(raws))
	var errs []error
	for _, raw := range raws {
		p, err := Compile(raw)
		if err != nil {
			errs = append(errs, err)
		}
		list = append(list, p)
	}
	return list, errs
}

// First returns the first pattern that matches text.
func (l List) First(text string) (Pattern, bool) {
	for _, p := range l {
		if p.Match(text) {
			return p, true
		}
	}
	return Pattern{}, false
}

// Raw returns the raw text of every pattern in order.
func (l List) Raw() []string {
	raws := make([]string, len(l))
	for i, p := range l {
		raws[i] = p.Raw
	}
	return raws
}
