// Package command splits compound shell commands and pulls path-like
// arguments out of them.
//
// The splitter is deliberately lexical: it tracks quotes and backslash
// escapes but does not parse shell grammar, so pipes, subshells and
// redirections stay inside a single sub-command.
package command

import "strings"

// Split splits cmd into sub-commands on &&, || and ; that appear outside
// single or double quotes. Each sub-command is trimmed and empty ones are
// dropped. If no sub-command survives, the original string is returned as
// the only element.
func Split(cmd string) []string {
	var (
		segments []string
		current  strings.Builder
		inSingle bool
		inDouble bool
	)

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			segments = append(segments, s)
		}
		current.Reset()
	}

	for i := 0; i < len(cmd); i++ {
		c := cmd[i]

		// A backslash escapes the next byte, whatever it is.
		if c == '\\' && i+1 < len(cmd) {
			current.WriteByte(c)
			current.WriteByte(cmd[i+1])
			i++
			continue
		}

		if c == '"' && !inSingle {
			inDouble = !inDouble
			current.WriteByte(c)
			continue
		}
		if c == '\'' && !inDouble {
			inSingle = !inSingle
			current.WriteByte(c)
			continue
		}

		if inSingle || inDouble {
			current.WriteByte(c)
			continue
		}

		if i+1 < len(cmd) {
			if pair := cmd[i : i+2]; pair == "&&" || pair == "||" {
				flush()
				i++
				continue
			}
		}

		if c == ';' {
			flush()
			continue
		}

		current.WriteByte(c)
	}
	flush()

	if len(segments) == 0 {
		return []string{cmd}
	}
	return segments
}
