package command

import "regexp"

// leadingToken matches the executable and the whitespace after it.
var leadingToken = regexp.MustCompile(`^\S+\s+`)

// pathPatterns are tried in this order and every match of every class is
// reported, so one token can appear more than once.
var pathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Za-z]:[/\\]\S*`), // C:\dir or C:/dir
	regexp.MustCompile(`\\\\\S+\\\S*`),      // \\host\share
	regexp.MustCompile(`//\S+/\S*`),         // //host/share
	regexp.MustCompile(`/\S*`),              // /dir
	regexp.MustCompile(`~\S*`),              // ~/dir
	regexp.MustCompile(`\./\S*`),            // ./dir
	regexp.MustCompile(`\.\./\S*`),          // ../dir
}

// Arguments returns cmd without its leading executable token. A command
// with no whitespace after its first token is returned unchanged.
func Arguments(cmd string) string {
	return leadingToken.ReplaceAllString(cmd, "")
}

// ExtractPaths returns the raw path-like tokens found in the arguments of
// cmd, grouped by class in priority order.
func ExtractPaths(cmd string) []string {
	args := Arguments(cmd)

	var paths []string
	for _, re := range pathPatterns {
		paths = append(paths, re.FindAllString(args, -1)...)
	}
	return paths
}
