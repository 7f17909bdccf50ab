package command

import (
	"reflect"
	"testing"
)

func TestArguments(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"cat /etc/passwd", "/etc/passwd"},
		{"ls   -la  src", "-la  src"},
		{"ls", "ls"},
		{"/bin/ls", "/bin/ls"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Arguments(tt.input); got != tt.want {
			t.Errorf("Arguments(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractPaths(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"no arguments", "ls", nil},
		{"no paths", "echo hello world", nil},
		{"unix absolute", "cat /etc/passwd", []string{"/etc/passwd"}},
		{"executable is skipped", "/bin/cat notes.txt", nil},
		{"lone executable is not skipped", "/bin/ls", []string{"/bin/ls"}},
		{"multiple absolute", "cp /a/b /c/d", []string{"/a/b", "/c/d"}},
		{"windows backslash drive", `type C:\Users\me\x.txt`, []string{`C:\Users\me\x.txt`}},
		{"windows slash drive", "cat d:/data/file", []string{"d:/data/file", "/data/file"}},
		{"unc backslash", `dir \\server\share\dir`, []string{`\\server\share\dir`}},
		{"unc slash", "ls //server/share/dir", []string{"//server/share/dir", "//server/share/dir"}},
		{"home relative", "cat ~/notes.txt", []string{"/notes.txt", "~/notes.txt"}},
		{"bare tilde", "cd ~", []string{"~"}},
		{"dot relative", "ls ./src", []string{"/src", "./src"}},
		{"dot dot relative", "ls ../lib", []string{"/lib", "./lib", "../lib"}},
		{"plain relative is not a path", "cat src/main.go", []string{"/main.go"}},
		{"flag value", "grep -r foo --include=/x", []string{"/x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPaths(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractPaths(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
