package workspace

import "testing"

func TestNormalize(t *testing.T) {
	c := &Classifier{Home: "/home/user"}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"unix unchanged", "/Home/User/File", "/Home/User/File"},
		{"tilde alone", "~", "/home/user"},
		{"tilde slash", "~/src/x.go", "/home/user/src/x.go"},
		{"tilde backslash", `~\src`, "/home/user/src"},
		{"tilde user untouched", "~bob/x", "~bob/x"},
		{"backslashes unified", `a\b\c`, "a/b/c"},
		{"drive lowered", `C:\Users\Me\File.TXT`, "c:/users/me/file.txt"},
		{"drive slash lowered", "D:/Data", "d:/data"},
		{"unc keeps case", `\\Server\Share\Dir`, "//Server/Share/Dir"},
		{"relative unchanged", "./Src", "./Src"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeWindowsHome(t *testing.T) {
	c := &Classifier{Home: `C:\Users\Me`}
	if got := c.Normalize(`~\Docs`); got != "c:/users/me/docs" {
		t.Errorf("Normalize = %q, want %q", got, "c:/users/me/docs")
	}
}

func TestIsOutside(t *testing.T) {
	c := &Classifier{Home: "/home/user"}

	tests := []struct {
		name    string
		path    string
		workDir string
		outside bool
		rule    Rule
	}{
		// Unix
		{"inside workspace", "/home/user/project/file.txt", "/home/user/project", false, RuleUnix},
		{"workspace itself", "/home/user/project", "/home/user/project", false, RuleUnix},
		{"sibling directory", "/home/user/other/file", "/home/user/project", true, RuleUnix},
		{"string prefix is not segment aware", "/work2/x", "/work", false, RuleUnix},
		{"etc is outside", "/etc/passwd", "/home/user/project", true, RuleSystem},
		{"system dir case insensitive", "/USR/bin/ls", "/home/user/project", true, RuleSystem},
		{"tmp outside", "/tmp/x", "/home/user/project", true, RuleSystem},
		{"workspace under tmp wins", "/tmp/work/x", "/tmp/work", false, RuleUnix},
		{"empty workdir prefixes everything", "/etc/passwd", "", false, RuleUnix},
		{"home expansion inside", "~/project/a", "/home/user/project", false, RuleUnix},
		{"home expansion outside", "~/.ssh/id_rsa", "/home/user/project", true, RuleUnix},

		// WSL mounts
		{"wsl inside", "/mnt/c/code/app/x", "/mnt/c/code/app", false, RuleWSL},
		{"wsl outside", "/mnt/d/other", "/mnt/c/code/app", true, RuleWSL},
		{"wsl path with unix workdir", "/mnt/c/code/x", "/mnt", true, RuleWSL},

		// Windows drives
		{"drive inside case folded", `C:\Code\App\main.go`, `c:\code\app`, false, RuleDrive},
		{"drive outside", `D:\other`, `C:\code`, true, RuleDrive},
		{"drive with unix workdir", `C:\code`, "/home/user", true, RuleDrive},

		// UNC
		{"unc inside", `\\srv\share\proj\a`, `\\srv\share\proj`, false, RuleUNC},
		{"unc case sensitive", `\\SRV\share\proj\a`, `\\srv\share\proj`, true, RuleUNC},
		{"unc slash outside", "//srv/other/x", "//srv/share", true, RuleUNC},
		{"unc with unix workdir", "//srv/share", "/", true, RuleUNC},

		// Relative forms
		{"dot relative", "./src", "/home/user/project", false, RuleRelative},
		{"dot dot relative", "../../etc/passwd", "/home/user/project", false, RuleRelative},
		{"bare name", "file.txt", "/home/user/project", false, RuleRelative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outside, rule := c.Classify(tt.path, tt.workDir)
			if outside != tt.outside {
				t.Errorf("Classify(%q, %q) outside = %v, want %v", tt.path, tt.workDir, outside, tt.outside)
			}
			if rule != tt.rule {
				t.Errorf("Classify(%q, %q) rule = %q, want %q", tt.path, tt.workDir, rule, tt.rule)
			}
			if got := c.IsOutside(tt.path, tt.workDir); got != tt.outside {
				t.Errorf("IsOutside(%q, %q) = %v, want %v", tt.path, tt.workDir, got, tt.outside)
			}
		})
	}
}

func TestIsSystemPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/etc/hosts", true},
		{"/Library/Preferences", true},
		{"/System/x", true},
		{"c:/windows/system32", true},
		{"C:/Program Files/app", true},
		{"/etcetera", false},
		{"/etc", false},
		{"/home/user", false},
	}
	for _, tt := range tests {
		if got := IsSystemPath(tt.path); got != tt.want {
			t.Errorf("IsSystemPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestAnyOutside(t *testing.T) {
	c := &Classifier{Home: "/home/user"}
	workDir := "/home/user/project"

	if p, ok := c.AnyOutside([]string{"./a", "/home/user/project/b"}, workDir); ok {
		t.Errorf("AnyOutside reported %q as outside", p)
	}

	p, ok := c.AnyOutside([]string{"./a", "/etc/passwd", "/var/log"}, workDir)
	if !ok || p != "/etc/passwd" {
		t.Errorf("AnyOutside = (%q, %v), want (/etc/passwd, true)", p, ok)
	}

	if _, ok := c.AnyOutside(nil, workDir); ok {
		t.Error("AnyOutside(nil) should be false")
	}
}
