package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	if err := Init(Options{Verbose: true, Output: &buf}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Debug("evaluating", "tool", "Bash")

	output := buf.String()
	if !strings.Contains(output, "evaluating") || !strings.Contains(output, "tool=Bash") {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestInitOnlyOnce(t *testing.T) {
	defer Reset()

	var buf1, buf2 bytes.Buffer
	Init(Options{Verbose: true, Output: &buf1})
	Init(Options{Verbose: true, Output: &buf2})

	Debug("test message")

	if buf1.Len() == 0 {
		t.Error("expected first buffer to have output")
	}
	if buf2.Len() != 0 {
		t.Error("second Init should be ignored")
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		logged  []string
		dropped []string
	}{
		{
			name:    "verbose",
			verbose: true,
			logged:  []string{"debug message", "info message", "warn message", "error message"},
		},
		{
			name:    "quiet",
			verbose: false,
			logged:  []string{"error message"},
			dropped: []string{"debug message", "info message", "warn message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer Reset()

			var buf bytes.Buffer
			Init(Options{Verbose: tt.verbose, Output: &buf})

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			output := buf.String()
			for _, msg := range tt.logged {
				if !strings.Contains(output, msg) {
					t.Errorf("expected %q in output", msg)
				}
			}
			for _, msg := range tt.dropped {
				if strings.Contains(output, msg) {
					t.Errorf("did not expect %q in output", msg)
				}
			}
			if IsVerbose() != tt.verbose {
				t.Errorf("IsVerbose() = %v, want %v", IsVerbose(), tt.verbose)
			}
		})
	}
}

func TestJSONFormat(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	Init(Options{Verbose: true, Output: &buf, JSON: true})

	Debug("decision", "decision", "ask")

	output := buf.String()
	if !strings.Contains(output, `"msg":"decision"`) || !strings.Contains(output, `"decision":"ask"`) {
		t.Errorf("expected JSON output, got: %s", output)
	}
}

func TestFileOutput(t *testing.T) {
	defer Reset()

	var stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	if err := Init(Options{Output: &stderr, FilePath: path}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Debug("to file", "n", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("debug file should capture debug output, got: %s", data)
	}
	if stderr.Len() != 0 {
		t.Errorf("nothing should reach Output, got: %s", stderr.String())
	}
}

func TestLogAfterClose(t *testing.T) {
	defer Reset()

	path := filepath.Join(t.TempDir(), "debug.log")
	if err := Init(Options{FilePath: path}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	Debug("before close")
	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	Error("after close")
	if err := Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "before close") {
		t.Errorf("expected output written before Close, got: %s", data)
	}
	if strings.Contains(string(data), "after close") {
		t.Errorf("nothing should be logged after Close, got: %s", data)
	}
}

func TestFileOutputFallback(t *testing.T) {
	defer Reset()

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := Init(Options{Output: &buf, FilePath: filepath.Join(blocker, "debug.log")})
	if err == nil {
		t.Fatal("expected error for unusable debug log path")
	}

	Error("still logged")
	if !strings.Contains(buf.String(), "still logged") {
		t.Error("expected fallback to Output")
	}
}

func TestLoggerAccessor(t *testing.T) {
	defer Reset()

	if Logger() == nil {
		t.Fatal("Logger() before Init must not be nil")
	}
	Logger().Debug("discarded")

	var buf bytes.Buffer
	Init(Options{Verbose: true, Output: &buf})

	With("component", "policy").Debug("child message")
	if !strings.Contains(buf.String(), "component=policy") {
		t.Errorf("expected child attributes, got: %s", buf.String())
	}
}

func TestLogBeforeInit(t *testing.T) {
	defer Reset()

	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}

func TestReset(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	Init(Options{Verbose: true, Output: &buf1})
	Debug("first")

	Reset()

	Init(Options{Verbose: true, Output: &buf2})
	Debug("second")
	Reset()

	if !strings.Contains(buf1.String(), "first") || strings.Contains(buf1.String(), "second") {
		t.Errorf("first buffer = %q", buf1.String())
	}
	if !strings.Contains(buf2.String(), "second") {
		t.Errorf("second buffer = %q", buf2.String())
	}
}
