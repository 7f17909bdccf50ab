package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/dgerlanc/ccgate/internal/config"
)

func enabled(completion, permission config.NotificationItem) config.Notifications {
	completion.Enabled = true
	permission.Enabled = true
	return config.Notifications{Enabled: true, OnCompletion: completion, OnPermissionRequest: permission}
}

func TestForStop(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.Notifications
		goos   string
		want   Notification
		wantOK bool
	}{
		{
			name:   "defaults",
			cfg:    enabled(config.NotificationItem{}, config.NotificationItem{}),
			goos:   "darwin",
			want:   Notification{Event: "Stop", Title: DefaultTitle, Message: DefaultCompletionMessage, Sound: "Glass"},
			wantOK: true,
		},
		{
			name: "configured",
			cfg: enabled(config.NotificationItem{
				Title: "Done", Message: "All finished", Sound: "Hero", SoundWindows: "Alarm01",
			}, config.NotificationItem{}),
			goos:   "linux",
			want:   Notification{Event: "Stop", Title: "Done", Message: "All finished", Sound: "Hero"},
			wantOK: true,
		},
		{
			name: "windows sound",
			cfg: enabled(config.NotificationItem{
				Sound: "Hero", SoundWindows: "Alarm01",
			}, config.NotificationItem{}),
			goos:   "windows",
			want:   Notification{Event: "Stop", Title: DefaultTitle, Message: DefaultCompletionMessage, Sound: "Alarm01"},
			wantOK: true,
		},
		{
			name:   "windows default sound",
			cfg:    enabled(config.NotificationItem{}, config.NotificationItem{}),
			goos:   "windows",
			want:   Notification{Event: "Stop", Title: DefaultTitle, Message: DefaultCompletionMessage, Sound: DefaultWindowsSound},
			wantOK: true,
		},
		{
			name: "master switch off",
			cfg: config.Notifications{
				OnCompletion: config.NotificationItem{Enabled: true},
			},
			goos: "darwin",
		},
		{
			name: "item off",
			cfg:  config.Notifications{Enabled: true},
			goos: "darwin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ForStop(tt.cfg, tt.goos)
			if ok != tt.wantOK {
				t.Fatalf("ForStop() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ForStop() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestForPermissionRequest(t *testing.T) {
	cfg := enabled(config.NotificationItem{}, config.NotificationItem{Title: "Permission Required"})

	got, ok := ForPermissionRequest(cfg, "Bash", "darwin")
	if !ok {
		t.Fatal("expected notification")
	}
	want := Notification{
		Event:   "PermissionRequest",
		Title:   "Permission Required",
		Message: "Bash - " + DefaultPermissionMessage,
		Sound:   "Tink",
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	got, _ = ForPermissionRequest(cfg, "", "windows")
	if got.Message != DefaultPermissionMessage || got.Sound != DefaultWindowsSound {
		t.Errorf("no tool: got %+v", got)
	}

	cfg.OnPermissionRequest.Enabled = false
	if _, ok := ForPermissionRequest(cfg, "Bash", "darwin"); ok {
		t.Error("disabled item should not notify")
	}
}

func TestNewExecNotifier(t *testing.T) {
	t.Setenv("CCGATE_TEST_SOUND_DIR", "/sounds")

	n, err := NewExecNotifier(`notify-send --app-name "Claude Code" $CCGATE_TEST_SOUND_DIR`)
	if err != nil {
		t.Fatalf("NewExecNotifier() error = %v", err)
	}
	want := []string{"notify-send", "--app-name", "Claude Code", "/sounds"}
	if strings.Join(n.Argv, "|") != strings.Join(want, "|") {
		t.Errorf("Argv = %q, want %q", n.Argv, want)
	}
	if n.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", n.Timeout, DefaultTimeout)
	}

	if _, err := NewExecNotifier("   "); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("blank command error = %v, want ErrEmptyCommand", err)
	}
	if _, err := NewExecNotifier(`echo "unterminated`); err == nil {
		t.Error("expected parse error for unterminated quote")
	}
}

func TestExecNotifierNotify(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	out := filepath.Join(t.TempDir(), "args.txt")
	n := &ExecNotifier{
		Argv: []string{"sh", "-c", `printf '%s\n' "$@" > "$0"`, out},
	}

	err := n.Notify(context.Background(), Notification{Title: "Done", Message: "Bash - ok", Sound: "Glass"})
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "Done\nBash - ok\nGlass\n" {
		t.Errorf("notifier args = %q", got)
	}
}

func TestExecNotifierFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	n := &ExecNotifier{Argv: []string{"sh", "-c", "exit 3"}, Timeout: time.Second}
	if err := n.Notify(context.Background(), Notification{}); err == nil {
		t.Error("expected error from failing notifier")
	}

	empty := &ExecNotifier{}
	if err := empty.Notify(context.Background(), Notification{}); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("empty notifier error = %v", err)
	}
}
