// Package notify decides whether a lifecycle event should raise a desktop
// notification and with which title, message and sound. Delivery belongs
// to an external command.
package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/dgerlanc/ccgate/internal/config"
	"mvdan.cc/sh/v3/shell"
)

// Built-in selectors used when the configuration leaves a field empty.
const (
	DefaultTitle             = "Claude Code"
	DefaultCompletionMessage = "Claude Code has finished the task"
	DefaultPermissionMessage = "Claude Code needs your permission"
	DefaultCompletionSound   = "Glass"
	DefaultPermissionSound   = "Tink"
	DefaultWindowsSound      = "SystemNotification"
)

// DefaultTimeout bounds a single ExecNotifier run.
const DefaultTimeout = 10 * time.Second

// Notification holds the selectors an external notifier needs.
type Notification struct {
	Event   string `json:"event"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Sound   string `json:"sound"`
}

// ForStop returns the completion notification, or false when
// notifications or the completion item are disabled.
func ForStop(n config.Notifications, goos string) (Notification, bool) {
	if !n.Enabled || !n.OnCompletion.Enabled {
		return Notification{}, false
	}
	item := n.OnCompletion
	return Notification{
		Event:   "Stop",
		Title:   or(item.Title, DefaultTitle),
		Message: or(item.Message, DefaultCompletionMessage),
		Sound:   sound(item, goos, DefaultCompletionSound),
	}, true
}

// ForPermissionRequest returns the permission-request notification, or
// false when disabled. A non-empty toolName prefixes the message.
func ForPermissionRequest(n config.Notifications, toolName, goos string) (Notification, bool) {
	if !n.Enabled || !n.OnPermissionRequest.Enabled {
		return Notification{}, false
	}
	item := n.OnPermissionRequest
	message := or(item.Message, DefaultPermissionMessage)
	if toolName != "" {
		message = toolName + " - " + message
	}
	return Notification{
		Event:   "PermissionRequest",
		Title:   or(item.Title, DefaultTitle),
		Message: message,
		Sound:   sound(item, goos, DefaultPermissionSound),
	}, true
}

func sound(item config.NotificationItem, goos, fallback string) string {
	if goos == "windows" {
		return or(item.SoundWindows, DefaultWindowsSound)
	}
	return or(item.Sound, fallback)
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Notifier delivers a notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// ErrEmptyCommand is returned when a notifier command line has no words.
var ErrEmptyCommand = errors.New("empty notifier command")

// ExecNotifier runs an external command with title, message and sound
// appended as the last three arguments.
type ExecNotifier struct {
	Argv    []string
	Timeout time.Duration
}

// NewExecNotifier splits commandLine with shell quoting rules. Variables
// are expanded from the environment.
func NewExecNotifier(commandLine string) (*ExecNotifier, error) {
	argv, err := shell.Fields(commandLine, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notifier command: %w", err)
	}
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	return &ExecNotifier{Argv: argv, Timeout: DefaultTimeout}, nil
}

// Notify runs the command and waits for it to finish.
func (e *ExecNotifier) Notify(ctx context.Context, n Notification) error {
	if len(e.Argv) == 0 {
		return ErrEmptyCommand
	}
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, e.Argv[1:]...), n.Title, n.Message, n.Sound)
	cmd := exec.CommandContext(ctx, e.Argv[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("notifier %s failed: %w (output: %q)", e.Argv[0], err, out)
	}
	return nil
}
