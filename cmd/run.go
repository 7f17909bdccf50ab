package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dgerlanc/ccgate/internal/audit"
	"github.com/dgerlanc/ccgate/internal/config"
	"github.com/dgerlanc/ccgate/internal/constants"
	"github.com/dgerlanc/ccgate/internal/hook"
	"github.com/dgerlanc/ccgate/internal/logger"
	"github.com/dgerlanc/ccgate/internal/notify"
	"github.com/spf13/cobra"
)

// runHook is the default command: it processes one hook event from stdin.
// It never fails, so Claude Code always sees exit status 0.
func runHook(cmd *cobra.Command, args []string) {
	defer logger.Close()

	path, err := config.ResolvePath(configPath)
	if err != nil {
		logger.Debug("could not resolve permission file", "error", err)
	}

	initAudit()
	defer audit.Close()

	var fallback string
	if len(args) > 0 {
		fallback = args[0]
	}

	result := hook.Process(os.Stdin, hook.Options{
		ConfigPath:    path,
		FallbackEvent: fallback,
	})

	if dryRun {
		printDryRun(os.Stderr, result)
		return
	}

	if result.Output != "" {
		fmt.Print(result.Output)
	}

	if result.Notification != nil {
		deliver(cmd.Context(), *result.Notification)
	}
}

// initAudit opens the audit log when --audit, --audit-log or
// CCGATE_AUDIT_LOG ask for it.
func initAudit() {
	path := auditLog
	if path == "" {
		path = os.Getenv(constants.EnvAuditLog)
	}
	if !auditEnabled && path == "" {
		return
	}
	if err := audit.Init(path, false); err != nil {
		logger.Warn("audit logging unavailable", "error", err)
	}
}

func deliver(ctx context.Context, n notify.Notification) {
	if notifierCmd == "" {
		logger.Info("notification", "event", n.Event, "title", n.Title, "message", n.Message, "sound", n.Sound)
		return
	}
	notifier, err := notify.NewExecNotifier(notifierCmd)
	if err != nil {
		logger.Warn("invalid notifier", "error", err)
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := notifier.Notify(ctx, n); err != nil {
		logger.Warn("notification failed", "error", err)
	}
}

// printDryRun writes one line per evaluated subject and a final verdict.
func printDryRun(w io.Writer, result hook.Result) {
	switch {
	case result.Evaluation != nil:
		for _, v := range result.Evaluation.Subjects {
			where := "inside"
			if v.Outside {
				where = "outside"
			}
			fmt.Fprintf(w, "  %-5s %s [%s, %s] %s\n", v.Decision, v.Subject, categoryLabel(string(v.Category)), where, v.Reason)
		}
		fmt.Fprintf(w, "%s: %s\n", decisionLabel(result.Decision().String()), result.Evaluation.Reason)
	case result.Notification != nil:
		n := result.Notification
		fmt.Fprintf(w, "NOTIFY: %s | %s | %s\n", n.Title, n.Message, n.Sound)
	default:
		fmt.Fprintf(w, "SILENT: %s\n", result.Event)
	}
	if result.ConfigErr != nil {
		fmt.Fprintf(w, "config: %v\n", result.ConfigErr)
	}
}

func decisionLabel(d string) string {
	switch d {
	case "allow":
		return "ALLOWED"
	case "deny":
		return "DENIED"
	default:
		return "ASK"
	}
}

func categoryLabel(c string) string {
	if c == "" {
		return "-"
	}
	return c
}
