// Package audit provides an opt-in JSONL audit trail of ccgate permission
// decisions.
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/dgerlanc/ccgate/internal/constants"
	"github.com/dgerlanc/ccgate/internal/logger"
	"github.com/gofrs/flock"
	"github.com/klauspost/compress/zstd"
)

// Version is the audit entry format version.
const Version = 1

// TimestampFormat is the format used for audit log timestamps.
const TimestampFormat = "2006-01-02T15:04:05.0Z07:00"

// DefaultMaxSize is the log size at which the file is rotated into a
// compressed archive.
const DefaultMaxSize int64 = 10 << 20

const (
	maxLockRetries = 50
	lockRetryDelay = 10 * time.Millisecond
)

// ErrLocked is returned when the audit lock could not be acquired.
var ErrLocked = errors.New("audit log is locked by another process")

// Entry is one PreToolUse decision.
type Entry struct {
	Version     int       `json:"version"`
	SessionID   string    `json:"session_id"`
	ToolUseID   string    `json:"tool_use_id"`
	Timestamp   string    `json:"timestamp"`
	DurationMs  float64   `json:"duration_ms"`
	Tool        string    `json:"tool"`
	Mode        string    `json:"mode"`
	Command     string    `json:"command,omitempty"`
	Decision    string    `json:"decision"`
	Reason      string    `json:"reason,omitempty"`
	Subjects    []Subject `json:"subjects"`
	Cwd         string    `json:"cwd"`
	Input       string    `json:"input"`
	Output      string    `json:"output"`
	ConfigPath  string    `json:"config_path"`
	ConfigError string    `json:"config_error,omitempty"`
}

// Subject is the verdict for one sub-command or tool.
type Subject struct {
	Subject  string   `json:"subject"`
	Decision string   `json:"decision"`
	Category string   `json:"category,omitempty"`
	Pattern  string   `json:"pattern,omitempty"`
	Switch   string   `json:"switch,omitempty"`
	Outside  bool     `json:"outside"`
	Paths    []string `json:"paths,omitempty"`
}

var (
	auditFile *os.File
	auditPath string
	fileLock  *flock.Flock
	maxSize   = DefaultMaxSize
	mu        sync.Mutex
	enabled   bool
)

// DefaultLogPath returns $XDG_DATA_HOME/ccgate/audit.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.DataHome, constants.AppName, constants.AuditLogFileName)
}

// Init opens the audit log at path, or DefaultLogPath when path is empty.
// With disable set, auditing is turned off and nothing is opened.
func Init(path string, disable bool) error {
	mu.Lock()
	defer mu.Unlock()

	if disable {
		enabled = false
		return nil
	}

	if path == "" {
		path = DefaultLogPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
		logger.Debug("failed to create audit log directory", "error", err)
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		logger.Debug("failed to open audit log file", "error", err)
		return fmt.Errorf("failed to open audit log: %w", err)
	}

	auditFile = f
	auditPath = path
	fileLock = flock.New(path + ".lock")
	enabled = true
	logger.Debug("audit logging initialized", "path", path)
	return nil
}

// SetMaxSize changes the rotation threshold. Zero or less disables
// rotation.
func SetMaxSize(n int64) {
	mu.Lock()
	defer mu.Unlock()
	maxSize = n
}

// Close closes the audit log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if auditFile != nil {
		err := auditFile.Close()
		auditFile = nil
		enabled = false
		return err
	}
	return nil
}

// Log appends entry to the audit log. It is a no-op when auditing is
// not enabled.
func Log(entry Entry) error {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || auditFile == nil {
		return nil
	}

	if entry.Version == 0 {
		entry.Version = Version
	}
	entry.Timestamp = time.Now().UTC().Format(TimestampFormat)

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Debug("failed to marshal audit entry", "error", err)
		return err
	}

	return withLock(func() error {
		if err := rotateIfNeeded(); err != nil {
			logger.Warn("audit rotation failed", "error", err)
		}
		if _, err := auditFile.Write(append(data, '\n')); err != nil {
			logger.Debug("failed to write audit entry", "error", err)
			return err
		}
		return nil
	})
}

// withLock runs fn while holding the inter-process audit lock.
func withLock(fn func() error) error {
	var locked bool
	var err error
	for i := 0; i < maxLockRetries; i++ {
		locked, err = fileLock.TryLock()
		if err != nil {
			return errors.Join(ErrLocked, err)
		}
		if locked {
			break
		}
		time.Sleep(lockRetryDelay)
	}
	if !locked {
		return ErrLocked
	}

	defer func() {
		if err := fileLock.Unlock(); err != nil {
			logger.Debug("failed to unlock audit log", "error", err)
		}
	}()

	return fn()
}

// rotateIfNeeded compresses the current log into a timestamped .zst
// archive and truncates it once it reaches maxSize. Callers hold the lock.
func rotateIfNeeded() error {
	if maxSize <= 0 {
		return nil
	}
	info, err := os.Stat(auditPath)
	if err != nil {
		return err
	}
	if info.Size() < maxSize {
		return nil
	}

	archive := fmt.Sprintf("%s.%s.zst", auditPath, time.Now().UTC().Format("20060102T150405.000000000"))
	if err := compressFile(auditPath, archive); err != nil {
		return err
	}
	if err := auditFile.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate audit log: %w", err)
	}
	logger.Debug("rotated audit log", "archive", archive)
	return nil
}

func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, constants.FileMode)
	if err != nil {
		return err
	}
	defer out.Close()

	enc, err := zstd.NewWriter(out)
	if err != nil {
		return err
	}
	if _, err := io.Copy(enc, in); err != nil {
		enc.Close()
		return fmt.Errorf("failed to compress audit log: %w", err)
	}
	return enc.Close()
}

// Path returns the path of the open audit log, or "" when disabled.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return ""
	}
	return auditPath
}

// IsEnabled returns whether audit logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Reset resets the audit state. Used for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if auditFile != nil {
		auditFile.Close()
	}
	auditFile = nil
	auditPath = ""
	fileLock = nil
	maxSize = DefaultMaxSize
	enabled = false
}
