// Package config handles loading and parsing of ccgate permission files.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dgerlanc/ccgate/internal/constants"
	"github.com/dgerlanc/ccgate/internal/patterns"
	"gopkg.in/yaml.v3"
)

//go:embed permissions.json
var defaultConfig []byte

var (
	// ErrModeNotFound is returned when the requested permission mode is
	// missing or empty.
	ErrModeNotFound = errors.New("permission mode not found")
	// ErrUnsupportedFormat is returned for an unknown Format value.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// CategoryName identifies a pattern category.
type CategoryName string

// Category names as they appear in the permission file.
const (
	GlobalAllow CategoryName = "globalAllow"
	GlobalDeny  CategoryName = "globalDeny"
	Risky       CategoryName = "risky"
	Edit        CategoryName = "edit"
	Read        CategoryName = "read"
	UseWeb      CategoryName = "useWeb"
	UseMcp      CategoryName = "useMcp"
)

// CategoryNames lists every known category in display order.
var CategoryNames = []CategoryName{GlobalAllow, GlobalDeny, Risky, Edit, Read, UseWeb, UseMcp}

// Category holds the ordered tool and command patterns of one category.
type Category struct {
	Tools    patterns.List
	Commands patterns.List
}

// Mode is a named bundle of policy switches.
type Mode struct {
	GlobalAllow         bool
	GlobalDeny          bool
	Read                bool
	ReadAllFiles        bool
	Edit                bool
	EditAllFiles        bool
	Risky               bool
	RiskyAllFiles       bool
	UseWeb              bool
	UseMcp              bool
	AllowUnknownCommand bool
}

// Switch names as they appear in a mode entry.
const (
	SwitchGlobalAllow         = "globalAllow"
	SwitchGlobalDeny          = "globalDeny"
	SwitchRead                = "read"
	SwitchReadAllFiles        = "readAllFiles"
	SwitchEdit                = "edit"
	SwitchEditAllFiles        = "editAllFiles"
	SwitchRisky               = "risky"
	SwitchRiskyAllFiles       = "riskyAllFiles"
	SwitchUseWeb              = "useWeb"
	SwitchUseMcp              = "useMcp"
	SwitchAllowUnknownCommand = "allowUnknownCommand"
)

// SwitchNames lists every mode switch in display order.
var SwitchNames = []string{
	SwitchGlobalAllow, SwitchGlobalDeny,
	SwitchRead, SwitchReadAllFiles,
	SwitchEdit, SwitchEditAllFiles,
	SwitchRisky, SwitchRiskyAllFiles,
	SwitchUseWeb, SwitchUseMcp,
	SwitchAllowUnknownCommand,
}

// Switch returns the value of the named switch. Unknown names are off.
func (m Mode) Switch(name string) bool {
	switch name {
	case SwitchGlobalAllow:
		return m.GlobalAllow
	case SwitchGlobalDeny:
		return m.GlobalDeny
	case SwitchRead:
		return m.Read
	case SwitchReadAllFiles:
		return m.ReadAllFiles
	case SwitchEdit:
		return m.Edit
	case SwitchEditAllFiles:
		return m.EditAllFiles
	case SwitchRisky:
		return m.Risky
	case SwitchRiskyAllFiles:
		return m.RiskyAllFiles
	case SwitchUseWeb:
		return m.UseWeb
	case SwitchUseMcp:
		return m.UseMcp
	case SwitchAllowUnknownCommand:
		return m.AllowUnknownCommand
	}
	return false
}

// Enabled returns the names of the switches that are on.
func (m Mode) Enabled() []string {
	var on []string
	for _, name := range SwitchNames {
		if m.Switch(name) {
			on = append(on, name)
		}
	}
	return on
}

// NotificationItem configures one lifecycle notification. Empty strings
// mean "use the built-in default".
type NotificationItem struct {
	Enabled      bool
	Title        string
	Message      string
	Sound        string
	SoundWindows string
}

// Notifications holds the notification switches.
type Notifications struct {
	Enabled             bool
	OnCompletion        NotificationItem
	OnPermissionRequest NotificationItem
}

// PermissionConfig is a parsed permission file. It is read-only once
// built.
type PermissionConfig struct {
	Categories    map[CategoryName]Category
	Modes         map[string]Mode
	Notifications Notifications
}

// Category returns the named category, or an empty one if it is absent.
func (c *PermissionConfig) Category(name CategoryName) Category {
	if c == nil {
		return Category{}
	}
	return c.Categories[name]
}

// Mode returns the named mode. Modes that are missing, empty or not an
// object in the source file all yield ErrModeNotFound.
func (c *PermissionConfig) Mode(name string) (Mode, error) {
	if c == nil {
		return Mode{}, ErrModeNotFound
	}
	m, ok := c.Modes[name]
	if !ok {
		return Mode{}, fmt.Errorf("%w: %q", ErrModeNotFound, name)
	}
	return m, nil
}

// ModeNames returns the configured mode names, sorted.
func (c *PermissionConfig) ModeNames() []string {
	names := make([]string, 0, len(c.Modes))
	for name := range c.Modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format is the encoding of a permission file.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks a format from the file extension. Unknown extensions
// are read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DefaultPath returns ~/.claude/permissions.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, constants.ClaudeConfigDir, constants.PermissionsFileName), nil
}

// ResolvePath returns the permission file to read: the explicit path if
// given, otherwise CCGATE_CONFIG, otherwise DefaultPath.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if p := os.Getenv(constants.EnvConfig); p != "" {
		return p, nil
	}
	return DefaultPath()
}

// Load reads and parses the permission file at path.
func Load(path string) (*PermissionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read permissions file: %w", err)
	}
	cfg, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format and builds a PermissionConfig.
func Parse(data []byte, format Format) (*PermissionConfig, error) {
	doc, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// Decode decodes data into a generic document.
func Decode(data []byte, format Format) (map[string]any, error) {
	var doc map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// FromDocument builds a PermissionConfig from a decoded document.
// Unknown keys are ignored and wrongly typed values count as absent.
func FromDocument(doc map[string]any) (*PermissionConfig, error) {
	cfg := &PermissionConfig{
		Categories: make(map[CategoryName]Category),
		Modes:      make(map[string]Mode),
	}

	categories := toMap(doc["categories"])
	for _, name := range CategoryNames {
		raw := toMap(categories[string(name)])
		tools, errs := patterns.CompileList(toStringSlice(raw["tools"]))
		if len(errs) > 0 {
			return nil, fmt.Errorf("invalid tool pattern in %s: %w", name, errors.Join(errs...))
		}
		commands, errs := patterns.CompileList(toStringSlice(raw["commands"]))
		if len(errs) > 0 {
			return nil, fmt.Errorf("invalid command pattern in %s: %w", name, errors.Join(errs...))
		}
		cfg.Categories[name] = Category{Tools: tools, Commands: commands}
	}

	for name, value := range toMap(doc["modes"]) {
		raw := toMap(value)
		if len(raw) == 0 {
			continue
		}
		cfg.Modes[name] = parseMode(raw)
	}

	notifications := toMap(doc["notifications"])
	cfg.Notifications = Notifications{
		Enabled:             IsOn(notifications["enabled"]),
		OnCompletion:        parseNotificationItem(toMap(notifications["onCompletion"])),
		OnPermissionRequest: parseNotificationItem(toMap(notifications["onPermissionRequest"])),
	}

	return cfg, nil
}

func parseMode(raw map[string]any) Mode {
	return Mode{
		GlobalAllow:         IsOn(raw[SwitchGlobalAllow]),
		GlobalDeny:          IsOn(raw[SwitchGlobalDeny]),
		Read:                IsOn(raw[SwitchRead]),
		ReadAllFiles:        IsOn(raw[SwitchReadAllFiles]),
		Edit:                IsOn(raw[SwitchEdit]),
		EditAllFiles:        IsOn(raw[SwitchEditAllFiles]),
		Risky:               IsOn(raw[SwitchRisky]),
		RiskyAllFiles:       IsOn(raw[SwitchRiskyAllFiles]),
		UseWeb:              IsOn(raw[SwitchUseWeb]),
		UseMcp:              IsOn(raw[SwitchUseMcp]),
		AllowUnknownCommand: IsOn(raw[SwitchAllowUnknownCommand]),
	}
}

func parseNotificationItem(raw map[string]any) NotificationItem {
	title, _ := raw["title"].(string)
	message, _ := raw["message"].(string)
	sound, _ := raw["sound"].(string)
	soundWindows, _ := raw["soundWindows"].(string)
	return NotificationItem{
		Enabled:      IsOn(raw["enabled"]),
		Title:        title,
		Message:      message,
		Sound:        sound,
		SoundWindows: soundWindows,
	}
}

// IsOn reports whether a switch value is on: boolean true or the number 1.
func IsOn(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x == 1
	case int64:
		return x == 1
	case int:
		return x == 1
	case uint64:
		return x == 1
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 1
	}
	return false
}

// toStringSlice converts an any to []string, skipping non-strings.
func toStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// toMap converts an any to map[string]any.
func toMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

// GetDefaultConfig returns the embedded default permission file.
func GetDefaultConfig() []byte {
	return defaultConfig
}

// WriteDefault writes the embedded default permission file to path,
// creating parent directories. An existing file is kept unless force is
// set. Reports whether the file was written.
func WriteDefault(path string, force bool) (bool, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, defaultConfig, constants.FileMode); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
