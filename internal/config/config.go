package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	dserrors "github.com/systmms/passlaunch/internal/errors"
	"github.com/systmms/passlaunch/internal/logging"
	"github.com/systmms/passlaunch/internal/secrecy"
)

// EnvConfigPath overrides the settings file location.
const EnvConfigPath = "PASSLAUNCH_CONFIG"

// Defaults applied to keys missing from the settings file.
const (
	DefaultClipTime = 45
)

//go:embed settings.schema.json
var settingsSchema string

// Config holds the runtime configuration
type Config struct {
	Path     string
	Logger   *logging.Logger
	Settings *Settings
}

// Settings is the content of passlaunch.yaml.
type Settings struct {
	// Path is the password store root. Empty means the backend default.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	// Backend selects how pass is invoked: native, wsl or gpg.
	Backend  string `yaml:"backend,omitempty" json:"backend,omitempty"`
	ClipTime int    `yaml:"clip_time,omitempty" json:"clip_time,omitempty"`
	// ShowSecrets disables redaction for every line.
	ShowSecrets bool `yaml:"show_secrets,omitempty" json:"show_secrets,omitempty"`
	// SafeKeys are compared case-insensitively.
	SafeKeys  []string `yaml:"safe_keys,omitempty" json:"safe_keys,omitempty"`
	GPGBinary string   `yaml:"gpg_binary,omitempty" json:"gpg_binary,omitempty"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.applyDefaults()
	return s
}

// DefaultPath returns the settings file location: $PASSLAUNCH_CONFIG, or
// passlaunch/passlaunch.yaml under the user configuration directory.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "passlaunch.yaml"
	}
	return filepath.Join(dir, "passlaunch", "passlaunch.yaml")
}

// DefaultBackend is wsl on Windows, where pass normally lives inside WSL,
// and native everywhere else.
func DefaultBackend() string {
	if runtime.GOOS == "windows" {
		return "wsl"
	}
	return "native"
}

// DefaultGPGBinary is the gpg executable name for the current platform.
func DefaultGPGBinary() string {
	if runtime.GOOS == "windows" {
		return "gpg.exe"
	}
	return "gpg"
}

func (s *Settings) applyDefaults() {
	if s.Backend == "" {
		s.Backend = DefaultBackend()
	}
	if s.ClipTime == 0 {
		s.ClipTime = DefaultClipTime
	}
	if s.SafeKeys == nil {
		s.SafeKeys = secrecy.DefaultSafeKeys()
	}
	if s.GPGBinary == "" {
		s.GPGBinary = DefaultGPGBinary()
	}
}

// ClipDelay returns ClipTime as a duration.
func (s *Settings) ClipDelay() time.Duration {
	return time.Duration(s.ClipTime) * time.Second
}

// Load reads the settings file and replaces c.Settings as a whole. A missing
// file yields the defaults.
func (c *Config) Load() error {
	settings, err := LoadFile(c.Path)
	if err != nil {
		return err
	}
	if settings == nil {
		if c.Logger != nil {
			c.Logger.Debug("No settings file at %s, using defaults", c.Path)
		}
		settings = DefaultSettings()
	}
	c.Settings = settings
	return nil
}

// LoadFile parses and validates one settings file. It returns (nil, nil)
// when the file does not exist.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, dserrors.UserError{
			Message:    "Failed to read settings file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes settings from YAML, or from JSON with comments when ext is
// .json or .jsonc, then validates them against the embedded schema.
func Parse(data []byte, ext string) (*Settings, error) {
	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, dserrors.ConfigError{
			Message:    fmt.Sprintf("invalid syntax in settings file: %v", err),
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters",
		}
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, dserrors.ConfigError{
			Message:    fmt.Sprintf("cannot decode settings: %v", err),
			Suggestion: "Compare your settings with 'passlaunch doctor' output",
		}
	}
	s.applyDefaults()
	return &s, nil
}

func validate(doc map[string]interface{}) error {
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal settings for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(settingsSchema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var messages []string
		var field string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
			if field == "" {
				field = desc.Field()
			}
		}
		return dserrors.ConfigError{
			Field:      field,
			Message:    "settings do not match the schema:\n  - " + strings.Join(messages, "\n  - "),
			Suggestion: "Valid keys are path, backend, clip_time, show_secrets, safe_keys and gpg_binary",
		}
	}
	return nil
}
