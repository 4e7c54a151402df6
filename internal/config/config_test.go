package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dserrors "github.com/systmms/passlaunch/internal/errors"
	"github.com/systmms/passlaunch/internal/logging"
	"github.com/systmms/passlaunch/internal/secrecy"
)

func writeSettings(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfig_LoadYAML(t *testing.T) {
	path := writeSettings(t, "passlaunch.yaml", `
path: $HOME/.password-store
backend: gpg
clip_time: 10
show_secrets: true
safe_keys: [URL, login, email]
gpg_binary: /usr/local/bin/gpg
`)

	cfg := &Config{Path: path, Logger: logging.Discard()}
	require.NoError(t, cfg.Load())

	s := cfg.Settings
	assert.Equal(t, "$HOME/.password-store", s.Path, "expansion belongs to the backend")
	assert.Equal(t, "gpg", s.Backend)
	assert.Equal(t, 10, s.ClipTime)
	assert.Equal(t, 10*time.Second, s.ClipDelay())
	assert.True(t, s.ShowSecrets)
	assert.Equal(t, []string{"URL", "login", "email"}, s.SafeKeys)
	assert.Equal(t, "/usr/local/bin/gpg", s.GPGBinary)
}

func TestConfig_LoadJSONC(t *testing.T) {
	path := writeSettings(t, "passlaunch.jsonc", `{
  // keep secrets hidden
  "backend": "wsl",
  "clip_time": 30, /* seconds */
  "safe_keys": ["URL",],
}`)

	cfg := &Config{Path: path}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "wsl", cfg.Settings.Backend)
	assert.Equal(t, 30, cfg.Settings.ClipTime)
	assert.Equal(t, []string{"URL"}, cfg.Settings.SafeKeys)
}

func TestConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg := &Config{Path: filepath.Join(t.TempDir(), "absent.yaml"), Logger: logging.Discard()}
	require.NoError(t, cfg.Load())

	s := cfg.Settings
	assert.Equal(t, DefaultBackend(), s.Backend)
	assert.Equal(t, DefaultClipTime, s.ClipTime)
	assert.Equal(t, 45*time.Second, s.ClipDelay())
	assert.False(t, s.ShowSecrets)
	assert.Equal(t, []string{"URL", "Username"}, s.SafeKeys)
	assert.Equal(t, DefaultGPGBinary(), s.GPGBinary)
	assert.Empty(t, s.Path)
}

func TestConfig_EmptyFileUsesDefaults(t *testing.T) {
	path := writeSettings(t, "passlaunch.yaml", "")

	cfg := &Config{Path: path}
	require.NoError(t, cfg.Load())
	assert.Equal(t, DefaultClipTime, cfg.Settings.ClipTime)
}

func TestConfig_ReloadReplacesSettings(t *testing.T) {
	path := writeSettings(t, "passlaunch.yaml", "clip_time: 5\nsafe_keys: [pin]\n")

	cfg := &Config{Path: path}
	require.NoError(t, cfg.Load())
	first := cfg.Settings

	require.NoError(t, os.WriteFile(path, []byte("show_secrets: true\n"), 0o600))
	require.NoError(t, cfg.Load())

	assert.NotSame(t, first, cfg.Settings)
	assert.Equal(t, DefaultClipTime, cfg.Settings.ClipTime, "keys absent from the new file fall back to defaults")
	assert.Equal(t, secrecy.DefaultSafeKeys(), cfg.Settings.SafeKeys)
	assert.True(t, cfg.Settings.ShowSecrets)
	assert.Equal(t, 5, first.ClipTime, "previous settings are not mutated")
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"unknown key", "clip_tme: 10\n", "(root)"},
		{"negative delay", "clip_time: -1\n", "clip_time"},
		{"fractional delay", "clip_time: 1.5\n", "clip_time"},
		{"wrong type", "show_secrets: maybe\n", "show_secrets"},
		{"safe keys not a list", "safe_keys: URL\n", "safe_keys"},
		{"empty backend", "backend: \"\"\n", "backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), ".yaml")
			require.Error(t, err)

			var cfgErr dserrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestParse_InvalidSyntax(t *testing.T) {
	_, err := Parse([]byte("path: [unterminated\n"), ".yaml")

	var cfgErr dserrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "invalid syntax")
	assert.Contains(t, cfgErr.Message, "yaml:")
}

func TestParse_InvalidSyntaxReportsLine(t *testing.T) {
	_, err := Parse([]byte(`backend: native
clip_time: 10
  path: x: y
`), ".yaml")

	var cfgErr dserrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "line 3")
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/passlaunch.yaml")
	assert.Equal(t, "/etc/passlaunch.yaml", DefaultPath())

	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, "passlaunch.yaml", filepath.Base(DefaultPath()))
}
