package backend

import (
	"context"
	"os"
	"path/filepath"

	"al.essio.dev/pkg/shellescape"

	dserrors "github.com/systmms/passlaunch/internal/errors"
)

// EnvWSLEnv lists the variables Windows forwards into WSL processes.
const EnvWSLEnv = "WSLENV"

// wslBackend runs pass inside WSL through bash. It tracks the store root
// in both path views: storePath for the directory walk on the host and
// foreignStorePath for PASSWORD_STORE_DIR inside WSL.
type wslBackend struct {
	base
	foreignStorePath string
}

func newWSL(opts Options) *wslBackend {
	return &wslBackend{base: newBase(KindWSL, opts)}
}

// DefaultStorePath asks WSL for $PASSWORD_STORE_DIR, then for $HOME, and
// converts the answer to a native path.
func (b *wslBackend) DefaultStorePath(ctx context.Context) string {
	if dir, ok := b.bash(ctx, "echo $"+EnvStoreDir); ok {
		if native, ok := b.toNative(ctx, dir); ok {
			return native
		}
		return b.fallbackStorePath()
	}
	if home, ok := b.toNative(ctx, "$HOME"); ok {
		return filepath.Join(home, ".password-store")
	}
	return b.fallbackStorePath()
}

// SetStorePath accepts either path view. A path that exists on the host is
// taken as native; anything else is assumed to be a WSL path. The check can
// misclassify a WSL path that happens to exist on the host too.
func (b *wslBackend) SetStorePath(ctx context.Context, path string) {
	expanded := b.expand(path)

	if _, err := os.Stat(expanded); err == nil {
		b.storePath = expanded
		b.foreignStorePath, _ = b.toForeign(ctx, expanded)
		return
	}

	b.foreignStorePath = b.expandForeign(ctx, expanded)
	if native, ok := b.toNative(ctx, b.foreignStorePath); ok {
		b.storePath = native
		return
	}
	b.storePath = b.fallbackStorePath()
	b.logger.Warn("Could not translate %s to a Windows path, using %s", b.foreignStorePath, b.storePath)
}

// ForeignStorePath returns the store root as seen inside WSL, or "" when it
// could not be translated.
func (b *wslBackend) ForeignStorePath() string {
	return b.foreignStorePath
}

// env forwards PASSWORD_STORE_DIR into WSL. Without a foreign path pass
// falls back to its own default.
func (b *wslBackend) env() map[string]string {
	if b.foreignStorePath == "" {
		return nil
	}
	forward := EnvStoreDir + "/u"
	if existing, ok := b.lookupEnv(EnvWSLEnv); ok && existing != "" {
		forward = existing + ":" + forward
	}
	return map[string]string{
		EnvStoreDir: b.foreignStorePath,
		EnvWSLEnv:   forward,
	}
}

func (b *wslBackend) GetContents(ctx context.Context, name string) (string, error) {
	return b.decrypt(ctx, name, invocation{
		name: "bash",
		args: []string{"-c", "pass show " + shellescape.Quote(name)},
		env:  b.env(),
	})
}

func (b *wslBackend) GetPassword(ctx context.Context, name string) (string, error) {
	contents, err := b.GetContents(ctx, name)
	if err != nil {
		return "", err
	}
	return FirstLine(contents), nil
}

// Validate checks for bash on the host and pass inside WSL.
func (b *wslBackend) Validate(ctx context.Context) error {
	if err := b.lookPath("bash"); err != nil {
		return err
	}
	if _, ok := b.bash(ctx, "command -v pass"); !ok {
		return dserrors.UserError{
			Message:    "pass is not installed inside WSL",
			Suggestion: "Install pass inside your WSL distribution (apt install pass)",
		}
	}
	return nil
}
