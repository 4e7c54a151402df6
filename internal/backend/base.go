package backend

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	dserrors "github.com/systmms/passlaunch/internal/errors"
	"github.com/systmms/passlaunch/internal/logging"
	"github.com/systmms/passlaunch/internal/metrics"
	pkgexec "github.com/systmms/passlaunch/pkg/exec"
)

// base holds what every kind shares: the native store path, entry
// enumeration and the decrypt retry policy.
type base struct {
	kind      Kind
	storePath string

	executor  pkgexec.CommandExecutor
	logger    *logging.Logger
	metrics   *metrics.Recorder
	lookupEnv func(string) (string, bool)
	homeDir   func() (string, error)
}

func newBase(kind Kind, opts Options) base {
	return base{
		kind:      kind,
		executor:  opts.Executor,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		lookupEnv: opts.LookupEnv,
		homeDir:   opts.HomeDir,
	}
}

func (b *base) Kind() Kind { return b.kind }

func (b *base) StorePath() string { return b.storePath }

// fallbackStorePath is ~/.password-store on the host, or a relative
// .password-store when even the home directory is unknown.
func (b *base) fallbackStorePath() string {
	home, err := b.homeDir()
	if err != nil || home == "" {
		return ".password-store"
	}
	return filepath.Join(home, ".password-store")
}

// expand substitutes $VAR and ${VAR} using the backend's environment.
// Unknown variables are kept so a later shell (inside WSL) can expand them.
func (b *base) expand(path string) string {
	return os.Expand(path, func(key string) string {
		if v, ok := b.lookupEnv(key); ok {
			return v
		}
		return "${" + key + "}"
	})
}

// ListEntries walks the store root for *.gpg files. Dot-prefixed files and
// directories (.git, .gpg-id, .extensions) are skipped.
func (b *base) ListEntries() ([]string, error) {
	root := b.storePath
	var names []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), EntryExt) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		names = append(names, EntryName(rel))
		return nil
	})
	if err != nil {
		return nil, dserrors.UserError{
			Message:    "Failed to enumerate the password store",
			Details:    err.Error(),
			Suggestion: "Check the store path in your passlaunch settings",
			Err:        err,
		}
	}
	if names == nil {
		b.logger.Warn("No entries found in password store %s", root)
	}
	return names, nil
}

// invocation is one external decrypt command.
type invocation struct {
	name string
	args []string
	env  map[string]string
}

func (inv invocation) String() string {
	return strings.TrimSpace(inv.name + " " + strings.Join(inv.args, " "))
}

func (b *base) run(ctx context.Context, inv invocation, visible bool) ([]byte, []byte, error) {
	opts := pkgexec.Options{Env: inv.env, Visible: visible}
	return b.executor.ExecuteWithOptions(ctx, opts, inv.name, inv.args...)
}

// decrypt runs inv with captured output. When it prints nothing, gpg was
// most likely waiting on a passphrase prompt that could not reach the user,
// so the command is run once more on a visible terminal (result discarded,
// the agent now caches the passphrase) and then captured a third time.
func (b *base) decrypt(ctx context.Context, entry string, inv invocation) (string, error) {
	start := time.Now()
	kind := string(b.kind)

	stdout, stderr, err := b.run(ctx, inv, false)
	if len(stdout) == 0 && !errors.Is(err, exec.ErrNotFound) && ctx.Err() == nil {
		b.logger.Debug("No output decrypting %s, retrying with a visible terminal", entry)
		b.metrics.RecordPromptRetry(kind)

		if _, _, promptErr := b.run(ctx, inv, true); promptErr != nil {
			b.logger.Debug("Passphrase prompt for %s ended with: %v", entry, promptErr)
		}
		stdout, stderr, err = b.run(ctx, inv, false)
	}

	elapsed := time.Since(start).Seconds()
	if err != nil {
		b.metrics.RecordDecrypt(kind, metrics.ResultError, elapsed)
		return "", dserrors.FromExec(inv.String(), stderr, err)
	}
	if len(stdout) == 0 {
		b.metrics.RecordDecrypt(kind, metrics.ResultEmpty, elapsed)
		b.logger.Warn("Decrypting %s returned no data", entry)
		return "", nil
	}

	b.metrics.RecordDecrypt(kind, metrics.ResultOK, elapsed)
	return string(stdout), nil
}

func (b *base) lookPath(tool string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return dserrors.WrapCommandNotFound(tool, err)
	}
	return nil
}
