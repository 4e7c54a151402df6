package backend

import (
	"context"
	"fmt"
	"strings"
)

// Path translation between the two filesystem views of a WSL setup:
// native paths (C:\Users\me\.password-store) as the host and the directory
// walk see them, and foreign paths (/home/me/.password-store) as the shell
// inside WSL sees them. Translation is delegated to wslpath.

// quoteDoubled escapes s for use inside a double-quoted bash word. Dollar
// signs are left alone on purpose so $HOME and friends expand inside WSL.
func quoteDoubled(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`")
	return `"` + r.Replace(s) + `"`
}

// bash runs script through bash -c and returns trimmed stdout. Failures
// and empty output both come back as ok == false.
func (b *wslBackend) bash(ctx context.Context, script string) (string, bool) {
	stdout, stderr, err := b.executor.Execute(ctx, "bash", "-c", script)
	out := strings.TrimSpace(string(stdout))
	if err != nil {
		b.logger.Debug("bash -c %q failed: %v %s", script, err, strings.TrimSpace(string(stderr)))
		return "", false
	}
	return out, out != ""
}

func (b *wslBackend) wslpath(ctx context.Context, flag, path string) (string, bool) {
	out, ok := b.bash(ctx, fmt.Sprintf("wslpath %s %s", flag, quoteDoubled(path)))
	if !ok {
		b.logger.Debug("wslpath %s could not translate %q", flag, path)
	}
	return out, ok
}

// toForeign converts a native path to its WSL form.
func (b *wslBackend) toForeign(ctx context.Context, native string) (string, bool) {
	return b.wslpath(ctx, "-u", native)
}

// toNative converts a WSL path (variables allowed) to its Windows form.
func (b *wslBackend) toNative(ctx context.Context, foreign string) (string, bool) {
	return b.wslpath(ctx, "-w", foreign)
}

// expandForeign expands variables in path using the WSL environment. The
// path is returned unchanged when the shell prints nothing.
func (b *wslBackend) expandForeign(ctx context.Context, path string) string {
	if out, ok := b.bash(ctx, "echo "+quoteDoubled(path)); ok {
		return out
	}
	return path
}
