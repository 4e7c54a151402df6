// Package clipboard places secrets on the system clipboard and puts the
// previous contents back after a delay.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/zeebo/blake3"
)

// Clipboard is plain-text clipboard access.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// System is the desktop clipboard (xclip, xsel or wl-clipboard on Linux,
// pbcopy on macOS, the Win32 API on Windows).
type System struct{}

// Read returns the current clipboard text.
func (System) Read() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	return text, nil
}

// Write replaces the clipboard text.
func (System) Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// Available reports whether a clipboard tool was found.
func (System) Available() bool {
	return !clipboard.Unsupported
}

// Fingerprint identifies clipboard content without keeping it around. It
// is an identity check, not a security boundary.
type Fingerprint [32]byte

// FingerprintOf hashes text with BLAKE3-256.
func FingerprintOf(text string) Fingerprint {
	return blake3.Sum256([]byte(text))
}
