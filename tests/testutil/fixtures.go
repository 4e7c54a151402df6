package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// StoreFixture is a throwaway password store directory.
//
// Entry files hold placeholder bytes; backends never read them directly
// because decryption is mocked through MockCommandExecutor.
//
// Example usage:
//
//	store := NewStoreFixture(t, "email/work", "bank")
//	b.SetStorePath(ctx, store.Root)
type StoreFixture struct {
	Root string
	t    *testing.T
}

// NewStoreFixture creates a store under t.TempDir() containing the given
// entries plus the usual pass housekeeping files (.gpg-id, .git/).
func NewStoreFixture(t *testing.T, entries ...string) *StoreFixture {
	t.Helper()

	f := &StoreFixture{Root: filepath.Join(t.TempDir(), ".password-store"), t: t}
	f.WriteFile(".gpg-id", "ABCDEF0123456789\n")
	f.WriteFile(filepath.Join(".git", "HEAD"), "ref: refs/heads/main\n")
	for _, entry := range entries {
		f.AddEntry(entry)
	}
	return f
}

// AddEntry creates <name>.gpg below the root. Slashes in name become
// directories.
func (f *StoreFixture) AddEntry(name string) string {
	f.t.Helper()
	rel := filepath.FromSlash(name) + ".gpg"
	f.WriteFile(rel, "-----BEGIN PGP MESSAGE-----\n")
	return filepath.Join(f.Root, rel)
}

// WriteFile writes an arbitrary file relative to the root.
func (f *StoreFixture) WriteFile(rel, contents string) {
	f.t.Helper()

	path := filepath.Join(f.Root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		f.t.Fatalf("Failed to create store directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		f.t.Fatalf("Failed to write store file %s: %v", rel, err)
	}
}

// WriteConfig writes a settings file into a temp dir and returns its path.
func WriteConfig(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("Failed to write config fixture %s: %v", name, err)
	}
	return path
}
