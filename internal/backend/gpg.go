package backend

import (
	"context"
	"path/filepath"
)

// gpgBackend decrypts entry files directly with a gpg binary, for hosts
// that have Gpg4win but no pass installation.
type gpgBackend struct {
	base
	binary string
}

func newGPG(opts Options) *gpgBackend {
	return &gpgBackend{base: newBase(KindGPG, opts), binary: opts.GPGBinary}
}

func (b *gpgBackend) DefaultStorePath(ctx context.Context) string {
	return b.fallbackStorePath()
}

func (b *gpgBackend) SetStorePath(ctx context.Context, path string) {
	b.storePath = b.expand(path)
}

// entryPath maps an entry name back to its file under the store root.
func (b *gpgBackend) entryPath(name string) string {
	return filepath.Join(b.storePath, filepath.FromSlash(name)+EntryExt)
}

func (b *gpgBackend) GetContents(ctx context.Context, name string) (string, error) {
	return b.decrypt(ctx, name, invocation{
		name: b.binary,
		args: []string{"--quiet", "--decrypt", b.entryPath(name)},
		env:  map[string]string{EnvStoreDir: b.storePath},
	})
}

func (b *gpgBackend) GetPassword(ctx context.Context, name string) (string, error) {
	contents, err := b.GetContents(ctx, name)
	if err != nil {
		return "", err
	}
	return FirstLine(contents), nil
}

func (b *gpgBackend) Validate(ctx context.Context) error {
	return b.lookPath(b.binary)
}
