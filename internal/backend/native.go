package backend

import "context"

// nativeBackend runs pass on the same machine as the host.
type nativeBackend struct {
	base
}

func newNative(opts Options) *nativeBackend {
	return &nativeBackend{base: newBase(KindNative, opts)}
}

// DefaultStorePath honours $PASSWORD_STORE_DIR like pass itself does.
func (b *nativeBackend) DefaultStorePath(ctx context.Context) string {
	if dir, ok := b.lookupEnv(EnvStoreDir); ok && dir != "" {
		return dir
	}
	return b.fallbackStorePath()
}

func (b *nativeBackend) SetStorePath(ctx context.Context, path string) {
	b.storePath = b.expand(path)
}

func (b *nativeBackend) GetContents(ctx context.Context, name string) (string, error) {
	return b.decrypt(ctx, name, invocation{
		name: "pass",
		args: []string{"show", name},
		env:  map[string]string{EnvStoreDir: b.storePath},
	})
}

func (b *nativeBackend) GetPassword(ctx context.Context, name string) (string, error) {
	contents, err := b.GetContents(ctx, name)
	if err != nil {
		return "", err
	}
	return FirstLine(contents), nil
}

func (b *nativeBackend) Validate(ctx context.Context) error {
	return b.lookPath("pass")
}
