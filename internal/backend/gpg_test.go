package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/passlaunch/tests/testutil"
)

func TestGPG_GetContentsDecryptsEntryFile(t *testing.T) {
	t.Parallel()

	store := testutil.NewStoreFixture(t, "email/work")
	mock := testutil.NewMockCommandExecutor()
	mock.AddOutput("gpg.exe --quiet --decrypt", "s3cret\nUsername: me\n")

	opts, _ := newTestOptions(t, mock)
	opts.GPGBinary = "gpg.exe"
	b, err := New(KindGPG, opts)
	require.NoError(t, err)
	b.SetStorePath(context.Background(), store.Root)

	password, err := b.GetPassword(context.Background(), "email/work")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", password)

	calls := mock.GetCalls("gpg.exe")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{
		"--quiet", "--decrypt", filepath.Join(store.Root, "email", "work.gpg"),
	}, calls[0].Args)
	assert.Equal(t, store.Root, calls[0].Env[EnvStoreDir])
}

func TestGPG_Defaults(t *testing.T) {
	t.Parallel()

	opts, _ := newTestOptions(t, testutil.NewMockCommandExecutor())
	opts.HomeDir = func() (string, error) { return "/home/me", nil }

	b := newGPG(opts.withDefaults())
	assert.Equal(t, "gpg", b.binary)
	assert.Equal(t, filepath.Join("/home/me", ".password-store"), b.DefaultStorePath(context.Background()))
}

func TestGPG_ValidateMissingBinary(t *testing.T) {
	t.Parallel()

	opts, _ := newTestOptions(t, testutil.NewMockCommandExecutor())
	opts.GPGBinary = "gpg-binary-that-does-not-exist"
	b, err := New(KindGPG, opts)
	require.NoError(t, err)

	err = b.Validate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command not found")
}
