package secure

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureBuffer_Reveal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"password", "correct horse battery staple"},
		{"empty clipboard", ""},
		{"multiline", "line one\nline two\n"},
		{"unicode", "pässwörd-🔑"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := NewSecureString(tt.text)
			defer buf.Destroy()

			got, err := buf.Reveal()
			require.NoError(t, err)
			assert.Equal(t, tt.text, got)
		})
	}
}

func TestSecureBuffer_MultipleReveals(t *testing.T) {
	t.Parallel()

	buf := NewSecureString("snapshot")
	defer buf.Destroy()

	for i := 0; i < 3; i++ {
		got, err := buf.Reveal()
		require.NoError(t, err)
		assert.Equal(t, "snapshot", got)
	}
}

func TestSecureBuffer_Destroy(t *testing.T) {
	t.Parallel()

	buf := NewSecureString("gone soon")
	buf.Destroy()
	buf.Destroy()

	got, err := buf.Reveal()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewSecureBuffer_WipesInput(t *testing.T) {
	t.Parallel()

	data := []byte("wipe-me")
	buf := NewSecureBuffer(data)
	defer buf.Destroy()

	assert.Equal(t, make([]byte, len(data)), data)

	got, err := buf.Reveal()
	require.NoError(t, err)
	assert.Equal(t, "wipe-me", got)
}

func TestSecureBuffer_ConcurrentReveal(t *testing.T) {
	t.Parallel()

	buf := NewSecureString("shared")
	defer buf.Destroy()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := buf.Reveal()
			assert.NoError(t, err)
			assert.Equal(t, "shared", got)
		}()
	}
	wg.Wait()
}
