package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// SecureBuffer holds one sealed string.
//
// memguard refuses to seal zero-length data, so an empty string is tracked
// with a flag instead of an enclave.
type SecureBuffer struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	empty     bool
	destroyed bool
}

// NewSecureBuffer seals data. memguard wipes the input slice after copying it.
func NewSecureBuffer(data []byte) *SecureBuffer {
	if len(data) == 0 {
		return &SecureBuffer{empty: true}
	}
	return &SecureBuffer{enclave: memguard.NewEnclave(data)}
}

// NewSecureString seals a copy of s.
func NewSecureString(s string) *SecureBuffer {
	return NewSecureBuffer([]byte(s))
}

// Open decrypts the sealed data into a locked buffer. The caller must
// Destroy the returned buffer. A destroyed or empty SecureBuffer opens to
// an empty buffer.
func (s *SecureBuffer) Open() (*memguard.LockedBuffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.destroyed || s.empty {
		return memguard.NewBuffer(0), nil
	}
	return s.enclave.Open()
}

// Reveal returns the sealed text as a Go string. The plaintext copy lives
// in ordinary memory, so call it only right before handing the value to
// the clipboard.
func (s *SecureBuffer) Reveal() (string, error) {
	locked, err := s.Open()
	if err != nil {
		return "", err
	}
	defer locked.Destroy()
	return string(locked.Bytes()), nil
}

// Destroy drops the enclave. Idempotent; later Open calls return an empty buffer.
func (s *SecureBuffer) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enclave = nil
	s.destroyed = true
}

// Purge wipes all memguard-managed memory. Call once on exit.
func Purge() {
	memguard.Purge()
}
