// Package secure keeps text that must outlive a single callback, such as the
// clipboard snapshot held by a pending clear, encrypted in memory.
//
// It wraps memguard enclaves: data is sealed with XSalsa20Poly1305 while at
// rest and only decrypted into a locked, guard-paged buffer for the short
// moment it is needed. Call memguard.Purge (or secure.Purge) before the
// process exits to wipe every remaining buffer.
//
//	buf := secure.NewSecureString(current)
//	defer buf.Destroy()
//
//	text, err := buf.Reveal()
//
// If mlock is unavailable (RLIMIT_MEMLOCK on Linux), memguard falls back to
// ordinary memory and keeps working.
package secure
