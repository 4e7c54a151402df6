package testutil

import "sync"

// FakeClipboard is an in-memory clipboard that records every write.
type FakeClipboard struct {
	mu sync.Mutex

	content string
	writes  []string

	// ReadErr and WriteErr, when set, are returned by Read and Write.
	ReadErr  error
	WriteErr error
}

// NewFakeClipboard returns a clipboard holding initial.
func NewFakeClipboard(initial string) *FakeClipboard {
	return &FakeClipboard{content: initial}
}

// Read returns the current content.
func (c *FakeClipboard) Read() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ReadErr != nil {
		return "", c.ReadErr
	}
	return c.content, nil
}

// Write replaces the content and records it.
func (c *FakeClipboard) Write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.WriteErr != nil {
		return c.WriteErr
	}
	c.content = text
	c.writes = append(c.writes, text)
	return nil
}

// Set simulates the user copying something else.
func (c *FakeClipboard) Set(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = text
}

// Content returns the current content without going through Read.
func (c *FakeClipboard) Content() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

// Writes returns every value written through Write, oldest first.
func (c *FakeClipboard) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}
