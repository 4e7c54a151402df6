package fakes

import (
	"sync"

	"github.com/systmms/passlaunch/internal/clipboard"
	"github.com/systmms/passlaunch/internal/config"
	"github.com/systmms/passlaunch/internal/launcher"
	"github.com/systmms/passlaunch/tests/testutil"
)

// FakeHost is a test double for launcher.Host that records every call.
type FakeHost struct {
	mu sync.Mutex

	// Settings is returned (as a copy) by LoadSettings.
	Settings *config.Settings

	// LoadErr is returned by LoadSettings if set.
	LoadErr error

	// Clip backs Clipboard().
	Clip *testutil.FakeClipboard

	Catalog     []launcher.Item
	Suggestions []launcher.Item
	Match       launcher.Match
	Sort        launcher.Sort
	Errors      []error

	SuggestCalls int
	LoadCalls    int
}

// NewFakeHost creates a host serving settings and an empty clipboard.
func NewFakeHost(settings *config.Settings) *FakeHost {
	return &FakeHost{
		Settings: settings,
		Clip:     testutil.NewFakeClipboard(""),
	}
}

// SetCatalog records the catalog.
func (h *FakeHost) SetCatalog(items []launcher.Item) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Catalog = items
}

// SetSuggestions records the latest suggestions.
func (h *FakeHost) SetSuggestions(items []launcher.Item, match launcher.Match, sort launcher.Sort) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Suggestions = items
	h.Match = match
	h.Sort = sort
	h.SuggestCalls++
}

// ReportError records err.
func (h *FakeHost) ReportError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Errors = append(h.Errors, err)
}

// Clipboard returns the fake clipboard.
func (h *FakeHost) Clipboard() clipboard.Clipboard {
	return h.Clip
}

// LoadSettings returns a copy of Settings or LoadErr.
func (h *FakeHost) LoadSettings() (*config.Settings, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LoadCalls++
	if h.LoadErr != nil {
		return nil, h.LoadErr
	}
	s := *h.Settings
	s.SafeKeys = append([]string(nil), h.Settings.SafeKeys...)
	return &s, nil
}

// Labels returns the labels of the latest suggestions.
func (h *FakeHost) Labels() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	labels := make([]string, 0, len(h.Suggestions))
	for _, item := range h.Suggestions {
		labels = append(labels, item.Label)
	}
	return labels
}

var _ launcher.Host = (*FakeHost)(nil)
