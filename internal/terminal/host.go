// Package terminal hosts the launcher plugin in a shell: one-shot calls
// for the CLI subcommands and an interactive picker.
package terminal

import (
	"github.com/systmms/passlaunch/internal/clipboard"
	"github.com/systmms/passlaunch/internal/config"
	"github.com/systmms/passlaunch/internal/launcher"
	"github.com/systmms/passlaunch/internal/logging"
)

// Host implements launcher.Host on top of the settings file and a clipboard.
type Host struct {
	cfg    *config.Config
	clip   clipboard.Clipboard
	logger *logging.Logger

	catalog     []launcher.Item
	suggestions []launcher.Item
	match       launcher.Match
	sort        launcher.Sort
	lastErr     error
}

// NewHost creates a host that reads settings from cfg.Path.
func NewHost(cfg *config.Config, clip clipboard.Clipboard) *Host {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Host{cfg: cfg, clip: clip, logger: logger}
}

func (h *Host) SetCatalog(items []launcher.Item) {
	h.catalog = items
}

func (h *Host) SetSuggestions(items []launcher.Item, match launcher.Match, sort launcher.Sort) {
	h.suggestions = items
	h.match = match
	h.sort = sort
}

// ReportError logs err. The CLI also returns it from the failing command.
func (h *Host) ReportError(err error) {
	h.lastErr = err
	h.logger.Debug("plugin reported: %v", err)
}

func (h *Host) Clipboard() clipboard.Clipboard {
	return h.clip
}

func (h *Host) LoadSettings() (*config.Settings, error) {
	if err := h.cfg.Load(); err != nil {
		return nil, err
	}
	return h.cfg.Settings, nil
}

// Catalog returns the items published by the last OnCatalog.
func (h *Host) Catalog() []launcher.Item {
	return h.catalog
}

// Suggestions returns the last suggestions, unfiltered.
func (h *Host) Suggestions() []launcher.Item {
	return h.suggestions
}

// Filter ranks the last suggestions against query.
func (h *Host) Filter(query string) []Ranked {
	return Rank(h.suggestions, query, h.match, h.sort)
}

// LastError returns the most recent reported error.
func (h *Host) LastError() error {
	return h.lastErr
}

var _ launcher.Host = (*Host)(nil)
