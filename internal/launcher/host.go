package launcher

import (
	"github.com/systmms/passlaunch/internal/clipboard"
	"github.com/systmms/passlaunch/internal/config"
)

// Host is the launcher application the plugin runs in. Callbacks into the
// plugin are made one at a time.
type Host interface {
	// SetCatalog replaces the plugin's top-level items.
	SetCatalog(items []Item)

	// SetSuggestions answers the current OnSuggest call.
	SetSuggestions(items []Item, match Match, sort Sort)

	// ReportError surfaces a failure to the user.
	ReportError(err error)

	// Clipboard returns the clipboard the plugin writes secrets to.
	Clipboard() clipboard.Clipboard

	// LoadSettings reads the plugin settings. Each call returns a fresh value.
	LoadSettings() (*config.Settings, error)
}
