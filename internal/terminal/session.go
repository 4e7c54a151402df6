package terminal

import (
	"context"

	dserrors "github.com/systmms/passlaunch/internal/errors"
	"github.com/systmms/passlaunch/internal/launcher"
)

// Session drives a plugin through the same callback sequence a graphical
// launcher would: start, catalog, then suggest and execute on demand.
type Session struct {
	Host   *Host
	Plugin *launcher.Plugin
}

// Open starts the plugin and loads the catalog.
func Open(ctx context.Context, host *Host, plugin *launcher.Plugin) (*Session, error) {
	if err := plugin.OnStart(ctx); err != nil {
		return nil, err
	}
	if err := plugin.OnCatalog(ctx); err != nil {
		return nil, err
	}
	return &Session{Host: host, Plugin: plugin}, nil
}

// Keyword returns the plugin's top-level item.
func (s *Session) Keyword() launcher.Item {
	for _, item := range s.Host.Catalog() {
		if item.Category == launcher.CategoryKeyword {
			return item
		}
	}
	return launcher.Item{Category: launcher.CategoryKeyword, Target: launcher.Target{Entry: launcher.KeywordTarget}}
}

// EntryItem builds the item for one entry name.
func EntryItem(name string) launcher.Item {
	return launcher.Item{
		Category:  launcher.CategoryEntry,
		Label:     name,
		ShortDesc: name,
		Target:    launcher.Target{Entry: name},
		Drillable: true,
	}
}

// Suggest asks the plugin for the children of the last item in chain and
// ranks them against query.
func (s *Session) Suggest(ctx context.Context, query string, chain []launcher.Item) ([]Ranked, error) {
	if err := s.Plugin.OnSuggest(ctx, query, chain); err != nil {
		return nil, err
	}
	return s.Host.Filter(query), nil
}

// Entries lists entries matching query, best match first.
func (s *Session) Entries(ctx context.Context, query string) ([]Ranked, error) {
	return s.Suggest(ctx, query, []launcher.Item{s.Keyword()})
}

// Lines returns the displayable lines of one entry.
func (s *Session) Lines(ctx context.Context, entry string) ([]launcher.Item, error) {
	if err := s.Plugin.OnSuggest(ctx, "", []launcher.Item{s.Keyword(), EntryItem(entry)}); err != nil {
		return nil, err
	}
	return s.Host.Suggestions(), nil
}

// Copy copies the password of entry, or the value of one of its lines
// when line is not nil.
func (s *Session) Copy(ctx context.Context, entry string, line *int) error {
	if !s.HasEntry(entry) {
		return dserrors.UserError{
			Message:    "Entry not found: " + entry,
			Suggestion: "Run 'passlaunch list' to see available entries",
		}
	}

	item := EntryItem(entry)
	if line != nil {
		item = launcher.Item{
			Category: launcher.CategoryEntryLine,
			Target:   launcher.Target{Entry: entry, Line: *line},
		}
	}
	return s.Plugin.OnExecute(ctx, item)
}

// HasEntry reports whether the catalog lists entry.
func (s *Session) HasEntry(entry string) bool {
	for _, name := range s.Plugin.Entries() {
		if name == entry {
			return true
		}
	}
	return false
}

// Wait blocks until every copied secret has been cleared.
func (s *Session) Wait(ctx context.Context) error {
	if stager := s.Plugin.Stager(); stager != nil {
		return stager.Wait(ctx)
	}
	return nil
}
