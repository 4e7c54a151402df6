// Package launcher is the plugin: it reacts to host callbacks by listing
// store entries, decrypting one on drill-down and staging the chosen value
// on the clipboard.
package launcher

import (
	"context"
	"errors"

	"github.com/jonboulle/clockwork"

	"github.com/systmms/passlaunch/internal/backend"
	"github.com/systmms/passlaunch/internal/clipboard"
	"github.com/systmms/passlaunch/internal/config"
	dserrors "github.com/systmms/passlaunch/internal/errors"
	"github.com/systmms/passlaunch/internal/logging"
	"github.com/systmms/passlaunch/internal/metrics"
	"github.com/systmms/passlaunch/internal/secrecy"
	pkgexec "github.com/systmms/passlaunch/pkg/exec"
)

// ErrNotConfigured is returned by every callback after a failed OnStart.
var ErrNotConfigured = errors.New("pass plugin is not configured")

// Options carries the plugin's collaborators. Zero values get production
// defaults.
type Options struct {
	Executor pkgexec.CommandExecutor
	Logger   *logging.Logger
	Metrics  *metrics.Recorder
	Clock    clockwork.Clock

	// LookupEnv and HomeDir are passed through to the backend.
	LookupEnv func(string) (string, bool)
	HomeDir   func() (string, error)
}

// Plugin drives one backend and one clipboard stager on behalf of a Host.
type Plugin struct {
	host   Host
	opts   Options
	logger *logging.Logger

	settings *config.Settings
	policy   secrecy.Policy
	backend  backend.Backend
	stager   *clipboard.Stager
	entries  []string
}

// New creates an unconfigured plugin. Call OnStart before anything else.
func New(host Host, opts Options) *Plugin {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Plugin{host: host, opts: opts, logger: opts.Logger}
}

// OnStart loads settings and builds the backend. On failure the error is
// reported to the host and the plugin stays unusable until the settings
// change.
func (p *Plugin) OnStart(ctx context.Context) error {
	return p.configure(ctx)
}

// configure loads settings and replaces the backend and settings as a
// whole. The stager survives so restores scheduled earlier still run.
func (p *Plugin) configure(ctx context.Context) error {
	settings, err := p.host.LoadSettings()
	if err != nil {
		return p.fail(err)
	}

	kind, err := backend.ParseKind(settings.Backend)
	if err != nil {
		return p.fail(err)
	}
	b, err := backend.New(kind, backend.Options{
		Executor:  p.opts.Executor,
		Logger:    p.logger,
		Metrics:   p.opts.Metrics,
		GPGBinary: settings.GPGBinary,
		LookupEnv: p.opts.LookupEnv,
		HomeDir:   p.opts.HomeDir,
	})
	if err != nil {
		return p.fail(err)
	}

	if p.stager == nil {
		p.stager = clipboard.NewStager(clipboard.Options{
			Clipboard: p.host.Clipboard(),
			Clock:     p.opts.Clock,
			Delay:     settings.ClipDelay(),
			Logger:    p.logger,
			Metrics:   p.opts.Metrics,
		})
	}
	p.backend = b
	p.apply(ctx, settings)
	p.logger.Debug("Using %s backend", kind)
	return nil
}

func (p *Plugin) fail(err error) error {
	p.backend = nil
	p.settings = nil
	p.entries = nil
	p.host.ReportError(err)
	return err
}

// apply installs settings on the backend and stager.
func (p *Plugin) apply(ctx context.Context, settings *config.Settings) {
	p.settings = settings
	p.policy = secrecy.Policy{ShowSecrets: settings.ShowSecrets, SafeKeys: settings.SafeKeys}
	p.stager.SetDelay(settings.ClipDelay())

	path := settings.Path
	if path == "" {
		path = p.backend.DefaultStorePath(ctx)
	}
	p.backend.SetStorePath(ctx, path)
	p.logger.Debug("Password store: %s", p.backend.StorePath())
}

// OnEvents reloads everything when the host says the settings changed,
// including after a failed start. A reload that names an unknown backend
// leaves the plugin unconfigured.
func (p *Plugin) OnEvents(ctx context.Context, flags Event) error {
	if flags&EventConfigChanged == 0 {
		if p.backend == nil {
			return ErrNotConfigured
		}
		return nil
	}

	previous := p.backend
	if err := p.configure(ctx); err != nil {
		return err
	}
	if previous != nil && previous.Kind() != p.backend.Kind() {
		p.logger.Info("Switched from %s to %s backend", previous.Kind(), p.backend.Kind())
		p.entries = nil
	}
	return nil
}

// OnCatalog lists the store and publishes the keyword item.
func (p *Plugin) OnCatalog(ctx context.Context) error {
	if p.backend == nil {
		return ErrNotConfigured
	}

	entries, err := p.backend.ListEntries()
	if err != nil {
		p.host.ReportError(err)
		return err
	}
	p.entries = entries
	p.opts.Metrics.RecordCatalog(len(entries))
	p.logger.Debug("Found %d entries in password store", len(entries))

	p.host.SetCatalog([]Item{{
		Category:  CategoryKeyword,
		Label:     "Pass",
		ShortDesc: "Password Store",
		Target:    Target{Entry: KeywordTarget},
		Drillable: true,
	}})
	return nil
}

// OnSuggest answers for the last item of chain: the keyword expands into
// entries, an entry expands into its lines. input is filtered by the host.
func (p *Plugin) OnSuggest(ctx context.Context, input string, chain []Item) error {
	if p.backend == nil {
		return ErrNotConfigured
	}
	if len(chain) == 0 {
		return nil
	}

	last := chain[len(chain)-1]
	switch last.Category {
	case CategoryKeyword:
		p.host.SetSuggestions(p.entryItems(), MatchFuzzy, SortScoreDesc)
		return nil

	case CategoryEntry:
		contents, err := p.backend.GetContents(ctx, last.Target.Entry)
		if err != nil {
			err = dserrors.BackendError(string(p.backend.Kind()), "decrypt", err)
			p.host.ReportError(err)
			return err
		}
		p.host.SetSuggestions(p.lineItems(last.Target.Entry, contents), MatchFuzzy, SortNone)
		return nil
	}
	return nil
}

func (p *Plugin) entryItems() []Item {
	items := make([]Item, 0, len(p.entries))
	for _, name := range p.entries {
		items = append(items, Item{
			Category:  CategoryEntry,
			Label:     name,
			ShortDesc: name,
			Target:    Target{Entry: name},
			Drillable: true,
		})
	}
	return items
}

func (p *Plugin) lineItems(entry, contents string) []Item {
	lines := secrecy.Classify(contents, p.policy)
	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		desc := l.Display
		if l.Redacted {
			desc = "Hidden, select to copy"
		}
		items = append(items, Item{
			Category:  CategoryEntryLine,
			Label:     l.Display,
			ShortDesc: desc,
			Target:    Target{Entry: entry, Line: l.Index},
		})
	}
	return items
}

// OnExecute copies the value behind item. Nothing reaches the clipboard
// when the backend fails or the value is empty.
func (p *Plugin) OnExecute(ctx context.Context, item Item) error {
	if p.backend == nil {
		return ErrNotConfigured
	}
	if item.Category != CategoryEntry && item.Category != CategoryEntryLine {
		return nil
	}

	value, err := p.resolve(ctx, item)
	if err != nil && !errors.Is(err, secrecy.ErrNoSuchLine) {
		err = dserrors.BackendError(string(p.backend.Kind()), "decrypt", err)
	}
	if err == nil && value == "" {
		err = dserrors.UserError{
			Message:    "Nothing to copy",
			Details:    "entry " + item.Target.Entry + " decrypted to an empty value",
			Suggestion: "Check the entry with 'pass show'",
		}
	}
	if err == nil {
		err = p.stager.Place(value)
	}
	if err != nil {
		p.host.ReportError(err)
		return err
	}
	p.logger.Debug("Copied %s (%s) to clipboard", item.Target.Entry, item.Category)
	return nil
}

func (p *Plugin) resolve(ctx context.Context, item Item) (string, error) {
	switch item.Category {
	case CategoryEntry:
		return p.backend.GetPassword(ctx, item.Target.Entry)

	case CategoryEntryLine:
		contents, err := p.backend.GetContents(ctx, item.Target.Entry)
		if err != nil {
			return "", err
		}
		return secrecy.Resolve(contents, item.Target.Line)

	default:
		return "", nil
	}
}

// Entries returns the entries found by the last OnCatalog.
func (p *Plugin) Entries() []string {
	return p.entries
}

// Settings returns the settings in effect, or nil before OnStart.
func (p *Plugin) Settings() *config.Settings {
	return p.settings
}

// Backend returns the configured backend, or nil when unconfigured.
func (p *Plugin) Backend() backend.Backend {
	return p.backend
}

// Stager returns the clipboard stager, or nil when unconfigured.
func (p *Plugin) Stager() *clipboard.Stager {
	return p.stager
}
