package clipboard

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	dserrors "github.com/systmms/passlaunch/internal/errors"
	"github.com/systmms/passlaunch/internal/logging"
	"github.com/systmms/passlaunch/internal/metrics"
	"github.com/systmms/passlaunch/internal/secure"
)

// DefaultDelay is how long a secret stays on the clipboard.
const DefaultDelay = 45 * time.Second

// Options configures a Stager.
type Options struct {
	Clipboard Clipboard
	Clock     clockwork.Clock
	Delay     time.Duration
	Logger    *logging.Logger
	Metrics   *metrics.Recorder
}

// pending is one scheduled restore. snapshot is what the clipboard held
// before the secret; fingerprint identifies the secret.
type pending struct {
	snapshot    *secure.SecureBuffer
	fingerprint Fingerprint
	deadline    time.Time
	fired       bool
	done        chan struct{}
}

// Stager puts a secret on the clipboard and restores the prior content
// once the delay passes, but only if the clipboard still holds that
// secret.
//
// Earlier restores are never cancelled. Each one checks its own
// fingerprint, so a restore scheduled for an older secret does nothing once
// a newer secret (or anything else) has replaced it. A placement made while
// the previous secret is still on the clipboard inherits that placement's
// snapshot, so the last restore brings back what was there before either
// secret.
type Stager struct {
	clipboard Clipboard
	clock     clockwork.Clock
	delay     time.Duration
	logger    *logging.Logger
	metrics   *metrics.Recorder

	// mu serializes clipboard read-modify-write between Place and restores.
	mu sync.Mutex

	// active is the most recent placement. Only Place writes it.
	active *pending

	// scheduled holds restores that have not run yet. Guarded by mu.
	scheduled map[*pending]struct{}
}

// NewStager builds a Stager. Missing options get the system clipboard,
// the real clock and DefaultDelay.
func NewStager(opts Options) *Stager {
	if opts.Clipboard == nil {
		opts.Clipboard = System{}
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Stager{
		clipboard: opts.Clipboard,
		clock:     opts.Clock,
		delay:     opts.Delay,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		scheduled: make(map[*pending]struct{}),
	}
}

// SetDelay changes the delay for later placements.
func (s *Stager) SetDelay(d time.Duration) {
	if d <= 0 {
		d = DefaultDelay
	}
	s.delay = d
}

// Delay returns the delay used for new placements.
func (s *Stager) Delay() time.Duration {
	return s.delay
}

// Place writes secret to the clipboard and schedules the restore.
func (s *Stager) Place(secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.clipboard.Read()
	if err != nil {
		s.logger.Debug("Could not read clipboard before placing secret: %v", err)
		current = ""
	}

	snapshot := current
	if prev := s.active; prev != nil && !prev.fired && FingerprintOf(current) == prev.fingerprint {
		if inherited, err := prev.snapshot.Reveal(); err == nil {
			snapshot = inherited
		}
	}

	if err := s.clipboard.Write(secret); err != nil {
		// Clipboard helpers may echo their input in error output.
		return dserrors.UserError{
			Message:    "Failed to copy to the clipboard",
			Details:    logging.Redact(err.Error(), []string{secret}),
			Suggestion: "On Linux install xclip, xsel or wl-clipboard",
		}
	}

	p := &pending{
		snapshot:    secure.NewSecureString(snapshot),
		fingerprint: FingerprintOf(secret),
		deadline:    s.clock.Now().Add(s.delay),
		done:        make(chan struct{}),
	}
	s.active = p
	s.scheduled[p] = struct{}{}
	s.clock.AfterFunc(s.delay, func() { s.restore(p) })

	s.metrics.RecordPlacement()
	s.logger.Debug("Placed %v on clipboard, clearing in %s", logging.Secret(secret), s.delay)
	return nil
}

func (s *Stager) restore(p *pending) {
	defer close(p.done)

	s.mu.Lock()
	defer s.mu.Unlock()

	p.fired = true
	delete(s.scheduled, p)
	defer p.snapshot.Destroy()

	current, err := s.clipboard.Read()
	if err != nil {
		s.metrics.RecordClear(metrics.ClearFailed)
		s.logger.Warn("Could not read clipboard to clear secret: %v", err)
		return
	}
	if FingerprintOf(current) != p.fingerprint {
		s.metrics.RecordClear(metrics.ClearSkipped)
		s.logger.Debug("Clipboard changed since the secret was placed, leaving it alone")
		return
	}

	snapshot, err := p.snapshot.Reveal()
	if err == nil {
		err = s.clipboard.Write(snapshot)
	}
	if err != nil {
		s.metrics.RecordClear(metrics.ClearFailed)
		s.logger.Warn("Could not clear secret from clipboard: %v", err)
		return
	}

	s.metrics.RecordClear(metrics.ClearRestored)
	s.logger.Debug("Clipboard restored")
}

// Pending reports whether any restore has not run yet.
func (s *Stager) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scheduled) > 0
}

// Wait blocks until every scheduled restore has run or ctx is done. It
// returns immediately when nothing is pending.
func (s *Stager) Wait(ctx context.Context) error {
	for _, p := range s.outstanding() {
		select {
		case <-p.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *Stager) outstanding() []*pending {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*pending, 0, len(s.scheduled))
	for p := range s.scheduled {
		out = append(out, p)
	}
	return out
}
