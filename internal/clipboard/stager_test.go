package clipboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/passlaunch/tests/testutil"
)

const testDelay = 45 * time.Second

type stagerFixture struct {
	stager *Stager
	clip   *testutil.FakeClipboard
	clock  *clockwork.FakeClock
	logger *testutil.TestLogger
}

func newStagerFixture(t *testing.T, initial string) *stagerFixture {
	t.Helper()
	f := &stagerFixture{
		clip:   testutil.NewFakeClipboard(initial),
		clock:  clockwork.NewFakeClockAt(time.Unix(0, 0)),
		logger: testutil.NewTestLoggerWithDebug(t, true),
	}
	f.stager = NewStager(Options{
		Clipboard: f.clip,
		Clock:     f.clock,
		Delay:     testDelay,
		Logger:    f.logger.Logger,
	})
	return f
}

// advance moves the clock by d and waits for every restore that became due.
func (f *stagerFixture) advance(t *testing.T, d time.Duration) {
	t.Helper()
	f.clock.Advance(d)
	now := f.clock.Now()
	for _, p := range f.stager.outstanding() {
		if p.deadline.After(now) {
			continue
		}
		select {
		case <-p.done:
		case <-time.After(5 * time.Second):
			t.Fatalf("restore due at %s did not run", p.deadline)
		}
	}
}

func TestPlace_RestoresAfterDelay(t *testing.T) {
	t.Parallel()
	f := newStagerFixture(t, "C0")

	require.NoError(t, f.stager.Place("S1"))
	assert.Equal(t, "S1", f.clip.Content())
	assert.True(t, f.stager.Pending())

	f.advance(t, testDelay-time.Second)
	assert.Equal(t, "S1", f.clip.Content())

	f.advance(t, time.Second)
	assert.Equal(t, "C0", f.clip.Content())
	assert.False(t, f.stager.Pending())
}

func TestPlace_SecondSecretBeforeFirstClear(t *testing.T) {
	t.Parallel()
	f := newStagerFixture(t, "C0")

	require.NoError(t, f.stager.Place("S1"))
	f.advance(t, 10*time.Second)
	require.NoError(t, f.stager.Place("S2"))

	// S1's timer fires while S2 is on the clipboard: nothing happens.
	f.advance(t, testDelay-10*time.Second)
	assert.Equal(t, "S2", f.clip.Content())

	// S2's timer brings back what was there before either secret.
	f.advance(t, 10*time.Second)
	assert.Equal(t, "C0", f.clip.Content())

	assert.Equal(t, []string{"S1", "S2", "C0"}, f.clip.Writes())
	assert.False(t, f.stager.Pending())
}

func TestPlace_ThreeSecretsChain(t *testing.T) {
	t.Parallel()
	f := newStagerFixture(t, "C0")

	for _, s := range []string{"S1", "S2", "S3"} {
		require.NoError(t, f.stager.Place(s))
		f.advance(t, 5*time.Second)
	}
	f.advance(t, testDelay)

	assert.Equal(t, "C0", f.clip.Content())
	assert.NotContains(t, f.clip.Writes()[3:], "S1")
}

func TestPlace_UserCopiedSomethingElse(t *testing.T) {
	t.Parallel()
	f := newStagerFixture(t, "C0")

	require.NoError(t, f.stager.Place("S1"))
	f.clip.Set("user text")

	f.advance(t, testDelay)
	assert.Equal(t, "user text", f.clip.Content())
	f.logger.AssertContains(t, "Clipboard changed")
}

func TestPlace_NoInheritanceAfterUserCopy(t *testing.T) {
	t.Parallel()
	f := newStagerFixture(t, "C0")

	require.NoError(t, f.stager.Place("S1"))
	f.clip.Set("C1")
	require.NoError(t, f.stager.Place("S2"))

	f.advance(t, 2*testDelay)
	assert.Equal(t, "C1", f.clip.Content())
}

func TestPlace_AfterFirstClear(t *testing.T) {
	t.Parallel()
	f := newStagerFixture(t, "C0")

	require.NoError(t, f.stager.Place("S1"))
	f.advance(t, testDelay)
	require.Equal(t, "C0", f.clip.Content())

	require.NoError(t, f.stager.Place("S2"))
	f.advance(t, testDelay)
	assert.Equal(t, "C0", f.clip.Content())
}

func TestPlace_UnreadableClipboard(t *testing.T) {
	t.Parallel()
	f := newStagerFixture(t, "C0")
	f.clip.ReadErr = errors.New("no clipboard tool")

	require.NoError(t, f.stager.Place("S1"))
	f.clip.ReadErr = nil

	f.advance(t, testDelay)
	assert.Equal(t, "", f.clip.Content())
}

func TestPlace_WriteFails(t *testing.T) {
	t.Parallel()
	f := newStagerFixture(t, "C0")
	f.clip.WriteErr = errors.New("xclip: cannot open display while copying hunter2")

	err := f.stager.Place("hunter2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to copy")
	assert.Contains(t, err.Error(), "cannot open display")
	testutil.AssertNoSecretLeak(t, err.Error(), []string{"hunter2"})
	assert.False(t, f.stager.Pending())
}

func TestPlace_SecretNeverLogged(t *testing.T) {
	t.Parallel()
	f := newStagerFixture(t, "previous clipboard")

	require.NoError(t, f.stager.Place("hunter2"))
	f.advance(t, testDelay)

	testutil.AssertNoSecretLeak(t, f.logger.GetOutput(), []string{"previous clipboard"})
	f.logger.AssertRedacted(t, "hunter2")
}

func TestWait(t *testing.T) {
	t.Parallel()
	f := newStagerFixture(t, "C0")

	require.NoError(t, f.stager.Wait(context.Background()))

	require.NoError(t, f.stager.Place("S1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.stager.Wait(ctx), context.Canceled)

	f.clock.Advance(testDelay)
	assert.NoError(t, f.stager.Wait(context.Background()))
	assert.Equal(t, "C0", f.clip.Content())
}

func TestWait_CoversEarlierRestores(t *testing.T) {
	t.Parallel()
	f := newStagerFixture(t, "C0")

	require.NoError(t, f.stager.Place("S1"))
	f.stager.SetDelay(2 * testDelay)
	require.NoError(t, f.stager.Place("S2"))

	f.advance(t, testDelay)
	assert.True(t, f.stager.Pending())

	f.clock.Advance(testDelay)
	require.NoError(t, f.stager.Wait(context.Background()))
	assert.False(t, f.stager.Pending())
	assert.Equal(t, "C0", f.clip.Content())
}

func TestWait_RealClock(t *testing.T) {
	t.Parallel()
	clip := testutil.NewFakeClipboard("C0")
	stager := NewStager(Options{Clipboard: clip, Delay: 20 * time.Millisecond})

	require.NoError(t, stager.Place("S1"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, stager.Wait(ctx))
	assert.Equal(t, "C0", clip.Content())
}

func TestSetDelay(t *testing.T) {
	t.Parallel()
	f := newStagerFixture(t, "C0")

	f.stager.SetDelay(5 * time.Second)
	assert.Equal(t, 5*time.Second, f.stager.Delay())
	f.stager.SetDelay(0)
	assert.Equal(t, DefaultDelay, f.stager.Delay())
}

func TestFingerprintOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FingerprintOf("a"), FingerprintOf("a"))
	assert.NotEqual(t, FingerprintOf("a"), FingerprintOf("b"))
	assert.NotEqual(t, Fingerprint{}, FingerprintOf(""))
}
