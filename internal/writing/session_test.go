package writing

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastConfig scales the exercise down so timers fire within a test.
func fastConfig() Config {
	return Config{
		Duration:        200 * time.Millisecond,
		Tick:            time.Millisecond,
		MinChars:        10,
		MinElapsed:      5 * time.Millisecond,
		InactivityAfter: 20 * time.Millisecond,
		InactivityCheck: 5 * time.Millisecond,
	}
}

// fakeDictation records Start/Stop calls and lets the test push transcripts.
type fakeDictation struct {
	mu       sync.Mutex
	onFinal  func(string)
	starts   int
	stops    int
	startErr error
	stopErr  error
}

func (f *fakeDictation) Start(_ context.Context, onFinal func(string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.starts++
	f.onFinal = onFinal
	return nil
}

func (f *fakeDictation) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return f.stopErr
}

func (f *fakeDictation) say(text string) {
	f.mu.Lock()
	cb := f.onFinal
	f.mu.Unlock()
	cb(text)
}

func (f *fakeDictation) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

func begin(t *testing.T, cfg Config, d Dictation) *Session {
	t.Helper()
	s := NewSession(cfg, d, nil)
	require.NoError(t, s.Begin(context.Background()))
	t.Cleanup(s.Stop)
	return s
}

// --- Lifecycle ---

func TestSession_EditBeforeBegin(t *testing.T) {
	s := NewSession(fastConfig(), nil, nil)
	assert.ErrorIs(t, s.SetText("hello"), ErrNotStarted)
	assert.ErrorIs(t, s.Append("hello"), ErrNotStarted)
	_, err := s.Complete()
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestSession_BeginTwice(t *testing.T) {
	s := begin(t, fastConfig(), nil)
	assert.ErrorIs(t, s.Begin(context.Background()), ErrAlreadyStarted)
}

func TestSession_StopWithoutBegin(t *testing.T) {
	d := &fakeDictation{}
	s := NewSession(fastConfig(), d, nil)
	s.Stop()
	s.Stop()
	assert.Equal(t, 1, d.stopCount())
	assert.ErrorIs(t, s.Begin(context.Background()), ErrFinished)
}

func TestSession_CountdownRunsToZero(t *testing.T) {
	cfg := fastConfig()
	cfg.Duration = 20 * time.Millisecond
	s := begin(t, cfg, nil)

	require.Eventually(t, func() bool { return s.Remaining() == 0 }, 2*time.Second, time.Millisecond)
	st := s.Status()
	assert.InDelta(t, 100.0, st.Progress, 1e-9)
	assert.False(t, st.Finished, "expiry does not end the session")
	require.NoError(t, s.SetText(strings.Repeat("x", cfg.MinChars)))
	_, err := s.Complete()
	assert.NoError(t, err)
}

func TestSession_ContextCancelStopsTimer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig()
	cfg.Duration = time.Hour
	s := NewSession(cfg, nil, nil)
	require.NoError(t, s.Begin(ctx))
	cancel()

	s.Stop() // returns only after the loop has exited
	frozen := s.Remaining()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, frozen, s.Remaining())
}

// --- Text ---

func TestSession_SetTextAndAppend(t *testing.T) {
	s := begin(t, fastConfig(), nil)
	require.NoError(t, s.SetText("hello"))
	require.NoError(t, s.Append(" world"))
	assert.Equal(t, "hello world", s.Text())
	require.NoError(t, s.SetText("replaced"))
	assert.Equal(t, "replaced", s.Text())
}

func TestFeedback(t *testing.T) {
	assert.Contains(t, Feedback(0), "Start writing")
	assert.Contains(t, Feedback(49), "Start writing")
	assert.Contains(t, Feedback(50), "Good start")
	assert.Contains(t, Feedback(199), "Good start")
	assert.Contains(t, Feedback(200), "Great expression")
}

func TestSession_StatusCountsCharacters(t *testing.T) {
	s := begin(t, fastConfig(), nil)
	require.NoError(t, s.SetText("ñandú"))
	assert.Equal(t, 5, s.Status().Chars)
}

// --- Completion gate ---

func TestSession_CompleteTooShort(t *testing.T) {
	s := begin(t, fastConfig(), nil)
	require.NoError(t, s.SetText("short"))
	require.Eventually(t, func() bool {
		return fastConfig().Duration-s.Remaining() >= fastConfig().MinElapsed
	}, 2*time.Second, time.Millisecond)

	_, err := s.Complete()
	assert.ErrorIs(t, err, ErrTooShort)
	assert.False(t, s.Status().Finished, "a rejected completion has no side effects")
	assert.NoError(t, s.Append(" but now"))
}

func TestSession_CompleteTooEarly(t *testing.T) {
	cfg := fastConfig()
	cfg.MinElapsed = time.Hour
	cfg.Duration = 2 * time.Hour
	s := begin(t, cfg, nil)
	require.NoError(t, s.SetText(strings.Repeat("a", 100)))

	_, err := s.Complete()
	assert.ErrorIs(t, err, ErrTooEarly)
	assert.False(t, s.Status().CanFinish)
}

func TestSession_CompleteReturnsTextAndEnds(t *testing.T) {
	d := &fakeDictation{}
	s := begin(t, fastConfig(), d)
	text := "This is more than ten characters long."
	require.NoError(t, s.SetText(text))
	require.Eventually(t, func() bool { return s.Status().CanFinish }, 2*time.Second, time.Millisecond)

	got, err := s.Complete()
	require.NoError(t, err)
	assert.Equal(t, text, got)
	assert.True(t, s.Status().Finished)
	assert.Equal(t, 1, d.stopCount(), "dictation is stopped even if never started")
	assert.ErrorIs(t, s.Append("more"), ErrFinished)

	_, err = s.Complete()
	assert.ErrorIs(t, err, ErrFinished)
}

// --- Dictation ---

func TestSession_DictationAppendsWithSpace(t *testing.T) {
	d := &fakeDictation{}
	s := begin(t, fastConfig(), d)
	require.NoError(t, s.SetText("I felt "))
	require.NoError(t, s.StartDictation(context.Background()))
	assert.True(t, s.Status().Recording)

	d.say("really let down")
	d.say("by the seller")
	assert.Equal(t, "I felt really let down by the seller ", s.Text())

	require.NoError(t, s.StopDictation())
	assert.False(t, s.Status().Recording)
}

func TestSession_DictationUnavailable(t *testing.T) {
	s := begin(t, fastConfig(), nil)
	assert.ErrorIs(t, s.StartDictation(context.Background()), ErrDictationUnavailable)
	assert.NoError(t, s.StopDictation())
}

func TestSession_DictationStartError(t *testing.T) {
	d := &fakeDictation{startErr: errors.New("no microphone")}
	s := begin(t, fastConfig(), d)
	err := s.StartDictation(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no microphone")
	assert.False(t, s.Status().Recording)
}

func TestSession_StopStopsDictationEvenOnError(t *testing.T) {
	d := &fakeDictation{stopErr: errors.New("already stopped")}
	s := begin(t, fastConfig(), d)
	require.NoError(t, s.StartDictation(context.Background()))

	s.Stop()
	assert.Equal(t, 1, d.stopCount())
	assert.False(t, s.Status().Recording)

	// Late transcripts after the session ended are dropped.
	d.say("too late")
	assert.Empty(t, s.Text())
}

// --- Inactivity ---

func TestSession_InactivityEmitsEncouragement(t *testing.T) {
	cfg := fastConfig()
	cfg.Duration = time.Hour
	s := begin(t, cfg, nil)

	select {
	case e := <-s.Encouragements():
		assert.Contains(t, encouragementMessages, e.Message)
		assert.False(t, e.At.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("expected an encouragement after inactivity")
	}
}

func TestSession_ActivityDefersEncouragement(t *testing.T) {
	cfg := fastConfig()
	cfg.Duration = time.Hour
	cfg.InactivityAfter = time.Hour
	s := begin(t, cfg, nil)

	require.NoError(t, s.Append("typing"))
	select {
	case e := <-s.Encouragements():
		t.Fatalf("unexpected encouragement %q", e.Message)
	case <-time.After(30 * time.Millisecond):
	}
}

// --- PushDictation ---

func TestPushDictation(t *testing.T) {
	p := NewPushDictation()
	assert.ErrorIs(t, p.Push("hello"), ErrNotRecording)

	s := begin(t, fastConfig(), p)
	require.NoError(t, s.StartDictation(context.Background()))
	assert.True(t, p.Recording())

	require.NoError(t, p.Push("  it broke on day two "))
	require.NoError(t, p.Push("   "))
	assert.Equal(t, "it broke on day two ", s.Text())

	s.Stop()
	assert.False(t, p.Recording())
	assert.ErrorIs(t, p.Push("late"), ErrNotRecording)
}
