// Package writing runs the timed expressive-writing exercise of a round.
//
// A Session owns a countdown, an inactivity monitor that emits
// encouragement prompts, the in-progress text buffer, and an optional
// dictation source that appends recognized speech to the buffer. The
// dictation source is always stopped when the session ends, whichever
// way it ends.
package writing

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

var (
	ErrNotStarted           = errors.New("writing session has not started")
	ErrAlreadyStarted       = errors.New("writing session already started")
	ErrFinished             = errors.New("writing session is finished")
	ErrTooShort             = errors.New("writing is too short")
	ErrTooEarly             = errors.New("writing session is too early to complete")
	ErrDictationUnavailable = errors.New("dictation is not available")
)

// Dictation is a speech-to-text source. Start begins delivering final
// transcripts to onFinal until Stop is called. Stop must be safe to call
// at any time, including when not started.
type Dictation interface {
	Start(ctx context.Context, onFinal func(text string)) error
	Stop() error
}

// Config holds the timings and limits of a session.
type Config struct {
	Duration        time.Duration
	Tick            time.Duration
	MinChars        int
	MinElapsed      time.Duration
	InactivityAfter time.Duration
	InactivityCheck time.Duration
}

// DefaultConfig returns the standard ten-minute exercise: completion is
// allowed after one minute with at least 50 characters, and an
// encouragement is offered after 30 seconds without activity.
func DefaultConfig() Config {
	return Config{
		Duration:        10 * time.Minute,
		Tick:            time.Second,
		MinChars:        50,
		MinElapsed:      time.Minute,
		InactivityAfter: 30 * time.Second,
		InactivityCheck: 5 * time.Second,
	}
}

// Encouragement is a nudge offered after a stretch of inactivity.
type Encouragement struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

var encouragementMessages = []string{
	"Keep exploring your feelings about this experience...",
	"What else comes to mind when you think about this situation?",
	"How did this experience make you feel? Continue expressing...",
	"You're doing great! Keep writing about your thoughts and emotions...",
	"What impact did this experience have on you? Continue sharing...",
}

// Session is one writing exercise. All methods are safe for concurrent use.
type Session struct {
	cfg       Config
	dictation Dictation
	log       *zap.SugaredLogger

	mu           sync.Mutex
	text         string
	remaining    time.Duration
	started      bool
	finished     bool
	recording    bool
	lastActivity time.Time

	encouragements chan Encouragement
	cancel         context.CancelFunc
	done           chan struct{}
	stopOnce       sync.Once
}

// NewSession creates a session. dictation may be nil when no speech source
// is available; log may be nil.
func NewSession(cfg Config, dictation Dictation, log *zap.SugaredLogger) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Session{
		cfg:            cfg,
		dictation:      dictation,
		log:            log,
		remaining:      cfg.Duration,
		encouragements: make(chan Encouragement, 1),
		done:           make(chan struct{}),
	}
}

// Begin starts the countdown and the inactivity monitor. They run until
// the session is completed or stopped, or ctx is cancelled.
func (s *Session) Begin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return ErrFinished
	}
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	s.lastActivity = timeNow()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.run(runCtx)
	s.log.Debugw("writing session started", "duration", s.cfg.Duration)
	return nil
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	tick := time.NewTicker(s.cfg.Tick)
	defer tick.Stop()
	check := time.NewTicker(s.cfg.InactivityCheck)
	defer check.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if s.countDown() {
				s.log.Debugw("writing timer expired")
				return
			}
		case <-check.C:
			s.checkInactivity()
		}
	}
}

// countDown advances the timer by one tick and reports whether it ran out.
func (s *Session) countDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining -= s.cfg.Tick
	if s.remaining <= 0 {
		s.remaining = 0
		return true
	}
	return false
}

func (s *Session) checkInactivity() {
	s.mu.Lock()
	now := timeNow()
	idle := now.Sub(s.lastActivity) > s.cfg.InactivityAfter
	if idle {
		// Reset so the prompt is not repeated on every check.
		s.lastActivity = now
	}
	s.mu.Unlock()

	if !idle {
		return
	}
	e := Encouragement{
		Message: encouragementMessages[rand.IntN(len(encouragementMessages))],
		At:      now,
	}
	select {
	case s.encouragements <- e:
	default: // an unread prompt is already pending
	}
}

// Encouragements delivers inactivity prompts. Sends never block: when a
// prompt is still unread, newer ones are dropped.
func (s *Session) Encouragements() <-chan Encouragement {
	return s.encouragements
}

// SetText replaces the buffer, as when the user edits the whole text.
func (s *Session) SetText(text string) error {
	return s.edit(func(string) string { return text })
}

// Append adds text to the end of the buffer.
func (s *Session) Append(text string) error {
	return s.edit(func(cur string) string { return cur + text })
}

func (s *Session) edit(f func(string) string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writableLocked(); err != nil {
		return err
	}
	s.text = f(s.text)
	s.lastActivity = timeNow()
	return nil
}

func (s *Session) writableLocked() error {
	if !s.started {
		return ErrNotStarted
	}
	if s.finished {
		return ErrFinished
	}
	return nil
}

// StartDictation begins appending recognized speech to the buffer. Each
// final transcript is followed by a space.
func (s *Session) StartDictation(ctx context.Context) error {
	if s.dictation == nil {
		return ErrDictationUnavailable
	}
	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.recording {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	err := s.dictation.Start(ctx, func(final string) {
		if err := s.Append(final + " "); err != nil {
			s.log.Debugw("dropping transcript after session end", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("starting dictation: %w", err)
	}

	s.mu.Lock()
	s.recording = true
	s.lastActivity = timeNow()
	s.mu.Unlock()
	return nil
}

// StopDictation stops the speech source if one is configured.
func (s *Session) StopDictation() error {
	if s.dictation == nil {
		return nil
	}
	s.mu.Lock()
	s.recording = false
	s.mu.Unlock()
	if err := s.dictation.Stop(); err != nil {
		return fmt.Errorf("stopping dictation: %w", err)
	}
	return nil
}

// Status is a snapshot of the session.
type Status struct {
	Started   bool          `json:"started"`
	Finished  bool          `json:"finished"`
	Recording bool          `json:"recording"`
	Remaining time.Duration `json:"remaining"`
	Progress  float64       `json:"progress"`
	Chars     int           `json:"chars"`
	Feedback  string        `json:"feedback"`
	CanFinish bool          `json:"can_finish"`
}

// Status returns the current snapshot.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	chars := utf8.RuneCountInString(s.text)
	return Status{
		Started:   s.started,
		Finished:  s.finished,
		Recording: s.recording,
		Remaining: s.remaining,
		Progress:  s.progressLocked(),
		Chars:     chars,
		Feedback:  Feedback(chars),
		CanFinish: s.gateLocked() == nil,
	}
}

// Text returns the current buffer.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Remaining returns the time left on the countdown.
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

func (s *Session) progressLocked() float64 {
	if s.cfg.Duration <= 0 {
		return 100
	}
	return 100 - float64(s.remaining)/float64(s.cfg.Duration)*100
}

// Feedback returns the hint shown for a buffer of the given length.
func Feedback(chars int) string {
	switch {
	case chars < 50:
		return "Start writing about how this experience made you feel..."
	case chars < 200:
		return "Good start! Try to go deeper into your emotions and thoughts..."
	default:
		return "Great expression! Continue exploring your feelings about this experience..."
	}
}

// gateLocked checks whether the session may be completed.
func (s *Session) gateLocked() error {
	if err := s.writableLocked(); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(s.text); n < s.cfg.MinChars {
		return fmt.Errorf("%w: %d of %d characters", ErrTooShort, n, s.cfg.MinChars)
	}
	if elapsed := s.cfg.Duration - s.remaining; elapsed < s.cfg.MinElapsed {
		return fmt.Errorf("%w: %s of %s elapsed", ErrTooEarly, elapsed, s.cfg.MinElapsed)
	}
	return nil
}

// Check reports why the session cannot be completed yet, or nil.
func (s *Session) Check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gateLocked()
}

// Complete ends the session and returns the written text. It fails without
// side effects when the text is too short or too little time has passed.
func (s *Session) Complete() (string, error) {
	s.mu.Lock()
	if err := s.gateLocked(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	text := s.text
	s.mu.Unlock()

	s.Stop()
	return text, nil
}

// Stop ends the session without validation: the dictation source is
// stopped whatever its state, and the timer loops exit. Safe to call
// more than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.finished = true
		s.recording = false
		cancel := s.cancel
		started := s.started
		s.mu.Unlock()

		if s.dictation != nil {
			if err := s.dictation.Stop(); err != nil {
				s.log.Warnw("dictation did not stop cleanly", "error", err)
			}
		}
		if cancel != nil {
			cancel()
		}
		if started {
			<-s.done
		}
	})
}
