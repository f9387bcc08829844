package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/HendryAvila/emotionwell/internal/journey"
	"github.com/HendryAvila/emotionwell/internal/survey"
	"github.com/HendryAvila/emotionwell/internal/writing"
	"go.uber.org/zap"
)

var (
	ErrEmptyReview      = errors.New("product name and review comment are required")
	ErrNoWritingSession = errors.New("writing session not created")
	ErrJourneyInFlight  = errors.New("journey is in progress")
)

// Options configures a Controller.
type Options struct {
	Store     journey.Store
	Lifecycle *journey.Lifecycle
	Writing   writing.Config
	// Dictation is optional.
	Dictation writing.Dictation
	Log       *zap.SugaredLogger
}

// Controller is the single flow of the app. All methods are safe for
// concurrent use; actions are serialized.
type Controller struct {
	store     journey.Store
	lifecycle *journey.Lifecycle
	writeCfg  writing.Config
	dictation writing.Dictation
	log       *zap.SugaredLogger

	mu        sync.Mutex
	state     State
	hasStored bool
	current   *journey.Journey
	responses []survey.Response
	session   *writing.Session
}

// New creates a Controller on the welcome screen. Call Open to load the
// stored journeys.
func New(opts Options) *Controller {
	if opts.Lifecycle == nil {
		opts.Lifecycle = journey.NewLifecycle(journey.DefaultPolicy())
	}
	if opts.Writing == (writing.Config{}) {
		opts.Writing = writing.DefaultConfig()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	return &Controller{
		store:     opts.Store,
		lifecycle: opts.Lifecycle,
		writeCfg:  opts.Writing,
		dictation: opts.Dictation,
		log:       opts.Log,
		state:     StateWelcome,
	}
}

// Snapshot is a read-only view of the flow.
type Snapshot struct {
	State     State             `json:"state"`
	Journey   *journey.Journey  `json:"journey,omitempty"`
	Responses []survey.Response `json:"responses,omitempty"`
	Writing   *writing.Status   `json:"writing,omitempty"`
	HasStored bool              `json:"has_stored"`
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a copy of the flow's current data.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{State: c.state, HasStored: c.hasStored}
	if c.current != nil {
		snap.Journey = c.current.Clone()
	}
	if len(c.responses) > 0 {
		snap.Responses = append([]survey.Response(nil), c.responses...)
	}
	if c.session != nil {
		st := c.session.Status()
		snap.Writing = &st
	}
	return snap
}

// Encouragements returns the inactivity prompts of the current writing
// session, or nil when there is none.
func (c *Controller) Encouragements() <-chan writing.Encouragement {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.Encouragements()
}

// --- Transitions ---

// expectLocked fails unless the flow is in one of the given states.
func (c *Controller) expectLocked(action string, from ...State) error {
	for _, s := range from {
		if c.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, c.state)
}

func (c *Controller) moveLocked(to State) {
	if !CanTransition(c.state, to) {
		// Callers check the source state first; reaching here is a bug.
		panic(fmt.Sprintf("flow: illegal move %s -> %s", c.state, to))
	}
	c.log.Debugw("flow transition", "from", c.state, "to", to)
	c.state = to
}

// homeLocked returns the screen shown when no journey is in flight.
func (c *Controller) homeLocked() State {
	if c.hasStored {
		return StateDashboard
	}
	return StateWelcome
}

func (c *Controller) refreshLocked(ctx context.Context) error {
	journeys, err := c.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading journeys: %w", err)
	}
	c.hasStored = len(journeys) > 0
	return nil
}

// Open loads the stored journeys and shows the dashboard when any exist.
func (c *Controller) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.expectLocked("open", StateWelcome, StateDashboard); err != nil {
		return err
	}
	if err := c.refreshLocked(ctx); err != nil {
		return err
	}
	c.moveLocked(c.homeLocked())
	return nil
}

// StartNew begins a new journey at the review scanner.
func (c *Controller) StartNew() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.expectLocked("start a journey", StateWelcome, StateDashboard); err != nil {
		return err
	}
	c.moveLocked(StateReviewScanner)
	return nil
}

// SubmitReview records the reported experience and creates the in-flight
// journey. Nothing is persisted until a round is completed.
func (c *Controller) SubmitReview(productName, reviewComment string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.expectLocked("submit a review", StateReviewScanner); err != nil {
		return err
	}
	productName = strings.TrimSpace(productName)
	reviewComment = strings.TrimSpace(reviewComment)
	if productName == "" || reviewComment == "" {
		return ErrEmptyReview
	}
	c.current = journey.New(productName, reviewComment)
	c.moveLocked(StateIntro)
	return nil
}

// Accept agrees to begin the exercise.
func (c *Controller) Accept() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.expectLocked("accept", StateIntro); err != nil {
		return err
	}
	c.moveLocked(StateSurvey)
	return nil
}

// Decline discards the in-flight journey.
func (c *Controller) Decline() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.expectLocked("decline", StateIntro); err != nil {
		return err
	}
	c.resetLocked()
	c.moveLocked(c.homeLocked())
	return nil
}

// Continue resumes a stored journey: completed journeys open their
// completion screen, the rest start a new round at the survey.
func (c *Controller) Continue(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.expectLocked("continue a journey", StateDashboard); err != nil {
		return err
	}
	j, err := c.store.Get(ctx, id)
	if err != nil {
		return err
	}
	c.current = j
	c.responses = nil
	if j.Completed {
		c.moveLocked(StateCompletion)
		return nil
	}
	c.moveLocked(StateSurvey)
	return nil
}

// SubmitSurvey records the round's answers and opens the writing screen.
// Every catalog question must be answered exactly once.
func (c *Controller) SubmitSurvey(answers []survey.Answer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.expectLocked("submit the survey", StateSurvey); err != nil {
		return err
	}
	responses, err := survey.BuildResponses(answers)
	if err != nil {
		return err
	}
	c.responses = responses
	c.session = writing.NewSession(c.writeCfg, c.dictation, c.log)
	c.moveLocked(StateWriting)
	return nil
}

func (c *Controller) sessionLocked(action string) (*writing.Session, error) {
	if err := c.expectLocked(action, StateWriting); err != nil {
		return nil, err
	}
	if c.session == nil {
		return nil, ErrNoWritingSession
	}
	return c.session, nil
}

// BeginWriting starts the writing countdown. The countdown is not tied to
// ctx's cancellation, so it outlives the calling request.
func (c *Controller) BeginWriting(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.sessionLocked("begin writing")
	if err != nil {
		return err
	}
	return s.Begin(context.WithoutCancel(ctx))
}

// Write replaces the writing buffer.
func (c *Controller) Write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.sessionLocked("write")
	if err != nil {
		return err
	}
	return s.SetText(text)
}

// Append adds text to the writing buffer.
func (c *Controller) Append(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.sessionLocked("write")
	if err != nil {
		return err
	}
	return s.Append(text)
}

// StartDictation turns on speech input for the writing buffer.
func (c *Controller) StartDictation(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.sessionLocked("start dictation")
	if err != nil {
		return err
	}
	return s.StartDictation(context.WithoutCancel(ctx))
}

// StopDictation turns off speech input.
func (c *Controller) StopDictation() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.sessionLocked("stop dictation")
	if err != nil {
		return err
	}
	return s.StopDictation()
}

// FinishWriting completes the round: it scores the survey, records the
// writing, persists the journey and shows the completion screen. When
// saving fails the flow stays on the writing screen so it can be retried.
func (c *Controller) FinishWriting(ctx context.Context) (*journey.Journey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.sessionLocked("finish writing")
	if err != nil {
		return nil, err
	}
	if err := s.Check(); err != nil {
		return nil, err
	}

	updated := c.lifecycle.CompleteRound(c.current, c.responses, s.Text())
	if err := c.store.Upsert(ctx, updated); err != nil {
		return nil, fmt.Errorf("saving round: %w", err)
	}
	s.Stop()

	c.log.Infow("round completed",
		"journey", updated.ID,
		"round", len(updated.SessionHistory),
		"score", updated.AngerScore,
		"completed", updated.Completed,
	)
	c.current = updated
	c.session = nil
	c.hasStored = true
	c.moveLocked(StateCompletion)
	return updated.Clone(), nil
}

// Finish leaves the completion screen for the dashboard.
func (c *Controller) Finish() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.expectLocked("finish", StateCompletion); err != nil {
		return err
	}
	c.resetLocked()
	c.hasStored = true
	c.moveLocked(StateDashboard)
	return nil
}

// Cancel abandons the in-flight journey or round. Unsaved data is
// discarded and dictation is stopped.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateCompletion {
		c.resetLocked()
		c.moveLocked(StateDashboard)
		return nil
	}
	if !c.state.InFlight() {
		return fmt.Errorf("%w: nothing to cancel on %s", ErrInvalidTransition, c.state)
	}
	c.resetLocked()
	c.moveLocked(c.homeLocked())
	return nil
}

// Delete removes a stored journey. The journey the flow is working on
// cannot be deleted.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current.ID == id {
		return ErrJourneyInFlight
	}
	if _, err := c.store.Get(ctx, id); err != nil {
		return err
	}
	if err := c.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("deleting journey: %w", err)
	}
	if err := c.refreshLocked(ctx); err != nil {
		return err
	}
	if c.state == StateDashboard && !c.hasStored {
		c.moveLocked(StateWelcome)
	}
	return nil
}

// Close stops any running writing session.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.session.Stop()
	}
}

func (c *Controller) resetLocked() {
	if c.session != nil {
		c.session.Stop()
	}
	c.session = nil
	c.current = nil
	c.responses = nil
}
