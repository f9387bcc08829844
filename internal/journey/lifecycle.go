package journey

import (
	"github.com/HendryAvila/emotionwell/internal/scoring"
	"github.com/HendryAvila/emotionwell/internal/survey"
)

const (
	// DefaultCompletionThreshold is the anger score below which a round
	// completes the journey. The comparison is strict.
	DefaultCompletionThreshold = 2.5
	// DefaultFollowUpDays is the number of calendar days until the next
	// round when a journey is not yet complete.
	DefaultFollowUpDays = 7
)

// Policy holds the tunable numbers of the lifecycle.
type Policy struct {
	CompletionThreshold float64
	FollowUpDays        int
}

// DefaultPolicy returns the standard lifecycle policy.
func DefaultPolicy() Policy {
	return Policy{
		CompletionThreshold: DefaultCompletionThreshold,
		FollowUpDays:        DefaultFollowUpDays,
	}
}

// Lifecycle applies round completions under a Policy.
type Lifecycle struct {
	policy Policy
}

// NewLifecycle creates a Lifecycle. Non-positive follow-up days fall back
// to the default.
func NewLifecycle(p Policy) *Lifecycle {
	if p.FollowUpDays <= 0 {
		p.FollowUpDays = DefaultFollowUpDays
	}
	return &Lifecycle{policy: p}
}

// Policy returns the policy in effect.
func (l *Lifecycle) Policy() Policy {
	return l.policy
}

// Create starts a fresh journey at round 1 with an empty history.
// Any text is accepted; callers validate input before calling.
func Create(productName, reviewComment string, initialScore float64) *Journey {
	return &Journey{
		ID:                   newID(),
		ProductName:          productName,
		ReviewComment:        reviewComment,
		AngerScore:           initialScore,
		CurrentSessionNumber: 1,
		Completed:            false,
		SessionHistory:       []HistoryEntry{},
	}
}

// New starts a fresh journey with an initial score of 0.
func New(productName, reviewComment string) *Journey {
	return Create(productName, reviewComment, 0)
}

// CompleteRound scores a round and returns the updated journey. The input
// journey is left untouched.
//
// The round is appended to the history with the journey's current round
// number. When the score is below the completion threshold the journey is
// marked completed and nothing is rescheduled. Otherwise the round counter
// advances and the next round is scheduled FollowUpDays calendar days
// from now.
func (l *Lifecycle) CompleteRound(j *Journey, responses []survey.Response, writing string) *Journey {
	now := timeNow()
	score := scoring.ComputeAngerScore(responses)

	updated := j.Clone()
	updated.SessionHistory = append(updated.SessionHistory, HistoryEntry{
		SessionNumber:     j.CurrentSessionNumber,
		Date:              now,
		AngerScore:        score,
		SurveyResponses:   append([]survey.Response(nil), responses...),
		ExpressiveWriting: writing,
	})
	updated.AngerScore = score

	if score < l.policy.CompletionThreshold {
		updated.Completed = true
		return updated
	}

	updated.CurrentSessionNumber++
	// AddDate works on calendar components, so DST shifts and month ends
	// land on the same wall-clock time a week later.
	next := now.AddDate(0, 0, l.policy.FollowUpDays)
	updated.NextSessionDate = &next
	return updated
}

var defaultLifecycle = NewLifecycle(DefaultPolicy())

// CompleteRound applies a round under the default policy.
func CompleteRound(j *Journey, responses []survey.Response, writing string) *Journey {
	return defaultLifecycle.CompleteRound(j, responses, writing)
}
