// Package journey implements the wellbeing journey lifecycle: creating a
// journey for a negative product experience, folding each completed round
// (survey + expressive writing) into its history, deciding whether the
// journey is complete, and persisting the journey collection.
//
// This package follows the same split as the rest of the module:
// - types.go: data structures
// - lifecycle.go: pure state transitions
// - repository.go: persistence over a kv.Store
// - dashboard.go: read-only summaries
package journey

import (
	"time"

	"github.com/HendryAvila/emotionwell/internal/survey"
)

// HistoryEntry records one completed round. Entries are append-only.
type HistoryEntry struct {
	SessionNumber     int               `json:"sessionNumber"`
	Date              time.Time         `json:"date"`
	AngerScore        float64           `json:"angerScore"`
	SurveyResponses   []survey.Response `json:"surveyResponses"`
	ExpressiveWriting string            `json:"expressiveWriting"`
}

// Journey is the aggregate root for one product experience.
//
// JSON field names match the stored collection format so existing data
// keeps loading.
type Journey struct {
	ID                   string         `json:"id"`
	ProductName          string         `json:"productName"`
	ReviewComment        string         `json:"reviewComment"`
	AngerScore           float64        `json:"angerScore"`
	CurrentSessionNumber int            `json:"currentSessionNumber"`
	Completed            bool           `json:"completed"`
	SessionHistory       []HistoryEntry `json:"sessionHistory"`
	NextSessionDate      *time.Time     `json:"nextSessionDate,omitempty"`
}

// Clone returns a deep copy. Nothing in the copy aliases j.
func (j *Journey) Clone() *Journey {
	c := *j
	if j.SessionHistory != nil {
		c.SessionHistory = make([]HistoryEntry, len(j.SessionHistory))
		for i, h := range j.SessionHistory {
			h.SurveyResponses = append([]survey.Response(nil), h.SurveyResponses...)
			c.SessionHistory[i] = h
		}
	}
	if j.NextSessionDate != nil {
		next := *j.NextSessionDate
		c.NextSessionDate = &next
	}
	return &c
}

// InitialScore returns the score of the first recorded round, or false if
// no round has been recorded.
func (j *Journey) InitialScore() (float64, bool) {
	if len(j.SessionHistory) == 0 {
		return 0, false
	}
	return j.SessionHistory[0].AngerScore, true
}

// Rounds returns the number of recorded rounds.
func (j *Journey) Rounds() int {
	return len(j.SessionHistory)
}

// Due reports whether an incomplete journey is ready for its next round:
// either nothing is scheduled yet or the scheduled date has been reached.
func (j *Journey) Due(now time.Time) bool {
	if j.Completed {
		return false
	}
	return j.NextSessionDate == nil || !now.Before(*j.NextSessionDate)
}
