// Package badges derives achievement badges from the journey collection.
// Badges are display-only: they are recomputed on demand and never stored.
package badges

import (
	"fmt"
	"unicode/utf8"

	"github.com/HendryAvila/emotionwell/internal/journey"
)

// Tier is the completion-rate badge level.
type Tier string

const (
	TierNone   Tier = ""
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// Kind identifies a badge.
type Kind string

const (
	KindBronze    Kind = "bronze"
	KindSilver    Kind = "silver"
	KindGold      Kind = "gold"
	KindWriter    Kind = "writer"
	KindCompleted Kind = "completed"
)

// Thresholds holds the numbers badges are earned at. Rates are percentages.
type Thresholds struct {
	Gold   float64
	Silver float64
	Bronze float64
	// WriterChars is the writing length a single round must exceed to earn
	// the Expressive Writer badge.
	WriterChars int
}

// DefaultThresholds returns the standard badge thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Gold: 80, Silver: 60, Bronze: 30, WriterChars: 500}
}

// Badge is an earned badge tag.
type Badge struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
}

// ShowcaseItem describes a badge whether earned or not.
type ShowcaseItem struct {
	Kind        Kind   `json:"kind"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Requirement string `json:"requirement"`
	Earned      bool   `json:"earned"`
}

// Report is the computed badge state for a journey collection.
type Report struct {
	Total            int            `json:"total"`
	Completed        int            `json:"completed"`
	CompletionRate   float64        `json:"completion_rate"`
	Tier             Tier           `json:"tier,omitempty"`
	ExpressiveWriter bool           `json:"expressive_writer"`
	Earned           []Badge        `json:"earned"`
	Showcase         []ShowcaseItem `json:"showcase"`
}

var tierLabels = map[Tier]string{
	TierBronze: "Bronze Starter",
	TierSilver: "Silver Progress",
	TierGold:   "Gold Achiever",
}

// WriterLabel is the Expressive Writer badge label.
const WriterLabel = "Expressive Writer"

// Compute derives the badge report for journeys.
func Compute(journeys []journey.Journey, th Thresholds) Report {
	r := Report{Total: len(journeys)}
	for i := range journeys {
		j := &journeys[i]
		if j.Completed {
			r.Completed++
		}
		if !r.ExpressiveWriter && hasLongWriting(j, th.WriterChars) {
			r.ExpressiveWriter = true
		}
	}
	if r.Total > 0 {
		r.CompletionRate = float64(r.Completed*100) / float64(r.Total)
	}
	r.Tier = tierFor(r.CompletionRate, th)

	r.Earned = []Badge{}
	if r.Tier != TierNone {
		r.Earned = append(r.Earned, Badge{Kind: Kind(r.Tier), Label: tierLabels[r.Tier]})
	}
	if r.ExpressiveWriter {
		r.Earned = append(r.Earned, Badge{Kind: KindWriter, Label: WriterLabel})
	}
	if r.Completed > 0 {
		r.Earned = append(r.Earned, Badge{
			Kind:  KindCompleted,
			Label: fmt.Sprintf("%d Sessions Completed", r.Completed),
		})
	}

	r.Showcase = showcase(r, th)
	return r
}

// Tags returns the labels of the earned badges in display order.
func (r Report) Tags() []string {
	tags := make([]string, len(r.Earned))
	for i, b := range r.Earned {
		tags[i] = b.Label
	}
	return tags
}

// Has reports whether a badge of the given kind was earned.
func (r Report) Has(k Kind) bool {
	for _, b := range r.Earned {
		if b.Kind == k {
			return true
		}
	}
	return false
}

// tierFor picks the highest tier the rate qualifies for.
func tierFor(rate float64, th Thresholds) Tier {
	switch {
	case rate >= th.Gold:
		return TierGold
	case rate >= th.Silver:
		return TierSilver
	case rate >= th.Bronze:
		return TierBronze
	default:
		return TierNone
	}
}

// hasLongWriting counts characters, not bytes or words.
func hasLongWriting(j *journey.Journey, limit int) bool {
	for _, h := range j.SessionHistory {
		if utf8.RuneCountInString(h.ExpressiveWriting) > limit {
			return true
		}
	}
	return false
}

func showcase(r Report, th Thresholds) []ShowcaseItem {
	rate := r.CompletionRate
	return []ShowcaseItem{
		{
			Kind:        KindBronze,
			Label:       tierLabels[TierBronze],
			Description: "You've taken the first steps!",
			Requirement: fmt.Sprintf("%.0f%% completion rate", th.Bronze),
			Earned:      rate >= th.Bronze,
		},
		{
			Kind:        KindSilver,
			Label:       tierLabels[TierSilver],
			Description: "Great progress on your journey!",
			Requirement: fmt.Sprintf("%.0f%% completion rate", th.Silver),
			Earned:      rate >= th.Silver,
		},
		{
			Kind:        KindGold,
			Label:       tierLabels[TierGold],
			Description: "Outstanding commitment to wellbeing!",
			Requirement: fmt.Sprintf("%.0f%% completion rate", th.Gold),
			Earned:      rate >= th.Gold,
		},
		{
			Kind:        KindWriter,
			Label:       WriterLabel,
			Description: "Deep emotional expression in writing",
			Requirement: fmt.Sprintf("Write more than %d characters in one session", th.WriterChars),
			Earned:      r.ExpressiveWriter,
		},
	}
}
