// Package survey holds the fixed question catalog for the wellbeing
// assessment and the response records built from it.
//
// The catalog is defined at build time and never mutated. Each question
// belongs to one category (cognitive or emotional) and offers exactly
// five ordinal choices; a response stores the 1-based choice value.
package survey

import (
	"errors"
	"fmt"
)

// --- Category enum ---

// Category classifies a question for scoring purposes.
type Category string

const (
	CategoryCognitive Category = "cognitive"
	CategoryEmotional Category = "emotional"
)

// validCategories is the set of allowed categories.
var validCategories = map[Category]bool{
	CategoryCognitive: true,
	CategoryEmotional: true,
}

// ValidateCategory returns an error if the category is not recognized.
func ValidateCategory(c Category) error {
	if !validCategories[c] {
		return fmt.Errorf("invalid category %q: must be one of: cognitive, emotional", c)
	}
	return nil
}

// --- Response values ---

const (
	// ChoiceCount is the number of ordinal choices every question offers.
	ChoiceCount = 5
	// MinValue and MaxValue bound a response value (choice index + 1).
	MinValue = 1
	MaxValue = ChoiceCount
)

var (
	// ErrUnknownQuestion is returned when an answer references a question
	// that is not in the catalog.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrInvalidChoice is returned for a choice index outside [0, ChoiceCount).
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrIncomplete is returned when a survey round is missing answers or
	// answers a question twice.
	ErrIncomplete = errors.New("incomplete survey")
)

// --- Core data structures ---

// Question is one catalog entry.
type Question struct {
	ID       int      `json:"id"`
	Prompt   string   `json:"question"`
	Category Category `json:"type"`
	Choices  []string `json:"options"`
}

// Response is a single answered question. Value is in [1,5], where 1
// corresponds to choice index 0.
type Response struct {
	QuestionID int      `json:"questionId"`
	Question   string   `json:"question"`
	Value      int      `json:"response"`
	Category   Category `json:"type"`
}

// Answer is a raw selection coming from a collaborator: the question and
// the zero-based index of the chosen option.
type Answer struct {
	QuestionID  int `json:"question_id"`
	ChoiceIndex int `json:"choice_index"`
}

// Respond builds the Response for choosing the option at choiceIndex.
func (q Question) Respond(choiceIndex int) (Response, error) {
	if choiceIndex < 0 || choiceIndex >= len(q.Choices) {
		return Response{}, fmt.Errorf("%w: question %d has no option %d", ErrInvalidChoice, q.ID, choiceIndex)
	}
	return Response{
		QuestionID: q.ID,
		Question:   q.Prompt,
		Value:      choiceIndex + 1,
		Category:   q.Category,
	}, nil
}

// ChoiceLabel returns the label for a 1-based response value, or "" if
// the value is out of range.
func (q Question) ChoiceLabel(value int) string {
	if value < MinValue || value > len(q.Choices) {
		return ""
	}
	return q.Choices[value-1]
}
