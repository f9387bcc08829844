package survey

import "fmt"

var (
	agreement = []string{"Not at all", "Slightly", "Moderately", "Very", "Extremely"}
	extent    = []string{"Not at all", "Slightly", "Moderately", "Considerably", "Extensively"}
)

// catalog is the ordered question list. Categories alternate starting
// with cognitive.
var catalog = []Question{
	{
		ID:       1,
		Prompt:   "How often do you find yourself thinking about your negative experience with this product?",
		Category: CategoryCognitive,
		Choices:  []string{"Rarely", "Occasionally", "Sometimes", "Often", "Very frequently"},
	},
	{
		ID:       2,
		Prompt:   "How angry do you feel when recalling your experience with this product?",
		Category: CategoryEmotional,
		Choices:  agreement,
	},
	{
		ID:       3,
		Prompt:   "To what extent do you blame the company for your negative experience?",
		Category: CategoryCognitive,
		Choices:  []string{"Not at all", "Slightly", "Moderately", "Considerably", "Entirely"},
	},
	{
		ID:       4,
		Prompt:   "How frustrated do you feel about not getting what you expected from this purchase?",
		Category: CategoryEmotional,
		Choices:  agreement,
	},
	{
		ID:       5,
		Prompt:   "How often do you want to warn others about this product?",
		Category: CategoryCognitive,
		Choices:  []string{"Never", "Rarely", "Sometimes", "Often", "Always"},
	},
	{
		ID:       6,
		Prompt:   "How disappointed do you feel about this purchase?",
		Category: CategoryEmotional,
		Choices:  agreement,
	},
	{
		ID:       7,
		Prompt:   "To what extent do you think about getting compensation or revenge?",
		Category: CategoryCognitive,
		Choices:  extent,
	},
	{
		ID:       8,
		Prompt:   "How betrayed do you feel by this company?",
		Category: CategoryEmotional,
		Choices:  agreement,
	},
	{
		ID:       9,
		Prompt:   "How much do you dwell on the money you lost on this purchase?",
		Category: CategoryCognitive,
		Choices:  extent,
	},
	{
		ID:       10,
		Prompt:   "How tense do you feel when thinking about this experience?",
		Category: CategoryEmotional,
		Choices:  agreement,
	},
}

// Questions returns a copy of the catalog in display order.
func Questions() []Question {
	result := make([]Question, len(catalog))
	for i, q := range catalog {
		q.Choices = append([]string(nil), q.Choices...)
		result[i] = q
	}
	return result
}

// Len returns the number of questions in the catalog.
func Len() int {
	return len(catalog)
}

// Lookup returns the question with the given ID.
func Lookup(id int) (Question, bool) {
	for _, q := range catalog {
		if q.ID == id {
			q.Choices = append([]string(nil), q.Choices...)
			return q, true
		}
	}
	return Question{}, false
}

// BuildResponses converts a full set of answers into responses ordered as
// the catalog is. Every catalog question must be answered exactly once.
func BuildResponses(answers []Answer) ([]Response, error) {
	byID := make(map[int]int, len(answers))
	for _, a := range answers {
		if _, ok := Lookup(a.QuestionID); !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownQuestion, a.QuestionID)
		}
		if _, dup := byID[a.QuestionID]; dup {
			return nil, fmt.Errorf("%w: question %d answered more than once", ErrIncomplete, a.QuestionID)
		}
		byID[a.QuestionID] = a.ChoiceIndex
	}

	responses := make([]Response, 0, len(catalog))
	var missing []int
	for _, q := range catalog {
		idx, ok := byID[q.ID]
		if !ok {
			missing = append(missing, q.ID)
			continue
		}
		r, err := q.Respond(idx)
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: unanswered questions %v", ErrIncomplete, missing)
	}
	return responses, nil
}
