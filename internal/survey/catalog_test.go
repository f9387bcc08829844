package survey

import (
	"errors"
	"testing"
)

func fullAnswers(choice int) []Answer {
	answers := make([]Answer, 0, Len())
	for _, q := range Questions() {
		answers = append(answers, Answer{QuestionID: q.ID, ChoiceIndex: choice})
	}
	return answers
}

// --- Catalog shape ---

func TestCatalog_TenQuestionsWithFiveChoices(t *testing.T) {
	qs := Questions()
	if len(qs) != 10 {
		t.Fatalf("catalog has %d questions, want 10", len(qs))
	}
	for i, q := range qs {
		if q.ID != i+1 {
			t.Errorf("question %d has ID %d, want %d", i, q.ID, i+1)
		}
		if len(q.Choices) != ChoiceCount {
			t.Errorf("question %d has %d choices, want %d", q.ID, len(q.Choices), ChoiceCount)
		}
		if q.Prompt == "" {
			t.Errorf("question %d has empty prompt", q.ID)
		}
	}
}

func TestCatalog_CategoriesAlternate(t *testing.T) {
	for i, q := range Questions() {
		want := CategoryCognitive
		if i%2 == 1 {
			want = CategoryEmotional
		}
		if q.Category != want {
			t.Errorf("question %d category = %s, want %s", q.ID, q.Category, want)
		}
	}
}

func TestQuestions_ReturnsCopy(t *testing.T) {
	qs := Questions()
	qs[0].Choices[0] = "mutated"
	qs[0].Prompt = "mutated"

	again := Questions()
	if again[0].Choices[0] == "mutated" || again[0].Prompt == "mutated" {
		t.Error("Questions() must not expose the catalog for mutation")
	}
}

func TestLookup(t *testing.T) {
	q, ok := Lookup(2)
	if !ok {
		t.Fatal("Lookup(2) not found")
	}
	if q.Category != CategoryEmotional {
		t.Errorf("question 2 category = %s, want emotional", q.Category)
	}
	if _, ok := Lookup(99); ok {
		t.Error("Lookup(99) should not be found")
	}
}

// --- Respond / ChoiceLabel ---

func TestRespond_ValueIsIndexPlusOne(t *testing.T) {
	q, _ := Lookup(1)
	for idx := 0; idx < ChoiceCount; idx++ {
		r, err := q.Respond(idx)
		if err != nil {
			t.Fatalf("Respond(%d) error: %v", idx, err)
		}
		if r.Value != idx+1 {
			t.Errorf("Respond(%d).Value = %d, want %d", idx, r.Value, idx+1)
		}
		if r.Question != q.Prompt || r.Category != q.Category || r.QuestionID != q.ID {
			t.Errorf("Respond(%d) did not echo question fields: %+v", idx, r)
		}
	}
}

func TestRespond_OutOfRange(t *testing.T) {
	q, _ := Lookup(1)
	for _, idx := range []int{-1, ChoiceCount} {
		if _, err := q.Respond(idx); !errors.Is(err, ErrInvalidChoice) {
			t.Errorf("Respond(%d) error = %v, want ErrInvalidChoice", idx, err)
		}
	}
}

func TestChoiceLabel(t *testing.T) {
	q, _ := Lookup(5)
	if got := q.ChoiceLabel(1); got != "Never" {
		t.Errorf("ChoiceLabel(1) = %q, want Never", got)
	}
	if got := q.ChoiceLabel(5); got != "Always" {
		t.Errorf("ChoiceLabel(5) = %q, want Always", got)
	}
	if got := q.ChoiceLabel(0); got != "" {
		t.Errorf("ChoiceLabel(0) = %q, want empty", got)
	}
}

// --- BuildResponses ---

func TestBuildResponses_CatalogOrder(t *testing.T) {
	answers := fullAnswers(2)
	// Reverse the input order; output must still follow the catalog.
	for i, j := 0, len(answers)-1; i < j; i, j = i+1, j-1 {
		answers[i], answers[j] = answers[j], answers[i]
	}

	responses, err := BuildResponses(answers)
	if err != nil {
		t.Fatalf("BuildResponses error: %v", err)
	}
	if len(responses) != Len() {
		t.Fatalf("got %d responses, want %d", len(responses), Len())
	}
	for i, r := range responses {
		if r.QuestionID != i+1 {
			t.Errorf("response %d is for question %d", i, r.QuestionID)
		}
		if r.Value != 3 {
			t.Errorf("response %d value = %d, want 3", i, r.Value)
		}
	}
}

func TestBuildResponses_Errors(t *testing.T) {
	tests := []struct {
		name    string
		answers []Answer
		want    error
	}{
		{"missing", fullAnswers(0)[:9], ErrIncomplete},
		{"duplicate", append(fullAnswers(0), Answer{QuestionID: 1, ChoiceIndex: 0}), ErrIncomplete},
		{"unknown question", append(fullAnswers(0), Answer{QuestionID: 42}), ErrUnknownQuestion},
		{"bad choice", append(fullAnswers(0)[:9], Answer{QuestionID: 10, ChoiceIndex: 7}), ErrInvalidChoice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildResponses(tt.answers)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	if err := ValidateCategory(CategoryCognitive); err != nil {
		t.Errorf("cognitive rejected: %v", err)
	}
	if err := ValidateCategory("bogus"); err == nil {
		t.Error("bogus category accepted")
	}
}
