package scoring

import (
	"math"
	"testing"

	"github.com/HendryAvila/emotionwell/internal/survey"
)

const epsilon = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func resp(c survey.Category, v int) survey.Response {
	return survey.Response{Category: c, Value: v}
}

func TestComputeAngerScore_Empty(t *testing.T) {
	if got := ComputeAngerScore(nil); got != 0 {
		t.Errorf("ComputeAngerScore(nil) = %v, want 0", got)
	}
	if got := ComputeAngerScore([]survey.Response{}); got != 0 {
		t.Errorf("ComputeAngerScore([]) = %v, want 0", got)
	}
}

func TestComputeAngerScore_SingleCategory(t *testing.T) {
	for v := survey.MinValue; v <= survey.MaxValue; v++ {
		emotional := []survey.Response{resp(survey.CategoryEmotional, v), resp(survey.CategoryEmotional, v)}
		if got, want := ComputeAngerScore(emotional), 0.7*float64(v); !approx(got, want) {
			t.Errorf("all emotional %d: got %v, want %v", v, got, want)
		}

		cognitive := []survey.Response{resp(survey.CategoryCognitive, v), resp(survey.CategoryCognitive, v)}
		if got, want := ComputeAngerScore(cognitive), 0.3*float64(v); !approx(got, want) {
			t.Errorf("all cognitive %d: got %v, want %v", v, got, want)
		}
	}
}

func TestComputeAngerScore_Mixed(t *testing.T) {
	tests := []struct {
		name      string
		responses []survey.Response
		want      float64
	}{
		{
			name:      "one emotional 5, one cognitive 1",
			responses: []survey.Response{resp(survey.CategoryEmotional, 5), resp(survey.CategoryCognitive, 1)},
			want:      3.8,
		},
		{
			name: "means per category",
			responses: []survey.Response{
				resp(survey.CategoryEmotional, 2), resp(survey.CategoryEmotional, 4),
				resp(survey.CategoryCognitive, 1), resp(survey.CategoryCognitive, 2), resp(survey.CategoryCognitive, 3),
			},
			want: 0.7*3 + 0.3*2,
		},
		{
			name: "all ones stays under threshold",
			responses: []survey.Response{
				resp(survey.CategoryEmotional, 1), resp(survey.CategoryCognitive, 1),
			},
			want: 1.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeAngerScore(tt.responses); !approx(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeAngerScore_DuplicatesCounted(t *testing.T) {
	r := survey.Response{QuestionID: 2, Category: survey.CategoryEmotional, Value: 5}
	other := survey.Response{QuestionID: 4, Category: survey.CategoryEmotional, Value: 1}
	// Question 2 twice: mean is (5+5+1)/3.
	got := ComputeAngerScore([]survey.Response{r, r, other})
	if want := 0.7 * 11.0 / 3.0; !approx(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBreakdown(t *testing.T) {
	res := Breakdown([]survey.Response{
		resp(survey.CategoryEmotional, 4),
		resp(survey.CategoryCognitive, 2),
		resp(survey.CategoryCognitive, 4),
	})
	if res.EmotionalCount != 1 || res.CognitiveCount != 2 {
		t.Errorf("counts = %d/%d, want 1/2", res.EmotionalCount, res.CognitiveCount)
	}
	if !approx(res.EmotionalMean, 4) || !approx(res.CognitiveMean, 3) {
		t.Errorf("means = %v/%v, want 4/3", res.EmotionalMean, res.CognitiveMean)
	}
	if !approx(res.Score, 0.7*4+0.3*3) {
		t.Errorf("score = %v", res.Score)
	}
}
