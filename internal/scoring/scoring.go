// Package scoring turns a round of survey responses into an anger score.
//
// The score is a weighted average of the per-category means: emotional
// answers carry 70% of the weight and cognitive answers 30%. The result
// lies roughly in [0,5].
package scoring

import "github.com/HendryAvila/emotionwell/internal/survey"

const (
	EmotionalWeight = 0.7
	CognitiveWeight = 0.3
)

// Result is the intermediate view of a computed score.
type Result struct {
	EmotionalMean  float64 `json:"emotional_mean"`
	CognitiveMean  float64 `json:"cognitive_mean"`
	EmotionalCount int     `json:"emotional_count"`
	CognitiveCount int     `json:"cognitive_count"`
	Score          float64 `json:"score"`
}

// ComputeAngerScore returns the weighted anger score for responses.
// An empty input scores exactly 0. A category with no responses
// contributes a mean of 0. Values are not validated here.
func ComputeAngerScore(responses []survey.Response) float64 {
	return Breakdown(responses).Score
}

// Breakdown computes the score along with the category means it was
// built from.
func Breakdown(responses []survey.Response) Result {
	if len(responses) == 0 {
		return Result{}
	}

	var r Result
	var emotionalSum, cognitiveSum int
	for _, resp := range responses {
		switch resp.Category {
		case survey.CategoryEmotional:
			emotionalSum += resp.Value
			r.EmotionalCount++
		case survey.CategoryCognitive:
			cognitiveSum += resp.Value
			r.CognitiveCount++
		}
	}

	r.EmotionalMean = float64(emotionalSum) / float64(max(r.EmotionalCount, 1))
	r.CognitiveMean = float64(cognitiveSum) / float64(max(r.CognitiveCount, 1))
	r.Score = r.EmotionalMean*EmotionalWeight + r.CognitiveMean*CognitiveWeight
	return r
}
