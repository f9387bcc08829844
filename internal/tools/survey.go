package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/emotionwell/internal/flow"
	"github.com/HendryAvila/emotionwell/internal/scoring"
	"github.com/HendryAvila/emotionwell/internal/survey"
	"github.com/mark3labs/mcp-go/mcp"
)

// answersOption describes the answers argument shared by the survey tools.
func answersOption() mcp.ToolOption {
	return mcp.WithArray("answers",
		mcp.Required(),
		mcp.Description("One entry per question: {\"question_id\": 1, \"choice_index\": 0}. "+
			"choice_index is the 0-based option position (0-4). "+
			"An object mapping question IDs to choice indexes is also accepted."),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question_id":  map[string]any{"type": "integer"},
				"choice_index": map[string]any{"type": "integer", "minimum": 0, "maximum": survey.ChoiceCount - 1},
			},
			"required": []string{"question_id", "choice_index"},
		}),
	)
}

// --- wellbeing_survey ---

// SurveyTool lists the survey questions.
type SurveyTool struct{}

func NewSurveyTool() *SurveyTool {
	return &SurveyTool{}
}

func (t *SurveyTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_survey",
		mcp.WithDescription(
			"List the 10 survey questions with their five options each. "+
				"Ask them one at a time, in order, and record the chosen option index.",
		),
	)
}

func (t *SurveyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	b.WriteString("# Survey\n\n")
	for _, q := range survey.Questions() {
		fmt.Fprintf(&b, "## %d. %s\n_%s_\n\n", q.ID, q.Prompt, q.Category)
		for i, c := range q.Choices {
			fmt.Fprintf(&b, "%d. %s\n", i, c)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// --- wellbeing_score ---

// ScoreTool scores answers without touching any journey.
type ScoreTool struct{}

func NewScoreTool() *ScoreTool {
	return &ScoreTool{}
}

func (t *ScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_score",
		mcp.WithDescription(
			"Compute the anger score for a set of answers without saving anything. "+
				"Partial answer sets are allowed. The score is 0.7 x the emotional mean "+
				"plus 0.3 x the cognitive mean, on a 1-5 scale.",
		),
		answersOption(),
	)
}

func (t *ScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	answers, err := parseAnswers(req.GetArguments()["answers"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responses := make([]survey.Response, 0, len(answers))
	for _, a := range answers {
		q, ok := survey.Lookup(a.QuestionID)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("%v: %d", survey.ErrUnknownQuestion, a.QuestionID)), nil
		}
		r, err := q.Respond(a.ChoiceIndex)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		responses = append(responses, r)
	}

	res := scoring.Breakdown(responses)
	return mcp.NewToolResultText(fmt.Sprintf(
		"# Anger Score\n\n"+
			"**Score:** %.2f\n\n"+
			"| Category | Answers | Mean |\n"+
			"|----------|---------|------|\n"+
			"| emotional | %d | %.2f |\n"+
			"| cognitive | %d | %.2f |\n",
		res.Score,
		res.EmotionalCount, res.EmotionalMean,
		res.CognitiveCount, res.CognitiveMean,
	)), nil
}

// --- wellbeing_submit_survey ---

// SubmitSurveyTool records the round's survey answers.
type SubmitSurveyTool struct {
	flow *flow.Controller
}

func NewSubmitSurveyTool(c *flow.Controller) *SubmitSurveyTool {
	return &SubmitSurveyTool{flow: c}
}

func (t *SubmitSurveyTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_submit_survey",
		mcp.WithDescription(
			"Submit the answers for all 10 survey questions of the current round. "+
				"Every question must be answered exactly once. Moves on to the writing exercise.",
		),
		answersOption(),
	)
}

func (t *SubmitSurveyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	answers, err := parseAnswers(req.GetArguments()["answers"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.flow.SubmitSurvey(answers); err != nil {
		return flowFailure("submit the survey", err)
	}
	return mcp.NewToolResultText("Survey recorded.\n\n" + renderSnapshot(t.flow.Snapshot())), nil
}
