// Package tools implements the wellbeing MCP tool handlers.
//
// Each tool is a struct that receives its dependencies through its
// constructor and exposes Definition() for registration and Handle() for
// calls. Problems the user can fix (wrong step, missing field, writing too
// short) come back as tool errors; storage failures are returned as Go
// errors.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/HendryAvila/emotionwell/internal/flow"
	"github.com/HendryAvila/emotionwell/internal/journey"
	"github.com/HendryAvila/emotionwell/internal/survey"
	"github.com/HendryAvila/emotionwell/internal/writing"
	"github.com/mark3labs/mcp-go/mcp"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// userErrors are failures the user resolves by acting differently.
var userErrors = []error{
	flow.ErrInvalidTransition,
	flow.ErrEmptyReview,
	flow.ErrNoWritingSession,
	flow.ErrJourneyInFlight,
	journey.ErrJourneyNotFound,
	survey.ErrUnknownQuestion,
	survey.ErrInvalidChoice,
	survey.ErrIncomplete,
	writing.ErrNotStarted,
	writing.ErrAlreadyStarted,
	writing.ErrFinished,
	writing.ErrTooShort,
	writing.ErrTooEarly,
	writing.ErrDictationUnavailable,
	writing.ErrNotRecording,
}

func isUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// flowFailure turns a controller error into a tool result.
func flowFailure(action string, err error) (*mcp.CallToolResult, error) {
	if isUserError(err) {
		return mcp.NewToolResultError(fmt.Sprintf("Cannot %s: %v", action, err)), nil
	}
	return nil, fmt.Errorf("%s: %w", action, err)
}

// parseAnswers accepts either an array of {question_id, choice_index}
// objects or an object mapping question IDs to choice indexes. A JSON
// string holding either form is also accepted.
func parseAnswers(raw any) ([]survey.Answer, error) {
	if s, ok := raw.(string); ok {
		if err := json.Unmarshal([]byte(s), &raw); err != nil {
			return nil, fmt.Errorf("answers is not valid JSON: %w", err)
		}
	}

	switch v := raw.(type) {
	case []any:
		answers := make([]survey.Answer, 0, len(v))
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("answers[%d] must be an object", i)
			}
			id, okID := number(obj["question_id"])
			choice, okChoice := number(obj["choice_index"])
			if !okID || !okChoice {
				return nil, fmt.Errorf("answers[%d] needs numeric question_id and choice_index", i)
			}
			answers = append(answers, survey.Answer{QuestionID: id, ChoiceIndex: choice})
		}
		return answers, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		answers := make([]survey.Answer, 0, len(v))
		for _, k := range keys {
			id, err := strconv.Atoi(k)
			if err != nil {
				return nil, fmt.Errorf("answer key %q is not a question id", k)
			}
			choice, ok := number(v[k])
			if !ok {
				return nil, fmt.Errorf("answer for question %d must be a number", id)
			}
			answers = append(answers, survey.Answer{QuestionID: id, ChoiceIndex: choice})
		}
		return answers, nil
	case nil:
		return nil, errors.New("answers is required")
	default:
		return nil, fmt.Errorf("answers must be an array or object, got %T", raw)
	}
}

// number reads a whole JSON number (decoded as float64).
func number(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// nextStep tells the host what it can do from a state.
var nextStep = map[flow.State]string{
	flow.StateWelcome:       "Call `wellbeing_start` to report a product experience.",
	flow.StateDashboard:     "Call `wellbeing_continue` with a journey ID, or `wellbeing_start` for a new one.",
	flow.StateReviewScanner: "Ask for the product name and what happened, then call `wellbeing_submit_review`.",
	flow.StateIntro:         "Explain the exercise, then call `wellbeing_decide` with accept or decline.",
	flow.StateSurvey:        "Ask the questions from `wellbeing_survey`, then call `wellbeing_submit_survey`.",
	flow.StateWriting:       "Call `wellbeing_begin_writing`, relay the text with `wellbeing_write`, then `wellbeing_finish_writing`.",
	flow.StateCompletion:    "Share the result, then call `wellbeing_finish`.",
}

// renderSnapshot formats the flow state as markdown.
func renderSnapshot(snap flow.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**State:** %s\n", snap.State)
	if j := snap.Journey; j != nil {
		fmt.Fprintf(&b, "**Journey:** `%s` (%s)\n", j.ID, j.ProductName)
		fmt.Fprintf(&b, "**Round:** %d\n", j.CurrentSessionNumber)
		if len(j.SessionHistory) > 0 {
			fmt.Fprintf(&b, "**Anger score:** %.2f\n", j.AngerScore)
		}
	}
	if w := snap.Writing; w != nil {
		fmt.Fprintf(&b, "\n## Writing\n\n")
		if !w.Started {
			b.WriteString("Not started yet.\n")
		} else {
			fmt.Fprintf(&b, "- Time remaining: %s\n", formatRemaining(w.Remaining))
			fmt.Fprintf(&b, "- Progress: %.0f%%\n", w.Progress)
			fmt.Fprintf(&b, "- Characters: %d\n", w.Chars)
			fmt.Fprintf(&b, "- Dictation: %s\n", onOff(w.Recording))
			fmt.Fprintf(&b, "- Can finish: %s\n", yesNo(w.CanFinish))
			fmt.Fprintf(&b, "- Hint: %s\n", w.Feedback)
		}
	}
	if hint := nextStep[snap.State]; hint != "" {
		fmt.Fprintf(&b, "\n**Next:** %s\n", hint)
	}
	return b.String()
}

// formatRemaining renders a countdown as m:ss.
func formatRemaining(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
