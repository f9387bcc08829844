package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/emotionwell/internal/flow"
	"github.com/HendryAvila/emotionwell/internal/journey"
	"github.com/HendryAvila/emotionwell/internal/writing"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- wellbeing_begin_writing ---

// BeginWritingTool starts the writing countdown.
type BeginWritingTool struct {
	flow *flow.Controller
}

func NewBeginWritingTool(c *flow.Controller) *BeginWritingTool {
	return &BeginWritingTool{flow: c}
}

func (t *BeginWritingTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_begin_writing",
		mcp.WithDescription(
			"Start the 10-minute expressive writing timer. The round can be finished once "+
				"at least one minute has passed and at least 50 characters are written.",
		),
	)
}

func (t *BeginWritingTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.flow.BeginWriting(ctx); err != nil {
		return flowFailure("begin writing", err)
	}
	return mcp.NewToolResultText(renderSnapshot(t.flow.Snapshot())), nil
}

// --- wellbeing_write ---

// WriteTool updates the writing buffer.
type WriteTool struct {
	flow *flow.Controller
}

func NewWriteTool(c *flow.Controller) *WriteTool {
	return &WriteTool{flow: c}
}

func (t *WriteTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_write",
		mcp.WithDescription(
			"Update the user's writing. Use mode 'replace' to send the full text, "+
				"or 'append' to add to what is already there.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The user's text"),
		),
		mcp.WithString("mode",
			mcp.Description("replace (default) or append"),
			mcp.Enum("replace", "append"),
			mcp.DefaultString("replace"),
		),
	)
}

func (t *WriteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	var err error
	switch mode := req.GetString("mode", "replace"); mode {
	case "replace":
		err = t.flow.Write(text)
	case "append":
		err = t.flow.Append(text)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid mode %q: must be replace or append", mode)), nil
	}
	if err != nil {
		return flowFailure("write", err)
	}
	return mcp.NewToolResultText(renderSnapshot(t.flow.Snapshot())), nil
}

// --- wellbeing_dictation ---

// DictationTool turns speech input on and off and delivers transcripts
// recognized by the host.
type DictationTool struct {
	flow   *flow.Controller
	source *writing.PushDictation
}

func NewDictationTool(c *flow.Controller, source *writing.PushDictation) *DictationTool {
	return &DictationTool{flow: c, source: source}
}

func (t *DictationTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_dictation",
		mcp.WithDescription(
			"Control dictation for the writing exercise. 'start' begins accepting transcripts, "+
				"'transcript' appends a final speech-recognition result to the writing, "+
				"'stop' ends dictation.",
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Enum("start", "transcript", "stop"),
		),
		mcp.WithString("text",
			mcp.Description("Final transcript, required for action 'transcript'"),
		),
	)
}

func (t *DictationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var err error
	switch action := req.GetString("action", ""); action {
	case "start":
		err = t.flow.StartDictation(ctx)
	case "stop":
		err = t.flow.StopDictation()
	case "transcript":
		text := req.GetString("text", "")
		if strings.TrimSpace(text) == "" {
			return mcp.NewToolResultError("'text' is required for action 'transcript'"), nil
		}
		if t.source == nil {
			return mcp.NewToolResultError(writing.ErrDictationUnavailable.Error()), nil
		}
		err = t.source.Push(text)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid action %q: must be start, transcript or stop", action)), nil
	}
	if err != nil {
		return flowFailure("use dictation", err)
	}
	return mcp.NewToolResultText(renderSnapshot(t.flow.Snapshot())), nil
}

// --- wellbeing_finish_writing ---

// FinishWritingTool completes the round and reports the outcome.
type FinishWritingTool struct {
	flow *flow.Controller
}

func NewFinishWritingTool(c *flow.Controller) *FinishWritingTool {
	return &FinishWritingTool{flow: c}
}

func (t *FinishWritingTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_finish_writing",
		mcp.WithDescription(
			"Finish the writing exercise: scores the survey, saves the round and reports "+
				"whether the journey is complete or when the next session is due.",
		),
	)
}

func (t *FinishWritingTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	j, err := t.flow.FinishWriting(ctx)
	if err != nil {
		return flowFailure("finish writing", err)
	}
	return mcp.NewToolResultText(renderRoundResult(j)), nil
}

func renderRoundResult(j *journey.Journey) string {
	var b strings.Builder
	b.WriteString("# Round Complete\n\n")
	fmt.Fprintf(&b, "**Product:** %s\n", j.ProductName)
	fmt.Fprintf(&b, "**Round:** %d\n", len(j.SessionHistory))
	fmt.Fprintf(&b, "**Anger score:** %.2f\n", j.AngerScore)
	if initial, ok := j.InitialScore(); ok && len(j.SessionHistory) > 1 {
		fmt.Fprintf(&b, "**First round score:** %.2f\n", initial)
	}
	b.WriteString("\n")
	if j.Completed {
		b.WriteString("The journey is complete. The score dropped below the completion threshold.\n")
	} else if j.NextSessionDate != nil {
		fmt.Fprintf(&b, "Another round is due on %s.\n", j.NextSessionDate.Format("Monday, January 2, 2006"))
	}
	b.WriteString("\n**Next:** " + nextStep[flow.StateCompletion] + "\n")
	return b.String()
}
