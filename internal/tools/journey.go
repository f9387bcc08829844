package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/emotionwell/internal/flow"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- wellbeing_start ---

// StartTool opens the review scanner for a new journey.
type StartTool struct {
	flow *flow.Controller
}

func NewStartTool(c *flow.Controller) *StartTool {
	return &StartTool{flow: c}
}

func (t *StartTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_start",
		mcp.WithDescription(
			"Start a new wellbeing journey about a product experience that upset the user. "+
				"Only allowed from the welcome screen or the dashboard.",
		),
	)
}

func (t *StartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.flow.StartNew(); err != nil {
		return flowFailure("start a journey", err)
	}
	return mcp.NewToolResultText(renderSnapshot(t.flow.Snapshot())), nil
}

// --- wellbeing_submit_review ---

// SubmitReviewTool records the product and what happened.
type SubmitReviewTool struct {
	flow *flow.Controller
}

func NewSubmitReviewTool(c *flow.Controller) *SubmitReviewTool {
	return &SubmitReviewTool{flow: c}
}

func (t *SubmitReviewTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_submit_review",
		mcp.WithDescription(
			"Record the product and the user's account of the experience. "+
				"Nothing is saved until the first round is finished.",
		),
		mcp.WithString("product_name",
			mcp.Required(),
			mcp.Description("The product the experience was about"),
		),
		mcp.WithString("review_comment",
			mcp.Required(),
			mcp.Description("What happened, in the user's words"),
		),
	)
}

func (t *SubmitReviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	product := req.GetString("product_name", "")
	comment := req.GetString("review_comment", "")
	if err := t.flow.SubmitReview(product, comment); err != nil {
		return flowFailure("submit the review", err)
	}
	return mcp.NewToolResultText(
		"The exercise has two parts: a 10-question survey, then up to 10 minutes of " +
			"expressive writing about the experience.\n\n" + renderSnapshot(t.flow.Snapshot()),
	), nil
}

// --- wellbeing_decide ---

// DecideTool accepts or declines the exercise after the intro.
type DecideTool struct {
	flow *flow.Controller
}

func NewDecideTool(c *flow.Controller) *DecideTool {
	return &DecideTool{flow: c}
}

func (t *DecideTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_decide",
		mcp.WithDescription(
			"Accept or decline the exercise. Declining discards the new journey.",
		),
		mcp.WithString("decision",
			mcp.Required(),
			mcp.Enum("accept", "decline"),
		),
	)
}

func (t *DecideTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var err error
	switch decision := req.GetString("decision", ""); decision {
	case "accept":
		err = t.flow.Accept()
	case "decline":
		err = t.flow.Decline()
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid decision %q: must be accept or decline", decision)), nil
	}
	if err != nil {
		return flowFailure("decide", err)
	}
	return mcp.NewToolResultText(renderSnapshot(t.flow.Snapshot())), nil
}

// --- wellbeing_continue ---

// ContinueTool resumes a stored journey from the dashboard.
type ContinueTool struct {
	flow *flow.Controller
}

func NewContinueTool(c *flow.Controller) *ContinueTool {
	return &ContinueTool{flow: c}
}

func (t *ContinueTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_continue",
		mcp.WithDescription(
			"Resume a journey from the dashboard. Pending journeys start their next round "+
				"at the survey; completed journeys show their completion summary.",
		),
		mcp.WithString("journey_id",
			mcp.Required(),
			mcp.Description("ID from `wellbeing_dashboard`"),
		),
	)
}

func (t *ContinueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("journey_id", "")
	if id == "" {
		return mcp.NewToolResultError("'journey_id' is required"), nil
	}
	if err := t.flow.Continue(ctx, id); err != nil {
		return flowFailure("continue the journey", err)
	}
	return mcp.NewToolResultText(renderSnapshot(t.flow.Snapshot())), nil
}

// --- wellbeing_finish ---

// FinishTool leaves the completion screen.
type FinishTool struct {
	flow *flow.Controller
}

func NewFinishTool(c *flow.Controller) *FinishTool {
	return &FinishTool{flow: c}
}

func (t *FinishTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_finish",
		mcp.WithDescription("Close the completion summary and return to the dashboard."),
	)
}

func (t *FinishTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.flow.Finish(); err != nil {
		return flowFailure("finish", err)
	}
	return mcp.NewToolResultText(renderSnapshot(t.flow.Snapshot())), nil
}

// --- wellbeing_cancel ---

// CancelTool abandons the current round.
type CancelTool struct {
	flow *flow.Controller
}

func NewCancelTool(c *flow.Controller) *CancelTool {
	return &CancelTool{flow: c}
}

func (t *CancelTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_cancel",
		mcp.WithDescription(
			"Abandon the journey or round in progress. Unsaved answers and writing are discarded "+
				"and dictation is stopped.",
		),
	)
}

func (t *CancelTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.flow.Cancel(); err != nil {
		return flowFailure("cancel", err)
	}
	return mcp.NewToolResultText("Cancelled.\n\n" + renderSnapshot(t.flow.Snapshot())), nil
}

// --- wellbeing_delete_journey ---

// DeleteJourneyTool removes a stored journey.
type DeleteJourneyTool struct {
	flow *flow.Controller
}

func NewDeleteJourneyTool(c *flow.Controller) *DeleteJourneyTool {
	return &DeleteJourneyTool{flow: c}
}

func (t *DeleteJourneyTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_delete_journey",
		mcp.WithDescription(
			"Permanently delete a stored journey and its history. "+
				"The journey currently in progress cannot be deleted.",
		),
		mcp.WithString("journey_id",
			mcp.Required(),
			mcp.Description("ID from `wellbeing_dashboard`"),
		),
	)
}

func (t *DeleteJourneyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("journey_id", "")
	if id == "" {
		return mcp.NewToolResultError("'journey_id' is required"), nil
	}
	if err := t.flow.Delete(ctx, id); err != nil {
		return flowFailure("delete the journey", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted journey `%s`.", id)), nil
}
