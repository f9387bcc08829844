package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// CheckInPrompt handles the wellbeing-checkin MCP prompt.
// It instructs the AI to review the dashboard and resume due journeys.
type CheckInPrompt struct{}

// NewCheckInPrompt creates a CheckInPrompt.
func NewCheckInPrompt() *CheckInPrompt {
	return &CheckInPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *CheckInPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("wellbeing-checkin",
		mcp.WithPromptDescription(
			"Check in on your journeys: see which follow-up sessions are due, "+
				"your progress so far and the badges you've earned.",
		),
	)
}

// Handle processes the wellbeing-checkin prompt request.
func (p *CheckInPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Wellbeing check-in",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `wellbeing_dashboard` and `wellbeing_badges`.\n\n" +
						"Then:\n" +
						"1. Tell me which journeys have a session due today or earlier\n" +
						"2. For completed journeys, show how my score changed from the first round to the last\n" +
						"3. Mention the badges I've earned and how close I am to the next one\n" +
						"4. Offer to continue a due journey with `wellbeing_continue`",
				),
			},
		},
	}, nil
}
