// Package prompts implements the wellbeing MCP prompts.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to run a sequence of tool calls. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the wellbeing-start MCP prompt.
// It guides the AI through a full round for a new experience.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("wellbeing-start",
		mcp.WithPromptDescription(
			"Work through a frustrating product experience: a short survey, "+
				"a timed writing exercise and a score that tracks how you feel over time.",
		),
		mcp.WithArgument("product_name",
			mcp.ArgumentDescription("The product the experience was about"),
		),
	)
}

// Handle processes the wellbeing-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	product := ""
	if args := req.Params.Arguments; args != nil {
		product = args["product_name"]
	}

	opening := "I had a bad experience with a product and want to work through it."
	description := "Start a wellbeing journey"
	if product != "" {
		opening = fmt.Sprintf("I had a bad experience with %s and want to work through it.", product)
		description = fmt.Sprintf("Start a wellbeing journey: %s", product)
	}

	return &mcp.GetPromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(opening + "\n\n" +
					"Please:\n" +
					"1. Run `wellbeing_start`, then ask me what happened and call `wellbeing_submit_review`\n" +
					"2. Explain the exercise and ask whether I want to go ahead; call `wellbeing_decide`\n" +
					"3. Get the questions from `wellbeing_survey` and ask them one at a time, then call `wellbeing_submit_survey`\n" +
					"4. Call `wellbeing_begin_writing` and let me write freely about the experience for up to 10 minutes. " +
					"Relay my text with `wellbeing_write`, and check `wellbeing_status` for encouragement if I go quiet\n" +
					"5. When I'm done, call `wellbeing_finish_writing` and tell me my score and what comes next\n\n" +
					"Be warm and unhurried. Never judge what I write.",
				),
			},
		},
	}, nil
}
