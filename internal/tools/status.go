package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/emotionwell/internal/badges"
	"github.com/HendryAvila/emotionwell/internal/flow"
	"github.com/HendryAvila/emotionwell/internal/journey"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- wellbeing_status ---

// StatusTool shows where the flow is and any pending encouragement.
type StatusTool struct {
	flow *flow.Controller
}

func NewStatusTool(c *flow.Controller) *StatusTool {
	return &StatusTool{flow: c}
}

func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_status",
		mcp.WithDescription(
			"Show the current step, the journey in progress and the writing timer. "+
				"During writing, poll this to pick up encouragement after inactivity.",
		),
	)
}

func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	b.WriteString("# Wellbeing Status\n\n")
	b.WriteString(renderSnapshot(t.flow.Snapshot()))

	if ch := t.flow.Encouragements(); ch != nil {
		select {
		case e := <-ch:
			fmt.Fprintf(&b, "\n**Encouragement:** %s\n", e.Message)
		default:
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// --- wellbeing_dashboard ---

// DashboardTool lists pending and completed journeys.
type DashboardTool struct {
	store journey.Store
}

func NewDashboardTool(store journey.Store) *DashboardTool {
	return &DashboardTool{store: store}
}

func (t *DashboardTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_dashboard",
		mcp.WithDescription(
			"List the user's journeys: pending ones with their next session date, "+
				"and completed ones with their first and final scores.",
		),
	)
}

func (t *DashboardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	journeys, err := t.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading journeys: %w", err)
	}
	d := journey.Summarize(journeys, timeNow())

	var b strings.Builder
	b.WriteString("# Dashboard\n\n")
	if len(journeys) == 0 {
		b.WriteString("No journeys yet. Call `wellbeing_start` to begin.\n")
		return mcp.NewToolResultText(b.String()), nil
	}

	fmt.Fprintf(&b, "## Pending (%d)\n\n", len(d.Pending))
	if len(d.Pending) > 0 {
		b.WriteString("| ID | Product | Round | Score | Next session |\n")
		b.WriteString("|----|---------|-------|-------|--------------|\n")
		for _, p := range d.Pending {
			next := "now"
			if p.NextSessionDate != nil {
				next = p.NextSessionDate.Format("2006-01-02")
			}
			if p.Due {
				next += " (due)"
			}
			fmt.Fprintf(&b, "| `%s` | %s | %d | %.2f | %s |\n",
				p.ID, p.ProductName, p.CurrentRound, p.AngerScore, next)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Completed (%d)\n\n", len(d.Completed))
	if len(d.Completed) > 0 {
		b.WriteString("| ID | Product | Rounds | First score | Final score |\n")
		b.WriteString("|----|---------|--------|-------------|-------------|\n")
		for _, c := range d.Completed {
			first := "—"
			if c.InitialScore != nil {
				first = fmt.Sprintf("%.2f", *c.InitialScore)
			}
			fmt.Fprintf(&b, "| `%s` | %s | %d | %s | %.2f |\n",
				c.ID, c.ProductName, c.Rounds, first, c.FinalScore)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// --- wellbeing_badges ---

// BadgesTool shows earned badges and the completion rate.
type BadgesTool struct {
	store      journey.Store
	thresholds badges.Thresholds
}

func NewBadgesTool(store journey.Store, th badges.Thresholds) *BadgesTool {
	return &BadgesTool{store: store, thresholds: th}
}

func (t *BadgesTool) Definition() mcp.Tool {
	return mcp.NewTool("wellbeing_badges",
		mcp.WithDescription("Show the completion rate and which badges have been earned."),
	)
}

func (t *BadgesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	journeys, err := t.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading journeys: %w", err)
	}
	return mcp.NewToolResultText(RenderBadges(badges.Compute(journeys, t.thresholds))), nil
}

// RenderBadges formats a badge report as markdown.
func RenderBadges(r badges.Report) string {
	var b strings.Builder
	b.WriteString("# Badges\n\n")
	fmt.Fprintf(&b, "**Completion rate:** %.0f%% (%d of %d journeys)\n\n", r.CompletionRate, r.Completed, r.Total)

	if tags := r.Tags(); len(tags) > 0 {
		fmt.Fprintf(&b, "**Earned:** %s\n\n", strings.Join(tags, ", "))
	} else {
		b.WriteString("**Earned:** none yet\n\n")
	}

	b.WriteString("| Badge | Requirement | Earned |\n")
	b.WriteString("|-------|-------------|--------|\n")
	for _, item := range r.Showcase {
		mark := "⬜"
		if item.Earned {
			mark = "✅"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", item.Label, item.Requirement, mark)
	}
	return b.String()
}
