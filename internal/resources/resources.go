// Package resources implements the wellbeing MCP resources.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (wellbeing://...) following MCP conventions.
package resources

import (
	"context"

	"github.com/HendryAvila/emotionwell/internal/badges"
	"github.com/HendryAvila/emotionwell/internal/journey"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	JourneysURI = "wellbeing://journeys"
	BadgesURI   = "wellbeing://badges"
)

// Handler manages wellbeing resource endpoints.
type Handler struct {
	store      journey.Store
	thresholds badges.Thresholds
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(store journey.Store, th badges.Thresholds) *Handler {
	return &Handler{store: store, thresholds: th}
}

// JourneysResource returns the MCP resource definition for the journey
// collection.
func (h *Handler) JourneysResource() mcp.Resource {
	return mcp.NewResource(
		JourneysURI,
		"Wellbeing Journeys",
		mcp.WithResourceDescription("All stored journeys with their round history, in the stored JSON format"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleJourneys returns the stored journeys as JSON.
func (h *Handler) HandleJourneys(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	journeys, err := h.store.LoadAll(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, journeys)
}

// BadgesResource returns the MCP resource definition for the badge report.
func (h *Handler) BadgesResource() mcp.Resource {
	return mcp.NewResource(
		BadgesURI,
		"Wellbeing Badges",
		mcp.WithResourceDescription("Completion rate, earned badges and the badge showcase"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleBadges returns the computed badge report as JSON.
func (h *Handler) HandleBadges(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	journeys, err := h.store.LoadAll(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, badges.Compute(journeys, h.thresholds))
}
