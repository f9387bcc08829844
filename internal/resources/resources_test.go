package resources

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/HendryAvila/emotionwell/internal/badges"
	"github.com/HendryAvila/emotionwell/internal/journey"
	"github.com/HendryAvila/emotionwell/internal/kv"
	"github.com/mark3labs/mcp-go/mcp"
)

func read(t *testing.T, fn func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error), uri string) mcp.TextResourceContents {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	contents, err := fn(context.Background(), req)
	if err != nil {
		t.Fatalf("read %s: %v", uri, err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content is %T", contents[0])
	}
	return tc
}

func seeded(t *testing.T) *journey.Repository {
	t.Helper()
	repo := journey.NewRepository(kv.NewMemoryStore(), "", nil)
	done := journey.New("Mug", "Chipped")
	done.Completed = true
	if err := repo.SaveAll(context.Background(), []journey.Journey{*done, *journey.New("Kettle", "Leaks")}); err != nil {
		t.Fatal(err)
	}
	return repo
}

func TestDefinitions(t *testing.T) {
	h := NewHandler(seeded(t), badges.DefaultThresholds())
	if h.JourneysResource().URI != JourneysURI {
		t.Errorf("journeys URI = %s", h.JourneysResource().URI)
	}
	if h.BadgesResource().URI != BadgesURI {
		t.Errorf("badges URI = %s", h.BadgesResource().URI)
	}
}

func TestHandleJourneys(t *testing.T) {
	h := NewHandler(seeded(t), badges.DefaultThresholds())
	tc := read(t, h.HandleJourneys, JourneysURI)
	if tc.MIMEType != "application/json" {
		t.Errorf("MIMEType = %s", tc.MIMEType)
	}
	var journeys []journey.Journey
	if err := json.Unmarshal([]byte(tc.Text), &journeys); err != nil {
		t.Fatalf("body is not a journey array: %v", err)
	}
	if len(journeys) != 2 || journeys[0].ProductName != "Mug" {
		t.Errorf("journeys = %+v", journeys)
	}
	if !strings.Contains(tc.Text, `"productName"`) {
		t.Error("body should use the stored field names")
	}
}

func TestHandleBadges(t *testing.T) {
	h := NewHandler(seeded(t), badges.DefaultThresholds())
	tc := read(t, h.HandleBadges, BadgesURI)
	var r badges.Report
	if err := json.Unmarshal([]byte(tc.Text), &r); err != nil {
		t.Fatalf("body is not a badge report: %v", err)
	}
	if r.Total != 2 || r.Completed != 1 || r.Tier != badges.TierBronze {
		t.Errorf("report = %+v", r)
	}
}

// brokenStore fails every load.
type brokenStore struct{ journey.Store }

func (brokenStore) LoadAll(context.Context) ([]journey.Journey, error) {
	return nil, errors.New("backend unreachable")
}

func TestHandle_LoadErrorBecomesErrorResource(t *testing.T) {
	h := NewHandler(brokenStore{}, badges.DefaultThresholds())
	tc := read(t, h.HandleJourneys, JourneysURI)
	if tc.MIMEType != "text/plain" || !strings.Contains(tc.Text, "backend unreachable") {
		t.Errorf("unexpected error resource: %+v", tc)
	}
}
