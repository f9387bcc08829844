// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it opens the storage backend, builds the
// flow controller and injects them into the tools, prompts and resources
// that depend on them. No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/HendryAvila/emotionwell/internal/config"
	"github.com/HendryAvila/emotionwell/internal/flow"
	"github.com/HendryAvila/emotionwell/internal/journey"
	"github.com/HendryAvila/emotionwell/internal/kv"
	"github.com/HendryAvila/emotionwell/internal/prompts"
	"github.com/HendryAvila/emotionwell/internal/resources"
	"github.com/HendryAvila/emotionwell/internal/tools"
	"github.com/HendryAvila/emotionwell/internal/writing"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

// openStore is a package-level variable for testability.
var openStore = kv.Open

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function stops any running writing session and
// closes the storage backend. It must be called on shutdown (typically
// via defer).
func New(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	store, err := openStore(ctx, cfg.KV())
	if err != nil {
		return nil, noop, fmt.Errorf("opening %s store: %w", cfg.Storage.Backend, err)
	}
	repo := journey.NewRepository(store, cfg.Storage.Key, log)

	dictation := writing.NewPushDictation()
	controller := flow.New(flow.Options{
		Store:     repo,
		Lifecycle: journey.NewLifecycle(cfg.Policy()),
		Writing:   cfg.WritingSession(),
		Dictation: dictation,
		Log:       log,
	})
	if err := controller.Open(ctx); err != nil {
		_ = store.Close()
		return nil, noop, fmt.Errorf("loading journeys: %w", err)
	}

	cleanup := func() {
		controller.Close()
		if err := store.Close(); err != nil {
			log.Warnw("closing store", "error", err)
		}
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"emotionwell",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register survey tools ---

	surveyTool := tools.NewSurveyTool()
	s.AddTool(surveyTool.Definition(), surveyTool.Handle)

	scoreTool := tools.NewScoreTool()
	s.AddTool(scoreTool.Definition(), scoreTool.Handle)

	// --- Register flow tools ---

	startTool := tools.NewStartTool(controller)
	s.AddTool(startTool.Definition(), startTool.Handle)

	submitReviewTool := tools.NewSubmitReviewTool(controller)
	s.AddTool(submitReviewTool.Definition(), submitReviewTool.Handle)

	decideTool := tools.NewDecideTool(controller)
	s.AddTool(decideTool.Definition(), decideTool.Handle)

	continueTool := tools.NewContinueTool(controller)
	s.AddTool(continueTool.Definition(), continueTool.Handle)

	submitSurveyTool := tools.NewSubmitSurveyTool(controller)
	s.AddTool(submitSurveyTool.Definition(), submitSurveyTool.Handle)

	beginWritingTool := tools.NewBeginWritingTool(controller)
	s.AddTool(beginWritingTool.Definition(), beginWritingTool.Handle)

	writeTool := tools.NewWriteTool(controller)
	s.AddTool(writeTool.Definition(), writeTool.Handle)

	dictationTool := tools.NewDictationTool(controller, dictation)
	s.AddTool(dictationTool.Definition(), dictationTool.Handle)

	finishWritingTool := tools.NewFinishWritingTool(controller)
	s.AddTool(finishWritingTool.Definition(), finishWritingTool.Handle)

	finishTool := tools.NewFinishTool(controller)
	s.AddTool(finishTool.Definition(), finishTool.Handle)

	cancelTool := tools.NewCancelTool(controller)
	s.AddTool(cancelTool.Definition(), cancelTool.Handle)

	statusTool := tools.NewStatusTool(controller)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	deleteTool := tools.NewDeleteJourneyTool(controller)
	s.AddTool(deleteTool.Definition(), deleteTool.Handle)

	// --- Register read-only tools ---

	dashboardTool := tools.NewDashboardTool(repo)
	s.AddTool(dashboardTool.Definition(), dashboardTool.Handle)

	badgesTool := tools.NewBadgesTool(repo, cfg.Thresholds())
	s.AddTool(badgesTool.Definition(), badgesTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	checkInPrompt := prompts.NewCheckInPrompt()
	s.AddPrompt(checkInPrompt.Definition(), checkInPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(repo, cfg.Thresholds())
	s.AddResource(resourceHandler.JourneysResource(), resourceHandler.HandleJourneys)
	s.AddResource(resourceHandler.BadgesResource(), resourceHandler.HandleBadges)

	log.Infow("server ready",
		"version", Version,
		"backend", cfg.Storage.Backend,
		"data_dir", cfg.DataDir,
	)
	return s, cleanup, nil
}

// noop is the cleanup returned when construction fails.
func noop() {}

func serverInstructions() string {
	return `You have access to emotionwell, a guided self-help companion for
working through frustrating product experiences.

## WHEN TO ACTIVATE

Suggest emotionwell when the user:
- Is upset or angry about a product they bought or used
- Wants to vent about a bad purchase, delivery or support experience
- Asks to check in on an earlier journey or see their progress

## HOW A JOURNEY WORKS

1. wellbeing_start, then wellbeing_submit_review with the product and what happened
2. Explain the exercise; wellbeing_decide accept or decline
3. wellbeing_survey lists 10 questions. Ask them one at a time and submit
   with wellbeing_submit_survey (choice_index is 0-4)
4. wellbeing_begin_writing starts a 10-minute timer. Relay what the user
   writes with wellbeing_write. If they dictate, use wellbeing_dictation.
   Poll wellbeing_status for encouragement after inactivity
5. wellbeing_finish_writing needs at least 50 characters and one minute.
   It scores the round: below 2.5 the journey is complete, otherwise
   another round is scheduled a week later
6. wellbeing_finish returns to the dashboard

wellbeing_cancel abandons the round in progress. wellbeing_dashboard and
wellbeing_badges show progress; wellbeing_continue resumes a journey.

## TONE

Be warm and patient. Never judge or correct what the user writes, and
never rush the writing exercise.`
}
