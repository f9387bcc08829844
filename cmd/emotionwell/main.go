// emotionwell: a guided self-help MCP server for working through
// frustrating product experiences.
//
// Usage:
//
//	emotionwell serve    # Start MCP server (stdio transport)
//	emotionwell status   # Print pending and completed journeys
//	emotionwell badges   # Print earned badges
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HendryAvila/emotionwell/internal/badges"
	"github.com/HendryAvila/emotionwell/internal/config"
	"github.com/HendryAvila/emotionwell/internal/journey"
	"github.com/HendryAvila/emotionwell/internal/kv"
	"github.com/HendryAvila/emotionwell/internal/logging"
	ewserver "github.com/HendryAvila/emotionwell/internal/server"
	"github.com/HendryAvila/emotionwell/internal/tools"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = run()
	case "status":
		err = withStore(printStatus)
	case "badges":
		err = withStore(printBadges)
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("emotionwell v%s\n", ewserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup() (config.Config, *zap.SugaredLogger, func(), error) {
	cfg, err := config.Load("")
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	log, cleanup, err := logging.New(cfg.Log)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, log, cleanup, nil
}

func run() error {
	cfg, log, flush, err := setup()
	if err != nil {
		return err
	}
	defer flush()

	// Graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, cleanup, err := ewserver.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	stdio := server.NewStdioServer(s)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return err
	}
	log.Infow("server stopped")
	return nil
}

// withStore opens the configured store and hands it to fn.
func withStore(fn func(context.Context, io.Writer, config.Config, journey.Store) error) error {
	cfg, log, flush, err := setup()
	if err != nil {
		return err
	}
	defer flush()

	ctx := context.Background()
	store, err := kv.Open(ctx, cfg.KV())
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Storage.Backend, err)
	}
	defer store.Close()

	return fn(ctx, os.Stdout, cfg, journey.NewRepository(store, cfg.Storage.Key, log))
}

func printStatus(ctx context.Context, w io.Writer, _ config.Config, store journey.Store) error {
	journeys, err := store.LoadAll(ctx)
	if err != nil {
		return err
	}
	d := journey.Summarize(journeys, time.Now())

	fmt.Fprintf(w, "Pending journeys: %d\n", len(d.Pending))
	for _, p := range d.Pending {
		due := ""
		if p.Due {
			due = " (due)"
		}
		next := "now"
		if p.NextSessionDate != nil {
			next = p.NextSessionDate.Local().Format("2006-01-02")
		}
		fmt.Fprintf(w, "  %s  %-24s round %d  score %.2f  next %s%s\n",
			p.ID, p.ProductName, p.CurrentRound, p.AngerScore, next, due)
	}
	fmt.Fprintf(w, "Completed journeys: %d\n", len(d.Completed))
	for _, c := range d.Completed {
		fmt.Fprintf(w, "  %s  %-24s %d rounds  final score %.2f\n",
			c.ID, c.ProductName, c.Rounds, c.FinalScore)
	}
	return nil
}

func printBadges(ctx context.Context, w io.Writer, cfg config.Config, store journey.Store) error {
	journeys, err := store.LoadAll(ctx)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, tools.RenderBadges(badges.Compute(journeys, cfg.Thresholds())))
	return err
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `emotionwell v%s, guided self-help MCP server

Usage:
  emotionwell serve    Start the MCP server (stdio transport)
  emotionwell status   Print pending and completed journeys
  emotionwell badges   Print earned badges
  emotionwell version  Print the version

Configuration:
  Settings are read from ~/.emotionwell/config.yaml and EMOTIONWELL_*
  environment variables (e.g. EMOTIONWELL_STORAGE_BACKEND=sqlite).

  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "emotionwell": {
        "command": "emotionwell",
        "args": ["serve"]
      }
    }
  }
`, ewserver.Version)
}
