package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/acrode/tailview/internal/config"
	"github.com/acrode/tailview/internal/feed"
	"github.com/acrode/tailview/internal/state"
	"github.com/acrode/tailview/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file (default ~/.config/tailview/config.toml)")
	fileFlag := flag.String("file", "", "JSONL event file to follow (overrides config)")
	sessionFlag := flag.String("session", "", "Session id to watch from the start")
	demoFlag := flag.Bool("demo", false, "Play a scripted demo feed instead of reading a file")
	flag.Parse()

	var loadResult *config.LoadResult
	var err error
	if *configFlag != "" {
		loadResult, err = config.LoadFrom(*configFlag)
	} else {
		loadResult, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "tailview: config error: %v\n", err)
		os.Exit(1)
	}
	cfg := loadResult.Config

	for _, w := range loadResult.Warnings {
		fmt.Fprintf(os.Stderr, "tailview: config warning: %s\n", w)
	}

	if *fileFlag != "" {
		cfg.Feed.Path = *fileFlag
	}

	store := state.NewMemoryStore()
	activeRef := state.NewActiveRef()
	if *sessionFlag != "" {
		activeRef.Set(*sessionFlag)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// The TUI owns the terminal; stray log output would corrupt it.
	log.SetOutput(io.Discard)

	switch {
	case *demoFlag:
		go feed.RunDemo(ctx, store)
	case cfg.Feed.Path != "":
		follower := feed.NewFollower(cfg.Feed, store)
		go follower.Run(ctx)
	}

	model := tui.NewModel(cfg,
		tui.WithEventProvider(store),
		tui.WithActiveSessionProvider(&activeAdapter{ref: activeRef}),
		tui.WithSessionActivator(activeRef.Set),
		tui.WithSessionClearer(activeRef.Clear),
		tui.WithOnShutdown(cancel),
	)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
	)

	go func() {
		select {
		case <-sigCh:
			cancel()
			p.Quit()
		case <-ctx.Done():
			return
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tailview: %v\n", err)
		os.Exit(1)
	}
}

// activeAdapter maps the ActiveRef accessor onto the name the view
// expects.
type activeAdapter struct {
	ref *state.ActiveRef
}

func (a *activeAdapter) ActiveSessionID() (string, bool) {
	return a.ref.Get()
}
