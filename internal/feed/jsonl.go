// Package feed populates the session event store. It is input plumbing
// only: a JSONL file follower and a scripted demo generator. The viewer
// itself never depends on this package.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/acrode/tailview/internal/config"
	"github.com/acrode/tailview/internal/events"
)

// Sink receives routed events. *state.MemoryStore satisfies it.
type Sink interface {
	AddEvent(sessionID string, e events.Event)
}

// Follower tails a JSONL file: each line is one flat event object with
// a "session_id" routing field. Appended lines are picked up on every
// Scan; malformed lines are counted and skipped.
type Follower struct {
	path     string
	interval time.Duration
	sink     Sink

	offset   int64
	partial  []byte
	badLines int
}

// NewFollower creates a follower for the configured file.
func NewFollower(cfg config.FeedConfig, sink Sink) *Follower {
	return &Follower{
		path:     cfg.Path,
		interval: time.Duration(cfg.PollIntervalMS) * time.Millisecond,
		sink:     sink,
	}
}

// BadLines returns how many lines failed to parse so far.
func (f *Follower) BadLines() int {
	return f.badLines
}

// Run polls the file until the context is cancelled.
func (f *Follower) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A missing file is not an error; it may appear later.
			_ = f.Scan()
		}
	}
}

// Scan reads any bytes appended since the previous call and feeds the
// complete lines to the sink. A shrunken file (rotation, truncation)
// resets the read offset to the start.
func (f *Follower) Scan() error {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("opening feed file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stating feed file: %w", err)
	}
	if info.Size() < f.offset {
		f.offset = 0
		f.partial = nil
	}
	if info.Size() == f.offset {
		return nil
	}

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seeking feed file: %w", err)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("reading feed file: %w", err)
	}
	f.offset += int64(len(data))

	data = append(f.partial, data...)
	lines := bytes.Split(data, []byte("\n"))

	// The final element is either empty or an incomplete line; hold it
	// back for the next scan.
	f.partial = lines[len(lines)-1]
	for _, line := range lines[:len(lines)-1] {
		f.ingest(line)
	}
	return nil
}

func (f *Follower) ingest(line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	sessionID, e, err := ParseLine(line)
	if err != nil {
		f.badLines++
		return
	}
	f.sink.AddEvent(sessionID, e)
}

// ParseLine decodes one feed line into a routed event. The session_id
// routing field is stripped from the stored record.
func ParseLine(line []byte) (string, events.Event, error) {
	var e events.Event
	if err := json.Unmarshal(line, &e); err != nil {
		return "", events.Event{}, fmt.Errorf("parsing feed line: %w", err)
	}

	var sessionID string
	if s, ok := e.Fields["session_id"].(string); ok {
		sessionID = s
		delete(e.Fields, "session_id")
		if len(e.Fields) == 0 {
			e.Fields = nil
		}
	}
	return sessionID, e, nil
}
