package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/acrode/tailview/internal/config"
	"github.com/acrode/tailview/internal/events"
)

type captureSink struct {
	sessions []string
	events   []events.Event
}

func (c *captureSink) AddEvent(sessionID string, e events.Event) {
	c.sessions = append(c.sessions, sessionID)
	c.events = append(c.events, e)
}

func TestParseLine(t *testing.T) {
	line := []byte(`{"session_id":"s1","type":"user_message","timestamp":1000,"content":"hi"}`)

	sessionID, e, err := ParseLine(line)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if sessionID != "s1" {
		t.Errorf("sessionID = %q, want s1", sessionID)
	}
	if e.Type != events.KindUserMessage || e.Timestamp != 1000 {
		t.Errorf("event = %+v", e)
	}
	if _, ok := e.Fields["session_id"]; ok {
		t.Error("session_id should be stripped from stored fields")
	}
	if e.Fields["content"] != "hi" {
		t.Errorf("Fields[content] = %v, want hi", e.Fields["content"])
	}
}

func TestParseLine_Malformed(t *testing.T) {
	if _, _, err := ParseLine([]byte("{not json")); err == nil {
		t.Error("expected error for malformed line")
	}
}

func writeFeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestFollower(path string, sink Sink) *Follower {
	cfg := config.FeedConfig{Path: path, PollIntervalMS: 10}
	f := NewFollower(cfg, sink)
	return f
}

func TestFollower_ScanReadsAppendedLines(t *testing.T) {
	path := writeFeedFile(t, `{"session_id":"s1","type":"user_message","timestamp":1000}
{"session_id":"s1","type":"tool_call","timestamp":1050}
`)
	sink := &captureSink{}
	f := newTestFollower(path, sink)

	if err := f.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(sink.events) != 2 {
		t.Fatalf("events = %d, want 2", len(sink.events))
	}

	// Append one more line; a subsequent scan picks up only the new one.
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := file.WriteString(`{"session_id":"s2","type":"final_answer","timestamp":2000}` + "\n"); err != nil {
		t.Fatal(err)
	}
	file.Close()

	if err := f.Scan(); err != nil {
		t.Fatalf("second Scan: %v", err)
	}
	if len(sink.events) != 3 {
		t.Fatalf("events = %d, want 3", len(sink.events))
	}
	if sink.sessions[2] != "s2" {
		t.Errorf("third event session = %q, want s2", sink.sessions[2])
	}
}

func TestFollower_PartialLineHeldBack(t *testing.T) {
	path := writeFeedFile(t, `{"session_id":"s1","type":"user_message","timestamp":1000}
{"session_id":"s1","type":"tool_`)
	sink := &captureSink{}
	f := newTestFollower(path, sink)

	if err := f.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(sink.events) != 1 {
		t.Fatalf("events = %d, want 1 (partial line held back)", len(sink.events))
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := file.WriteString(`call","timestamp":1050}` + "\n"); err != nil {
		t.Fatal(err)
	}
	file.Close()

	if err := f.Scan(); err != nil {
		t.Fatalf("second Scan: %v", err)
	}
	if len(sink.events) != 2 {
		t.Fatalf("events = %d, want 2 after completing the line", len(sink.events))
	}
	if sink.events[1].Type != events.KindToolCall {
		t.Errorf("completed event type = %q, want tool_call", sink.events[1].Type)
	}
}

func TestFollower_MalformedLinesCountedAndSkipped(t *testing.T) {
	path := writeFeedFile(t, `{"session_id":"s1","type":"user_message","timestamp":1000}
this is not json
{"session_id":"s1","type":"tool_call","timestamp":1050}
`)
	sink := &captureSink{}
	f := newTestFollower(path, sink)

	if err := f.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(sink.events) != 2 {
		t.Errorf("events = %d, want 2", len(sink.events))
	}
	if f.BadLines() != 1 {
		t.Errorf("BadLines = %d, want 1", f.BadLines())
	}
}

func TestFollower_MissingFileIsNotAnError(t *testing.T) {
	sink := &captureSink{}
	f := newTestFollower(filepath.Join(t.TempDir(), "absent.jsonl"), sink)

	if err := f.Scan(); err != nil {
		t.Errorf("Scan on missing file: %v", err)
	}
}

func TestFollower_TruncationResetsOffset(t *testing.T) {
	path := writeFeedFile(t, `{"session_id":"s1","type":"user_message","timestamp":1000}
`)
	sink := &captureSink{}
	f := newTestFollower(path, sink)

	if err := f.Scan(); err != nil {
		t.Fatal(err)
	}

	// Replace the file with shorter content, as log rotation would.
	if err := os.WriteFile(path, []byte(`{"session_id":"s9","type":"tool_call","timestamp":9}`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := f.Scan(); err != nil {
		t.Fatal(err)
	}
	if len(sink.events) != 2 {
		t.Fatalf("events = %d, want 2", len(sink.events))
	}
	if sink.sessions[1] != "s9" {
		t.Errorf("post-rotation session = %q, want s9", sink.sessions[1])
	}
}
