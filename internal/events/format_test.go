package events

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestFormatClock(t *testing.T) {
	ms := int64(1700000000123)
	want := time.UnixMilli(ms).Format("15:04:05.000")

	if got := FormatClock(ms); got != want {
		t.Errorf("FormatClock(%d) = %q, want %q", ms, got, want)
	}
}

func TestFormatClock_MalformedFallsBackToRaw(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0"},
		{-42, "-42"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.ms); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestDumpRoundTrip(t *testing.T) {
	e := Event{
		Type:      KindToolCall,
		Timestamp: 1700000001000,
		Fields: map[string]any{
			"tool_name": "edit",
			"arguments": map[string]any{"path": "main.go"},
		},
	}

	dump := Dump(e)
	if !strings.Contains(dump, "\n") {
		t.Error("Dump should be indented over multiple lines")
	}

	var back Event
	if err := json.Unmarshal([]byte(dump), &back); err != nil {
		t.Fatalf("parsing dump back: %v", err)
	}
	if !reflect.DeepEqual(back, e) {
		t.Errorf("dump round trip mismatch:\n got  %#v\n want %#v", back, e)
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "user message excerpt",
			event: Event{Type: KindUserMessage, Fields: map[string]any{"content": "fix the build"}},
			want:  "fix the build",
		},
		{
			name:  "assistant streaming chunk",
			event: Event{Type: KindAssistantStreamingMessage, Fields: map[string]any{"text": "working on it"}},
			want:  "working on it",
		},
		{
			name: "tool call with arguments",
			event: Event{Type: KindToolCall, Fields: map[string]any{
				"tool_name": "bash",
				"arguments": map[string]any{"command": "go test", "timeout": float64(60)},
			}},
			want: "bash (2 args)",
		},
		{
			name:  "tool call without name",
			event: Event{Type: KindToolCall},
			want:  "tool",
		},
		{
			name:  "successful tool result",
			event: Event{Type: KindToolResult, Fields: map[string]any{"tool_name": "bash"}},
			want:  "bash ✓",
		},
		{
			name:  "failed tool result",
			event: Event{Type: KindToolResult, Fields: map[string]any{"tool_name": "bash", "error": "exit 1"}},
			want:  "bash ✗ exit 1",
		},
		{
			name:  "final answer",
			event: Event{Type: KindFinalAnswer, Fields: map[string]any{"answer": "done"}},
			want:  "done",
		},
		{
			name:  "unknown kind",
			event: Event{Type: "heartbeat", Fields: map[string]any{"seq": float64(7)}},
			want:  "heartbeat (1 fields)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summary(tt.event); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummary_FlattensAndTruncates(t *testing.T) {
	long := strings.Repeat("word ", 40)
	e := Event{Type: KindUserMessage, Fields: map[string]any{"content": "line one\nline two\t" + long}}

	got := Summary(e)
	if strings.ContainsAny(got, "\n\t") {
		t.Errorf("summary should be a single line, got %q", got)
	}
	if len(got) > 80 {
		t.Errorf("summary length = %d, want <= 80", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("long summary should end with ellipsis, got %q", got)
	}
}
