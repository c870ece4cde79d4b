package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/acrode/tailview/internal/events"
)

// demoStep is one scripted event; Delay is relative to the previous step.
type demoStep struct {
	delay  time.Duration
	kind   string
	fields map[string]any
}

func demoScript() []demoStep {
	return []demoStep{
		{0, events.KindUserMessage, map[string]any{"content": "Add retry logic to the fetcher"}},
		{400 * time.Millisecond, events.KindAssistantStreamingMessage, map[string]any{"text": "Looking at the fetcher"}},
		{300 * time.Millisecond, events.KindAssistantMessage, map[string]any{"content": "I'll read the current implementation first."}},
		{500 * time.Millisecond, events.KindToolCall, map[string]any{"tool_name": "read_file", "arguments": map[string]any{"path": "fetcher.go"}}},
		{700 * time.Millisecond, events.KindToolResult, map[string]any{"tool_name": "read_file", "duration_ms": float64(42)}},
		{600 * time.Millisecond, events.KindAssistantStreamingTool, map[string]any{"tool_name": "edit_file", "chunk": "retry := backoff.New("}},
		{400 * time.Millisecond, events.KindToolCall, map[string]any{"tool_name": "edit_file", "arguments": map[string]any{"path": "fetcher.go"}}},
		{900 * time.Millisecond, events.KindToolResult, map[string]any{"tool_name": "edit_file"}},
		{500 * time.Millisecond, events.KindToolCall, map[string]any{"tool_name": "run_tests", "arguments": map[string]any{"pattern": "./..."}}},
		{1500 * time.Millisecond, events.KindToolResult, map[string]any{"tool_name": "run_tests", "error": "TestFetchRetry: deadline exceeded"}},
		{800 * time.Millisecond, events.KindToolCall, map[string]any{"tool_name": "edit_file", "arguments": map[string]any{"path": "fetcher_test.go"}}},
		{600 * time.Millisecond, events.KindToolResult, map[string]any{"tool_name": "edit_file"}},
		{1200 * time.Millisecond, events.KindFinalAnswerStreaming, map[string]any{"answer": "Added exponential backoff"}},
		{400 * time.Millisecond, events.KindFinalAnswer, map[string]any{"answer": "Added exponential backoff with three retries; tests pass."}},
		{300 * time.Millisecond, "usage_report", map[string]any{"input_tokens": float64(5200), "output_tokens": float64(900)}},
	}
}

// RunDemo plays the scripted conversation into the sink on a few
// staggered sessions, then loops with fresh session ids. It exists so
// the viewer can be tried without a feed file.
func RunDemo(ctx context.Context, sink Sink) {
	for round := 0; ; round++ {
		sessionID := uuid.NewString()
		for i, step := range demoScript() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(step.delay):
			}

			fields := make(map[string]any, len(step.fields)+1)
			for k, v := range step.fields {
				fields[k] = v
			}
			fields["turn"] = fmt.Sprintf("%d/%d", i+1, len(demoScript()))

			sink.AddEvent(sessionID, events.Event{
				Type:      step.kind,
				Timestamp: time.Now().UnixMilli(),
				Fields:    fields,
			})
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}
