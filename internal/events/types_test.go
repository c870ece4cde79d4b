package events

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestEventJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		event Event
	}{
		{
			name: "user message",
			event: Event{
				Type:      KindUserMessage,
				Timestamp: 1700000000123,
				Fields:    map[string]any{"content": "hello"},
			},
		},
		{
			name: "tool call with nested arguments",
			event: Event{
				Type:      KindToolCall,
				Timestamp: 1700000001000,
				Fields: map[string]any{
					"tool_name": "bash",
					"arguments": map[string]any{"command": "ls", "timeout": float64(30)},
				},
			},
		},
		{
			name: "unknown kind with no fields",
			event: Event{
				Type:      "heartbeat",
				Timestamp: 1700000002000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.event)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}

			var back Event
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			if !reflect.DeepEqual(back, tt.event) {
				t.Errorf("round trip mismatch:\n got  %#v\n want %#v", back, tt.event)
			}
		})
	}
}

func TestEventUnmarshalFlatObject(t *testing.T) {
	data := []byte(`{"type":"tool_result","timestamp":1050,"tool_name":"grep","error":"not found"}`)

	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if e.Type != KindToolResult {
		t.Errorf("Type = %q, want %q", e.Type, KindToolResult)
	}
	if e.Timestamp != 1050 {
		t.Errorf("Timestamp = %d, want 1050", e.Timestamp)
	}
	if e.Fields["tool_name"] != "grep" {
		t.Errorf("Fields[tool_name] = %v, want grep", e.Fields["tool_name"])
	}
	if _, ok := e.Fields["type"]; ok {
		t.Error("type should be lifted out of Fields")
	}
	if _, ok := e.Fields["timestamp"]; ok {
		t.Error("timestamp should be lifted out of Fields")
	}
}

func TestIsMessage(t *testing.T) {
	tests := []struct {
		kind string
		want bool
	}{
		{KindUserMessage, true},
		{KindAssistantMessage, true},
		{KindAssistantStreamingMessage, true},
		{KindToolCall, false},
		{KindAssistantStreamingTool, false},
		{KindToolResult, false},
		{KindFinalAnswer, false},
		{KindFinalAnswerStreaming, false},
		{"something_new", false},
	}

	for _, tt := range tests {
		e := Event{Type: tt.kind}
		if got := e.IsMessage(); got != tt.want {
			t.Errorf("IsMessage(%q) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}
