// Package events defines the immutable event record shown in the
// timeline, plus formatting helpers for display.
package events

import "encoding/json"

// Known event kinds. The set is open: anything else renders through the
// generic branch, so new upstream kinds never break the viewer.
const (
	KindUserMessage               = "user_message"
	KindAssistantMessage          = "assistant_message"
	KindAssistantStreamingMessage = "assistant_streaming_message"
	KindToolCall                  = "tool_call"
	KindAssistantStreamingTool    = "assistant_streaming_tool_call"
	KindToolResult                = "tool_result"
	KindFinalAnswer               = "final_answer"
	KindFinalAnswerStreaming      = "final_answer_streaming"
)

// Event is one timestamped record of session activity. It is a value
// type; the view never mutates it after construction.
type Event struct {
	// Type is the event kind discriminant.
	Type string

	// Timestamp is epoch milliseconds.
	Timestamp int64

	// Fields holds all type-specific payload fields.
	Fields map[string]any
}

// IsMessage reports whether the event belongs to the message icon group.
func (e Event) IsMessage() bool {
	switch e.Type {
	case KindUserMessage, KindAssistantMessage, KindAssistantStreamingMessage:
		return true
	}
	return false
}

// MarshalJSON flattens the event into a single object matching the wire
// shape: {"type":..., "timestamp":..., <fields>...}.
func (e Event) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(e.Fields)+2)
	for k, v := range e.Fields {
		obj[k] = v
	}
	obj["type"] = e.Type
	obj["timestamp"] = e.Timestamp
	return json.Marshal(obj)
}

// UnmarshalJSON is the inverse of MarshalJSON: "type" and "timestamp"
// are lifted out of the object, everything else lands in Fields.
func (e *Event) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	if t, ok := obj["type"].(string); ok {
		e.Type = t
	}
	if ts, ok := obj["timestamp"].(float64); ok {
		e.Timestamp = int64(ts)
	}
	delete(obj, "type")
	delete(obj, "timestamp")

	if len(obj) > 0 {
		e.Fields = obj
	} else {
		e.Fields = nil
	}
	return nil
}
