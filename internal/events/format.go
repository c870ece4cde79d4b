package events

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatClock converts an epoch-millisecond timestamp into a local
// 24-hour wall clock string with millisecond precision, e.g.
// "14:03:59.120". Values that cannot represent a time fall back to the
// raw integer so a malformed record still renders.
func FormatClock(ms int64) string {
	if ms <= 0 {
		return strconv.FormatInt(ms, 10)
	}
	return time.UnixMilli(ms).Format("15:04:05.000")
}

// Dump returns the indented JSON serialization of the full event
// record. Nothing is filtered or truncated; parsing the dump back
// yields a structurally equal event.
func Dump(e Event) string {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		// Fields hold decoded JSON values, so this is unreachable in
		// practice; degrade to something visible rather than panic.
		return fmt.Sprintf("{%q: %q}", "type", e.Type)
	}
	return string(data)
}

// Summary produces the one-line excerpt shown in the collapsed item:
//   - user/assistant messages: text excerpt
//   - tool calls:              tool name and parameter count
//   - tool results:            tool name with ok/error marker
//   - final answers:           answer excerpt
//   - anything else:           kind name and field count
func Summary(e Event) string {
	switch e.Type {
	case KindUserMessage, KindAssistantMessage, KindAssistantStreamingMessage:
		return excerpt(messageText(e), 80)

	case KindToolCall, KindAssistantStreamingTool:
		name := fieldString(e, "tool_name", "name", "tool")
		if name == "" {
			name = "tool"
		}
		if args, ok := e.Fields["arguments"].(map[string]any); ok {
			return fmt.Sprintf("%s (%d args)", name, len(args))
		}
		return name

	case KindToolResult:
		name := fieldString(e, "tool_name", "name", "tool")
		if name == "" {
			name = "tool"
		}
		if errMsg := fieldString(e, "error"); errMsg != "" {
			return fmt.Sprintf("%s ✗ %s", name, excerpt(errMsg, 60))
		}
		return name + " ✓"

	case KindFinalAnswer, KindFinalAnswerStreaming:
		return excerpt(messageText(e), 80)

	default:
		return fmt.Sprintf("%s (%d fields)", e.Type, len(e.Fields))
	}
}

// messageText pulls the most likely text payload out of a message-like
// event. Producers are inconsistent about the field name.
func messageText(e Event) string {
	if s := fieldString(e, "content", "text", "message", "answer"); s != "" {
		return s
	}
	return e.Type
}

// fieldString returns the first of the named fields that holds a
// non-empty string.
func fieldString(e Event, keys ...string) string {
	for _, k := range keys {
		if s, ok := e.Fields[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// excerpt flattens newlines and shortens a string to maxLen with
// ellipsis so it fits a single timeline row.
func excerpt(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
