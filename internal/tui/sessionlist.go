package tui

import (
	"fmt"
	"strings"
)

// renderSessionListPanel renders the known sessions with event counts.
// The highlighted session can be made active with Enter, which drives
// the stream panel on the right.
func (m Model) renderSessionListPanel(w, h int) string {
	contentW := w - 4
	if contentW < 10 {
		contentW = 10
	}
	contentH := h - 4
	if contentH < 1 {
		contentH = 1
	}

	var lines []string
	lines = append(lines, panelTitleStyle.Render("Sessions"))

	sessions := m.getSessions()
	if len(sessions) == 0 {
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render("No sessions yet"))
		return renderBorderedPanel(strings.Join(lines, "\n"), w, h, m.panelFocus == FocusSessions)
	}

	activeID, hasActive := m.activeSessionID()

	visible := contentH - 1
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.sessionCursor >= visible {
		start = m.sessionCursor - visible + 1
	}
	end := start + visible
	if end > len(sessions) {
		end = len(sessions)
	}

	for i := start; i < end; i++ {
		s := sessions[i]

		mark := " "
		if hasActive && s.SessionID == activeID {
			mark = "*"
		}

		line := fmt.Sprintf("%s %-14s %4d ev", mark, truncateID(s.SessionID, 14), s.EventCount)
		if !s.LastEventAt.IsZero() {
			line += "  " + s.LastEventAt.Format("15:04:05")
		}
		if len(line) > contentW && contentW > 3 {
			line = line[:contentW-3] + "..."
		}

		switch {
		case m.panelFocus == FocusSessions && i == m.sessionCursor:
			line = cursorStyle.Render(line)
		case hasActive && s.SessionID == activeID:
			line = activeMarkStyle.Render(line)
		default:
			line = dimStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return renderBorderedPanel(strings.Join(lines, "\n"), w, h, m.panelFocus == FocusSessions)
}
