package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/acrode/tailview/internal/events"
)

// Display icons: message-like kinds get the speech marker, everything
// else the generic clock marker.
const (
	iconMessage = ">>"
	iconClock   = "::"
)

// itemKey identifies one rendered item for expansion state. Timestamp
// alone is not unique (streaming chunks share one), so the position is
// part of the key.
func itemKey(e events.Event, idx int) string {
	return strconv.FormatInt(e.Timestamp, 10) + ":" + strconv.Itoa(idx)
}

// streamView is the laid-out stream content plus the window over it.
// The bottom pin for follow mode is computed here, after the lines for
// any newly appended items exist, so it never sees a stale height.
type streamView struct {
	lines      []string
	headerAt   []int // line index of each item's header
	visible    int
	maxScroll  int
	start      int
	overflow   bool
	affordance bool
}

func (m Model) streamViewFor(evts []events.Event, w, h int) streamView {
	contentW := w - 4
	if contentW < 10 {
		contentW = 10
	}
	contentH := h - 4 // borders + title
	if contentH < 1 {
		contentH = 1
	}

	sv := streamView{}
	sv.lines, sv.headerAt = m.buildStreamLines(evts, contentW)

	sv.visible = contentH - 1 // title line
	if sv.visible < 1 {
		sv.visible = 1
	}
	sv.overflow = len(sv.lines) > sv.visible
	sv.affordance = !m.follow.Following() && m.follow.Pending() > 0
	if sv.overflow || sv.affordance {
		sv.visible--
		if sv.visible < 1 {
			sv.visible = 1
		}
		sv.overflow = len(sv.lines) > sv.visible
	}

	sv.maxScroll = len(sv.lines) - sv.visible
	if sv.maxScroll < 0 {
		sv.maxScroll = 0
	}

	if m.follow.Following() {
		sv.start = sv.maxScroll
	} else {
		sv.start = m.streamScrollPos
		if sv.start > sv.maxScroll {
			sv.start = sv.maxScroll
		}
		if sv.start < 0 {
			sv.start = 0
		}
	}
	return sv
}

// buildStreamLines renders every event into its display lines: one
// header line per item, plus the wrapped JSON dump when expanded.
func (m Model) buildStreamLines(evts []events.Event, contentW int) ([]string, []int) {
	var lines []string
	headerAt := make([]int, 0, len(evts))
	now := time.Now()

	for i, e := range evts {
		headerAt = append(headerAt, len(lines))
		lines = append(lines, m.renderEventItem(e, i, contentW, now))

		if m.expanded[itemKey(e, i)] {
			for _, dl := range wrapLines(events.Dump(e), contentW-4) {
				lines = append(lines, dumpStyle.Render("    "+dl))
			}
		}
	}
	return lines, headerAt
}

// renderEventItem formats a single collapsed timeline entry.
func (m Model) renderEventItem(e events.Event, idx, maxW int, now time.Time) string {
	icon := iconClock
	if e.IsMessage() {
		icon = iconMessage
	}

	marker := "+"
	if m.expanded[itemKey(e, idx)] {
		marker = "-"
	}

	text := fmt.Sprintf("%s %s %s %s  %s",
		marker, icon, events.FormatClock(e.Timestamp), e.Type, events.Summary(e))
	if len(text) > maxW && maxW > 3 {
		text = text[:maxW-3] + "..."
	}

	if m.panelFocus == FocusStream && idx == m.eventCursor {
		return cursorStyle.Render(text)
	}
	if m.isFreshItem(idx, now) {
		return newBadgeStyle.Render(text)
	}

	style, ok := eventKindStyles[e.Type]
	if !ok {
		style = dimStyle
	}
	return style.Render(text)
}

// isFreshItem implements the cosmetic staggered entrance: items of the
// latest arrived batch keep a highlight style for a short window that
// grows with their index inside the batch.
func (m Model) isFreshItem(idx int, now time.Time) bool {
	if m.batchArrivedAt.IsZero() || idx < m.batchStart {
		return false
	}
	stagger := time.Duration(m.cfg.Display.EntranceStaggerMS) * time.Millisecond
	window := time.Duration(m.cfg.Display.NewHighlightMS) * time.Millisecond
	deadline := m.batchArrivedAt.Add(window + stagger*time.Duration(idx-m.batchStart))
	return now.Before(deadline)
}

// renderStreamPanel renders the event stream with its three mutually
// exclusive states: no active session, waiting for events, or the list.
func (m Model) renderStreamPanel(w, h int) string {
	var lines []string

	id, ok := m.activeSessionID()
	if !ok {
		lines = append(lines, panelTitleStyle.Render("Events"))
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render("No active session"))
		lines = append(lines, dimStyle.Render("Pick a session on the left"))
		return renderBorderedPanel(strings.Join(lines, "\n"), w, h, m.panelFocus == FocusStream)
	}

	evts := m.currentEvents()
	if len(evts) == 0 {
		lines = append(lines, panelTitleStyle.Render("Events"))
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render("Waiting for events on "+truncateID(id, 12)+"..."))
		return renderBorderedPanel(strings.Join(lines, "\n"), w, h, m.panelFocus == FocusStream)
	}

	title := panelTitleStyle.Render("Events") +
		dimStyle.Render(fmt.Sprintf(" %d events", len(evts)))
	lines = append(lines, title)

	sv := m.streamViewFor(evts, w, h)
	end := sv.start + sv.visible
	if end > len(sv.lines) {
		end = len(sv.lines)
	}
	lines = append(lines, sv.lines[sv.start:end]...)

	if sv.overflow || sv.affordance {
		lines = append(lines, m.renderStreamFooter(sv, end))
	}

	return renderBorderedPanel(strings.Join(lines, "\n"), w, h, m.panelFocus == FocusStream)
}

func (m Model) renderStreamFooter(sv streamView, end int) string {
	var parts []string
	if sv.overflow {
		parts = append(parts, dimStyle.Render(formatScrollPos(sv.start+1, end, len(sv.lines))))
	}
	if sv.affordance {
		parts = append(parts, newBadgeStyle.Render(
			fmt.Sprintf("v %d new events - f: jump to latest", m.follow.Pending())))
	}
	return strings.Join(parts, " ")
}

// formatScrollPos returns a string like "[10-20/100]".
func formatScrollPos(start, end, total int) string {
	return fmt.Sprintf("[%d-%d/%d]", start, end, total)
}

// wrapLines hard-wraps pre-indented dump text so no content is lost to
// the panel edge.
func wrapLines(s string, w int) []string {
	if w < 4 {
		w = 4
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		for len(line) > w {
			out = append(out, line[:w])
			line = line[w:]
		}
		out = append(out, line)
	}
	return out
}
