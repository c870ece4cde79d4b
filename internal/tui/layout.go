package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type panelDimensions struct {
	sessionListW, sessionListH int
	streamW, streamH           int
	headerH                    int
}

const (
	minWidth  = 40
	minHeight = 8

	headerHeight = 1
)

func computeDimensions(totalW, totalH int) panelDimensions {
	if totalW < minWidth {
		totalW = minWidth
	}
	if totalH < minHeight {
		totalH = minHeight
	}

	d := panelDimensions{headerH: headerHeight}

	usableH := totalH - headerHeight
	if usableH < 4 {
		usableH = 4
	}

	d.sessionListW = totalW * 30 / 100
	if d.sessionListW < 20 {
		d.sessionListW = 20
	}
	if d.sessionListW > totalW-24 {
		d.sessionListW = totalW - 24
	}
	d.sessionListH = usableH

	d.streamW = totalW - d.sessionListW
	if d.streamW < 24 {
		d.streamW = 24
	}
	d.streamH = usableH

	return d
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("69"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	activeMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	newBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	dumpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	focusBorderColor = lipgloss.Color("63")
)

// Per-kind line styles for the stream panel. Grouping is purely visual:
// blue for user messages, green for assistant messages, purple for tool
// calls, orange for tool results, red for final answers. Anything
// unknown falls back to neutral gray, so the lookup is total.
var eventKindStyles = map[string]lipgloss.Style{
	"user_message":                  lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
	"assistant_message":             lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
	"assistant_streaming_message":   lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
	"tool_call":                     lipgloss.NewStyle().Foreground(lipgloss.Color("183")),
	"assistant_streaming_tool_call": lipgloss.NewStyle().Foreground(lipgloss.Color("183")),
	"tool_result":                   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	"final_answer":                  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	"final_answer_streaming":        lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

func renderBorderedPanel(content string, w, h int, focused bool) string {
	style := panelBorderStyle
	if focused {
		style = style.BorderForeground(focusBorderColor)
	}

	contentH := h - 2
	if contentH < 1 {
		contentH = 1
	}

	lines := strings.Split(content, "\n")
	if len(lines) > contentH {
		lines = lines[:contentH]
		content = strings.Join(lines, "\n")
	}

	return style.
		Width(w - 2).
		Height(contentH).
		Render(content)
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripAnsi(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func (m Model) renderDashboard() string {
	dims := computeDimensions(m.width, m.height)

	header := m.renderHeader()

	sessionList := m.renderSessionListPanel(dims.sessionListW, dims.sessionListH)
	stream := m.renderStreamPanel(dims.streamW, dims.streamH)

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, sessionList, stream)

	usableH := m.height - dims.headerH
	if usableH < 4 {
		usableH = 4
	}
	mcLines := strings.Split(mainContent, "\n")
	if len(mcLines) > usableH {
		mcLines = mcLines[:usableH]
		mainContent = strings.Join(mcLines, "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, mainContent)
}

func (m Model) renderHeader() string {
	title := " tailview"
	scope := " [no session]"
	if id, ok := m.activeSessionID(); ok {
		scope = " Session: " + truncateID(id, 12)
	}

	help := m.headerHelp()

	padding := m.width - lipgloss.Width(title) - lipgloss.Width(scope) - lipgloss.Width(help)
	if padding < 0 {
		padding = 0
	}

	return headerStyle.Width(m.width).Render(title + scope + strings.Repeat(" ", padding) + help)
}

func (m Model) headerHelp() string {
	switch m.panelFocus {
	case FocusStream:
		return "Enter:Expand  f:Latest  PgUp/PgDn:Scroll  Tab:Sessions  q:Quit "
	default:
		return "Enter:Watch  Esc:Clear  Tab:Events  q:Quit "
	}
}

func truncateID(id string, maxLen int) string {
	if len(id) <= maxLen {
		return id
	}
	return id[:maxLen]
}
