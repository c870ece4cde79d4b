// Package tui renders the live event-stream viewer: a session list on
// the left and the auto-following event timeline on the right.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/acrode/tailview/internal/config"
	"github.com/acrode/tailview/internal/events"
	"github.com/acrode/tailview/internal/state"
)

type PanelFocus int

const (
	FocusSessions PanelFocus = iota
	FocusStream
)

type tickMsg time.Time

// EventProvider exposes the session event store to the view. The view
// re-derives the visible list from it on every refresh and never
// mutates anything behind it.
type EventProvider interface {
	Events(sessionID string) []events.Event
	EventCount(sessionID string) int
	ListSessions() []state.SessionInfo
}

// ActiveSessionProvider exposes the at-most-one active session id.
type ActiveSessionProvider interface {
	ActiveSessionID() (string, bool)
}

type Model struct {
	width    int
	height   int
	keys     KeyMap
	quitting bool

	cfg config.Config

	provider EventProvider
	active   ActiveSessionProvider

	activateSession func(sessionID string)
	clearSession    func()
	onEventSelect   func(e events.Event)
	onShutdown      func()

	panelFocus    PanelFocus
	sessionCursor int

	// Stream panel state. expanded is keyed by timestamp:position and
	// lives only as long as the rendered list; a session switch drops
	// it wholesale.
	eventCursor     int
	streamScrollPos int
	expanded        map[string]bool
	follow          followController

	// Change detection against the store, driven by the refresh tick.
	lastActiveID   string
	lastActiveOK   bool
	lastCount      int
	batchStart     int
	batchArrivedAt time.Time

	refreshRate time.Duration
}

func NewModel(cfg config.Config, opts ...ModelOption) Model {
	m := Model{
		keys:        DefaultKeyMap(),
		cfg:         cfg,
		expanded:    make(map[string]bool),
		follow:      newFollowController(cfg.Display.FollowToleranceLines),
		refreshRate: time.Duration(cfg.Display.RefreshRateMS) * time.Millisecond,
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

type ModelOption func(*Model)

func WithEventProvider(p EventProvider) ModelOption {
	return func(m *Model) { m.provider = p }
}

func WithActiveSessionProvider(a ActiveSessionProvider) ModelOption {
	return func(m *Model) { m.active = a }
}

// WithSessionActivator wires the action that makes a session active.
func WithSessionActivator(fn func(sessionID string)) ModelOption {
	return func(m *Model) { m.activateSession = fn }
}

// WithSessionClearer wires the action that drops the active session.
func WithSessionClearer(fn func()) ModelOption {
	return func(m *Model) { m.clearSession = fn }
}

// WithEventSelectHandler wires the host callback fired once per
// expand/collapse interaction, with the clicked event.
func WithEventSelectHandler(fn func(e events.Event)) ModelOption {
	return func(m *Model) { m.onEventSelect = fn }
}

func WithOnShutdown(fn func()) ModelOption {
	return func(m *Model) { m.onShutdown = fn }
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m = m.syncStream()
		return m, m.tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// activeSessionID resolves the current active session reference.
func (m Model) activeSessionID() (string, bool) {
	if m.active == nil {
		return "", false
	}
	return m.active.ActiveSessionID()
}

// currentEvents derives the visible event list: the active session's
// log, or nothing when no session is active.
func (m Model) currentEvents() []events.Event {
	id, ok := m.activeSessionID()
	if !ok || m.provider == nil {
		return nil
	}
	return m.provider.Events(id)
}

func (m Model) getSessions() []state.SessionInfo {
	if m.provider == nil {
		return nil
	}
	return m.provider.ListSessions()
}

func (m Model) currentCount() int {
	id, ok := m.activeSessionID()
	if !ok || m.provider == nil {
		return 0
	}
	return m.provider.EventCount(id)
}

// syncStream reconciles view state with the store: a changed active
// session replaces the list and resets all per-item state; a grown log
// feeds the follow controller and marks the new batch for the entrance
// highlight.
func (m Model) syncStream() Model {
	id, ok := m.activeSessionID()

	if id != m.lastActiveID || ok != m.lastActiveOK {
		m.lastActiveID = id
		m.lastActiveOK = ok
		m.expanded = make(map[string]bool)
		m.follow.Reset()
		m.streamScrollPos = 0
		m.eventCursor = 0
		m.lastCount = m.currentCount()
		m.batchStart = 0
		m.batchArrivedAt = time.Time{}
		return m
	}

	n := m.currentCount()
	if n > m.lastCount {
		m.follow.OnAppend(n - m.lastCount)
		m.batchStart = m.lastCount
		m.batchArrivedAt = time.Now()
		m.lastCount = n
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if m.onShutdown != nil {
			m.onShutdown()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tab):
		if m.panelFocus == FocusSessions {
			m.panelFocus = FocusStream
			if n := m.currentCount(); n > 0 {
				m.eventCursor = n - 1
			}
		} else {
			m.panelFocus = FocusSessions
		}
		return m, nil

	case key.Matches(msg, m.keys.Latest):
		m.follow.JumpToLatest()
		return m, nil
	}

	switch m.panelFocus {
	case FocusStream:
		return m.handleStreamKey(msg)
	default:
		return m.handleSessionsKey(msg)
	}
}

func (m Model) handleSessionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.sessionCursor > 0 {
			m.sessionCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.sessionCursor < len(m.getSessions())-1 {
			m.sessionCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		sessions := m.getSessions()
		if m.activateSession != nil && m.sessionCursor >= 0 && m.sessionCursor < len(sessions) {
			m.activateSession(sessions[m.sessionCursor].SessionID)
			// Pick up the switch immediately; no stale-session items
			// may linger until the next tick.
			m = m.syncStream()
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.clearSession != nil {
			m.clearSession()
			m = m.syncStream()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleStreamKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		return m.moveEventCursor(-1), nil

	case key.Matches(msg, m.keys.Down):
		return m.moveEventCursor(1), nil

	case key.Matches(msg, m.keys.PageUp):
		return m.scrollStream(-m.streamPageSize()), nil

	case key.Matches(msg, m.keys.PageDown):
		return m.scrollStream(m.streamPageSize()), nil

	case key.Matches(msg, m.keys.Enter):
		return m.toggleCursorItem(), nil

	case key.Matches(msg, m.keys.Escape):
		m.panelFocus = FocusSessions
		return m, nil
	}

	return m, nil
}

func (m Model) streamDims() (int, int) {
	dims := computeDimensions(m.width, m.height)
	return dims.streamW, dims.streamH
}

func (m Model) streamPageSize() int {
	evts := m.currentEvents()
	w, h := m.streamDims()
	sv := m.streamViewFor(evts, w, h)
	if sv.visible > 1 {
		return sv.visible - 1
	}
	return 1
}

// scrollStream moves the window and feeds the resulting bottom distance
// to the follow controller.
func (m Model) scrollStream(delta int) Model {
	evts := m.currentEvents()
	if len(evts) == 0 {
		return m
	}
	w, h := m.streamDims()
	sv := m.streamViewFor(evts, w, h)

	pos := sv.start + delta
	if pos > sv.maxScroll {
		pos = sv.maxScroll
	}
	if pos < 0 {
		pos = 0
	}
	m.streamScrollPos = pos
	m.follow.OnUserScroll(sv.maxScroll - pos)
	return m
}

// moveEventCursor moves the item cursor and scrolls just enough to keep
// it visible; any resulting drift counts as user scrolling.
func (m Model) moveEventCursor(delta int) Model {
	evts := m.currentEvents()
	if len(evts) == 0 {
		return m
	}

	c := m.eventCursor + delta
	if c < 0 {
		c = 0
	}
	if c > len(evts)-1 {
		c = len(evts) - 1
	}
	m.eventCursor = c

	w, h := m.streamDims()
	sv := m.streamViewFor(evts, w, h)
	headerLine := sv.headerAt[c]

	start := sv.start
	if headerLine < start {
		start = headerLine
	}
	if headerLine >= sv.start+sv.visible {
		start = headerLine - sv.visible + 1
	}
	if start != sv.start {
		m.streamScrollPos = start
		m.follow.OnUserScroll(sv.maxScroll - start)
	}
	return m
}

// toggleCursorItem flips the cursor item's expansion and fires the
// select callback. Only that item's flag changes; the log and every
// other item stay as they are.
func (m Model) toggleCursorItem() Model {
	evts := m.currentEvents()
	if m.eventCursor < 0 || m.eventCursor >= len(evts) {
		return m
	}

	e := evts[m.eventCursor]
	k := itemKey(e, m.eventCursor)
	if m.expanded[k] {
		delete(m.expanded, k)
	} else {
		m.expanded[k] = true
	}

	if m.onEventSelect != nil {
		m.onEventSelect(e)
	}
	return m
}

func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}
	if m.width == 0 || m.height == 0 {
		return ""
	}

	output := m.renderDashboard()

	if m.height > 0 {
		lines := strings.Split(output, "\n")
		if len(lines) > m.height {
			lines = lines[:m.height]
			output = strings.Join(lines, "\n")
		}
	}

	return output
}
