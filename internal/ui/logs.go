package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/atlas/internal/logtail"
)

// Log refresh constants
const (
	logRefreshInterval = 2 * time.Second
	logTailLimit       = 500
)

// logState holds all log-related state.
type logState struct {
	entries     []logtail.Entry
	err         error
	follow      bool
	lastRefresh time.Time
	viewport    viewport.Model
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

func (m *Model) refreshLogs() tea.Cmd {
	m.logs.lastRefresh = m.now
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.Read(path, logTailLimit)
		return logsMsg{entries: entries, err: err}
	}
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logs.err = msg.err
	if msg.err == nil {
		m.logs.entries = msg.entries
	}
	m.resizeLogViewport()
	m.logs.viewport.SetContent(m.renderLogContent())
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

func (m *Model) resizeLogViewport() {
	width := maxInt(20, m.width-4)
	// panel borders plus the status line
	height := maxInt(3, m.contentHeight()-3)
	if m.logs.viewport.Width == 0 && m.logs.viewport.Height == 0 {
		m.logs.viewport = viewport.New(width, height)
		return
	}
	m.logs.viewport.Width = width
	m.logs.viewport.Height = height
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.currentView = ViewHome
		return m, nil
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			m.logs.viewport.GotoBottom()
			return m, m.refreshLogs()
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logs.follow = false
		m.logs.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logs.viewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.PageUp):
		// Scrolling back pauses follow so new lines don't yank the view.
		m.logs.follow = false
	}

	var cmd tea.Cmd
	m.logs.viewport, cmd = m.logs.viewport.Update(msg)
	return m, cmd
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()

	follow := styles.FaintText.Render("paused")
	if m.logs.follow {
		follow = styles.SuccessText.Render("following")
	}
	status := styles.AccentText.Bold(true).Render("Logs") + "  " +
		styles.MutedText.Render(truncateMiddle(m.logPath, maxInt(10, m.width/2))) + "  " + follow

	var body string
	switch {
	case m.logPath == "":
		body = styles.MutedText.Render("Logging to a file is disabled.")
	case m.logs.err != nil:
		body = styles.DangerText.Render(fmt.Sprintf("Failed to read log: %v", m.logs.err))
	case len(m.logs.entries) == 0:
		body = styles.MutedText.Render("No log entries yet.")
	default:
		body = m.logs.viewport.View()
	}

	panel := styles.FocusPanel.Width(maxInt(10, m.width-2)).Render(body)
	return status + "\n" + panel
}

func (m *Model) renderLogContent() string {
	styles := m.theme.Styles()
	lines := make([]string, 0, len(m.logs.entries))
	for _, e := range m.logs.entries {
		lines = append(lines, m.formatLogEntry(e, styles))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) formatLogEntry(e logtail.Entry, styles Styles) string {
	ts := "--:--:--"
	if !e.Time.IsZero() {
		ts = e.Time.Local().Format("15:04:05")
	}
	level := strings.ToUpper(e.Level)
	if level == "" {
		level = "INFO"
	}
	line := styles.FaintText.Render(ts) + " " +
		m.levelStyle(level, styles).Render(padRight(level, 5)) + " " +
		styles.Text.Render(e.Message)
	if fields := e.FieldString(); fields != "" {
		line += " " + styles.MutedText.Render(fields)
	}
	return line
}

func (m *Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.DangerText
	case "WARN":
		return styles.WarningText
	case "DEBUG":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}
