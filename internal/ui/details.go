package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/atlas/internal/render"
	"github.com/five82/atlas/internal/restcountries"
)

const detailFetchTimeout = 15 * time.Second

// detailState holds the details view state.
type detailState struct {
	code     string
	returnTo View
	history  []string // codes visited through border links

	loading bool
	country restcountries.Country
	borders []restcountries.Country
	err     error

	borderIdx int
	viewport  viewport.Model
}

type detailMsg struct {
	code      string
	country   restcountries.Country
	borders   []restcountries.Country
	err       error
	borderErr error
}

// openDetails switches to the details view for code and starts the lookup.
func (m Model) openDetails(code string) (tea.Model, tea.Cmd) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return m, nil
	}
	if m.currentView == ViewDetails {
		if m.detail.code != "" && m.detail.code != code {
			m.detail.history = append(m.detail.history, m.detail.code)
		}
	} else {
		m.detail.returnTo = m.currentView
		m.detail.history = nil
	}
	m.currentView = ViewDetails
	return m, m.loadDetails(code)
}

func (m *Model) loadDetails(code string) tea.Cmd {
	m.detail.code = code
	m.detail.loading = true
	m.detail.err = nil
	m.detail.country = restcountries.Country{}
	m.detail.borders = nil
	m.detail.borderIdx = 0
	m.resizeDetailViewport()
	m.detail.viewport.SetContent("")
	m.detail.viewport.GotoTop()
	if m.lookup == nil {
		m.detail.loading = false
		m.detail.err = errors.New("no data source configured")
		return nil
	}
	return lookupCmd(m.ctx, m.lookup, code)
}

func lookupCmd(ctx context.Context, lookup Lookuper, code string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, detailFetchTimeout)
		defer cancel()

		country, err := lookup.Lookup(ctx, code)
		if err != nil {
			return detailMsg{code: code, err: err}
		}
		msg := detailMsg{code: code, country: country}
		if len(country.Borders) > 0 {
			msg.borders, msg.borderErr = lookup.LookupCodes(ctx, country.Borders)
		}
		return msg
	}
}

// handleDetail applies a lookup result unless the user has moved on.
func (m *Model) handleDetail(msg detailMsg) {
	if msg.code != m.detail.code {
		return
	}
	m.detail.loading = false
	if msg.err != nil {
		m.detail.err = msg.err
		m.logger.Warn("country lookup failed", zap.String("code", msg.code), zap.Error(msg.err))
		return
	}
	if msg.borderErr != nil {
		// Border names fall back to raw codes.
		m.logger.Info("border lookup failed", zap.String("code", msg.code), zap.Error(msg.borderErr))
	}
	m.detail.country = msg.country
	m.detail.borders = msg.borders
	m.renderDetail()
}

// renderDetail re-renders the Markdown body into the viewport.
func (m *Model) renderDetail() {
	if m.detail.loading || m.detail.err != nil || m.detail.country.CCA3 == "" {
		return
	}
	m.resizeDetailViewport()
	md := render.DetailsMarkdown(m.detail.country, m.detail.borders)
	out, err := render.Markdown(md, m.detail.viewport.Width, m.theme.GlamourStyle)
	if err != nil {
		m.logger.Warn("render details failed", zap.Error(err))
		out = md
	}
	m.detail.viewport.SetContent(out)
}

func (m *Model) resizeDetailViewport() {
	width := maxInt(20, m.width-2)
	// title line, border line, blank
	height := maxInt(3, m.contentHeight()-3)
	if m.detail.viewport.Width == 0 && m.detail.viewport.Height == 0 {
		m.detail.viewport = viewport.New(width, height)
		return
	}
	m.detail.viewport.Width = width
	m.detail.viewport.Height = height
}

// handleDetailsKey processes keyboard input for the details view.
func (m Model) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	borders := m.detail.country.Borders
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.leaveDetails()
	case key.Matches(msg, m.keys.ToggleFavorite):
		if !m.detail.loading && m.detail.err == nil {
			m.toggleFavorite(m.detail.country)
		}
		return m, nil
	case key.Matches(msg, m.keys.NextBorder):
		if len(borders) > 0 {
			m.detail.borderIdx = (m.detail.borderIdx + 1) % len(borders)
		}
		return m, nil
	case key.Matches(msg, m.keys.PrevBorder):
		if len(borders) > 0 {
			m.detail.borderIdx = (m.detail.borderIdx - 1 + len(borders)) % len(borders)
		}
		return m, nil
	case key.Matches(msg, m.keys.Open):
		if m.detail.borderIdx < len(borders) {
			return m.openDetails(borders[m.detail.borderIdx])
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.detail.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.detail.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.detail.viewport, cmd = m.detail.viewport.Update(msg)
	return m, cmd
}

// leaveDetails walks back through visited borders, then to the origin view.
func (m Model) leaveDetails() (tea.Model, tea.Cmd) {
	if n := len(m.detail.history); n > 0 {
		prev := m.detail.history[n-1]
		m.detail.history = m.detail.history[:n-1]
		return m, m.loadDetails(prev)
	}
	m.currentView = m.detail.returnTo
	m.detail.code = ""
	return m, nil
}

// renderDetails renders the details view.
func (m Model) renderDetails() string {
	styles := m.theme.Styles()
	var b strings.Builder

	title := m.detail.code
	if name := m.detail.country.Name.Common; name != "" {
		title = strings.TrimSpace(m.detail.country.Flag + " " + name)
	}
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	if m.isFavorite(m.detail.code) {
		b.WriteString("  " + styles.Badge.Render("★ Favorite"))
	}
	b.WriteString("\n")

	switch {
	case m.detail.loading:
		b.WriteString("\n" + m.spinner.View() + " " + styles.MutedText.Render("Loading country details..."))
		return b.String()
	case m.detail.err != nil:
		var nf *restcountries.NotFoundError
		if errors.As(m.detail.err, &nf) {
			b.WriteString("\n" + styles.DangerText.Render(fmt.Sprintf("Country %q not found.", nf.Code)))
		} else {
			b.WriteString("\n" + styles.DangerText.Render("Failed to load country details. Please try again later."))
		}
		b.WriteString("\n" + styles.MutedText.Render("Press esc to go back."))
		return b.String()
	}

	b.WriteString(m.renderBorderBar())
	b.WriteString("\n")
	b.WriteString(m.detail.viewport.View())
	return b.String()
}

func (m Model) renderBorderBar() string {
	styles := m.theme.Styles()
	codes := m.detail.country.Borders
	if len(codes) == 0 {
		return styles.FaintText.Render("No land borders")
	}
	labels := render.BorderLabels(codes, m.detail.borders)
	idx := clampCursor(m.detail.borderIdx, len(labels))
	return styles.MutedText.Render("Border: ") +
		styles.Selected.Render(" "+labels[idx]+" ") +
		styles.FaintText.Render(fmt.Sprintf("  %d/%d  n/N select, enter open", idx+1, len(labels)))
}
