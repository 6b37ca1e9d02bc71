package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: logo, view, query, favorites badge
// and fetch state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "

	parts := []string{
		styles.Logo.Render("atlas"),
		styles.Text.Bold(true).Render(m.currentView.String()),
	}

	if m.currentView == ViewHome {
		parts = append(parts, styles.MutedText.Render(m.querySummary()))
	}

	parts = append(parts, styles.Badge.Render(fmt.Sprintf("★ %d", len(m.favList))))

	snap := m.snapshot
	switch {
	case snap.Loading():
		parts = append(parts, m.spinner.View()+styles.WarningText.Render("Loading"))
	case snap.IsOffline():
		parts = append(parts, styles.DangerText.Render("● OFFLINE"))
	case snap.LastError != nil:
		parts = append(parts, styles.DangerText.Render("● ERROR"))
	case !snap.LastUpdated.IsZero():
		parts = append(parts,
			styles.SuccessText.Render("●")+" "+
				styles.MutedText.Render(fmt.Sprintf("%d results · %s", len(snap.Countries), humanizeDuration(m.now.Sub(snap.LastUpdated)))))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxHeight(1).
		Render(strings.Join(parts, sep))
}

// querySummary describes which endpoint the current query selects.
func (m Model) querySummary() string {
	if text := strings.TrimSpace(m.query.Text); text != "" {
		return fmt.Sprintf("search %q", truncate(text, 24))
	}
	return m.query.Region.Label()
}

// renderFooter renders the short help for the current view.
func (m Model) renderFooter() string {
	bindings := m.keys.viewHelp(m.currentView, m.input.Focused())
	return lipgloss.NewStyle().
		Width(m.width).
		MaxHeight(1).
		Render(m.help.ShortHelpView(bindings))
}
