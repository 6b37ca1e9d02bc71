package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/atlas/internal/prefs"
	"github.com/five82/atlas/internal/render"
	"github.com/five82/atlas/internal/restcountries"
	"github.com/five82/atlas/internal/state"
)

const (
	emptySearchMessage    = "No countries found matching your search"
	emptyFavoritesMessage = "No favorite countries yet"
)

// handleInputKey handles keys while the search field has focus.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyTab:
		m.input.Blur()
		return m, nil
	case tea.KeyUp:
		m.homeCursor = clampCursor(m.homeCursor-1, len(m.snapshot.Countries))
		return m, nil
	case tea.KeyDown:
		m.homeCursor = clampCursor(m.homeCursor+1, len(m.snapshot.Countries))
		return m, nil
	case tea.KeyEnter:
		if c, ok := m.selectedHomeCountry(); ok {
			m.input.Blur()
			return m.openDetails(c.CCA3)
		}
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if text := m.input.Value(); text != before {
		m.query.Text = text
		m.homeCursor = 0
		if m.search != nil {
			m.search.SetText(text)
		}
	}
	return m, cmd
}

// handleHomeKey processes keyboard input for the home list.
func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Countries)
	page := maxInt(1, m.listHeight())

	switch {
	case key.Matches(msg, m.keys.Search):
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.NextRegion):
		return m.setRegion(m.query.Region.Next())
	case key.Matches(msg, m.keys.PrevRegion):
		return m.setRegion(m.query.Region.Prev())
	case key.Matches(msg, m.keys.Retry):
		if m.search != nil {
			return m, refreshCmd(m.search)
		}
	case key.Matches(msg, m.keys.Open):
		if c, ok := m.selectedHomeCountry(); ok {
			return m.openDetails(c.CCA3)
		}
	case key.Matches(msg, m.keys.ToggleFavorite):
		if c, ok := m.selectedHomeCountry(); ok {
			m.toggleFavorite(c)
		}
	case key.Matches(msg, m.keys.Up):
		m.homeCursor = clampCursor(m.homeCursor-1, count)
	case key.Matches(msg, m.keys.Down):
		m.homeCursor = clampCursor(m.homeCursor+1, count)
	case key.Matches(msg, m.keys.Top):
		m.homeCursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.homeCursor = clampCursor(count-1, count)
	case key.Matches(msg, m.keys.PageUp):
		m.homeCursor = clampCursor(m.homeCursor-page, count)
	case key.Matches(msg, m.keys.PageDown):
		m.homeCursor = clampCursor(m.homeCursor+page, count)
	}
	return m, nil
}

func (m Model) setRegion(region restcountries.Region) (tea.Model, tea.Cmd) {
	m.query.Region = region
	m.homeCursor = 0
	if m.search != nil {
		m.search.SetRegion(region)
	}
	return m, m.savePrefs(func(p *prefs.Prefs) { p.Region = region })
}

func (m Model) selectedHomeCountry() (restcountries.Country, bool) {
	if m.homeCursor < 0 || m.homeCursor >= len(m.snapshot.Countries) {
		return restcountries.Country{}, false
	}
	return m.snapshot.Countries[m.homeCursor], true
}

// listHeight is the number of country rows that fit below the search bar.
func (m Model) listHeight() int {
	// search line, region line, blank, column header
	return maxInt(1, m.contentHeight()-4)
}

// renderHome renders the search bar, region selector and results.
func (m Model) renderHome() string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderRegionSelector())
	b.WriteString("\n\n")

	snap := m.snapshot
	switch {
	case snap.Message != "" && !snap.Loading():
		b.WriteString(styles.DangerText.Render(snap.Message))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Press ctrl+r to try again."))
	case snap.Countries == nil:
		if snap.Phase == state.PhaseIdle && m.search == nil {
			b.WriteString(styles.MutedText.Render("No data source configured."))
		} else {
			b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Loading countries..."))
		}
	case len(snap.Countries) == 0:
		b.WriteString(styles.MutedText.Render(emptySearchMessage))
	default:
		b.WriteString(m.renderCountryList(snap.Countries, m.homeCursor, m.listHeight()))
	}
	return b.String()
}

func (m Model) renderRegionSelector() string {
	styles := m.theme.Styles()
	parts := []string{styles.MutedText.Render("Region:")}
	options := append([]restcountries.Region{restcountries.RegionAll}, restcountries.Regions...)
	for _, r := range options {
		label := r.Label()
		if r == m.query.Region {
			parts = append(parts, styles.Selected.Render(" "+label+" "))
			continue
		}
		parts = append(parts, styles.FaintText.Render(" "+label+" "))
	}
	line := strings.Join(parts, " ")
	if strings.TrimSpace(m.query.Text) != "" && m.query.Region != restcountries.RegionAll {
		line += "  " + styles.WarningText.Render("(ignored while searching)")
	}
	return line
}

// Column widths for country rows.
const (
	colStar       = 2
	colName       = 30
	colRegion     = 10
	colCapital    = 18
	colPopulation = 15
)

// renderCountryList renders a scrolling window of rows keeping cursor visible.
func (m Model) renderCountryList(items []restcountries.Country, cursor, height int) string {
	styles := m.theme.Styles()
	var b strings.Builder

	header := padRight("", colStar) +
		padRight("NAME", colName) +
		padRight("REGION", colRegion) +
		padRight("CAPITAL", colCapital) +
		padLeft("POPULATION", colPopulation) + "  " +
		"AREA"
	b.WriteString(styles.FaintText.Render(header))

	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > len(items) {
		end = len(items)
	}
	for i := start; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderCountryRow(items[i], i == cursor))
	}
	if len(items) > height {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(items))))
	}
	return b.String()
}

func (m Model) renderCountryRow(c restcountries.Country, selected bool) string {
	styles := m.theme.Styles()

	star := "  "
	if m.isFavorite(c.CCA3) {
		star = "★ "
	}
	name := strings.TrimSpace(c.Flag + " " + c.Name.Common)
	capital := render.Capital(c)

	if selected {
		row := padRight(star, colStar) +
			padRight(truncate(name, colName-1), colName) +
			padRight(c.Region, colRegion) +
			padRight(truncate(capital, colCapital-1), colCapital) +
			padLeft(render.Population(c.Population), colPopulation) + "  " +
			render.Area(c.Area)
		return styles.Selected.Width(m.width).Render(row)
	}

	return styles.WarningText.Render(padRight(star, colStar)) +
		styles.Text.Render(padRight(truncate(name, colName-1), colName)) +
		styles.RegionStyle(c.Region).Render(padRight(c.Region, colRegion)) +
		styles.MutedText.Render(padRight(truncate(capital, colCapital-1), colCapital)) +
		styles.Text.Render(padLeft(render.Population(c.Population), colPopulation)) + "  " +
		styles.MutedText.Render(render.Area(c.Area))
}

// handleFavoritesKey processes keyboard input for the favorites view.
func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.favList)
	switch {
	case key.Matches(msg, m.keys.Back):
		m.currentView = ViewHome
	case key.Matches(msg, m.keys.Open):
		if m.favCursor < count {
			return m.openDetails(m.favList[m.favCursor].CCA3)
		}
	case key.Matches(msg, m.keys.ToggleFavorite):
		if m.favCursor < count {
			m.toggleFavorite(m.favList[m.favCursor])
		}
	case key.Matches(msg, m.keys.Up):
		m.favCursor = clampCursor(m.favCursor-1, count)
	case key.Matches(msg, m.keys.Down):
		m.favCursor = clampCursor(m.favCursor+1, count)
	case key.Matches(msg, m.keys.Top):
		m.favCursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.favCursor = clampCursor(count-1, count)
	}
	return m, nil
}

func (m Model) renderFavorites() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Favorite Countries"))
	b.WriteString("\n\n")
	if len(m.favList) == 0 {
		b.WriteString(styles.MutedText.Render(emptyFavoritesMessage))
		return b.String()
	}
	b.WriteString(m.renderCountryList(m.favList, m.favCursor, maxInt(1, m.contentHeight()-3)))
	return b.String()
}

func clampCursor(cursor, count int) int {
	if count <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= count {
		return count - 1
	}
	return cursor
}
