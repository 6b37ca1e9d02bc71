package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Back       key.Binding

	// View switching
	ViewHome      key.Binding
	ViewFavorites key.Binding
	ViewLogs      key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Open     key.Binding

	// Home actions
	Search         key.Binding
	NextRegion     key.Binding
	PrevRegion     key.Binding
	Retry          key.Binding
	ToggleFavorite key.Binding

	// Details actions
	NextBorder key.Binding
	PrevBorder key.Binding

	// Logs actions
	ToggleFollow key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "Back"),
		),

		ViewHome: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Countries"),
		),
		ViewFavorites: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Favorites"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("3", "L"),
			key.WithHelp("3", "Logs"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Page down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Details"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		NextRegion: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Next region"),
		),
		PrevRegion: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Previous region"),
		),
		Retry: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Reload"),
		),
		ToggleFavorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle favorite"),
		),

		NextBorder: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next border country"),
		),
		PrevBorder: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Previous border country"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle follow"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view, one column per
// helpSections title.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ViewHome, k.ViewFavorites, k.ViewLogs, k.Tab, k.Back},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageDown, k.PageUp},
		{k.Search, k.NextRegion, k.PrevRegion, k.Open, k.ToggleFavorite, k.Retry},
		{k.NextBorder, k.PrevBorder},
		{k.ToggleFollow},
		{k.CycleTheme, k.Help, k.Quit},
	}
}

var helpSections = []string{"Views", "Navigation", "Countries", "Details", "Logs", "General"}

// viewHelp returns the footer bindings for a view.
func (k keyMap) viewHelp(v View, inputFocused bool) []key.Binding {
	switch v {
	case ViewHome:
		if inputFocused {
			return []key.Binding{
				key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Leave search")),
				key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Details")),
				k.ForceQuit,
			}
		}
		return []key.Binding{k.Search, k.NextRegion, k.Open, k.ToggleFavorite, k.ViewFavorites, k.Help, k.Quit}
	case ViewFavorites:
		return []key.Binding{k.Open, k.ToggleFavorite, k.ViewHome, k.Help, k.Quit}
	case ViewDetails:
		return []key.Binding{k.Back, k.ToggleFavorite, k.NextBorder, k.Open, k.Help}
	case ViewLogs:
		return []key.Binding{k.ToggleFollow, k.Top, k.Bottom, k.Back, k.Help}
	}
	return k.ShortHelp()
}
