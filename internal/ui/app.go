package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/atlas/internal/prefs"
	"github.com/five82/atlas/internal/restcountries"
	"github.com/five82/atlas/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewHome View = iota
	ViewFavorites
	ViewDetails
	ViewLogs
)

func (v View) String() string {
	switch v {
	case ViewFavorites:
		return "Favorites"
	case ViewDetails:
		return "Details"
	case ViewLogs:
		return "Logs"
	default:
		return "Countries"
	}
}

// Searcher drives the home list. *search.Coordinator implements it.
// Refresh may publish synchronously, so the model only calls it from a
// tea.Cmd.
type Searcher interface {
	SetText(text string)
	SetRegion(region restcountries.Region)
	Refresh()
	Query() state.Query
	Snapshot() state.Snapshot
}

// Favorites is the favorites set. *favorites.Store implements it.
type Favorites interface {
	Toggle(country restcountries.Country)
	IsFavorite(code string) bool
	List() []restcountries.Country
}

// Lookuper loads full country records for the details view.
// *restcountries.Client implements it.
type Lookuper interface {
	Lookup(ctx context.Context, code string) (restcountries.Country, error)
	LookupCodes(ctx context.Context, codes []string) ([]restcountries.Country, error)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Search    Searcher
	Favorites Favorites
	Lookup    Lookuper
	Logger    *zap.Logger
	ThemeName string
	PrefsPath string
	LogPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	search    Searcher
	favorites Favorites
	lookup    Lookuper
	logger    *zap.Logger
	prefsPath string
	logPath   string

	// UI state
	keys        keyMap
	help        help.Model
	spinner     spinner.Model
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	now         time.Time

	// Home state
	input      textinput.Model
	query      state.Query
	snapshot   state.Snapshot
	homeCursor int

	// Favorites state
	favList   []restcountries.Country
	favCursor int

	detail detailState
	logs   logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = defaultTheme().Name
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ti := textinput.New()
	ti.Placeholder = "Search for a country..."
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:         ctx,
		search:      opts.Search,
		favorites:   opts.Favorites,
		lookup:      opts.Lookup,
		logger:      logger.Named("ui"),
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		theme:       GetTheme(themeName),
		currentView: ViewHome,
		input:       ti,
		now:         time.Now(),
		logs:        logState{follow: true},
	}
	if m.search != nil {
		m.query = m.search.Query()
		m.snapshot = m.search.Snapshot()
		m.input.SetValue(m.query.Text)
	}
	if m.favorites != nil {
		m.favList = m.favorites.List()
	}
	m.applyThemeToComponents()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		m.spinner.Tick,
		tickCmd(time.Second),
	}
	// Load the initial list immediately instead of waiting for the debounce.
	if m.search != nil {
		cmds = append(cmds, refreshCmd(m.search))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.input.Width = maxInt(10, m.width-8)
		m.help.Width = m.width
		m.resizeDetailViewport()
		m.resizeLogViewport()
		return m, nil

	case SnapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.homeCursor = clampCursor(m.homeCursor, len(m.snapshot.Countries))
		return m, nil

	case FavoritesMsg:
		m.favList = []restcountries.Country(msg)
		m.favCursor = clampCursor(m.favCursor, len(m.favList))
		if m.currentView == ViewDetails {
			m.renderDetail()
		}
		return m, nil

	case detailMsg:
		m.handleDetail(msg)
		return m, nil

	case logsMsg:
		m.handleLogs(msg)
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.logger.Warn("save preferences failed", zap.String("path", m.prefsPath), zap.Error(msg.err))
		}
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		cmds := []tea.Cmd{tickCmd(time.Second)}
		if m.currentView == ViewLogs && m.logs.follow && m.now.Sub(m.logs.lastRefresh) >= logRefreshInterval {
			cmds = append(cmds, m.refreshLogs())
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// contentHeight is the number of rows between header and footer.
func (m Model) contentHeight() int {
	return maxInt(3, m.height-2)
}

func (m Model) renderContent() string {
	var body string
	switch m.currentView {
	case ViewFavorites:
		body = m.renderFavorites()
	case ViewDetails:
		body = m.renderDetails()
	case ViewLogs:
		body = m.renderLogs()
	default:
		body = m.renderHome()
	}
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.contentHeight()).
		MaxHeight(m.contentHeight()).
		Render(body)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	// The search field swallows printable keys while focused.
	if m.currentView == ViewHome && m.input.Focused() {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyThemeToComponents()
		if m.currentView == ViewDetails {
			m.renderDetail()
		}
		name := m.theme.Name
		return m, m.savePrefs(func(p *prefs.Prefs) { p.Theme = name })

	case key.Matches(msg, m.keys.ViewHome):
		m.currentView = ViewHome
		return m, nil

	case key.Matches(msg, m.keys.ViewFavorites):
		m.currentView = ViewFavorites
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, m.refreshLogs()

	case key.Matches(msg, m.keys.Tab):
		return m.cycleView(1)

	case key.Matches(msg, m.keys.ShiftTab):
		return m.cycleView(-1)
	}

	// View-specific keys
	switch m.currentView {
	case ViewHome:
		return m.handleHomeKey(msg)
	case ViewFavorites:
		return m.handleFavoritesKey(msg)
	case ViewDetails:
		return m.handleDetailsKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

var tabOrder = []View{ViewHome, ViewFavorites, ViewLogs}

// cycleView moves through the top-level views; details is not part of the
// cycle.
func (m Model) cycleView(step int) (tea.Model, tea.Cmd) {
	idx := 0
	for i, v := range tabOrder {
		if v == m.currentView {
			idx = i
		}
	}
	idx = (idx + step + len(tabOrder)) % len(tabOrder)
	m.currentView = tabOrder[idx]
	if m.currentView == ViewLogs {
		return m, m.refreshLogs()
	}
	return m, nil
}

// toggleFavorite flips c in the favorites set and refreshes the cached list.
func (m *Model) toggleFavorite(c restcountries.Country) {
	if m.favorites == nil || c.CCA3 == "" {
		return
	}
	m.favorites.Toggle(c)
	m.favList = m.favorites.List()
	m.favCursor = clampCursor(m.favCursor, len(m.favList))
	m.logger.Debug("favorite toggled", zap.String("code", c.CCA3), zap.Int("count", len(m.favList)))
}

func (m Model) isFavorite(code string) bool {
	if m.favorites == nil {
		return false
	}
	return m.favorites.IsFavorite(code)
}

func (m *Model) applyThemeToComponents() {
	styles := m.theme.Styles()
	m.input.PromptStyle = styles.AccentText
	m.input.TextStyle = styles.Text
	m.input.PlaceholderStyle = styles.FaintText
	m.spinner.Style = styles.AccentText
	m.help.Styles.ShortKey = styles.AccentText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
}

// Messages

// SnapshotMsg delivers a new result-state snapshot to the model.
type SnapshotMsg state.Snapshot

// FavoritesMsg delivers the favorites list after a change.
type FavoritesMsg []restcountries.Country

type tickMsg time.Time

type prefsSavedMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func refreshCmd(s Searcher) tea.Cmd {
	return func() tea.Msg {
		s.Refresh()
		return nil
	}
}

func (m Model) savePrefs(fn func(*prefs.Prefs)) tea.Cmd {
	path := m.prefsPath
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Update(path, fn)}
	}
}

// Run starts the Bubble Tea program and blocks until it exits. Use NewProgram
// when something outside the model needs to Send messages.
func Run(opts Options) error {
	_, err := NewProgram(opts).Run()
	return err
}

// NewProgram builds the full-screen program for opts.
func NewProgram(opts Options) *tea.Program {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
}
