package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/atlas/internal/favorites"
	"github.com/five82/atlas/internal/localstore"
	"github.com/five82/atlas/internal/prefs"
	"github.com/five82/atlas/internal/restcountries"
	"github.com/five82/atlas/internal/state"
)

var (
	germany = restcountries.Country{
		CCA3: "DEU", Name: restcountries.Name{Common: "Germany", Official: "Federal Republic of Germany"},
		Capital: []string{"Berlin"}, Region: "Europe", Population: 83240525, Area: 357114,
		Borders: []string{"AUT", "FRA"},
	}
	france = restcountries.Country{CCA3: "FRA", Name: restcountries.Name{Common: "France"}, Region: "Europe"}
)

type fakeSearcher struct {
	texts     []string
	regions   []restcountries.Region
	refreshes int
	query     state.Query
}

func (f *fakeSearcher) SetText(text string) {
	f.texts = append(f.texts, text)
	f.query.Text = text
}

func (f *fakeSearcher) SetRegion(region restcountries.Region) {
	f.regions = append(f.regions, region)
	f.query.Region = region
}

func (f *fakeSearcher) Refresh()                 { f.refreshes++ }
func (f *fakeSearcher) Query() state.Query       { return f.query }
func (f *fakeSearcher) Snapshot() state.Snapshot { return state.Snapshot{} }

type fakeLookup struct {
	countries map[string]restcountries.Country
}

func (f *fakeLookup) Lookup(_ context.Context, code string) (restcountries.Country, error) {
	if c, ok := f.countries[code]; ok {
		return c, nil
	}
	return restcountries.Country{}, &restcountries.NotFoundError{Code: code}
}

func (f *fakeLookup) LookupCodes(_ context.Context, codes []string) ([]restcountries.Country, error) {
	var out []restcountries.Country
	for _, code := range codes {
		if c, ok := f.countries[code]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

type harness struct {
	search    *fakeSearcher
	favorites *favorites.Store
	prefsPath string
	logPath   string
}

func newTestModel(t *testing.T) (Model, *harness) {
	t.Helper()
	dir := t.TempDir()
	h := &harness{
		search:    &fakeSearcher{},
		favorites: favorites.New(localstore.NewMemory(), nil),
		prefsPath: filepath.Join(dir, "prefs.toml"),
		logPath:   filepath.Join(dir, "atlas.log"),
	}
	m := New(Options{
		Search:    h.search,
		Favorites: h.favorites,
		Lookup:    &fakeLookup{countries: map[string]restcountries.Country{"DEU": germany, "FRA": france}},
		PrefsPath: h.prefsPath,
		LogPath:   h.logPath,
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, h
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return model, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func settled(countries ...restcountries.Country) SnapshotMsg {
	if countries == nil {
		countries = []restcountries.Country{}
	}
	return SnapshotMsg(state.Snapshot{Phase: state.PhaseSettled, Countries: countries, Seq: 1})
}

func TestTypingForwardsEachEditToSearcher(t *testing.T) {
	m, h := newTestModel(t)

	for _, r := range "Fr" {
		m, _ = update(t, m, runes(string(r)))
	}

	assert.Equal(t, []string{"F", "Fr"}, h.search.texts)
	assert.Equal(t, "Fr", m.query.Text)
	assert.Contains(t, m.View(), `search "Fr"`)
}

func TestRegionCyclePersistsPreference(t *testing.T) {
	m, h := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, cmd := update(t, m, runes("r"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, []restcountries.Region{restcountries.RegionAfrica}, h.search.regions)
	assert.Equal(t, restcountries.RegionAfrica, m.query.Region)
	p, err := prefs.Load(h.prefsPath)
	require.NoError(t, err)
	assert.Equal(t, restcountries.RegionAfrica, p.Region)

	m, _ = update(t, m, runes("R"))
	assert.Equal(t, restcountries.RegionAll, m.query.Region)
}

func TestHomeRendersEachResultState(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, SnapshotMsg(state.Snapshot{Phase: state.PhaseLoading, Seq: 1}))
	assert.Contains(t, m.View(), "Loading countries...")

	m, _ = update(t, m, SnapshotMsg(state.Snapshot{Phase: state.PhaseSettled, Message: "Failed to load countries. Please try again later.", Seq: 1}))
	assert.Contains(t, m.View(), "Failed to load countries. Please try again later.")

	m, _ = update(t, m, settled())
	assert.Contains(t, m.View(), emptySearchMessage)

	m, _ = update(t, m, settled(germany, france))
	view := m.View()
	assert.Contains(t, view, "Germany")
	assert.Contains(t, view, "Berlin")
	assert.Contains(t, view, "83,240,525")
	assert.Contains(t, view, "France")
	assert.Contains(t, view, "N/A")
}

func TestRetryDispatchesRefresh(t *testing.T) {
	m, h := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, 1, h.search.refreshes)
}

func TestToggleFavoriteFromList(t *testing.T) {
	m, h := newTestModel(t)
	m, _ = update(t, m, settled(germany, france))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, _ = update(t, m, runes("j"))
	m, _ = update(t, m, runes("f"))

	assert.True(t, h.favorites.IsFavorite("FRA"))
	assert.Contains(t, m.View(), "★ 1")

	m, _ = update(t, m, runes("2"))
	assert.Equal(t, ViewFavorites, m.currentView)
	assert.Contains(t, m.View(), "France")

	m, _ = update(t, m, runes("f"))
	assert.False(t, h.favorites.IsFavorite("FRA"))
	assert.Contains(t, m.View(), emptyFavoritesMessage)
}

func TestDetailsNotFound(t *testing.T) {
	m, _ := newTestModel(t)
	ghost := restcountries.Country{CCA3: "ZZZ", Name: restcountries.Name{Common: "Ghost"}}
	m, _ = update(t, m, settled(ghost))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewDetails, m.currentView)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Contains(t, m.View(), `Country "ZZZ" not found.`)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewHome, m.currentView)
}

func TestDetailsFollowBordersAndBack(t *testing.T) {
	m, h := newTestModel(t)
	m, _ = update(t, m, settled(germany))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())
	view := m.View()
	assert.Contains(t, view, "Germany")
	assert.Contains(t, view, "1/2")

	m, _ = update(t, m, runes("f"))
	assert.True(t, h.favorites.IsFavorite("DEU"))
	assert.Contains(t, m.View(), "★ Favorite")

	m, _ = update(t, m, runes("n"))
	assert.Contains(t, m.View(), "France (FRA)")

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, "FRA", m.detail.code)
	assert.Equal(t, []string{"DEU"}, m.detail.history)
	assert.Contains(t, m.View(), "No land borders")

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, "DEU", m.detail.code)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewHome, m.currentView)
}

func TestStaleDetailResultIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, settled(germany))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = update(t, m, cmd())

	assert.Equal(t, ViewHome, m.currentView)
	assert.Empty(t, m.detail.country.CCA3)
}

func TestCycleThemePersists(t *testing.T) {
	m, h := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, cmd := update(t, m, runes("T"))
	require.NotNil(t, cmd)
	_, _ = update(t, m, cmd())

	assert.Equal(t, "Slate", m.theme.Name)
	p, err := prefs.Load(h.prefsPath)
	require.NoError(t, err)
	assert.Equal(t, "Slate", p.Theme)
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, _ = update(t, m, runes("?"))
	require.True(t, m.showHelp)
	view := m.View()
	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "Toggle favorite")

	m, _ = update(t, m, runes("x"))
	assert.False(t, m.showHelp)
}

func TestLogsViewTailsFile(t *testing.T) {
	m, h := newTestModel(t)
	line := `{"level":"warn","ts":"2026-01-02T03:04:05Z","msg":"request failed","endpoint":"name"}` + "\n"
	require.NoError(t, os.WriteFile(h.logPath, []byte(line), 0o600))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, cmd := update(t, m, runes("3"))
	require.Equal(t, ViewLogs, m.currentView)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	view := m.View()
	assert.Contains(t, view, "request failed")
	assert.Contains(t, view, "endpoint=name")
	assert.Contains(t, view, "following")

	m, _ = update(t, m, runes(" "))
	assert.Contains(t, m.View(), "paused")
}

func TestQuitKeys(t *testing.T) {
	m, h := newTestModel(t)

	// q is text while the search field is focused.
	m, _ = update(t, m, runes("q"))
	assert.Equal(t, []string{"q"}, h.search.texts)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd = update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestInitialRefreshCommand(t *testing.T) {
	s := &fakeSearcher{}
	refreshCmd(s)()
	assert.Equal(t, 1, s.refreshes)
}
