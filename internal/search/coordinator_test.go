package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/five82/atlas/internal/restcountries"
	"github.com/five82/atlas/internal/state"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testDebounce = 40 * time.Millisecond

var (
	deu = restcountries.Country{CCA3: "DEU", Name: restcountries.Name{Common: "Germany"}, Region: "Europe"}
	fra = restcountries.Country{CCA3: "FRA", Name: restcountries.Name{Common: "France"}, Region: "Europe"}
	jpn = restcountries.Country{CCA3: "JPN", Name: restcountries.Name{Common: "Japan"}, Region: "Asia"}
)

type fakeGateway struct {
	mu     sync.Mutex
	calls  []string
	search func(ctx context.Context, text string) ([]restcountries.Country, error)
	region func(ctx context.Context, region restcountries.Region) ([]restcountries.Country, error)
	all    func(ctx context.Context) ([]restcountries.Country, error)
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) FetchAll(ctx context.Context) ([]restcountries.Country, error) {
	f.record("all")
	if f.all != nil {
		return f.all(ctx)
	}
	return []restcountries.Country{deu, fra, jpn}, nil
}

func (f *fakeGateway) SearchByName(ctx context.Context, text string) ([]restcountries.Country, error) {
	f.record("name:" + text)
	if f.search != nil {
		return f.search(ctx, text)
	}
	return []restcountries.Country{}, nil
}

func (f *fakeGateway) FilterByRegion(ctx context.Context, region restcountries.Region) ([]restcountries.Country, error) {
	f.record("region:" + string(region))
	if f.region != nil {
		return f.region(ctx, region)
	}
	return []restcountries.Country{deu, fra}, nil
}

func newCoordinator(t *testing.T, gw restcountries.Gateway) *Coordinator {
	t.Helper()
	c := New(gw, nil, Options{Debounce: testDebounce})
	t.Cleanup(c.Close)
	return c
}

func waitSettled(t *testing.T, c *Coordinator) state.Snapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.Snapshot().Phase == state.PhaseSettled
	}, 2*time.Second, 5*time.Millisecond)
	return c.Snapshot()
}

func countryCodes(items []restcountries.Country) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		out = append(out, c.CCA3)
	}
	return out
}

func TestTypingBurstIssuesOneSearch(t *testing.T) {
	gw := &fakeGateway{search: func(_ context.Context, text string) ([]restcountries.Country, error) {
		if text == "France" {
			return []restcountries.Country{fra}, nil
		}
		return []restcountries.Country{}, nil
	}}
	c := newCoordinator(t, gw)

	for _, text := range []string{"F", "Fr", "Fra", "Fran", "Franc", "France"} {
		c.SetText(text)
	}

	snap := waitSettled(t, c)
	assert.Equal(t, []string{"FRA"}, countryCodes(snap.Countries))

	// Give any stray timer a chance to fire before counting.
	time.Sleep(3 * testDebounce)
	assert.Equal(t, []string{"name:France"}, gw.Calls())
}

func TestNothingDispatchedBeforeDebounce(t *testing.T) {
	gw := &fakeGateway{}
	c := New(gw, nil, Options{Debounce: time.Hour})
	defer c.Close()

	c.SetText("Fra")
	time.Sleep(20 * time.Millisecond)

	assert.Empty(t, gw.Calls())
	assert.Equal(t, state.PhaseIdle, c.Snapshot().Phase)
	assert.Equal(t, state.Query{Text: "Fra"}, c.Query())
}

func TestRegionThenTextSwitchesEndpoint(t *testing.T) {
	gw := &fakeGateway{search: func(context.Context, string) ([]restcountries.Country, error) {
		return []restcountries.Country{deu}, nil
	}}
	c := newCoordinator(t, gw)

	c.SetRegion(restcountries.RegionEurope)
	snap := waitSettled(t, c)
	assert.Equal(t, []string{"DEU", "FRA"}, countryCodes(snap.Countries))
	assert.Equal(t, []string{"region:Europe"}, gw.Calls())

	c.SetText("Germany")
	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return s.Phase == state.PhaseSettled && s.Query.Text == "Germany"
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"region:Europe", "name:Germany"}, gw.Calls())
	assert.Equal(t, []string{"DEU"}, countryCodes(c.Snapshot().Countries))
}

func TestRefreshWithEmptyQueryListsAll(t *testing.T) {
	gw := &fakeGateway{}
	c := newCoordinator(t, gw)

	c.Refresh()
	snap := waitSettled(t, c)

	assert.Equal(t, []string{"all"}, gw.Calls())
	assert.Len(t, snap.Countries, 3)
	assert.NoError(t, snap.LastError)
	assert.Empty(t, snap.Message)
}

func TestWhitespaceTextFallsBackToRegion(t *testing.T) {
	gw := &fakeGateway{}
	c := newCoordinator(t, gw)

	c.SetQuery(state.Query{Text: "   ", Region: restcountries.RegionAsia})
	waitSettled(t, c)

	assert.Equal(t, []string{"region:Asia"}, gw.Calls())
}

func TestSearchNoMatchIsEmptyNotError(t *testing.T) {
	gw := &fakeGateway{}
	c := newCoordinator(t, gw)

	c.SetText("Atlantis")
	snap := waitSettled(t, c)

	require.NotNil(t, snap.Countries)
	assert.Empty(t, snap.Countries)
	assert.NoError(t, snap.LastError)
	assert.Empty(t, snap.Message)
}

func TestServerErrorClearsListAndSetsMessage(t *testing.T) {
	upstream := &restcountries.NetworkError{Op: "search by name", StatusCode: 500}
	fail := false
	var mu sync.Mutex
	gw := &fakeGateway{search: func(context.Context, string) ([]restcountries.Country, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, upstream
		}
		return []restcountries.Country{fra}, nil
	}}
	c := newCoordinator(t, gw)

	c.SetText("France")
	snap := waitSettled(t, c)
	require.Len(t, snap.Countries, 1)

	mu.Lock()
	fail = true
	mu.Unlock()
	c.Refresh()
	require.Eventually(t, func() bool {
		return c.Snapshot().LastError != nil
	}, 2*time.Second, 5*time.Millisecond)

	snap = c.Snapshot()
	assert.Empty(t, snap.Countries)
	assert.Equal(t, FailureMessage, snap.Message)
	var netErr *restcountries.NetworkError
	assert.True(t, errors.As(snap.LastError, &netErr))
	assert.Equal(t, 500, netErr.StatusCode)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	gw := &fakeGateway{search: func(_ context.Context, text string) ([]restcountries.Country, error) {
		if text == "Fr" {
			<-release
			return []restcountries.Country{fra, deu}, nil
		}
		return []restcountries.Country{fra}, nil
	}}
	c := newCoordinator(t, gw)

	c.SetText("Fr")
	c.Refresh()
	require.Eventually(t, func() bool {
		return len(gw.Calls()) == 1
	}, time.Second, 2*time.Millisecond)

	c.SetText("France")
	c.Refresh()
	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return s.Phase == state.PhaseSettled && s.Query.Text == "France"
	}, 2*time.Second, 5*time.Millisecond)

	close(release)
	time.Sleep(20 * time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, "France", snap.Query.Text)
	assert.Equal(t, []string{"FRA"}, countryCodes(snap.Countries))
}

func TestSubscribeReceivesLoadingAndSettled(t *testing.T) {
	gw := &fakeGateway{}
	c := newCoordinator(t, gw)

	var (
		mu     sync.Mutex
		phases []state.Phase
	)
	unsubscribe := c.Subscribe(func(s state.Snapshot) {
		mu.Lock()
		phases = append(phases, s.Phase)
		mu.Unlock()
	})

	c.Refresh()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(phases) >= 2
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, state.PhaseSettled, phases[len(phases)-1])
	mu.Unlock()

	unsubscribe()
	unsubscribe()
	mu.Lock()
	before := len(phases)
	mu.Unlock()

	c.Refresh()
	waitSettled(t, c)
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, before, len(phases))
	mu.Unlock()
}

func TestCloseStopsPendingAndDropsInFlight(t *testing.T) {
	gw := &fakeGateway{all: func(ctx context.Context) ([]restcountries.Country, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	c := New(gw, nil, Options{Debounce: testDebounce})

	c.Refresh()
	require.Eventually(t, func() bool { return len(gw.Calls()) == 1 }, time.Second, 2*time.Millisecond)
	c.SetText("France")
	c.Close()
	c.Close()

	time.Sleep(3 * testDebounce)
	assert.Equal(t, []string{"all"}, gw.Calls())
	assert.Equal(t, state.PhaseLoading, c.Snapshot().Phase)
}

func TestSetQueryUnchangedIsNoop(t *testing.T) {
	gw := &fakeGateway{}
	c := newCoordinator(t, gw)

	c.SetText("")
	c.SetRegion(restcountries.RegionAll)
	time.Sleep(3 * testDebounce)

	assert.Empty(t, gw.Calls())
}
