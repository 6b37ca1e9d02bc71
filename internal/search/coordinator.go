package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/atlas/internal/restcountries"
	"github.com/five82/atlas/internal/state"
)

const (
	// DefaultDebounce is how long input must be stable before a request.
	DefaultDebounce = 500 * time.Millisecond

	// FailureMessage replaces the list whenever a request fails.
	FailureMessage = "Failed to load countries. Please try again later."
)

// Options configure a Coordinator.
type Options struct {
	Debounce time.Duration
	Logger   *zap.Logger
}

// Coordinator turns query edits into gateway calls. At most one reconciliation
// is pending at a time; every dispatched request gets a sequence number and
// only the newest one may settle the result state.
type Coordinator struct {
	gateway  restcountries.Gateway
	store    *state.Store
	logger   *zap.Logger
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	query  state.Query
	timer  *time.Timer
	token  uint64 // identifies the pending reconciliation
	seq    uint64 // last issued request
	closed bool

	subMu    sync.Mutex
	notifyMu sync.Mutex
	subs     map[uint64]func(state.Snapshot)
	nextSub  uint64
}

// New builds a Coordinator writing results into store. A nil store gets a
// fresh one.
func New(gateway restcountries.Gateway, store *state.Store, opts Options) *Coordinator {
	if store == nil {
		store = &state.Store{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		gateway:  gateway,
		store:    store,
		logger:   logger.Named("search"),
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		subs:     make(map[uint64]func(state.Snapshot)),
	}
}

// Query returns the current query, which may not have been dispatched yet.
func (c *Coordinator) Query() state.Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// SetText updates the search text and schedules a reconciliation.
func (c *Coordinator) SetText(text string) {
	c.mu.Lock()
	q := c.query
	c.mu.Unlock()
	q.Text = text
	c.SetQuery(q)
}

// SetRegion updates the region filter and schedules a reconciliation.
func (c *Coordinator) SetRegion(region restcountries.Region) {
	c.mu.Lock()
	q := c.query
	c.mu.Unlock()
	q.Region = region
	c.SetQuery(q)
}

// SetQuery replaces the whole query. An unchanged query is a no-op; any
// other change supersedes the pending reconciliation.
func (c *Coordinator) SetQuery(q state.Query) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || q == c.query {
		return
	}
	c.query = q

	c.token++
	token := c.token
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() { c.fire(token) })
}

// Refresh dispatches the current query immediately, cancelling any pending
// reconciliation.
func (c *Coordinator) Refresh() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.token++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.dispatchLocked()
	c.mu.Unlock()
	c.notify()
}

func (c *Coordinator) fire(token uint64) {
	c.mu.Lock()
	if c.closed || token != c.token {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.dispatchLocked()
	c.mu.Unlock()
	c.notify()
}

// dispatchLocked issues the request for c.query. Callers hold c.mu so that
// Begin calls reach the store in sequence order.
func (c *Coordinator) dispatchLocked() {
	c.seq++
	seq := c.seq
	q := c.query
	c.store.Begin(seq, q)

	c.logger.Debug("dispatch",
		zap.Uint64("seq", seq),
		zap.String("text", q.Text),
		zap.String("region", string(q.Region)),
		zap.String("endpoint", endpointFor(q)),
	)

	c.wg.Add(1)
	go c.run(seq, q)
}

func (c *Coordinator) run(seq uint64, q state.Query) {
	defer c.wg.Done()

	countries, err := c.call(c.ctx, q)
	if c.ctx.Err() != nil {
		return
	}

	message := ""
	if err != nil {
		message = FailureMessage
	}
	if !c.store.Settle(seq, countries, err, message) {
		c.logger.Debug("discarding stale response", zap.Uint64("seq", seq), zap.String("text", q.Text))
		return
	}
	if err != nil {
		c.logger.Warn("request failed", zap.Uint64("seq", seq), zap.String("endpoint", endpointFor(q)), zap.Error(err))
	} else {
		c.logger.Info("results", zap.Uint64("seq", seq), zap.String("endpoint", endpointFor(q)), zap.Int("count", len(countries)))
	}
	c.notify()
}

// call applies the precedence rule: text wins, then region, then all.
func (c *Coordinator) call(ctx context.Context, q state.Query) ([]restcountries.Country, error) {
	if text := strings.TrimSpace(q.Text); text != "" {
		return c.gateway.SearchByName(ctx, text)
	}
	if q.Region != restcountries.RegionAll {
		return c.gateway.FilterByRegion(ctx, q.Region)
	}
	return c.gateway.FetchAll(ctx)
}

func endpointFor(q state.Query) string {
	switch {
	case strings.TrimSpace(q.Text) != "":
		return "name"
	case q.Region != restcountries.RegionAll:
		return "region"
	default:
		return "all"
	}
}

// Snapshot returns the current result state.
func (c *Coordinator) Snapshot() state.Snapshot {
	return c.store.Snapshot()
}

// Subscribe registers fn to receive a snapshot whenever a request starts or
// settles. Deliveries never go backwards in time. The returned func
// unsubscribes.
func (c *Coordinator) Subscribe(fn func(state.Snapshot)) func() {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

func (c *Coordinator) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.subMu.Lock()
	subs := make([]func(state.Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subMu.Unlock()
	if len(subs) == 0 {
		return
	}

	// Read under notifyMu so each delivery is at least as new as the last.
	snap := c.store.Snapshot()
	for _, fn := range subs {
		fn(snap)
	}
}

// Close stops the pending reconciliation, cancels in-flight requests and
// waits for their goroutines. Later calls are no-ops.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.token++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}
