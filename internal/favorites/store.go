// Package favorites owns the user's favorited countries and mirrors them to
// durable storage.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/five82/atlas/internal/localstore"
	"github.com/five82/atlas/internal/restcountries"
)

// StorageKey is the single key holding the JSON array of favorites.
const StorageKey = "favoriteCountries"

// StorageError describes a failed read or write of the favorites key. It is
// logged, never returned: favorites degrade instead of failing.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("favorites %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store is an ordered set of countries, unique by cca3, in insertion order.
type Store struct {
	mu      sync.RWMutex
	items   []restcountries.Country
	storage localstore.Storage
	logger  *zap.Logger

	// toggleMu serializes toggles so subscribers see commits in order.
	toggleMu sync.Mutex
	subs     map[uint64]func([]restcountries.Country)
	nextSub  uint64
}

// New loads the favorites from storage. Missing or unparsable data starts
// an empty set.
func New(storage localstore.Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		storage: storage,
		logger:  logger.Named("favorites"),
		subs:    make(map[uint64]func([]restcountries.Country)),
	}
	s.items = s.load()
	return s
}

func (s *Store) load() []restcountries.Country {
	if s.storage == nil {
		return nil
	}
	data, err := s.storage.Get(StorageKey)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			s.logger.Warn("favorites unavailable, starting empty", zap.Error(&StorageError{Op: "read", Err: err}))
		}
		return nil
	}

	var stored []restcountries.Country
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("favorites unparsable, starting empty", zap.Error(&StorageError{Op: "decode", Err: err}))
		return nil
	}

	stored = lo.Filter(stored, func(c restcountries.Country, _ int) bool {
		return strings.TrimSpace(c.CCA3) != ""
	})
	items := lo.UniqBy(stored, func(c restcountries.Country) string {
		return normalizeCode(c.CCA3)
	})
	s.logger.Debug("favorites loaded", zap.Int("count", len(items)))
	return items
}

// Toggle removes country if a favorite with the same code exists, otherwise
// appends it. The new set is written to storage before it becomes visible.
func (s *Store) Toggle(country restcountries.Country) {
	code := normalizeCode(country.CCA3)
	if code == "" {
		s.logger.Warn("ignoring toggle for country without code", zap.String("name", country.Name.Common))
		return
	}

	s.toggleMu.Lock()
	defer s.toggleMu.Unlock()

	s.mu.Lock()
	var next []restcountries.Country
	if containsCode(s.items, code) {
		next = lo.Reject(s.items, func(c restcountries.Country, _ int) bool {
			return normalizeCode(c.CCA3) == code
		})
	} else {
		next = append(cloneCountries(s.items), country)
	}
	s.persist(next)
	s.items = next
	snapshot := cloneCountries(next)
	subs := lo.Values(s.subs)
	s.mu.Unlock()

	s.logger.Debug("favorite toggled", zap.String("code", code), zap.Int("count", len(snapshot)))
	for _, fn := range subs {
		fn(cloneCountries(snapshot))
	}
}

func (s *Store) persist(items []restcountries.Country) {
	if s.storage == nil {
		return
	}
	if items == nil {
		items = []restcountries.Country{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Warn("favorites not saved", zap.Error(&StorageError{Op: "encode", Err: err}))
		return
	}
	if err := s.storage.Set(StorageKey, data); err != nil {
		s.logger.Warn("favorites not saved", zap.Error(&StorageError{Op: "write", Err: err}))
	}
}

// IsFavorite reports whether code is in the set.
func (s *Store) IsFavorite(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsCode(s.items, normalizeCode(code))
}

// List returns the favorites in insertion order.
func (s *Store) List() []restcountries.Country {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCountries(s.items)
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Subscribe registers fn to receive the full set after every committed
// toggle. fn runs on the toggling goroutine and must not call Toggle.
// The returned func unsubscribes; calling it more than once is harmless.
func (s *Store) Subscribe(fn func([]restcountries.Country)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func containsCode(items []restcountries.Country, code string) bool {
	return lo.ContainsBy(items, func(c restcountries.Country) bool {
		return normalizeCode(c.CCA3) == code
	})
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func cloneCountries(items []restcountries.Country) []restcountries.Country {
	if len(items) == 0 {
		return nil
	}
	dup := make([]restcountries.Country, len(items))
	copy(dup, items)
	return dup
}
