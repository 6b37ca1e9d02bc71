package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/atlas/internal/restcountries"
)

// Query is the user's current search input.
type Query struct {
	Text   string
	Region restcountries.Region
}

// Phase is the lifecycle position of the current fetch cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSettled:
		return "settled"
	default:
		return "idle"
	}
}

// Snapshot represents the latest result data available to the UI.
type Snapshot struct {
	Query     Query
	Phase     Phase
	Countries []restcountries.Country
	// Message is the human-readable error shown instead of the list.
	Message             string
	LastError           error
	LastUpdated         time.Time
	ConsecutiveFailures int
	// Seq is the sequence number of the request this snapshot describes.
	Seq uint64
}

// Loading reports whether a request is outstanding.
func (s Snapshot) Loading() bool {
	return s.Phase == PhaseLoading
}

// IsOffline returns true when the API has failed multiple requests in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Begin marks request seq for query as in flight. The previous list stays
// visible until the request settles.
func (s *Store) Begin(seq uint64, query Query) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Query = query
	s.snapshot.Phase = PhaseLoading
	s.snapshot.Seq = seq
}

// Settle records the outcome of request seq. It returns false, leaving the
// snapshot untouched, when seq is not the request most recently begun.
// On error the list is cleared and message is shown in its place.
func (s *Store) Settle(seq uint64, countries []restcountries.Country, err error, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.snapshot.Seq {
		return false
	}

	s.snapshot.Phase = PhaseSettled
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.Countries = nil
		s.snapshot.LastError = err
		s.snapshot.Message = message
		s.snapshot.ConsecutiveFailures++
		return true
	}

	s.snapshot.Countries = cloneCountries(countries)
	if s.snapshot.Countries == nil {
		s.snapshot.Countries = []restcountries.Country{}
	}
	s.snapshot.LastError = nil
	s.snapshot.Message = ""
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Countries = cloneCountries(s.snapshot.Countries)
	if snap.Countries == nil && s.snapshot.Countries != nil {
		snap.Countries = []restcountries.Country{}
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneCountries(items []restcountries.Country) []restcountries.Country {
	if len(items) == 0 {
		return nil
	}
	dup := make([]restcountries.Country, len(items))
	copy(dup, items)
	return dup
}
