// Package state holds the query and result list shown on the home view.
//
// # Overview
//
// The search coordinator writes here from request goroutines; the UI and CLI
// read copies. Store is the single place where "which response wins" is
// decided.
//
//	Coordinator:                    UI:
//	┌──────────────────┐           ┌──────────────────┐
//	│ Begin(seq, q)    │           │                  │
//	│   ↓ HTTP call    │           │                  │
//	│ Settle(seq, ...) │──────────→│ store.Snapshot() │
//	└──────────────────┘  (mutex)  └──────────────────┘
//
// # Sequence Guard
//
// Every request carries a sequence number. Begin records the newest one;
// Settle applies a result only if its sequence still matches. A slow
// response for "F" that lands after the response for "France" is dropped,
// so the list on screen always belongs to the latest query.
//
// # Settle Semantics
//
//	// Success: replace the list, never merge
//	store.Settle(seq, countries, nil, "")
//	→ snapshot.Countries = countries (non-nil, possibly empty)
//	→ snapshot.Message = ""
//
//	// Failure: the error replaces the list
//	store.Settle(seq, nil, err, "Failed to load countries. Please try again later.")
//	→ snapshot.Countries = nil
//	→ snapshot.Message = message
//	→ snapshot.ConsecutiveFailures++
//
// An empty non-nil list means "searched, nothing matched"; the UI shows a
// neutral empty state rather than an error banner.
//
// # Defensive Copying
//
// Snapshot clones the country slice and the error value. The zero Store is
// ready to use.
package state
