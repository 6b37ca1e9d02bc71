// Package search reconciles the user's query with the remote list endpoints.
//
// Edits to the text or region restart a debounce timer; only the query that
// survives the interval is sent. Non-empty text selects a name search and
// ignores the region, a region alone selects the region endpoint, and an
// empty query lists everything. Each request carries a sequence number and
// only the latest one may settle the shared state.Store, so a slow response
// for an old query can never replace a newer result.
package search
