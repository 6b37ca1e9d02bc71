// Package ui provides the Bubble Tea terminal interface for atlas.
//
// # Views
//
//   - Countries: search field, region selector and the result list driven by
//     the search coordinator
//   - Favorites: the favorites set in insertion order
//   - Details: full record for one country rendered as Markdown with glamour,
//     with border countries that can be opened in turn
//   - Logs: tail of the structured log file written by this process
//
// A help overlay built from the key map is available everywhere with "?".
//
// # Data Flow
//
// The model never blocks on the network. Query edits go to the Searcher,
// which debounces and fetches in the background; results arrive as
// SnapshotMsg values sent by the caller through tea.Program.Send. Favorite
// toggles call the Favorites store directly and re-read its list; other
// changes arrive as FavoritesMsg. Details lookups and log reads run as
// tea.Cmd functions and report back with private messages that are ignored
// once the user has navigated elsewhere.
//
// # Preferences
//
// Theme and region changes are written to the prefs file from a tea.Cmd.
// Failures are logged and otherwise ignored.
package ui
