// Package app is the composition root for atlas.
//
// Open loads the config file, builds the logger, the REST Countries client,
// the storage backend and the favorites store. Run adds the search
// coordinator and the Bubble Tea program on top and blocks until the UI
// exits. The cobra subcommands use Services directly through the helpers in
// cli.go.
//
// # Notifications
//
// The coordinator and the favorites store publish through callbacks.
// StartBridge turns those callbacks into ui.SnapshotMsg and ui.FavoritesMsg
// values delivered with tea.Program.Send from its own goroutine.
//
// # Storage
//
// storage_backend selects a JSON file per key under <data_dir>/storage or a
// SQLite database at <data_dir>/atlas.db. If the backend cannot be opened
// the session continues with an in-memory store and logs a warning.
package app
