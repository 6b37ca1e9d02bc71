// Package config loads the atlas configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/atlas/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults per field
//
// # Configuration Fields
//
//	api_base_url    = "https://restcountries.com/v3.1"
//	request_timeout = "10s"
//	debounce        = "500ms"
//	storage_backend = "file"   # or "sqlite"
//	data_dir        = "~/.local/share/atlas"
//	log_level       = "info"
//
// All string values are trimmed. Paths beginning with ~ are expanded against
// the user's home directory and made absolute. Durations use Go duration
// syntax; non-positive durations fall back to defaults.
//
// # Derived Paths
//
//   - LogPath():      <data_dir>/atlas.log (structured log in TUI mode)
//   - FavoritesDir(): <data_dir>/storage   (file storage backend)
//   - DatabasePath(): <data_dir>/atlas.db  (sqlite storage backend)
//
// # Error Handling
//
// A missing file is not an error. Unreadable files, invalid TOML, unknown
// storage backends and malformed durations are returned wrapped with context
// ("open config", "read config", "parse config").
package config
