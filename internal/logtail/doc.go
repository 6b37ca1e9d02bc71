// Package logtail reads the tail of the atlas structured log.
//
// # Overview
//
// The TUI writes zap JSON lines to <data_dir>/atlas.log. The log view shows
// the most recent entries, so Read extracts the last N lines with a ring
// buffer (one sequential pass, O(maxLines) memory) and decodes each one into
// an Entry.
//
// Example usage:
//
//	entries, err := logtail.Read(cfg.LogPath(), 400)
//	if err != nil {
//		logger.Warn("read log failed", zap.Error(err))
//	}
//
// # Entry Decoding
//
// Parse understands the keys written by internal/logging:
//
//   - ts: RFC3339 timestamp
//   - level: debug, info, warn, error
//   - msg: message text
//   - session: per-process id (dropped, it is constant within a run)
//
// Every other key lands in Entry.Fields as a string. Lines that are not JSON
// are kept as info entries with the raw text as the message, so a truncated
// or foreign line never hides the rest of the file.
//
// # Edge Cases
//
//   - maxLines <= 0 reads the entire file
//   - A missing file returns (nil, nil)
//   - Blank lines are skipped
//   - Lines up to 1 MiB are supported
package logtail
