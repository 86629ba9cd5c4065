// Package services defines shared utilities consumed by the tagging pipeline
// and its external tool clients.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, video paths, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent ledger statuses (failed vs invalid).
//   - The Executor abstraction that runs ffmpeg, ffprobe and mkvpropedit,
//     streams their stdout line by line and keeps a bounded stderr tail.
package services
