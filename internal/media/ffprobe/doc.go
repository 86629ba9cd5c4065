// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The tagger uses it twice per MP4: before a remux to learn the duration
// that ffmpeg progress is measured against, and afterwards to confirm the
// rewritten file still carries a video stream and the expected title.
package ffprobe
