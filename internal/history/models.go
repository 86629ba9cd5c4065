package history

import "time"

// Status is the recorded outcome of processing one video.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	// StatusInvalid marks inputs that need the user's attention, such as a
	// malformed NFO or missing sidecars.
	StatusInvalid Status = "invalid"
	StatusSkipped Status = "skipped"
)

// Entry is one ledger row.
type Entry struct {
	ID           int64
	RunID        string
	VideoPath    string
	Container    string
	Status       Status
	ErrorMessage string
	// SizeBytes and ModTime describe the video after processing finished.
	SizeBytes  int64
	ModTime    time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long processing took.
func (e Entry) Duration() time.Duration {
	if e.FinishedAt.Before(e.StartedAt) {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

// Matches reports whether a file with the given size and modification time
// is the same file this entry recorded.
func (e Entry) Matches(size int64, modTime time.Time) bool {
	return e.SizeBytes == size && e.ModTime.Equal(modTime)
}
