package services

import (
	"errors"
	"fmt"
	"strings"

	"nfo2tags/internal/history"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a processing error to the status recorded in the
// history ledger. Problems with the inputs need the user's attention and are
// recorded as invalid; everything else is a plain failure.
func FailureStatus(err error) history.Status {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return history.StatusInvalid
	default:
		return history.StatusFailed
	}
}

// Hint returns a short operator-facing suggestion for err, or "".
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "place a .nfo or cover image next to the video, or pass -n/-c"
	case errors.Is(err, ErrValidation):
		return "check the nfo is well-formed xml with a <title>"
	case errors.Is(err, ErrConfiguration):
		return "run nfo2tags config validate"
	case errors.Is(err, ErrExternalTool):
		return "run nfo2tags status to check ffmpeg and mkvpropedit"
	default:
		return ""
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
