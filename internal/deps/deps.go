// Package deps reports whether the external tools and directories nfo2tags
// needs are usable.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"nfo2tags/internal/config"
)

// Requirement defines an external dependency nfo2tags relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the binaries the configured tools resolve to. ffprobe
// only feeds progress and verification, so it is optional.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		return nil
	}
	return []Requirement{
		{Name: "FFmpeg", Command: cfg.FFmpegBinary(), Description: "Writes MP4 metadata and cover art"},
		{Name: "FFprobe", Command: cfg.FFprobeBinary(), Description: "Reports duration and verifies MP4 output", Optional: true},
		{Name: "mkvpropedit", Command: cfg.MKVPropEditBinary(), Description: "Writes MKV tags and attachments"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the unavailable, non-optional entries.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}

// CheckWritable reports whether dir exists, is a directory and is writable
// by the current user.
func CheckWritable(name, dir string) Status {
	status := Status{Name: name, Command: dir, Description: "Directory must be writable"}
	info, err := os.Stat(dir)
	if err != nil {
		status.Detail = fmt.Sprintf("stat %s: %v", dir, err)
		return status
	}
	if !info.IsDir() {
		status.Detail = fmt.Sprintf("%s is not a directory", dir)
		return status
	}
	if err := unix.Access(dir, unix.W_OK); err != nil {
		status.Detail = fmt.Sprintf("%s is not writable: %v", dir, err)
		return status
	}
	status.Available = true
	return status
}
