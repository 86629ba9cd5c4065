// Package ffmpeg rewrites MP4 containers with new metadata and cover art by
// stream-copying them through ffmpeg.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"nfo2tags/internal/services"
)

// Pair is one -metadata key=value argument.
type Pair struct {
	Key   string
	Value string
}

// RemuxRequest describes one container rewrite.
type RemuxRequest struct {
	Input    string
	Output   string
	Cover    string
	Metadata []Pair
	// Duration of the input, used to turn elapsed output time into a
	// percentage. Zero means unknown.
	Duration time.Duration
}

// ProgressUpdate captures ffmpeg -progress output. Percent is -1 when the
// input duration is unknown.
type ProgressUpdate struct {
	Percent float64
	Elapsed time.Duration
	Done    bool
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps ffmpeg CLI interactions.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs an ffmpeg client.
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Binary returns the executable the client runs.
func (c *Client) Binary() string {
	return c.binary
}

// Remux runs ffmpeg for req, reporting progress when progress is non-nil.
func (c *Client) Remux(ctx context.Context, req RemuxRequest, progress func(ProgressUpdate)) error {
	args, err := BuildArgs(req)
	if err != nil {
		return err
	}
	tracker := progressTracker{duration: req.Duration}
	if err := c.exec.Run(ctx, c.binary, args, func(line string) {
		if progress == nil {
			return
		}
		if update, ok := tracker.parse(line); ok {
			progress(update)
		}
	}); err != nil {
		return fmt.Errorf("ffmpeg remux: %w", err)
	}
	return nil
}

// BuildArgs returns the ffmpeg argument list for req.
func BuildArgs(req RemuxRequest) ([]string, error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, errors.New("ffmpeg remux: input required")
	}
	if strings.TrimSpace(req.Output) == "" {
		return nil, errors.New("ffmpeg remux: output required")
	}
	if req.Input == req.Output {
		return nil, errors.New("ffmpeg remux: input and output must differ")
	}

	args := []string{"-nostdin", "-y", "-nostats", "-loglevel", "error", "-progress", "pipe:1", "-i", req.Input}
	if req.Cover != "" {
		args = append(args, "-i", req.Cover, "-map", "1", "-map", "0")
	}
	for _, pair := range req.Metadata {
		if pair.Key == "" || pair.Value == "" {
			continue
		}
		args = append(args, "-metadata", pair.Key+"="+pair.Value)
	}
	args = append(args, "-codec", "copy")
	if req.Cover != "" {
		args = append(args, "-disposition:0", "attached_pic")
	}
	args = append(args, req.Output)
	return args, nil
}

type progressTracker struct {
	duration time.Duration
	elapsed  time.Duration
}

func (p *progressTracker) parse(line string) (ProgressUpdate, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return ProgressUpdate{}, false
	}
	value = strings.TrimSpace(value)
	switch key {
	case "out_time_us":
		micros, err := strconv.ParseInt(value, 10, 64)
		if err != nil || micros < 0 {
			return ProgressUpdate{}, false
		}
		p.elapsed = time.Duration(micros) * time.Microsecond
	case "out_time":
		elapsed, ok := parseClock(value)
		if !ok {
			return ProgressUpdate{}, false
		}
		p.elapsed = elapsed
	case "progress":
		if value != "end" {
			return ProgressUpdate{}, false
		}
		if p.duration > 0 {
			p.elapsed = p.duration
		}
		return ProgressUpdate{Percent: 100, Elapsed: p.elapsed, Done: true}, true
	default:
		return ProgressUpdate{}, false
	}
	return ProgressUpdate{Percent: p.percent(), Elapsed: p.elapsed}, true
}

func (p *progressTracker) percent() float64 {
	if p.duration <= 0 {
		return -1
	}
	percent := float64(p.elapsed) / float64(p.duration) * 100
	return math.Min(math.Max(percent, 0), 100)
}

// parseClock parses HH:MM:SS(.fraction) as printed by ffmpeg.
func parseClock(value string) (time.Duration, bool) {
	negative := strings.HasPrefix(value, "-")
	parts := strings.Split(strings.TrimPrefix(value, "-"), ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}
	if negative {
		return 0, true
	}
	total := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	total += time.Duration(seconds * float64(time.Second))
	return total, true
}
