package tagger

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"nfo2tags/internal/config"
	"nfo2tags/internal/history"
	"nfo2tags/internal/logging"
	"nfo2tags/internal/media/ffprobe"
	"nfo2tags/internal/services"
	"nfo2tags/internal/services/ffmpeg"
	"nfo2tags/internal/services/mkvpropedit"
)

// ProgressFunc receives ffmpeg progress for the job being remuxed.
type ProgressFunc func(job Job, update ffmpeg.ProgressUpdate)

// Option configures a Tagger.
type Option func(*Tagger)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tagger) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithExecutor runs ffmpeg, ffprobe and mkvpropedit through exec.
func WithExecutor(exec services.Executor) Option {
	return func(t *Tagger) {
		if exec != nil {
			t.exec = exec
		}
	}
}

// WithHistory records outcomes in store and enables unchanged-file skipping.
func WithHistory(store *history.Store) Option {
	return func(t *Tagger) {
		t.history = store
	}
}

// WithProgress replaces sampled progress logging with fn.
func WithProgress(fn ProgressFunc) Option {
	return func(t *Tagger) {
		t.progress = fn
	}
}

// WithRunID tags ledger rows and log lines with id.
func WithRunID(id string) Option {
	return func(t *Tagger) {
		if id != "" {
			t.runID = id
		}
	}
}

// Tagger processes jobs sequentially.
type Tagger struct {
	cfg      *config.Config
	logger   *slog.Logger
	exec     services.Executor
	ffmpeg   *ffmpeg.Client
	prober   *ffprobe.Prober
	mkv      *mkvpropedit.Client
	history  *history.Store
	progress ProgressFunc
	sampler  *logging.ProgressSampler
	runID    string
	now      func() time.Time
}

// New constructs a Tagger for cfg.
func New(cfg *config.Config, opts ...Option) (*Tagger, error) {
	if cfg == nil {
		return nil, errors.New("tagger requires config")
	}
	t := &Tagger{
		cfg:     cfg,
		logger:  logging.NewNop(),
		exec:    services.CommandExecutor{},
		sampler: logging.NewProgressSampler(10),
		runID:   uuid.NewString(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = logging.NewComponentLogger(t.logger, "tagger")
	t.ffmpeg = ffmpeg.New(cfg.FFmpegBinary(), ffmpeg.WithExecutor(t.exec))
	t.prober = ffprobe.New(cfg.FFprobeBinary(), t.exec)
	t.mkv = mkvpropedit.New(cfg.MKVPropEditBinary(), mkvpropedit.WithExecutor(t.exec))
	return t, nil
}

// RunID identifies this Tagger's ledger rows.
func (t *Tagger) RunID() string {
	return t.runID
}

// Result is the outcome of one job.
type Result struct {
	Job       Job
	Container string
	Status    history.Status
	Duration  time.Duration
	Err       error
}

// Summary aggregates a batch.
type Summary struct {
	Processed int
	Failed    int
	Skipped   int
	Elapsed   time.Duration
	Results   []Result
}

// AllFailed reports whether the batch had work and none of it succeeded.
func (s Summary) AllFailed() bool {
	return s.Failed > 0 && s.Processed == 0 && s.Skipped == 0
}

// Run processes jobs in order. Per-file failures are counted, not returned.
// A cancelled context stops the batch before the next job and is returned.
func (t *Tagger) Run(ctx context.Context, jobs []Job) (Summary, error) {
	ctx = services.WithRunID(ctx, t.runID)
	start := t.now()
	summary := Summary{Results: make([]Result, 0, len(jobs))}
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = t.now().Sub(start)
			return summary, err
		}
		t.logger.Info("processing video",
			logging.String(logging.FieldVideo, job.VideoPath),
			logging.Int("index", i+1),
			logging.Int("total", len(jobs)),
		)
		result := t.Process(ctx, job)
		summary.Results = append(summary.Results, result)
		switch result.Status {
		case history.StatusSuccess:
			summary.Processed++
		case history.StatusSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}
	summary.Elapsed = t.now().Sub(start)
	t.logger.Info("batch complete",
		logging.Int("processed", summary.Processed),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

// Process tags a single video and records the outcome.
func (t *Tagger) Process(ctx context.Context, job Job) Result {
	ctx = services.WithRunID(ctx, t.runID)
	ctx = services.WithVideo(ctx, job.VideoPath)
	logger := logging.WithContext(ctx, t.logger)
	started := t.now()

	container, status, err := t.process(ctx, logger, job)
	result := Result{
		Job:       job,
		Container: container,
		Status:    status,
		Duration:  t.now().Sub(started),
		Err:       err,
	}

	switch {
	case err != nil:
		logging.ErrorWithContext(logger, "video failed", "video_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
			logging.String(logging.FieldImpact, "video left unchanged"),
		)
	case status == history.StatusSkipped:
		logger.Info("video unchanged since last run, skipped")
	default:
		logger.Info("video tagged", logging.String("container", container), logging.Duration("duration", result.Duration))
	}

	t.record(ctx, logger, result, started)
	return result
}

func (t *Tagger) record(ctx context.Context, logger *slog.Logger, result Result, started time.Time) {
	if t.history == nil {
		return
	}
	entry := history.Entry{
		RunID:      t.runID,
		VideoPath:  result.Job.VideoPath,
		Container:  result.Container,
		Status:     result.Status,
		StartedAt:  started,
		FinishedAt: started.Add(result.Duration),
	}
	if result.Err != nil {
		entry.ErrorMessage = result.Err.Error()
	}
	// The edit rewrites the file, so size and mtime are read afterwards.
	if info, err := os.Stat(result.Job.VideoPath); err == nil {
		entry.SizeBytes = info.Size()
		entry.ModTime = info.ModTime()
	}
	if _, err := t.history.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "video may be reprocessed next run"),
		)
	}
}
