package tagger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nfo2tags/internal/cover"
	"nfo2tags/internal/logging"
	"nfo2tags/internal/nfo"
	"nfo2tags/internal/scan"
	"nfo2tags/internal/services"
	"nfo2tags/internal/services/ffmpeg"
)

// metadataPairs maps extracted metadata onto ffmpeg's MP4 metadata keys.
func metadataPairs(meta *nfo.Metadata) []ffmpeg.Pair {
	if meta == nil {
		return nil
	}
	return []ffmpeg.Pair{
		{Key: "title", Value: meta.Title},
		{Key: "genre", Value: meta.GenreList()},
		{Key: "keywords", Value: meta.TagList()},
		{Key: "description", Value: meta.Plot},
		{Key: "synopsis", Value: meta.Outline},
		{Key: "date", Value: meta.Date()},
		{Key: "media_type", Value: meta.MediaType()},
	}
}

func (t *Tagger) processMP4(ctx context.Context, job Job, meta *nfo.Metadata, art *cover.Info) error {
	logger := logging.WithContext(ctx, t.logger)
	output := scan.ResolveOutput(job.VideoPath, job.OutputPath)
	inPlace := samePath(output, job.VideoPath)

	input := job.VideoPath
	var backup string
	if inPlace {
		backup = scan.BackupPath(job.VideoPath, t.cfg.MP4.BackupSuffix)
		if _, err := os.Stat(backup); err == nil {
			logger.Warn("replacing existing backup", logging.String("backup", backup))
		}
		if err := os.Rename(job.VideoPath, backup); err != nil {
			return services.Wrap(services.ErrTransient, "mp4", "backup", "", err)
		}
		input = backup
		logger.Debug("video moved to backup", logging.String("backup", backup))
	}

	restore := func(cause error) error {
		if removeErr := os.Remove(output); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			logger.Warn("remove partial output failed", logging.String("output", output), logging.Error(removeErr))
		}
		if inPlace {
			if renameErr := os.Rename(backup, job.VideoPath); renameErr != nil {
				return fmt.Errorf("%w (restore backup %s: %v)", cause, backup, renameErr)
			}
		}
		return cause
	}

	req := ffmpeg.RemuxRequest{
		Input:    input,
		Output:   output,
		Metadata: metadataPairs(meta),
		Duration: t.probeDuration(ctx, input),
	}
	if art != nil {
		req.Cover = art.Path
	}

	t.sampler.Reset()
	err := t.ffmpeg.Remux(ctx, req, func(update ffmpeg.ProgressUpdate) {
		t.reportProgress(ctx, job, update)
	})
	if err != nil {
		return restore(services.Wrap(services.ErrExternalTool, "mp4", "remux", "", err))
	}

	if t.cfg.MP4.VerifyOutput {
		if err := t.verify(ctx, output); err != nil {
			return restore(err)
		}
	}

	if inPlace && job.DeleteBackup {
		if err := os.Remove(backup); err != nil {
			logger.Warn("delete backup failed", logging.String("backup", backup), logging.Error(err))
		} else {
			logger.Debug("backup deleted", logging.String("backup", backup))
		}
	}
	return nil
}

func (t *Tagger) probeDuration(ctx context.Context, path string) time.Duration {
	result, err := t.prober.Inspect(ctx, path)
	if err != nil {
		logging.WithContext(ctx, t.logger).Debug("duration probe failed, progress percentage unavailable", logging.Error(err))
		return 0
	}
	return result.Duration()
}

// verify confirms the remuxed file still carries a video stream. A missing
// or failing ffprobe only logs, since ffprobe is optional.
func (t *Tagger) verify(ctx context.Context, output string) error {
	result, err := t.prober.Inspect(ctx, output)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, t.logger), "output verification skipped", "verify_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "install ffprobe or set mp4.verify_output = false"),
		)
		return nil
	}
	if result.VideoStreamCount() == 0 {
		return services.Wrap(services.ErrExternalTool, "mp4", "verify", fmt.Sprintf("%s has no video stream", output), nil)
	}
	return nil
}

func (t *Tagger) reportProgress(ctx context.Context, job Job, update ffmpeg.ProgressUpdate) {
	if t.progress != nil {
		t.progress(job, update)
		return
	}
	stage := "remux"
	if update.Done {
		stage = "done"
	}
	if !t.sampler.ShouldLog(update.Percent, stage) {
		return
	}
	attrs := []logging.Attr{logging.Duration("elapsed", update.Elapsed)}
	if update.Percent >= 0 {
		attrs = append(attrs, logging.Float64("percent", update.Percent))
	}
	logging.WithContext(ctx, t.logger).Info("remux progress", logging.Args(attrs...)...)
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
