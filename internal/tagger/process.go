package tagger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"nfo2tags/internal/cover"
	"nfo2tags/internal/history"
	"nfo2tags/internal/logging"
	"nfo2tags/internal/nfo"
	"nfo2tags/internal/scan"
	"nfo2tags/internal/services"
)

func (t *Tagger) process(ctx context.Context, logger *slog.Logger, job Job) (string, history.Status, error) {
	container, ok := scan.ContainerOf(job.VideoPath)
	if !ok {
		err := services.Wrap(services.ErrValidation, "plan", "container", fmt.Sprintf("%s is not an mp4 or mkv file", job.VideoPath), nil)
		return "", services.FailureStatus(err), err
	}
	info, err := os.Stat(job.VideoPath)
	if err != nil {
		wrapped := services.Wrap(services.ErrNotFound, "plan", "stat video", "", err)
		return string(container), services.FailureStatus(wrapped), wrapped
	}

	if skip, err := t.unchanged(ctx, job.VideoPath, info); err != nil {
		logging.WarnWithContext(logger, "history lookup failed", "history_read_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "video processed without skip check"),
		)
	} else if skip {
		return string(container), history.StatusSkipped, nil
	}

	meta, err := t.loadMetadata(job)
	if err != nil {
		return string(container), services.FailureStatus(err), err
	}
	art, err := t.loadCover(job)
	if err != nil {
		return string(container), services.FailureStatus(err), err
	}
	if meta == nil && art == nil {
		err := services.Wrap(services.ErrNotFound, "plan", "sidecars", "no nfo or cover image for video", nil)
		return string(container), services.FailureStatus(err), err
	}
	if meta == nil {
		logger.Info("no nfo found, adding cover only")
	}

	switch container {
	case scan.ContainerMP4:
		err = t.processMP4(services.WithStage(ctx, "mp4"), job, meta, art)
	case scan.ContainerMKV:
		err = t.processMKV(services.WithStage(ctx, "mkv"), job, meta, art)
	}
	if err != nil {
		return string(container), services.FailureStatus(err), err
	}
	return string(container), history.StatusSuccess, nil
}

func (t *Tagger) unchanged(ctx context.Context, videoPath string, info os.FileInfo) (bool, error) {
	if t.history == nil || !t.cfg.History.SkipUnchanged {
		return false, nil
	}
	last, err := t.history.LastSuccess(ctx, videoPath)
	if err != nil || last == nil {
		return false, err
	}
	return last.Matches(info.Size(), info.ModTime()), nil
}

func (t *Tagger) loadMetadata(job Job) (*nfo.Metadata, error) {
	if job.NFOPath == "" {
		return nil, nil
	}
	meta, err := nfo.Load(job.NFOPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "nfo", "load", job.NFOPath, err)
		}
		return nil, services.Wrap(services.ErrValidation, "nfo", "parse", "", err)
	}
	if t.cfg.Metadata.StripMarkup {
		meta = nfo.Plain(meta)
	}
	return &meta, nil
}

func (t *Tagger) loadCover(job Job) (*cover.Info, error) {
	if job.CoverPath == "" {
		return nil, nil
	}
	info, err := cover.Inspect(job.CoverPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "cover", "inspect", "", err)
		}
		return nil, services.Wrap(services.ErrValidation, "cover", "inspect", "", err)
	}
	return &info, nil
}
