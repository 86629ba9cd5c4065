package tagger

import (
	"fmt"
	"os"
	"strings"

	"nfo2tags/internal/cover"
	"nfo2tags/internal/logging"
	"nfo2tags/internal/scan"
	"nfo2tags/internal/services"
)

// Job is one video with its resolved sidecars. Empty NFOPath or CoverPath
// means none was found.
type Job struct {
	VideoPath    string
	NFOPath      string
	CoverPath    string
	OutputPath   string
	DeleteBackup bool
}

// Request carries the user's command-line choices.
type Request struct {
	Input string
	NFO   string
	Cover string
	// CoverSuffix overrides cover.suffix from config when non-empty.
	CoverSuffix  string
	Output       string
	DeleteBackup bool
}

// Plan resolves req into jobs. A directory input is walked; a file input
// yields one job.
func (t *Tagger) Plan(req Request) ([]Job, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return nil, services.Wrap(services.ErrValidation, "plan", "input", "video file or directory required", nil)
	}
	info, err := os.Stat(input)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "plan", "input", "", err)
	}
	req.Input = input
	if info.IsDir() {
		return t.PlanDirectory(req)
	}
	job, err := t.PlanFile(req)
	if err != nil {
		return nil, err
	}
	return []Job{job}, nil
}

// PlanFile resolves sidecars for a single video, honouring explicit paths.
func (t *Tagger) PlanFile(req Request) (Job, error) {
	if _, ok := scan.ContainerOf(req.Input); !ok {
		return Job{}, services.Wrap(services.ErrValidation, "plan", "container", fmt.Sprintf("%s is not an mp4 or mkv file", req.Input), nil)
	}
	logger := t.logger.With(logging.String(logging.FieldVideo, req.Input))

	job := Job{
		VideoPath:    req.Input,
		NFOPath:      scan.ResolveNFO(req.Input, req.NFO),
		OutputPath:   scan.ResolveOutput(req.Input, req.Output),
		DeleteBackup: req.DeleteBackup || t.cfg.MP4.DeleteBackup,
	}
	if job.NFOPath == "" {
		if req.NFO != "" {
			logging.WarnWithContext(logger, "nfo not found", "nfo_missing",
				logging.String("nfo", req.NFO),
				logging.String(logging.FieldImpact, "no metadata will be written"),
			)
		} else {
			logger.Debug("no sibling nfo")
		}
	}

	if req.Cover != "" {
		if err := cover.Validate(req.Cover); err != nil {
			logging.WarnWithContext(logger, "cover ignored", "cover_invalid",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "use an existing .jpg, .jpeg or .png file"),
			)
		} else {
			job.CoverPath = req.Cover
		}
	} else {
		job.CoverPath = cover.Find(req.Input, t.coverSuffix(req), t.cfg.Cover.Extensions)
	}
	return job, nil
}

// PlanDirectory walks req.Input and plans every video with sibling sidecars.
// Explicit NFO, cover and output paths cannot apply to many files and are
// ignored.
func (t *Tagger) PlanDirectory(req Request) ([]Job, error) {
	if req.NFO != "" || req.Cover != "" || req.Output != "" {
		logging.WarnWithContext(t.logger, "explicit nfo, cover and output paths ignored for directories", "plan_flags_ignored",
			logging.String(logging.FieldErrorHint, "use -N to pick the cover suffix"),
		)
	}
	videos, err := scan.Videos(req.Input, t.cfg.MP4.BackupSuffix)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "plan", "scan", "", err)
	}
	suffix := t.coverSuffix(req)
	jobs := make([]Job, 0, len(videos))
	for _, video := range videos {
		jobs = append(jobs, Job{
			VideoPath:    video.Path,
			NFOPath:      scan.ResolveNFO(video.Path, ""),
			CoverPath:    cover.Find(video.Path, suffix, t.cfg.Cover.Extensions),
			OutputPath:   video.Path,
			DeleteBackup: req.DeleteBackup || t.cfg.MP4.DeleteBackup,
		})
	}
	t.logger.Info("directory scanned", logging.String("root", req.Input), logging.Int("videos", len(jobs)))
	return jobs, nil
}

func (t *Tagger) coverSuffix(req Request) string {
	if req.CoverSuffix != "" {
		return req.CoverSuffix
	}
	if t.cfg.Cover.Suffix != "" {
		return t.cfg.Cover.Suffix
	}
	return cover.DefaultSuffix
}
