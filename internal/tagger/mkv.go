package tagger

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"nfo2tags/internal/cover"
	"nfo2tags/internal/logging"
	"nfo2tags/internal/mkvtags"
	"nfo2tags/internal/nfo"
	"nfo2tags/internal/services"
	"nfo2tags/internal/services/mkvpropedit"
)

func (t *Tagger) processMKV(ctx context.Context, job Job, meta *nfo.Metadata, art *cover.Info) error {
	logger := logging.WithContext(ctx, t.logger)
	if job.OutputPath != "" && !samePath(job.OutputPath, job.VideoPath) {
		logging.WarnWithContext(logger, "output path ignored for mkv", "mkv_output_ignored",
			logging.String("output", job.OutputPath),
			logging.String(logging.FieldImpact, "mkv files are edited in place"),
		)
	}

	req := mkvpropedit.EditRequest{File: job.VideoPath}
	if meta != nil {
		tagsPath := filepath.Join(t.cfg.Paths.TempDir, "nfo2tags-"+uuid.NewString()+".xml")
		defer func() {
			if err := os.Remove(tagsPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				logger.Warn("remove temp tags file failed", logging.String("path", tagsPath), logging.Error(err))
			}
		}()
		if err := mkvtags.Convert(job.NFOPath, tagsPath); err != nil {
			if errors.Is(err, mkvtags.ErrParse) {
				return services.Wrap(services.ErrValidation, "mkv", "convert nfo", "", err)
			}
			return services.Wrap(services.ErrTransient, "mkv", "write tags", "", err)
		}
		req.Title = meta.Title
		req.TagsPath = tagsPath
	}

	if art != nil {
		if t.cfg.MKV.ReplaceAttachments {
			t.deleteCovers(ctx, job.VideoPath)
		}
		req.Cover = &mkvpropedit.Attachment{
			Path: art.Path,
			Name: art.AttachmentName(),
			MIME: art.MIME,
		}
	}

	outcome, err := t.mkv.Apply(ctx, req)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "mkv", "mkvpropedit", "", err)
	}
	for _, warning := range outcome.Warnings {
		logger.Warn("mkvpropedit warning", logging.String("detail", warning))
	}
	return nil
}

// deleteCovers removes artwork from earlier runs so covers do not pile up.
func (t *Tagger) deleteCovers(ctx context.Context, file string) {
	logger := logging.WithContext(ctx, t.logger)
	for _, mime := range []string{cover.MIMEJPEG, cover.MIMEPNG} {
		if _, err := t.mkv.DeleteAttachments(ctx, file, mime); err != nil {
			logging.WarnWithContext(logger, "delete previous cover failed", "cover_delete_failed",
				logging.String("mime", mime),
				logging.Error(err),
				logging.String(logging.FieldImpact, "old cover may remain alongside the new one"),
			)
		}
	}
}
