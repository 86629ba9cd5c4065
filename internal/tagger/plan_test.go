package tagger_test

import (
	"errors"
	"path/filepath"
	"testing"

	"nfo2tags/internal/services"
	"nfo2tags/internal/tagger"
	"nfo2tags/internal/testsupport"
)

func TestPlanFileResolvesSiblings(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	video := filepath.Join(dir, "Heat.mp4")
	testsupport.WriteText(t, video, "v")
	testsupport.WriteNFO(t, filepath.Join(dir, "Heat.nfo"))
	testsupport.WriteImage(t, filepath.Join(dir, "Heat-art.png"), 4, 4)

	tg := newTagger(t, cfg, &stubExecutor{})
	job, err := tg.PlanFile(tagger.Request{Input: video, CoverSuffix: "-art", DeleteBackup: true})
	if err != nil {
		t.Fatalf("PlanFile failed: %v", err)
	}
	want := tagger.Job{
		VideoPath:    video,
		NFOPath:      filepath.Join(dir, "Heat.nfo"),
		CoverPath:    filepath.Join(dir, "Heat-art.png"),
		OutputPath:   video,
		DeleteBackup: true,
	}
	if job != want {
		t.Fatalf("unexpected job\n got %#v\nwant %#v", job, want)
	}
}

func TestPlanFileExplicitPaths(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.MP4.DeleteBackup = true
	dir := t.TempDir()
	video := filepath.Join(dir, "Heat.mp4")
	testsupport.WriteText(t, video, "v")
	nfoPath := filepath.Join(dir, "meta", "movie.nfo")
	testsupport.WriteNFO(t, nfoPath)
	coverPath := filepath.Join(dir, "art", "folder.jpg")
	testsupport.WriteImage(t, coverPath, 4, 4)

	tg := newTagger(t, cfg, &stubExecutor{})
	job, err := tg.PlanFile(tagger.Request{Input: video, NFO: nfoPath, Cover: coverPath, Output: filepath.Join(dir, "out.mp4")})
	if err != nil {
		t.Fatalf("PlanFile failed: %v", err)
	}
	if job.NFOPath != nfoPath || job.CoverPath != coverPath || job.OutputPath != filepath.Join(dir, "out.mp4") {
		t.Fatalf("explicit paths not honoured: %#v", job)
	}
	if !job.DeleteBackup {
		t.Fatal("expected delete_backup from config")
	}
}

func TestPlanFileDropsMissingExplicitSidecars(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	video := filepath.Join(dir, "Heat.mkv")
	testsupport.WriteText(t, video, "v")
	testsupport.WriteText(t, filepath.Join(dir, "cover.gif"), "gif")

	tg := newTagger(t, cfg, &stubExecutor{})
	job, err := tg.PlanFile(tagger.Request{
		Input: video,
		NFO:   filepath.Join(dir, "missing.nfo"),
		Cover: filepath.Join(dir, "cover.gif"),
	})
	if err != nil {
		t.Fatalf("PlanFile failed: %v", err)
	}
	if job.NFOPath != "" || job.CoverPath != "" {
		t.Fatalf("expected missing sidecars to be dropped: %#v", job)
	}
}

func TestPlanRejectsBadInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	avi := filepath.Join(dir, "Heat.avi")
	testsupport.WriteText(t, avi, "v")
	tg := newTagger(t, cfg, &stubExecutor{})

	if _, err := tg.Plan(tagger.Request{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty input, got %v", err)
	}
	if _, err := tg.Plan(tagger.Request{Input: filepath.Join(dir, "nope.mkv")}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := tg.Plan(tagger.Request{Input: avi}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for avi, got %v", err)
	}
}

func TestPlanDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	testsupport.WriteText(t, filepath.Join(dir, "Movies", "Heat.mkv"), "v")
	testsupport.WriteNFO(t, filepath.Join(dir, "Movies", "Heat.nfo"))
	testsupport.WriteImage(t, filepath.Join(dir, "Movies", "Heat-poster.jpg"), 4, 4)
	testsupport.WriteText(t, filepath.Join(dir, "Movies", "Alien.mp4"), "v")
	testsupport.WriteText(t, filepath.Join(dir, "Movies", "Alien.OLD.mp4"), "v")
	testsupport.WriteText(t, filepath.Join(dir, ".trash", "Old.mkv"), "v")

	tg := newTagger(t, cfg, &stubExecutor{})
	jobs, err := tg.Plan(tagger.Request{Input: dir, Cover: "ignored.jpg"})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %#v", jobs)
	}
	if jobs[0].VideoPath != filepath.Join(dir, "Movies", "Alien.mp4") || jobs[0].NFOPath != "" || jobs[0].CoverPath != "" {
		t.Fatalf("unexpected first job %#v", jobs[0])
	}
	if jobs[1].NFOPath != filepath.Join(dir, "Movies", "Heat.nfo") || jobs[1].CoverPath != filepath.Join(dir, "Movies", "Heat-poster.jpg") {
		t.Fatalf("unexpected second job %#v", jobs[1])
	}
	if jobs[1].OutputPath != jobs[1].VideoPath {
		t.Fatalf("directory jobs write in place, got %#v", jobs[1])
	}
}
