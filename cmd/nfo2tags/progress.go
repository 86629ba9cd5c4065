package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/mattn/go-isatty"

	"nfo2tags/internal/services/ffmpeg"
	"nfo2tags/internal/tagger"
)

// percentScale turns float percentages into tracker integer units.
const percentScale = 10

// progressBar draws one tracker per remuxed MP4.
type progressBar struct {
	pw      progress.Writer
	tracker *progress.Tracker
	current string
}

func newProgressBar(out io.Writer) *progressBar {
	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(200 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Value = false
	go pw.Render()
	return &progressBar{pw: pw}
}

func (b *progressBar) update(job tagger.Job, update ffmpeg.ProgressUpdate) {
	if b.current != job.VideoPath {
		b.finishTracker()
		b.tracker = &progress.Tracker{
			Message: filepath.Base(job.VideoPath),
			Total:   100 * percentScale,
			Units:   progress.UnitsDefault,
		}
		b.pw.AppendTracker(b.tracker)
		b.current = job.VideoPath
	}
	if update.Percent >= 0 {
		b.tracker.SetValue(int64(update.Percent * percentScale))
	}
	if update.Done {
		b.tracker.MarkAsDone()
	}
}

func (b *progressBar) finishTracker() {
	if b.tracker != nil && !b.tracker.IsDone() {
		b.tracker.MarkAsDone()
	}
}

func (b *progressBar) stop() {
	b.finishTracker()
	// Let the renderer draw the final state before stopping it.
	time.Sleep(250 * time.Millisecond)
	b.pw.Stop()
	for b.pw.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
