package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"nfo2tags/internal/config"
	"nfo2tags/internal/deps"
	"nfo2tags/internal/history"
	"nfo2tags/internal/logging"
	"nfo2tags/internal/runlock"
	"nfo2tags/internal/services"
	"nfo2tags/internal/tagger"
)

type tagOptions struct {
	video         string
	nfo           string
	cover         string
	coverSuffix   string
	output        string
	deleteBackup  bool
	skipUnchanged bool
	noProgress    bool
}

func runTag(cmd *cobra.Command, ctx *commandContext, opts tagOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if opts.skipUnchanged {
		cfg.History.Enabled = true
		cfg.History.SkipUnchanged = true
	}

	logger, closer, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	if missing := deps.MissingRequired(deps.CheckBinaries(deps.Requirements(cfg))); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, status := range missing {
			names = append(names, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
		}
		return services.Wrap(services.ErrConfiguration, "startup", "dependencies",
			"missing required tools: "+strings.Join(names, ", ")+"; run nfo2tags status", nil)
	}

	lock, err := runlock.Acquire(cfg.LockPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release run lock failed", logging.Error(err))
		}
	}()

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	runCtx = services.WithRunID(runCtx, runID)
	logging.WithContext(runCtx, logger).Debug("run started",
		logging.String("config", ctx.configPath),
		logging.String("lock", lock.Path()),
	)

	taggerOpts := []tagger.Option{tagger.WithLogger(logger), tagger.WithRunID(runID)}
	if store := openHistory(runCtx, cfg, logger); store != nil {
		defer store.Close()
		taggerOpts = append(taggerOpts, tagger.WithHistory(store))
	}

	stderr := cmd.ErrOrStderr()
	if !opts.noProgress && isTerminal(stderr) {
		bar := newProgressBar(stderr)
		defer bar.stop()
		taggerOpts = append(taggerOpts, tagger.WithProgress(bar.update))
	}

	tg, err := tagger.New(cfg, taggerOpts...)
	if err != nil {
		return err
	}
	jobs, err := tg.Plan(tagger.Request{
		Input:        opts.video,
		NFO:          opts.nfo,
		Cover:        opts.cover,
		CoverSuffix:  opts.coverSuffix,
		Output:       opts.output,
		DeleteBackup: opts.deleteBackup,
	})
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No MP4 or MKV files found in %s\n", opts.video)
		return nil
	}

	summary, runErr := tg.Run(runCtx, jobs)
	renderSummary(cmd.OutOrStdout(), summary, isTerminal(cmd.OutOrStdout()))
	if runErr != nil {
		return runErr
	}
	if summary.AllFailed() {
		return fmt.Errorf("all %d videos failed; see %s", summary.Failed, cfg.LogPath())
	}
	return nil
}

// openHistory returns nil when the ledger is disabled or unusable. A broken
// ledger must not stop tagging.
func openHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(ctx, cfg.HistoryPath())
	if err != nil {
		logging.WarnWithContext(logger, "history disabled for this run", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "outcomes not recorded"),
		)
		return nil
	}
	return store
}

func renderSummary(out io.Writer, summary tagger.Summary, colorize bool) {
	if len(summary.Results) == 0 {
		return
	}
	rows := make([][]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		detail := ""
		if result.Err != nil {
			detail = truncate(result.Err.Error(), 80)
		}
		rows = append(rows, []string{
			filepath.Base(result.Job.VideoPath),
			result.Container,
			statusCell(result.Status, colorize),
			formatDuration(result.Duration),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Video", "Container", "Status", "Time", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Fprintf(out, "%d tagged, %d failed, %d skipped in %s\n",
		summary.Processed, summary.Failed, summary.Skipped, formatDuration(summary.Elapsed))
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-1]) + "…"
}
