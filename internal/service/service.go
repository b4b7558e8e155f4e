package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/MimeLyc/mkv-organizer/internal/config"
	"github.com/MimeLyc/mkv-organizer/internal/jobs"
	"github.com/MimeLyc/mkv-organizer/internal/library"
	"github.com/MimeLyc/mkv-organizer/internal/media"
	"github.com/MimeLyc/mkv-organizer/internal/report"
	"github.com/MimeLyc/mkv-organizer/pkg/icron"
	"github.com/MimeLyc/mkv-organizer/pkg/log"
)

// Service runs whole organize passes over the configured root.
type Service struct {
	cfg    config.Config
	muxer  media.Muxer
	locate func(string) (string, error)
	out    io.Writer
	group  singleflight.Group
}

type Option func(*Service)

// WithMuxer replaces the mkvmerge muxer. The configured muxer path is still
// checked before a run.
func WithMuxer(m media.Muxer) Option {
	return func(s *Service) {
		s.muxer = m
	}
}

// WithLocator replaces media.LocateMuxer.
func WithLocator(locate func(string) (string, error)) Option {
	return func(s *Service) {
		s.locate = locate
	}
}

// WithOutput sets where the summary tables are written (default stdout).
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		s.out = w
	}
}

func New(cfg config.Config, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		locate: media.LocateMuxer,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one pass: check the muxer, discover videos, process them on
// the worker pool and print the summary. Only fatal errors are returned;
// per-video failures are part of the summary.
func (s *Service) Run(ctx context.Context) (*report.Summary, error) {
	start := time.Now()
	runID := uuid.NewString()

	muxerPath, err := s.locate(s.cfg.MkvmergePath)
	if err != nil {
		return nil, WrapError(err, ErrMissingTool, "mkvmerge not available").
			WithContext("path", s.cfg.MkvmergePath)
	}
	muxer := s.muxer
	if muxer == nil {
		muxer = media.NewMKVMerge(muxerPath)
	}

	mode := "live"
	if s.cfg.DryRun {
		mode = "dry-run"
	}
	log.Info("Run %s: source=%s output=%s muxer=%s mode=%s jobs=%d delete_originals=%t",
		runID, s.cfg.RootFolder, s.cfg.OutputRoot, muxerPath, mode, s.cfg.ConcurrentJobs, s.cfg.DeleteOriginals)

	videos, err := library.NewScanner(s.cfg.RootFolder, s.cfg.ExtVideo).Scan(ctx)
	if err != nil {
		return nil, WrapError(err, ErrConfig, "scan root folder").WithContext("root", s.cfg.RootFolder)
	}
	log.Info("Found %d videos in %s (%s)", len(videos), s.cfg.RootFolder, time.Since(start).Round(time.Millisecond))

	summary := &report.Summary{RunID: runID, DryRun: s.cfg.DryRun}
	if len(videos) == 0 {
		log.Warn("No videos found in %s, nothing to do", s.cfg.RootFolder)
		summary.Elapsed = time.Since(start)
		return summary, nil
	}

	organizer := NewOrganizer(s.cfg, muxer)
	dispatcher := jobs.NewDispatcher(s.cfg.ConcurrentJobs, jobs.WithCallback(logRecord))
	tally := dispatcher.Dispatch(videos, organizer.ProcessOne)

	summary.Success = tally.Success
	summary.Skipped = tally.Skipped
	summary.Failed = tally.Failed
	for _, rec := range dispatcher.Results() {
		summary.Deleted += rec.Outcome.DeletedCount
		summary.Items = append(summary.Items, summaryItem(rec))
	}
	summary.Elapsed = time.Since(start)

	if err := summary.RenderItems(s.out); err != nil {
		log.Warn("Failed to write item report: %v", err)
	}
	if err := summary.Render(s.out); err != nil {
		log.Warn("Failed to write summary: %v", err)
	}

	return summary, nil
}

// Schedule registers Run on c under the configured cron expression. A tick
// that fires while a pass is still running is dropped.
func (s *Service) Schedule(ctx context.Context, c *cron.Cron) error {
	if _, err := icron.Parse(s.cfg.Schedule); err != nil {
		return WrapError(err, ErrConfig, "invalid schedule").WithContext("schedule", s.cfg.Schedule)
	}

	_, err := c.AddFunc(s.cfg.Schedule, func() {
		s.runScheduled(ctx)
	})
	if err != nil {
		return WrapError(err, ErrConfig, "register schedule")
	}

	if info, err := icron.GetTriggerInfo(s.cfg.Schedule, time.Now()); err == nil {
		log.Info("Scheduled with %q, next run at %s (in %s)",
			info.Expression, info.Next.Format(time.DateTime), info.TimeUntilNext.Round(time.Second))
	}
	return nil
}

func (s *Service) runScheduled(ctx context.Context) {
	_, _, _ = s.group.Do("run", func() (any, error) {
		summary, err := s.Run(ctx)
		if err != nil {
			LogError(err)
		}
		return summary, err
	})
}

func logRecord(rec jobs.Record[Outcome]) {
	switch {
	case rec.Err != nil:
		log.Error("FAILED %s: %v", rec.Item, rec.Err)
	case rec.Status == StatusFailed:
		log.Error("FAILED %s: %v", rec.Item, rec.Outcome.Reason)
	}
}

func summaryItem(rec jobs.Record[Outcome]) report.Item {
	item := report.Item{
		Video:         rec.Item,
		Status:        string(rec.Status),
		SubtitleCount: rec.Outcome.SubtitleCount,
		AudioCount:    rec.Outcome.AudioCount,
	}
	switch {
	case rec.Err != nil:
		item.Detail = rec.Err.Error()
	case rec.Outcome.Reason != nil:
		item.Detail = rec.Outcome.Reason.Error()
	case rec.Status == StatusSkipped:
		item.Detail = "already exists"
	case rec.Outcome.SubtitleCount+rec.Outcome.AudioCount == 0:
		item.Detail = "no extra assets"
	default:
		item.Detail = fmt.Sprintf("-> %s", rec.Outcome.Output)
	}
	return item
}
