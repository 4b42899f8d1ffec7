package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

// ── Triggers (cron + seed file watch) ──────────────────────
// By default the pipeline only runs when a request asks for it. Both
// triggers here are opt-in via config and off when empty.

// TriggerConfig holds the optional pipeline triggers.
type TriggerConfig struct {
	// Schedule is a cron expression; the pipeline runs on it when set.
	Schedule string
	// WatchSeed is a CSV/JSON people file; on change the input store is
	// reseeded from it and the pipeline runs.
	WatchSeed string
}

// StartTriggers installs the configured cron schedule and seed file watcher.
func (s *PipelineService) StartTriggers(ctx context.Context, cfg TriggerConfig) error {
	if cfg.Schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.Schedule, func() {
			s.log.Info().Str("schedule", cfg.Schedule).Msg("scheduled pipeline run")
			if _, err := s.RunPipeline(ctx); err != nil {
				s.log.Error().Err(err).Msg("scheduled pipeline run failed")
			}
		}); err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", cfg.Schedule, err)
		}
		c.Start()
		s.cronSched = c
	}

	if cfg.WatchSeed != "" {
		if err := s.startSeedWatcher(ctx, cfg.WatchSeed); err != nil {
			s.Stop()
			return err
		}
	}

	return nil
}

func (s *PipelineService) startSeedWatcher(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("bad seed path %q: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors replace files rather than write in place.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %q: %w", filepath.Dir(absPath), err)
	}
	s.watcher = watcher

	watchCtx, cancel := context.WithCancel(context.Background())
	s.watchCancel = cancel

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if got, _ := filepath.Abs(event.Name); got != absPath {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(500*time.Millisecond, func() {
					n, err := s.SeedFromFile(ctx, absPath)
					if err != nil {
						s.log.Error().Err(err).Str("path", absPath).Msg("reseed from file failed")
						return
					}
					s.log.Info().Int("people", n).Str("path", absPath).Msg("reseeded input store from file")
					if _, err := s.RunPipeline(ctx); err != nil {
						s.log.Error().Err(err).Msg("pipeline run after reseed failed")
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Error().Err(err).Msg("seed watcher error")
			}
		}
	}()

	s.log.Info().Str("path", absPath).Msg("watching seed file")
	return nil
}

// Stop tears down the watcher and scheduler.
func (s *PipelineService) Stop() {
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
	if s.cronSched != nil {
		s.cronSched.Stop()
		s.cronSched = nil
	}
}
