package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"peoplemover/internal/domain"
	"peoplemover/internal/pipeline"
	"peoplemover/internal/seed"
)

// ─────────────────────────────────────────────────────────────
// PipelineService — business logic for seeding, running the
// pipeline, and querying either store
// ─────────────────────────────────────────────────────────────

// maxRunHistory bounds the in-memory run log.
const maxRunHistory = 50

// PipelineService owns the two stores and the pipeline runner. Store handles
// are injected once at startup; nothing here is process-wide state.
type PipelineService struct {
	source domain.SourceStore
	dest   domain.DestinationStore
	runner *pipeline.Runner
	log    zerolog.Logger

	runningRuns runGuard

	historyMu sync.Mutex
	history   []pipeline.RunResult

	// trigger lifecycle, see triggers.go
	watchCancel context.CancelFunc
	watcher     *fsnotify.Watcher
	cronSched   *cron.Cron
}

// NewPipelineService creates a PipelineService ready for use.
func NewPipelineService(
	source domain.SourceStore,
	dest domain.DestinationStore,
	classifier pipeline.Classifier,
	log zerolog.Logger,
) *PipelineService {
	return &PipelineService{
		source: source,
		dest:   dest,
		runner: &pipeline.Runner{Source: source, Dest: dest, Classifier: classifier},
		log:    log,
	}
}

// ── Seeding ────────────────────────────────────────────────

// SeedSample drops and recreates the input store, then loads the fixed
// sample records.
func (s *PipelineService) SeedSample(ctx context.Context) error {
	if err := s.source.DropSchema(ctx); err != nil {
		return err
	}
	if err := s.source.CreateSchema(ctx); err != nil {
		return err
	}
	return s.source.InsertMany(ctx, seed.SamplePeople())
}

// SeedFiller bulk-inserts n identical filler records into the input store.
// The schema is not created here; inserting into a never-created store fails.
func (s *PipelineService) SeedFiller(ctx context.Context, n int) error {
	return s.source.InsertMany(ctx, seed.FillerPeople(n))
}

// SeedFromFile replaces the input store's content with records read from a
// CSV or JSON file.
func (s *PipelineService) SeedFromFile(ctx context.Context, path string) (int, error) {
	people, err := seed.LoadFile(path)
	if err != nil {
		return 0, fmt.Errorf("load seed file: %w", err)
	}
	if err := s.source.DropSchema(ctx); err != nil {
		return 0, err
	}
	if err := s.source.CreateSchema(ctx); err != nil {
		return 0, err
	}
	if err := s.source.InsertMany(ctx, people); err != nil {
		return 0, err
	}
	return len(people), nil
}

// ── Run ────────────────────────────────────────────────────

// RunPipeline executes one pipeline run synchronously. Concurrent runs are
// rejected: they would race on the destination drop/recreate.
func (s *PipelineService) RunPipeline(ctx context.Context) (*pipeline.RunResult, error) {
	if !s.runningRuns.TryLock() {
		return nil, fmt.Errorf("a pipeline run is already in progress")
	}
	defer s.runningRuns.Unlock()

	result, err := s.runner.Run(ctx)
	if result != nil {
		s.recordRun(*result)
	}
	return result, err
}

func (s *PipelineService) recordRun(r pipeline.RunResult) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	s.history = append(s.history, r)
	if len(s.history) > maxRunHistory {
		s.history = s.history[len(s.history)-maxRunHistory:]
	}
}

// RunHistory returns the recorded runs, most recent first.
func (s *PipelineService) RunHistory() []pipeline.RunResult {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	out := make([]pipeline.RunResult, len(s.history))
	for i, r := range s.history {
		out[len(s.history)-1-i] = r
	}
	return out
}

// ── Queries ────────────────────────────────────────────────

// OutputPersonView is an output record as serialized to clients, with the
// derived first_name field computed at serialization time.
type OutputPersonView struct {
	domain.OutputPerson
	FirstName string `json:"first_name"`
}

// ListSource returns every record in the input store.
func (s *PipelineService) ListSource(ctx context.Context) ([]domain.Person, error) {
	return s.source.QueryAll(ctx)
}

// ListDestination returns every record in the output store with first_name
// computed from name. A tokenless name fails the whole listing.
func (s *PipelineService) ListDestination(ctx context.Context) ([]OutputPersonView, error) {
	people, err := s.dest.QueryAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]OutputPersonView, 0, len(people))
	for _, p := range people {
		first, err := domain.FirstName(p.Name)
		if err != nil {
			return nil, err
		}
		views = append(views, OutputPersonView{OutputPerson: p, FirstName: first})
	}
	return views, nil
}

// WaitRunning blocks until any in-flight pipeline run finishes or ctx is
// cancelled. Used for graceful shutdown.
func (s *PipelineService) WaitRunning(ctx context.Context) {
	s.runningRuns.WaitAll(ctx)
}
