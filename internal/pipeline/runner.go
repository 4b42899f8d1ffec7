package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"peoplemover/internal/domain"
)

// ── Runner ─────────────────────────────────────────────────
// Orchestrates one full pipeline run: drop/recreate the destination schema,
// read every source record, classify each one, and load the results in a
// single committed batch. Destination content is always a full replacement.

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"` // "success" | "error"
	Processed  int           `json:"processed"`
	Cool       int           `json:"cool"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
}

// Runner executes pipeline runs against a fixed pair of stores.
type Runner struct {
	Source     domain.SourceStore
	Dest       domain.DestinationStore
	Classifier Classifier
}

// Run executes the pipeline end-to-end.
//
// The destination is dropped and recreated before the source is read, so a
// failing read leaves an empty destination schema behind. That destructive
// order matches the observed behavior of the service and is deliberate; there
// is no rollback.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{ID: uuid.New().String(), StartedAt: time.Now()}

	if err := r.Dest.DropSchema(ctx); err != nil {
		return result.fail(fmt.Errorf("drop destination: %w", err))
	}
	if err := r.Dest.CreateSchema(ctx); err != nil {
		return result.fail(fmt.Errorf("recreate destination: %w", err))
	}

	people, err := r.Source.QueryAll(ctx)
	if err != nil {
		return result.fail(fmt.Errorf("read source: %w", err))
	}

	out := make([]domain.OutputPerson, 0, len(people))
	for _, p := range people {
		cool := r.Classifier.Classify(p)
		if cool {
			result.Cool++
		}
		// Fields are copied verbatim; the destination store assigns a
		// fresh, store-local id.
		out = append(out, domain.OutputPerson{
			Person: domain.Person{
				Name:     p.Name,
				Nickname: p.Nickname,
				Gender:   p.Gender,
				Age:      p.Age,
			},
			IsCool: cool,
		})
		result.Processed++
	}

	// Buffered load, committed once at the end.
	if err := r.Dest.InsertMany(ctx, out); err != nil {
		return result.fail(fmt.Errorf("write destination: %w", err))
	}

	result.Status = "success"
	result.FinishedAt = time.Now()
	result.Duration = result.FinishedAt.Sub(result.StartedAt)
	return result, nil
}

func (r *RunResult) fail(err error) (*RunResult, error) {
	r.Status = "error"
	r.Error = err.Error()
	r.FinishedAt = time.Now()
	r.Duration = r.FinishedAt.Sub(r.StartedAt)
	return r, err
}
