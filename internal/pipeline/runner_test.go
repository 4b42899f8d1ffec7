package pipeline_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"peoplemover/internal/domain"
	"peoplemover/internal/pipeline"
	"peoplemover/internal/seed"
	"peoplemover/internal/storage"
)

func newRunner(t *testing.T) (*pipeline.Runner, domain.SourceStore, domain.DestinationStore) {
	t.Helper()
	dir := t.TempDir()

	src, err := storage.OpenSource(storage.DriverSQLite, filepath.Join(dir, "input.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	dst, err := storage.OpenDestination(storage.DriverSQLite, filepath.Join(dir, "output.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { dst.Close() })

	return &pipeline.Runner{Source: src, Dest: dst, Classifier: pipeline.DefaultClassifier()}, src, dst
}

func seedSource(t *testing.T, src domain.SourceStore) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, src.CreateSchema(ctx))
	require.NoError(t, src.InsertMany(ctx, seed.SamplePeople()))
}

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()
	r, src, dst := newRunner(t)
	seedSource(t, src)

	result, err := r.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, "success", result.Status)
	require.Equal(t, 3, result.Processed)
	require.Equal(t, 1, result.Cool)
	require.NotEmpty(t, result.ID)

	people, err := dst.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, people, 3)
	for _, p := range people {
		require.Equal(t, p.Nickname == "Fonzie", p.IsCool, "person %+v", p)
	}
}

func TestRunner_RunTwiceReplaces(t *testing.T) {
	ctx := context.Background()
	r, src, dst := newRunner(t)
	seedSource(t, src)

	_, err := r.Run(ctx)
	require.NoError(t, err)
	result, err := r.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, result.Processed)

	// Only the second run's output remains; no accumulation.
	people, err := dst.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, people, 3)
}

func TestRunner_SourceUnavailable(t *testing.T) {
	ctx := context.Background()
	r, _, dst := newRunner(t)

	result, err := r.Run(ctx)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	require.Equal(t, "error", result.Status)
	require.NotEmpty(t, result.Error)

	// The destination drop/recreate happens before the source read, so a
	// failed run leaves an empty destination schema behind. Documented,
	// not rolled back.
	people, err := dst.QueryAll(ctx)
	require.NoError(t, err)
	require.Empty(t, people)
}

func TestRunner_EmptySource(t *testing.T) {
	ctx := context.Background()
	r, src, dst := newRunner(t)
	require.NoError(t, src.CreateSchema(ctx))

	result, err := r.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, result.Processed)
	require.Equal(t, 0, result.Cool)

	people, err := dst.QueryAll(ctx)
	require.NoError(t, err)
	require.Empty(t, people)
}

func TestRunner_CustomClassifier(t *testing.T) {
	ctx := context.Background()
	r, src, _ := newRunner(t)
	seedSource(t, src)

	// The rule is swappable without touching orchestration.
	r.Classifier = pipeline.ClassifierFunc(func(p domain.Person) bool { return p.Gender == "female" })

	result, err := r.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, result.Processed)
	require.Equal(t, 1, result.Cool)
}
