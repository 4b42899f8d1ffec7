package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"peoplemover/internal/domain"
	"peoplemover/internal/seed"
	"peoplemover/internal/storage"
)

func newSourceStore(t *testing.T) domain.SourceStore {
	t.Helper()
	s, err := storage.OpenSource(storage.DriverSQLite, filepath.Join(t.TempDir(), "input.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newDestinationStore(t *testing.T) domain.DestinationStore {
	t.Helper()
	s, err := storage.OpenDestination(storage.DriverSQLite, filepath.Join(t.TempDir(), "output.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSourceStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSourceStore(t)

	require.NoError(t, s.CreateSchema(ctx))
	require.NoError(t, s.InsertMany(ctx, seed.SamplePeople()))

	people, err := s.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, people, 3)

	// Server-assigned unique ids, ascending in insertion order.
	want := seed.SamplePeople()
	for i, p := range people {
		require.Equal(t, int64(i+1), p.ID)
		require.Equal(t, want[i].Name, p.Name)
		require.Equal(t, want[i].Nickname, p.Nickname)
		require.Equal(t, want[i].Gender, p.Gender)
		require.Equal(t, want[i].Age, p.Age)
	}
}

func TestSourceStore_InsertAssignsID(t *testing.T) {
	ctx := context.Background()
	s := newSourceStore(t)
	require.NoError(t, s.CreateSchema(ctx))

	a := domain.Person{Name: "A A", Nickname: "a", Gender: "male", Age: 1}
	b := domain.Person{Name: "B B", Nickname: "b", Gender: "female", Age: 2}
	require.NoError(t, s.Insert(ctx, &a))
	require.NoError(t, s.Insert(ctx, &b))
	require.Greater(t, a.ID, int64(0))
	require.Greater(t, b.ID, a.ID)
}

func TestSourceStore_QueryAllWithoutSchema(t *testing.T) {
	s := newSourceStore(t)

	_, err := s.QueryAll(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestSourceStore_DropSchemaIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newSourceStore(t)
	require.NoError(t, s.DropSchema(ctx)) // never created
	require.NoError(t, s.CreateSchema(ctx))
	require.NoError(t, s.DropSchema(ctx))
	require.NoError(t, s.DropSchema(ctx))
}

func TestDestinationStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newDestinationStore(t)
	require.NoError(t, s.CreateSchema(ctx))

	require.NoError(t, s.InsertMany(ctx, []domain.OutputPerson{
		{Person: domain.Person{Name: "Arthur Herbert Fonzarelli", Nickname: "Fonzie", Gender: "male", Age: 20}, IsCool: true},
		{Person: domain.Person{Name: "Joanie Cunningham", Nickname: "Joanie", Gender: "female", Age: 20}},
	}))

	people, err := s.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, people, 2)
	require.True(t, people[0].IsCool)
	require.False(t, people[1].IsCool)
}

func TestDestinationStore_InsertAssignsID(t *testing.T) {
	ctx := context.Background()
	s := newDestinationStore(t)
	require.NoError(t, s.CreateSchema(ctx))

	p := domain.OutputPerson{
		Person: domain.Person{Name: "Arthur Herbert Fonzarelli", Nickname: "Fonzie", Gender: "male", Age: 20},
		IsCool: true,
	}
	require.NoError(t, s.Insert(ctx, &p))
	require.Greater(t, p.ID, int64(0))
}

func TestStores_SchemaIndependence(t *testing.T) {
	ctx := context.Background()
	src := newSourceStore(t)
	dst := newDestinationStore(t)

	require.NoError(t, src.CreateSchema(ctx))
	require.NoError(t, dst.CreateSchema(ctx))
	require.NoError(t, src.InsertMany(ctx, seed.SamplePeople()))

	// Dropping one side never affects the other.
	require.NoError(t, dst.DropSchema(ctx))

	people, err := src.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, people, 3)

	_, err = dst.QueryAll(ctx)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := storage.OpenSource("oracle", "whatever")
	require.Error(t, err)
	_, err = storage.OpenDestination("oracle", "whatever")
	require.Error(t, err)
}
