package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/barkeep/barkeep/internal/domain/bar"
	"github.com/barkeep/barkeep/internal/repository"
)

func testBar(id string) *bar.TimeBasedBar {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	return &bar.TimeBasedBar{
		ID:          id,
		Title:       "Ship v2",
		Description: "Release countdown",
		Type:        bar.TypeCountDown,
		StartDate:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		TargetDate:  time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
		TargetValue: 100,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestBarRepository_InsertAndGet(t *testing.T) {
	repo := NewBarRepository(NewTestDB(t))
	ctx := context.Background()

	b := testBar("b1")
	require.NoError(t, repo.Insert(ctx, b))

	got, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, b.ID, got.ID)
	require.Equal(t, b.Title, got.Title)
	require.Equal(t, b.Description, got.Description)
	require.Equal(t, b.Type, got.Type)
	require.True(t, b.StartDate.Equal(got.StartDate))
	require.True(t, b.TargetDate.Equal(got.TargetDate))
	require.Equal(t, b.TargetValue, got.TargetValue)
	require.False(t, got.IsCompleted)
	require.False(t, got.IsOverdue)
}

func TestBarRepository_InsertDuplicate(t *testing.T) {
	repo := NewBarRepository(NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testBar("b1")))
	err := repo.Insert(ctx, testBar("b1"))
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestBarRepository_GetNotFound(t *testing.T) {
	repo := NewBarRepository(NewTestDB(t))

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBarRepository_UpdateDerived(t *testing.T) {
	repo := NewBarRepository(NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testBar("b1")))

	updatedAt := time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC)
	err := repo.UpdateDerived(ctx, "b1", bar.DerivedFields{
		CurrentValue: 42.5,
		TargetValue:  366,
		IsCompleted:  true,
		IsOverdue:    true,
		UpdatedAt:    updatedAt,
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, 42.5, got.CurrentValue)
	require.Equal(t, 366.0, got.TargetValue)
	require.True(t, got.IsCompleted)
	require.True(t, got.IsOverdue)
	require.True(t, updatedAt.Equal(got.UpdatedAt))
}

func TestBarRepository_UpdateDerivedNotFound(t *testing.T) {
	repo := NewBarRepository(NewTestDB(t))

	err := repo.UpdateDerived(context.Background(), "missing", bar.DerivedFields{})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBarRepository_Delete(t *testing.T) {
	repo := NewBarRepository(NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testBar("b1")))
	require.NoError(t, repo.Delete(ctx, "b1"))

	_, err := repo.Get(ctx, "b1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, repo.Delete(ctx, "b1"), repository.ErrNotFound)
}

func TestBarRepository_ListAllNewestFirst(t *testing.T) {
	repo := NewBarRepository(NewTestDB(t))
	ctx := context.Background()

	older := testBar("older")
	older.CreatedAt = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	newer := testBar("newer")
	newer.CreatedAt = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, older))
	require.NoError(t, repo.Insert(ctx, newer))

	bars, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	require.Equal(t, "newer", bars[0].ID)
	require.Equal(t, "older", bars[1].ID)
}

func TestBarRepository_ListAllEmpty(t *testing.T) {
	repo := NewBarRepository(NewTestDB(t))

	bars, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, bars)
}
