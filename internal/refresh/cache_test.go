package refresh_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/barkeep/barkeep/internal/domain/bar"
	"github.com/barkeep/barkeep/internal/refresh"
	"github.com/stretchr/testify/require"
)

func TestCalculationCache_HitWithinSameMinute(t *testing.T) {
	c := refresh.NewCalculationCache(8)
	now := time.Date(2024, time.June, 1, 10, 30, 5, 0, time.UTC)

	c.Put("b1", now, bar.ProgressCalculation{Percentage: 42})

	// Any instant in the same minute bucket hits.
	got, ok := c.Get("b1", now.Add(40*time.Second))
	require.True(t, ok)
	require.Equal(t, 42.0, got.Percentage)
}

func TestCalculationCache_MissEvictsStaleEntry(t *testing.T) {
	c := refresh.NewCalculationCache(8)
	now := time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC)

	c.Put("b1", now, bar.ProgressCalculation{Percentage: 42})

	_, ok := c.Get("b1", now.Add(time.Minute))
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}

func TestCalculationCache_UnknownIDMisses(t *testing.T) {
	c := refresh.NewCalculationCache(8)
	_, ok := c.Get("nope", time.Now())
	require.False(t, ok)
}

func TestCalculationCache_CapacityBound(t *testing.T) {
	c := refresh.NewCalculationCache(4)
	now := time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		c.Put(fmt.Sprintf("b%d", i), now, bar.ProgressCalculation{})
	}
	require.LessOrEqual(t, c.Len(), 4)
}

func TestCalculationCache_OverwriteDoesNotEvict(t *testing.T) {
	c := refresh.NewCalculationCache(2)
	now := time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC)

	c.Put("a", now, bar.ProgressCalculation{Percentage: 1})
	c.Put("b", now, bar.ProgressCalculation{Percentage: 2})
	c.Put("a", now, bar.ProgressCalculation{Percentage: 3})

	require.Equal(t, 2, c.Len())
	got, ok := c.Get("a", now)
	require.True(t, ok)
	require.Equal(t, 3.0, got.Percentage)
}

func TestCalculationCache_ReturnsDefensiveCopies(t *testing.T) {
	c := refresh.NewCalculationCache(8)
	now := time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC)
	target := now.AddDate(0, 1, 0)

	calc := bar.ProgressCalculation{Percentage: 10, EstimatedCompletionDate: &target}
	c.Put("b1", now, calc)

	// Mutating what the caller kept cannot corrupt the cached value.
	*calc.EstimatedCompletionDate = time.Time{}

	got, ok := c.Get("b1", now)
	require.True(t, ok)
	require.NotNil(t, got.EstimatedCompletionDate)
	require.False(t, got.EstimatedCompletionDate.IsZero())

	// And mutating a returned value cannot either.
	*got.EstimatedCompletionDate = time.Time{}
	again, ok := c.Get("b1", now)
	require.True(t, ok)
	require.False(t, again.EstimatedCompletionDate.IsZero())
}

func TestCalculationCache_Invalidate(t *testing.T) {
	c := refresh.NewCalculationCache(8)
	now := time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC)

	c.Put("b1", now, bar.ProgressCalculation{})
	c.Invalidate("b1")
	_, ok := c.Get("b1", now)
	require.False(t, ok)
}
