package refresh_test

import (
	"testing"
	"time"

	"github.com/barkeep/barkeep/internal/domain/bar"
	"github.com/barkeep/barkeep/internal/refresh"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_MergesPerIDLastWriteWins(t *testing.T) {
	c := refresh.NewCoordinator(time.Hour, nil) // flush manually
	defer c.Close()

	batches := make(chan map[string]bar.ProgressCalculation, 8)
	c.Subscribe(func(m map[string]bar.ProgressCalculation) { batches <- m })

	c.Enqueue("a", bar.ProgressCalculation{Percentage: 10})
	c.Enqueue("a", bar.ProgressCalculation{Percentage: 20})
	c.EnqueueAll(map[string]bar.ProgressCalculation{
		"b": {Percentage: 30},
	})
	require.Equal(t, 2, c.Pending())

	c.Flush()
	batch := waitBatch(t, batches)
	require.Len(t, batch, 2)
	require.Equal(t, 20.0, batch["a"].Percentage)
	require.Equal(t, 30.0, batch["b"].Percentage)
	require.Equal(t, 0, c.Pending())
}

func TestCoordinator_AutomaticFlushAfterDelay(t *testing.T) {
	c := refresh.NewCoordinator(5*time.Millisecond, nil)
	defer c.Close()

	batches := make(chan map[string]bar.ProgressCalculation, 8)
	c.Subscribe(func(m map[string]bar.ProgressCalculation) { batches <- m })

	c.Enqueue("a", bar.ProgressCalculation{Percentage: 1})
	batch := waitBatch(t, batches)
	require.Len(t, batch, 1)
}

func TestCoordinator_ListenersInvokedOncePerFlush(t *testing.T) {
	c := refresh.NewCoordinator(time.Hour, nil)
	defer c.Close()

	calls := 0
	c.Subscribe(func(map[string]bar.ProgressCalculation) { calls++ })

	c.Enqueue("a", bar.ProgressCalculation{})
	c.Enqueue("b", bar.ProgressCalculation{})
	c.Flush()
	require.Equal(t, 1, calls)

	// An empty flush delivers nothing.
	c.Flush()
	require.Equal(t, 1, calls)
}

func TestCoordinator_ListenerPanicDoesNotAbortSiblings(t *testing.T) {
	c := refresh.NewCoordinator(time.Hour, nil)
	defer c.Close()

	delivered := false
	c.Subscribe(func(map[string]bar.ProgressCalculation) { panic("bad listener") })
	c.Subscribe(func(map[string]bar.ProgressCalculation) { delivered = true })

	c.Enqueue("a", bar.ProgressCalculation{})
	c.Flush()
	require.True(t, delivered)
}

func TestCoordinator_UnsubscribeStopsDelivery(t *testing.T) {
	c := refresh.NewCoordinator(time.Hour, nil)
	defer c.Close()

	calls := 0
	cancel := c.Subscribe(func(map[string]bar.ProgressCalculation) { calls++ })
	cancel()

	c.Enqueue("a", bar.ProgressCalculation{})
	c.Flush()
	require.Equal(t, 0, calls)
}

func TestCoordinator_CloseCancelsPendingFlush(t *testing.T) {
	c := refresh.NewCoordinator(20*time.Millisecond, nil)

	batches := make(chan map[string]bar.ProgressCalculation, 8)
	c.Subscribe(func(m map[string]bar.ProgressCalculation) { batches <- m })

	c.Enqueue("a", bar.ProgressCalculation{})
	c.Close()

	requireNoBatch(t, batches)
	require.Equal(t, 0, c.Pending())

	// Enqueue after close is a no-op.
	c.Enqueue("b", bar.ProgressCalculation{})
	require.Equal(t, 0, c.Pending())
	c.Close() // idempotent
}
