package refresh_test

import (
	"testing"

	"github.com/barkeep/barkeep/internal/refresh"
	"github.com/stretchr/testify/require"
)

func TestVisibilityTracker_TracksObservations(t *testing.T) {
	tr := refresh.NewVisibilityTracker(true)

	require.False(t, tr.IsVisible("a"))
	tr.SetVisible("a", true)
	tr.SetVisible("b", true)
	require.True(t, tr.IsVisible("a"))
	require.ElementsMatch(t, []string{"a", "b"}, tr.VisibleSet())

	tr.SetVisible("a", false)
	require.False(t, tr.IsVisible("a"))
	require.ElementsMatch(t, []string{"b"}, tr.VisibleSet())
}

func TestVisibilityTracker_UnsupportedAssumesVisible(t *testing.T) {
	tr := refresh.NewVisibilityTracker(false)

	require.True(t, tr.IsVisible("anything"))
	tr.SetVisible("a", true)
	require.Empty(t, tr.VisibleSet())

	notified := false
	tr.OnChange(func(string, bool) { notified = true })
	tr.SetVisible("a", false)
	require.False(t, notified)
}

func TestVisibilityTracker_NotifiesOnChangeOnly(t *testing.T) {
	tr := refresh.NewVisibilityTracker(true)

	type event struct {
		id      string
		visible bool
	}
	var events []event
	cancel := tr.OnChange(func(id string, visible bool) {
		events = append(events, event{id, visible})
	})

	tr.SetVisible("a", true)
	tr.SetVisible("a", true) // no change, no event
	tr.SetVisible("a", false)
	require.Equal(t, []event{{"a", true}, {"a", false}}, events)

	cancel()
	tr.SetVisible("a", true)
	require.Len(t, events, 2)
}
