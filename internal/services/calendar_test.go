package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stellar-lakers/stellar-gateway/internal/models"
)

// listerFunc adapts a closure to the EventLister boundary.
type listerFunc func(ctx context.Context, month int, year int) []models.Event

func (f listerFunc) ListEvents(ctx context.Context, month int, year int) []models.Event {
	return f(ctx, month, year)
}

func monthEvent(id string, month int, year int) models.Event {
	return models.Event{
		ID:          id,
		Title:       "Event " + id,
		Date:        time.Date(year, time.Month(month+1), 10, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		Type:        models.TypePhenomenon,
		Description: "generated",
	}
}

func TestRefresh_AppliesFetchAndClearsLoading(t *testing.T) {
	lister := listerFunc(func(_ context.Context, month, year int) []models.Event {
		return []models.Event{monthEvent("a", month, year)}
	})
	cal := NewCalendar(lister, 5, 2025, zap.NewNop())

	cal.Refresh(context.Background())

	state := cal.Snapshot()
	assert.False(t, state.Loading)
	assert.True(t, state.Fetched)
	require.Len(t, state.Events, 1)
	assert.Equal(t, "a", state.Events[0].ID)
}

func TestRefresh_FailedFetchLeavesEmptyListNotError(t *testing.T) {
	// The fetch boundary fails soft; an upstream failure is an empty slice.
	lister := listerFunc(func(context.Context, int, int) []models.Event {
		return []models.Event{}
	})
	cal := NewCalendar(lister, 5, 2025, zap.NewNop())

	cal.Refresh(context.Background())

	state := cal.Snapshot()
	assert.False(t, state.Loading, "loading clears on failure too")
	assert.Empty(t, state.Events)
}

func TestChangeMonth_MovesCursorAndRefetches(t *testing.T) {
	var fetched []int
	lister := listerFunc(func(_ context.Context, month, year int) []models.Event {
		fetched = append(fetched, month, year)
		return []models.Event{monthEvent("a", month, year)}
	})
	cal := NewCalendar(lister, 11, 2025, zap.NewNop())

	cal.ChangeMonth(context.Background(), 1)

	state := cal.Snapshot()
	assert.Equal(t, 0, state.Month, "December + 1 rolls to January")
	assert.Equal(t, 2026, state.Year)
	assert.Equal(t, []int{0, 2026}, fetched)

	cal.ChangeMonth(context.Background(), -1)
	state = cal.Snapshot()
	assert.Equal(t, 11, state.Month)
	assert.Equal(t, 2025, state.Year)
}

func TestGoTo_NormalizesOutOfRangeMonth(t *testing.T) {
	lister := listerFunc(func(context.Context, int, int) []models.Event { return nil })
	cal := NewCalendar(lister, 0, 2025, zap.NewNop())

	cal.GoTo(context.Background(), 12, 2025)

	state := cal.Snapshot()
	assert.Equal(t, 0, state.Month)
	assert.Equal(t, 2026, state.Year)
}

func TestMonthChange_ReplacesListWholesale(t *testing.T) {
	lister := listerFunc(func(_ context.Context, month, year int) []models.Event {
		return []models.Event{monthEvent("m", month, year)}
	})
	cal := NewCalendar(lister, 5, 2025, zap.NewNop())
	cal.Refresh(context.Background())
	june := cal.Snapshot().Events

	cal.ChangeMonth(context.Background(), 1)
	july := cal.Snapshot().Events

	require.Len(t, july, 1)
	assert.NotEqual(t, june[0].Date, july[0].Date)
}

func TestSelect_And_ClearSelection(t *testing.T) {
	lister := listerFunc(func(_ context.Context, month, year int) []models.Event {
		return []models.Event{monthEvent("a", month, year), monthEvent("b", month, year)}
	})
	cal := NewCalendar(lister, 5, 2025, zap.NewNop())
	cal.Refresh(context.Background())

	event, err := cal.Select("b")
	require.NoError(t, err)
	assert.Equal(t, "b", event.ID)
	assert.Equal(t, "b", cal.Snapshot().SelectedID)

	cal.ClearSelection()
	assert.Empty(t, cal.Snapshot().SelectedID)
}

func TestSelect_UnknownID(t *testing.T) {
	lister := listerFunc(func(context.Context, int, int) []models.Event { return nil })
	cal := NewCalendar(lister, 5, 2025, zap.NewNop())
	cal.Refresh(context.Background())

	_, err := cal.Select("ghost")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestSelection_DoesNotOutliveItsFetch(t *testing.T) {
	var generation int32
	lister := listerFunc(func(_ context.Context, month, year int) []models.Event {
		n := atomic.AddInt32(&generation, 1)
		if n == 1 {
			return []models.Event{monthEvent("a", month, year)}
		}
		return []models.Event{monthEvent("b", month, year)}
	})
	cal := NewCalendar(lister, 5, 2025, zap.NewNop())
	cal.Refresh(context.Background())

	_, err := cal.Select("a")
	require.NoError(t, err)

	cal.Refresh(context.Background())
	assert.Empty(t, cal.Snapshot().SelectedID, "selection cleared when its list is replaced")
}

func TestRefresh_SupersededFetchIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var call int32

	lister := listerFunc(func(_ context.Context, month, year int) []models.Event {
		if atomic.AddInt32(&call, 1) == 1 {
			close(started)
			<-release
			return []models.Event{monthEvent("stale", month, year)}
		}
		return []models.Event{monthEvent("fresh", month, year)}
	})
	cal := NewCalendar(lister, 5, 2025, zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		cal.Refresh(context.Background())
	}()

	// The second transition starts after the first fetch is in flight and
	// completes before it resolves.
	<-started
	cal.ChangeMonth(context.Background(), 1)

	close(release)
	wg.Wait()

	state := cal.Snapshot()
	require.Len(t, state.Events, 1)
	assert.Equal(t, "fresh", state.Events[0].ID, "most recent request wins")
	assert.Equal(t, 6, state.Month)
	assert.False(t, state.Loading)
}

func TestSetFilters_DriveVisible(t *testing.T) {
	lister := listerFunc(func(_ context.Context, month, year int) []models.Event {
		return []models.Event{
			{ID: "1", Title: "Nebula Watch", Date: "2025-06-01", Type: models.TypeNebula, Description: "d"},
			{ID: "2", Title: "Station Pass", Date: "2025-06-02", Type: models.TypeStation, Description: "d"},
		}
	})
	cal := NewCalendar(lister, 5, 2025, zap.NewNop())
	cal.Refresh(context.Background())

	cal.SetFilters("", string(models.TypeStation))
	visible := cal.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "2", visible[0].ID)

	// Empty category falls back to All.
	cal.SetFilters("", "")
	assert.Len(t, cal.Visible(), 2)
}
