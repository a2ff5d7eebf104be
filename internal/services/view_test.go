package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-lakers/stellar-gateway/internal/models"
)

func seedEvents(t *testing.T) []models.Event {
	t.Helper()
	return []models.Event{
		{ID: "3", Title: "Perseid Peak", Date: "2025-06-20T22:00:00Z", Type: models.TypePhenomenon,
			Description: "Radiant shower maximum", Location: "Perseus Arm"},
		{ID: "1", Title: "Europa Occultation", Date: "2025-06-02T03:15:00Z", Type: models.TypeMoon,
			Description: "Jovian shadow transit", Location: "Jupiter L2"},
		{ID: "2", Title: "Crab Pulse Survey", Date: "2025-06-14T20:00:00Z", Type: models.TypeNebula,
			Description: "A dense Nebula core", Location: "Taurus Sector"},
	}
}

func TestVisibleEvents_DefaultFiltersReturnAllSorted(t *testing.T) {
	events := seedEvents(t)
	visible := VisibleEvents(events, "", models.CategoryAll)

	require.Len(t, visible, len(events))
	assert.Equal(t, "1", visible[0].ID)
	assert.Equal(t, "2", visible[1].ID)
	assert.Equal(t, "3", visible[2].ID)
}

func TestVisibleEvents_QueryIsCaseInsensitive(t *testing.T) {
	events := seedEvents(t)
	for _, q := range []string{"nebula", "NEBULA", "Nebula", "nEbUlA"} {
		visible := VisibleEvents(events, q, models.CategoryAll)
		require.Len(t, visible, 1, q)
		assert.Equal(t, "2", visible[0].ID)
	}
}

func TestVisibleEvents_QueryMatchesAnyField(t *testing.T) {
	events := seedEvents(t)

	// Title match.
	assert.Len(t, VisibleEvents(events, "perseid", models.CategoryAll), 1)
	// Description match.
	assert.Len(t, VisibleEvents(events, "shadow transit", models.CategoryAll), 1)
	// Location match.
	assert.Len(t, VisibleEvents(events, "taurus", models.CategoryAll), 1)
	// No match anywhere.
	assert.Empty(t, VisibleEvents(events, "basketball", models.CategoryAll))
}

func TestVisibleEvents_AbsentLocationNeverMatches(t *testing.T) {
	events := []models.Event{
		{ID: "a", Title: "T", Date: "2025-06-01", Description: "d"},
	}
	assert.Empty(t, VisibleEvents(events, "taurus", models.CategoryAll))
}

func TestVisibleEvents_CategoryIsExact(t *testing.T) {
	events := seedEvents(t)
	events = append(events,
		models.Event{ID: "4", Title: "ISS Flyover", Date: "2025-06-05T21:00:00Z", Type: models.TypeStation, Description: "d"},
		models.Event{ID: "5", Title: "Tiangong Pass", Date: "2025-06-07T21:00:00Z", Type: models.TypeStation, Description: "d"},
		models.Event{ID: "6", Title: "Gateway Checkout", Date: "2025-06-09T21:00:00Z", Type: models.TypeStation, Description: "d"},
	)

	visible := VisibleEvents(events, "", string(models.TypeStation))
	require.Len(t, visible, 3)
	for _, e := range visible {
		assert.Equal(t, models.TypeStation, e.Type)
	}

	// Category equality is string-exact, never fuzzy.
	assert.Empty(t, VisibleEvents(events, "", "station"))
}

func TestVisibleEvents_QueryAndCategoryCombineWithAnd(t *testing.T) {
	events := seedEvents(t)
	assert.Empty(t, VisibleEvents(events, "nebula", string(models.TypeMoon)))
	assert.Len(t, VisibleEvents(events, "nebula", string(models.TypeNebula)), 1)
}

func TestVisibleEvents_UnparseableDatesSortLast(t *testing.T) {
	events := append(seedEvents(t),
		models.Event{ID: "z", Title: "Zeta Window", Date: "sometime soon", Type: models.TypePhenomenon, Description: "d"},
		models.Event{ID: "y", Title: "Aurora Watch", Date: "TBD", Type: models.TypePhenomenon, Description: "d"},
	)

	visible := VisibleEvents(events, "", models.CategoryAll)
	require.Len(t, visible, 5)
	// Parseable dates first, then the invalid pair ordered by title.
	assert.Equal(t, "y", visible[3].ID)
	assert.Equal(t, "z", visible[4].ID)
}

func TestVisibleEvents_Pure(t *testing.T) {
	events := seedEvents(t)
	first := VisibleEvents(events, "e", models.CategoryAll)
	second := VisibleEvents(events, "e", models.CategoryAll)
	assert.Equal(t, first, second)

	// The source order is left untouched.
	assert.Equal(t, "3", events[0].ID)
}

func TestVisibleEvents_EmptyInput(t *testing.T) {
	assert.Empty(t, VisibleEvents(nil, "", models.CategoryAll))
	assert.Empty(t, VisibleEvents([]models.Event{}, "query", models.CategoryAll))
}
