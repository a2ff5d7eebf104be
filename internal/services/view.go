package services

import (
	"sort"
	"strings"

	"github.com/stellar-lakers/stellar-gateway/internal/models"
)

// VisibleEvents derives the visible set from the fetched list, a free-text
// query and a category selector. Pure function of its inputs: the source
// slice is not modified and identical inputs always yield identical output.
//
// An event passes the text match when the query is a case-insensitive
// substring of its title, description or location (an absent location never
// matches; the empty query matches everything), and the category match when
// the selector is "All" or equals the event type exactly. Both must pass.
// Events are ordered ascending by parsed date; unparseable dates sort after
// every parseable one, ties broken by title.
func VisibleEvents(events []models.Event, query string, category string) []models.Event {
	q := strings.ToLower(query)

	visible := make([]models.Event, 0, len(events))
	for _, e := range events {
		if !matchesQuery(e, q) {
			continue
		}
		if category != models.CategoryAll && string(e.Type) != category {
			continue
		}
		visible = append(visible, e)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		ti, oki := visible[i].ParseDate()
		tj, okj := visible[j].ParseDate()
		switch {
		case oki && okj:
			return ti.Before(tj)
		case oki != okj:
			return oki
		default:
			return visible[i].Title < visible[j].Title
		}
	})

	return visible
}

func matchesQuery(e models.Event, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q) ||
		(e.Location != "" && strings.Contains(strings.ToLower(e.Location), q))
}
