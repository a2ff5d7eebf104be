package models

import (
	"time"
)

// EventType is the closed set of categories the upstream model is asked to
// use. Values arriving outside this set are kept as-is; they simply never
// match a category filter.
type EventType string

const (
	TypePlanet     EventType = "Planet"
	TypeMoon       EventType = "Moon"
	TypeNebula     EventType = "Nebula"
	TypeStation    EventType = "Station"
	TypePhenomenon EventType = "Phenomenon"
)

// CategoryAll is the filter selector that matches every event type.
const CategoryAll = "All"

// EventTypes lists the enum values declared in the upstream response schema.
func EventTypes() []string {
	return []string{
		string(TypePlanet),
		string(TypeMoon),
		string(TypeNebula),
		string(TypeStation),
		string(TypePhenomenon),
	}
}

// Event is one calendar entry for a single (month, year) fetch. The list an
// event belongs to is replaced wholesale on every month change; events are
// never mutated after FillDefaults.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"` // ISO-8601, parsed on demand
	Type        EventType `json:"type"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	Agency      string    `json:"agency,omitempty"`
	Host        *Host     `json:"host,omitempty"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

// Host is the investigator profile presented with an event.
type Host struct {
	Name            string  `json:"name"`
	Bio             string  `json:"bio"`
	AvatarID        string  `json:"avatarId"`
	IsSuperhost     bool    `json:"isSuperhost"`
	ReviewsCount    int     `json:"reviewsCount"`
	Rating          float64 `json:"rating"`
	YearsExperience int     `json:"yearsExperience"`
}

// Metadata holds auxiliary display attributes.
type Metadata struct {
	Rarity        float64 `json:"rarity"`
	Visibility    string  `json:"visibility"`
	PhotoID       string  `json:"photoId,omitempty"`
	SearchKeyword string  `json:"searchKeyword,omitempty"`
}

// eventDateLayouts are tried in order when parsing Event.Date. The model is
// asked for ISO-8601 but occasionally omits the zone or the time part.
var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses the event's date string. ok is false when no layout
// matches; callers sort such events after all parseable ones.
func (e Event) ParseDate() (t time.Time, ok bool) {
	for _, layout := range eventDateLayouts {
		if parsed, err := time.Parse(layout, e.Date); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
