package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedUpstream marks a response that was syntactically valid JSON but
// did not carry the shape the schema asked for. It is distinct from transport
// failures so the client can log the two apart.
var ErrMalformedUpstream = errors.New("malformed upstream payload")

// DecodeEvents parses a raw model response into an event batch. The declared
// response schema requires id, title, date, type, description, location,
// metadata and host per element; decode enforces the fields that have no
// display default (title, date, type) and rejects the whole batch on the
// first violation rather than letting half-shaped events reach the UI.
// Type values outside the enum are deliberately not rejected here; they just
// never match a category filter.
func DecodeEvents(raw []byte) ([]Event, error) {
	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedUpstream, err)
	}
	for i, e := range events {
		switch {
		case e.Title == "":
			return nil, fmt.Errorf("%w: event %d has no title", ErrMalformedUpstream, i)
		case e.Date == "":
			return nil, fmt.Errorf("%w: event %d has no date", ErrMalformedUpstream, i)
		case e.Type == "":
			return nil, fmt.Errorf("%w: event %d has no type", ErrMalformedUpstream, i)
		}
	}
	return FillDefaults(events), nil
}
