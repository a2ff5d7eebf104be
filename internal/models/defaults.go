package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Display fallbacks. The card and the modal cover historically used two
// different photo fallbacks for the same missing field, so the photo default
// lives in the URL builders rather than in FillDefaults.
const (
	DefaultRarity     = 4.5
	DefaultVisibility = "Championship Grade"
	DefaultAgency     = "LA Focus Group"
	DefaultHostBio    = "Dedicated to winning. Every dark matter filament holds a championship key."

	DefaultReviewsCount    = 120
	DefaultRating          = 4.9
	DefaultYearsExperience = 10

	defaultCardPhotoID  = "1446776811953-b23d57bd21aa"
	defaultCoverPhotoID = "1462331940025-496dfbfc7564"
	defaultAvatarID     = "1472099645785-5658abf4ff4e"
)

// FillDefaults completes a decoded batch so the rest of the system can assume
// every field is present. Events without an upstream id get a generated one;
// ids only need to be unique within the batch. The input slice is modified in
// place and returned.
func FillDefaults(events []Event) []Event {
	for i := range events {
		e := &events[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Agency == "" {
			e.Agency = DefaultAgency
		}
		if e.Metadata == nil {
			e.Metadata = &Metadata{}
		}
		if e.Metadata.Rarity == 0 {
			e.Metadata.Rarity = DefaultRarity
		}
		if e.Metadata.Visibility == "" {
			e.Metadata.Visibility = DefaultVisibility
		}
		if e.Host == nil {
			e.Host = &Host{}
		}
		if e.Host.Bio == "" {
			e.Host.Bio = DefaultHostBio
		}
		if e.Host.AvatarID == "" {
			e.Host.AvatarID = defaultAvatarID
		}
		if e.Host.ReviewsCount == 0 {
			e.Host.ReviewsCount = DefaultReviewsCount
		}
		if e.Host.Rating == 0 {
			e.Host.Rating = DefaultRating
		}
		if e.Host.YearsExperience == 0 {
			e.Host.YearsExperience = DefaultYearsExperience
		}
	}
	return events
}

// Image URLs are pure string construction against a fixed hosting template;
// every lookup has a literal default so a URL is always constructible.

// CardImageURL returns the grid-card image for the event.
func (e Event) CardImageURL() string {
	id := defaultCardPhotoID
	if e.Metadata != nil && e.Metadata.PhotoID != "" {
		id = e.Metadata.PhotoID
	}
	return fmt.Sprintf("https://images.unsplash.com/photo-%s?auto=format&fit=crop&w=600&q=80", id)
}

// CoverImageURL returns the wide detail-panel image for the event.
func (e Event) CoverImageURL() string {
	id := defaultCoverPhotoID
	if e.Metadata != nil && e.Metadata.PhotoID != "" {
		id = e.Metadata.PhotoID
	}
	return fmt.Sprintf("https://images.unsplash.com/photo-%s?auto=format&fit=crop&w=1200&q=80", id)
}

// AvatarURL returns the host's portrait image.
func (h Host) AvatarURL() string {
	id := h.AvatarID
	if id == "" {
		id = defaultAvatarID
	}
	return fmt.Sprintf("https://images.unsplash.com/photo-%s?auto=format&fit=crop&w=200&h=200&q=80", id)
}
