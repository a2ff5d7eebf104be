package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/stellar-lakers/stellar-gateway/internal/models"
)

// Fallback strings returned by DeepDive. The UI has no degraded state beyond
// a static message, so both operations fail soft instead of surfacing errors.
const (
	DeepDiveEmptyFallback = "Telemetry link severed."
	DeepDiveErrorFallback = "Error retrieving data stream."
)

const categoryPhotoHints = `
- NEBULA/INTERSTELLAR: 1462331940025-496dfbfc7564, 1464802686167-b939a67e06a1, 1506318137071-a8e063b4bcc0
- PLANET/ORBITAL: 1614732138822-fd42d6c32a39, 1614730321146-b6fa6a46bcb4, 1614728263952-84ea252f92f8
- STATION/DEEP MISSION: 1517976487492-5750f3195933, 1516849841032-87cbac4d88f7, 1446776811953-b23d57bd21aa
- HIGH ENERGY/GALAXY: 1446776811953-b23d57bd21aa, 1501862700950-efb218298ffa
`

// generator is the single upstream exchange: one prompt in, one text body
// out. Tests substitute a fake; production uses the Gemini API.
type generator interface {
	Generate(ctx context.Context, model, prompt string, schema *genai.Schema) (string, error)
}

type genaiGenerator struct {
	client *genai.Client
}

func (g *genaiGenerator) Generate(ctx context.Context, model, prompt string, schema *genai.Schema) (string, error) {
	var config *genai.GenerateContentConfig
	if schema != nil {
		config = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		}
	}
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GeminiClient wraps the two application-level calls against the generative
// service: the month event listing and the per-event briefing.
type GeminiClient struct {
	gen       generator
	listModel string
	diveModel string
	logger    *zap.Logger
}

// NewGeminiClient builds a client bound to the Gemini API with the given key.
func NewGeminiClient(ctx context.Context, apiKey, listModel, diveModel string, logger *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{
		gen:       &genaiGenerator{client: client},
		listModel: listModel,
		diveModel: diveModel,
		logger:    logger.Named("gemini_client"),
	}, nil
}

func newGeminiClientWithGenerator(gen generator, listModel, diveModel string, logger *zap.Logger) *GeminiClient {
	return &GeminiClient{gen: gen, listModel: listModel, diveModel: diveModel, logger: logger}
}

// eventListSchema constrains the listing response to an array of event
// objects; type is held to the closed category set.
func eventListSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":          {Type: genai.TypeString},
				"title":       {Type: genai.TypeString},
				"date":        {Type: genai.TypeString},
				"type":        {Type: genai.TypeString, Enum: models.EventTypes()},
				"description": {Type: genai.TypeString},
				"location":    {Type: genai.TypeString},
				"agency":      {Type: genai.TypeString},
				"host": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":            {Type: genai.TypeString},
						"avatarId":        {Type: genai.TypeString},
						"isSuperhost":     {Type: genai.TypeBoolean},
						"reviewsCount":    {Type: genai.TypeNumber},
						"rating":          {Type: genai.TypeNumber},
						"yearsExperience": {Type: genai.TypeNumber},
						"bio":             {Type: genai.TypeString},
					},
				},
				"metadata": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"rarity":     {Type: genai.TypeNumber},
						"visibility": {Type: genai.TypeString},
						"photoId":    {Type: genai.TypeString},
					},
				},
			},
			Required: []string{"id", "title", "date", "type", "description", "location", "metadata", "host"},
		},
	}
}

func listEventsPrompt(month int, year int) string {
	// Mirrors JS Date normalization: month is zero-based and out-of-range
	// values roll the year.
	cursor := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	return fmt.Sprintf(`Generate 12 distinct "Investigative Events" for %s %d.
Brand: Stellar - Elite Scientific Concierge.

Themes to focus on:
1. Invisible Universe: Dark Matter filaments, Dark Energy expansion anomalies.
2. High-Energy Universe: Black Hole accretion disks, Supernova Remnants, Pulsar radiation.
3. Stellar Evolution: Protostars in Nebulae, Galaxy Cluster dynamics.
4. Orbital Dynamics: Planetary transits and lunar occultations.

Imagery: Use these Unsplash IDs: %s

Host: Generate an 'Investigator' for each. Tone: Scientific, precise, atmospheric.
Bios should mention focus areas like "Chandra Legacy Data" or "High-Energy Spectral Analysis".`,
		cursor.Month().String(), cursor.Year(), categoryPhotoHints)
}

// ListEvents fetches the generated event list for a zero-based month and a
// year. It never returns an error: transport failures, empty bodies and
// malformed payloads all collapse to an empty slice so the caller renders an
// empty calendar.
func (c *GeminiClient) ListEvents(ctx context.Context, month int, year int) []models.Event {
	raw, err := c.gen.Generate(ctx, c.listModel, listEventsPrompt(month, year), eventListSchema())
	if err != nil {
		c.logger.Error("Failed to fetch space calendar events",
			zap.Error(err), zap.Int("month", month), zap.Int("year", year))
		return []models.Event{}
	}
	if raw == "" {
		raw = "[]"
	}

	events, err := models.DecodeEvents([]byte(raw))
	if err != nil {
		if errors.Is(err, models.ErrMalformedUpstream) {
			c.logger.Error("Upstream returned a malformed event batch",
				zap.Error(err), zap.Int("month", month), zap.Int("year", year))
		} else {
			c.logger.Error("Failed to decode event batch", zap.Error(err))
		}
		return []models.Event{}
	}

	c.logger.Info("Fetched space calendar events",
		zap.Int("month", month), zap.Int("year", year), zap.Int("count", len(events)))
	return events
}

func deepDivePrompt(event models.Event) string {
	return fmt.Sprintf(`Provide a detailed "Investigation Briefing" for the cosmic event: %s.
Include:
1. Precise Orbital Coordinates in %s.
2. Spectral Significance (UV, X-Ray, or Gamma).
3. Impact on the 'Invisible Universe' (Dark Matter/Energy context).
4. Scientific Observation Precautions.
Tone: High-end scientific analysis. Avoid flowery language, use evocative scientific terms.`,
		event.Title, event.Location)
}

// DeepDive requests the long-form briefing for one event. Always returns a
// non-empty string: real content or one of the two fallback sentinels.
func (c *GeminiClient) DeepDive(ctx context.Context, event models.Event) string {
	text, err := c.gen.Generate(ctx, c.diveModel, deepDivePrompt(event), nil)
	if err != nil {
		c.logger.Error("Failed to fetch deep dive", zap.Error(err), zap.String("event_id", event.ID))
		return DeepDiveErrorFallback
	}
	if text == "" {
		return DeepDiveEmptyFallback
	}
	return text
}
