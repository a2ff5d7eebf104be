package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stellar-lakers/stellar-gateway/internal/models"
	"github.com/stellar-lakers/stellar-gateway/internal/services"
)

// Briefer produces the long-form narrative for one event. Always a non-empty
// string; failures come back as sentinel text, never as an error.
type Briefer interface {
	DeepDive(ctx context.Context, event models.Event) string
}

type EventHandler struct {
	calendar *services.Calendar
	briefer  Briefer
	logger   *zap.Logger
}

func NewEventHandler(calendar *services.Calendar, briefer Briefer, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		calendar: calendar,
		briefer:  briefer,
		logger:   logger.Named("event_handler"),
	}
}

type eventDTO struct {
	models.Event
	CardImage  string `json:"cardImage"`
	CoverImage string `json:"coverImage"`
	AvatarURL  string `json:"avatarUrl"`
}

type eventsResponse struct {
	Month    int        `json:"month"`
	Year     int        `json:"year"`
	Loading  bool       `json:"loading"`
	Query    string     `json:"query"`
	Category string     `json:"category"`
	Total    int        `json:"total"`
	Events   []eventDTO `json:"events"`
}

type changeMonthRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// ListEvents serves the visible set for the current cursor.
//
// GET /api/events?month=&year=&q=&type=
// month is zero-based; when both month and year are given the cursor jumps
// there first. q and type replace the filter state before derivation.
func (h *EventHandler) ListEvents(c *gin.Context) {
	ctx := c.Request.Context()

	monthParam, hasMonth := c.GetQuery("month")
	yearParam, hasYear := c.GetQuery("year")
	if hasMonth && hasYear {
		month, errM := strconv.Atoi(monthParam)
		year, errY := strconv.Atoi(yearParam)
		if errM != nil || errY != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month and year must be integers"})
			return
		}
		h.calendar.GoTo(ctx, month, year)
	} else {
		h.calendar.EnsureLoaded(ctx)
	}

	h.calendar.SetFilters(c.Query("q"), c.Query("type"))

	state := h.calendar.Snapshot()
	visible := h.calendar.Visible()

	dtos := make([]eventDTO, 0, len(visible))
	for _, e := range visible {
		dtos = append(dtos, eventDTO{
			Event:      e,
			CardImage:  e.CardImageURL(),
			CoverImage: e.CoverImageURL(),
			AvatarURL:  e.Host.AvatarURL(),
		})
	}

	c.JSON(http.StatusOK, eventsResponse{
		Month:    state.Month,
		Year:     state.Year,
		Loading:  state.Loading,
		Query:    state.Query,
		Category: state.Category,
		Total:    len(dtos),
		Events:   dtos,
	})
}

// ChangeMonth moves the month cursor and refetches.
//
// POST /api/events/refresh {"delta": 1}
func (h *EventHandler) ChangeMonth(c *gin.Context) {
	var req changeMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.calendar.ChangeMonth(c.Request.Context(), req.Delta)

	state := h.calendar.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"month": state.Month,
		"year":  state.Year,
		"count": len(state.Events),
	})
}

// Briefing selects one event of the current month and returns its generated
// narrative. The narrative is always non-empty; upstream failures surface as
// the client's sentinel strings with a 200, per the quiet-failure policy.
//
// GET /api/events/:id/briefing
func (h *EventHandler) Briefing(c *gin.Context) {
	id := c.Param("id")

	event, err := h.calendar.Select(id)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		h.logger.Error("Failed to select event", zap.Error(err), zap.String("event_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to select event"})
		return
	}

	briefing := h.briefer.DeepDive(c.Request.Context(), event)

	c.JSON(http.StatusOK, gin.H{
		"eventId":  event.ID,
		"title":    event.Title,
		"briefing": briefing,
	})
}

// ClearSelection resets the selection to none (the page closed the panel).
//
// DELETE /api/events/selection
func (h *EventHandler) ClearSelection(c *gin.Context) {
	h.calendar.ClearSelection()
	c.Status(http.StatusNoContent)
}
