package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubscribeHandler implements the mock ticket-subscription flow. Nothing is
// stored and no mail is sent; the handler only imposes the artificial delay
// the page shows a spinner for, then confirms.
type SubscribeHandler struct {
	delay  time.Duration
	logger *zap.Logger
}

func NewSubscribeHandler(delay time.Duration, logger *zap.Logger) *SubscribeHandler {
	return &SubscribeHandler{
		delay:  delay,
		logger: logger.Named("subscribe_handler"),
	}
}

type subscribeRequest struct {
	Email   string `json:"email" binding:"required"`
	EventID string `json:"eventId"`
}

// Subscribe confirms a subscription after the configured delay.
//
// POST /api/subscribe {"email": "...", "eventId": "..."}
// Only non-emptiness of the email is enforced.
func (h *SubscribeHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.delay > 0 {
		timer := time.NewTimer(h.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-c.Request.Context().Done():
			c.Status(http.StatusRequestTimeout)
			return
		}
	}

	h.logger.Info("Mock subscription confirmed",
		zap.String("email", req.Email), zap.String("event_id", req.EventID))

	c.JSON(http.StatusOK, gin.H{
		"subscribed": true,
		"email":      req.Email,
	})
}
