// api/handlers/analytics_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"devflux/api/models"
	"devflux/api/store"
	"devflux/api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AnalyticsHandlers struct {
	Visitors store.Visitors
	Events   store.Events
}

func NewAnalyticsHandlers(visitors store.Visitors, events store.Events) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		Visitors: visitors,
		Events:   events,
	}
}

// CreateSession records the start of a browsing visit. The IP address is
// always taken from the connection, never from the client payload; the user
// agent falls back to the request header.
func (h *AnalyticsHandlers) CreateSession(c *gin.Context) {
	var session models.VisitorSession
	if err := c.ShouldBindJSON(&session); err != nil {
		message, field := utils.BindingError(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": message, "field": field})
		return
	}

	session.ID = 0
	session.IPAddress = c.ClientIP()
	if session.UserAgent == "" {
		session.UserAgent = c.Request.UserAgent()
	}
	if session.SessionStart.IsZero() {
		session.SessionStart = time.Now().UTC()
	}
	if session.VisitCount < 1 {
		session.VisitCount = 1
	}
	session.SessionEnd = nil
	session.SessionDuration = nil

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Visitors.CreateSession(ctx, &session); err != nil {
		log.Printf("Error creating visitor session %s: %v", session.SessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"sessionId": session.SessionID,
	})
}

// EndSession closes a session with the caller's own duration measurement.
// The page-unload caller cannot retry, so an unknown sessionId still answers
// success; a second call for the same session overwrites the first.
func (h *AnalyticsHandlers) EndSession(c *gin.Context) {
	var req models.EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message, field := utils.BindingError(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": message, "field": field})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	found, err := h.Visitors.EndSession(ctx, req.SessionID, *req.SessionDuration, time.Now().UTC())
	if err != nil {
		log.Printf("Error ending session %s: %v", req.SessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if !found {
		log.Printf("EndSession: no session found for %s", req.SessionID)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TrackEvent records one interaction. There is no referential check against
// sessions; events with dangling sessionIds are accepted.
func (h *AnalyticsHandlers) TrackEvent(c *gin.Context) {
	var event models.AnalyticsEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		message, field := utils.BindingError(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": message, "field": field})
		return
	}

	event.EventID = uuid.New().String()
	event.IPAddress = c.ClientIP()
	event.CreatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Events.InsertEvent(ctx, &event); err != nil {
		log.Printf("Error inserting analytics event (type %s): %v", event.EventType, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}
