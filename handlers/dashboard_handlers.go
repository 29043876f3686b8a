// api/handlers/dashboard_handlers.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"devflux/api/export"
	"devflux/api/models"
	"devflux/api/stats"
	"devflux/api/store"
	"devflux/api/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandlers struct {
	visitors store.Visitors
	events   store.Events
}

func NewDashboardHandlers(visitors store.Visitors, events store.Events) *DashboardHandlers {
	return &DashboardHandlers{
		visitors: visitors,
		events:   events,
	}
}

// windowBound resolves the timeFilter query parameter to an inclusive lower
// bound; missing or unknown values mean no bound.
func windowBound(c *gin.Context) *time.Time {
	return utils.TimeFilterBound(c.DefaultQuery("timeFilter", "all"), time.Now())
}

// Stats serves the aggregated dashboard view for one time window. Every call
// recomputes from the store; nothing is cached.
func (h *DashboardHandlers) Stats(c *gin.Context) {
	since := windowBound(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	sessions, err := h.visitors.ListSessions(ctx, since, false)
	if err != nil {
		log.Printf("Error loading sessions for stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	eventsByType, err := h.events.CountEventsByType(ctx, since)
	if err != nil {
		log.Printf("Error loading event counts for stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	feedback, err := h.visitors.ListFeedback(ctx, since, false)
	if err != nil {
		log.Printf("Error loading feedback for stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	audits, err := h.visitors.ListAuditRequests(ctx, since, false)
	if err != nil {
		log.Printf("Error loading audit requests for stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats.Compute(sessions, eventsByType, feedback, len(audits)))
}

// Sessions lists raw session rows in the window, newest first.
func (h *DashboardHandlers) Sessions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	sessions, err := h.visitors.ListSessions(ctx, windowBound(c), true)
	if err != nil {
		log.Printf("Error listing sessions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if sessions == nil {
		sessions = []models.VisitorSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

// Events lists raw event rows in the window, newest first.
func (h *DashboardHandlers) Events(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	events, err := h.events.ListEvents(ctx, windowBound(c))
	if err != nil {
		log.Printf("Error listing events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if events == nil {
		events = []models.AnalyticsEvent{}
	}
	c.JSON(http.StatusOK, events)
}

// Feedback lists raw feedback rows in the window, newest first.
func (h *DashboardHandlers) Feedback(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	feedback, err := h.visitors.ListFeedback(ctx, windowBound(c), true)
	if err != nil {
		log.Printf("Error listing feedback: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if feedback == nil {
		feedback = []models.PaymentFeedback{}
	}
	c.JSON(http.StatusOK, feedback)
}

// Audits lists raw audit request rows in the window, newest first.
func (h *DashboardHandlers) Audits(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	audits, err := h.visitors.ListAuditRequests(ctx, windowBound(c), true)
	if err != nil {
		log.Printf("Error listing audit requests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if audits == nil {
		audits = []models.AuditRequest{}
	}
	c.JSON(http.StatusOK, audits)
}

// Export serves one entity type as a CSV attachment, newest first. Zero
// matching rows is a 404, never an empty file.
func (h *DashboardHandlers) Export(c *gin.Context) {
	entityType := c.Param("type")
	since := windowBound(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	var data []byte
	var err error
	switch entityType {
	case "sessions":
		var rows []models.VisitorSession
		if rows, err = h.visitors.ListSessions(ctx, since, true); err == nil {
			data, err = export.Sessions(rows)
		}
	case "events":
		var rows []models.AnalyticsEvent
		if rows, err = h.events.ListEvents(ctx, since); err == nil {
			data, err = export.Events(rows)
		}
	case "feedback":
		var rows []models.PaymentFeedback
		if rows, err = h.visitors.ListFeedback(ctx, since, true); err == nil {
			data, err = export.Feedback(rows)
		}
	case "audits":
		var rows []models.AuditRequest
		if rows, err = h.visitors.ListAuditRequests(ctx, since, true); err == nil {
			data, err = export.Audits(rows)
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid export type"})
		return
	}

	if errors.Is(err, export.ErrNoData) {
		c.JSON(http.StatusNotFound, gin.H{"message": "No data to export"})
		return
	}
	if err != nil {
		log.Printf("Error exporting %s: %v", entityType, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, entityType))
	c.Data(http.StatusOK, "text/csv", data)
}
