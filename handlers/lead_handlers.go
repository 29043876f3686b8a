// api/handlers/lead_handlers.go
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
)

type LeadHandlers struct {
	Visitors store.Visitors
}

func NewLeadHandlers(visitors store.Visitors) *LeadHandlers {
	return &LeadHandlers{Visitors: visitors}
}

// CreateFeedback records why a visitor declined to purchase. Context fields
// fall back to what the request itself shows.
func (h *LeadHandlers) CreateFeedback(c *gin.Context) {
	var feedback models.PaymentFeedback
	if err := c.ShouldBindJSON(&feedback); err != nil {
		message, field := utils.BindingError(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": message, "field": field})
		return
	}

	feedback.ID = 0
	feedback.IPAddress = c.ClientIP()
	if feedback.UserAgent == "" {
		feedback.UserAgent = c.Request.UserAgent()
	}
	if feedback.Referrer == "" {
		feedback.Referrer = c.Request.Referer()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Visitors.CreateFeedback(ctx, &feedback); err != nil {
		log.Printf("Error creating payment feedback: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Feedback submitted successfully",
	})
}

// CreateAuditRequest captures an audit-form lead and echoes the stored row.
func (h *LeadHandlers) CreateAuditRequest(c *gin.Context) {
	var request models.AuditRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		message, field := utils.BindingError(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": message, "field": field})
		return
	}

	request.ID = 0

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Visitors.CreateAuditRequest(ctx, &request); err != nil {
		log.Printf("Error creating audit request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, request)
}
