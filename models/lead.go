// api/models/lead.go
package models

import "time"

// PaymentFeedback is the categorical reason a visitor gave for not buying,
// captured from the decline dialog. Append-only.
type PaymentFeedback struct {
	ID             int       `json:"id"`
	FeedbackReason string    `json:"feedbackReason" binding:"required"`
	UserAgent      string    `json:"userAgent"`
	IPAddress      string    `json:"ipAddress"`
	Referrer       string    `json:"referrer"`
	PageURL        string    `json:"pageUrl"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AuditRequest is a lead captured from the audit form. Append-only.
type AuditRequest struct {
	ID           int       `json:"id"`
	Name         string    `json:"name" binding:"required"`
	Email        string    `json:"email" binding:"required,email"`
	Company      string    `json:"company" binding:"required"`
	TeamSize     int       `json:"teamSize" binding:"required"`
	CurrentSpend string    `json:"currentSpend"`
	Challenges   string    `json:"challenges"`
	CreatedAt    time.Time `json:"createdAt"`
}
