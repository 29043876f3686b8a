// api/models/event.go
package models

import "time"

// AnalyticsEvent represents a single tracked interaction (view, scroll,
// click). Immutable once written. SessionID is a loose reference; events
// with no matching session are accepted and aggregated as-is.
type AnalyticsEvent struct {
	EventID       string    `json:"eventId"`
	VisitorID     string    `json:"visitorId"`
	SessionID     string    `json:"sessionId"`
	EventType     string    `json:"eventType" binding:"required"`
	EventCategory string    `json:"eventCategory"`
	EventAction   string    `json:"eventAction"`
	EventLabel    string    `json:"eventLabel"`
	EventValue    *float64  `json:"eventValue"`
	PageURL       string    `json:"pageUrl"`
	ElementID     string    `json:"elementId"`
	ElementText   string    `json:"elementText"`
	ScrollDepth   int32     `json:"scrollDepth"`
	TimeOnPage    int32     `json:"timeOnPage"`
	IPAddress     string    `json:"ipAddress"`
	CreatedAt     time.Time `json:"createdAt"`
}
