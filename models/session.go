// api/models/session.go
package models

import "time"

// VisitorSession represents one browsing visit, created on page load and
// closed at most once on page unload. Rows are append-only apart from the
// single close update.
type VisitorSession struct {
	ID              int        `json:"id"`
	VisitorID       string     `json:"visitorId" binding:"required"`
	SessionID       string     `json:"sessionId" binding:"required"`
	UTMSource       string     `json:"utmSource"`
	UTMMedium       string     `json:"utmMedium"`
	UTMCampaign     string     `json:"utmCampaign"`
	UTMContent      string     `json:"utmContent"`
	UTMTerm         string     `json:"utmTerm"`
	Referrer        string     `json:"referrer"`
	LandingPage     string     `json:"landingPage"`
	DeviceType      string     `json:"deviceType"`
	Browser         string     `json:"browser"`
	BrowserVersion  string     `json:"browserVersion"`
	OS              string     `json:"os"`
	ScreenWidth     int        `json:"screenWidth"`
	ScreenHeight    int        `json:"screenHeight"`
	Timezone        string     `json:"timezone"`
	Language        string     `json:"language"`
	IsReturning     bool       `json:"isReturning"`
	VisitCount      int        `json:"visitCount"`
	SessionStart    time.Time  `json:"sessionStart"`
	SessionEnd      *time.Time `json:"sessionEnd"`
	SessionDuration *int       `json:"sessionDuration"`
	IPAddress       string     `json:"ipAddress"`
	UserAgent       string     `json:"userAgent"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// EndSessionRequest closes a session. SessionDuration is the caller's own
// elapsed-seconds measurement; it is stored verbatim, not recomputed. A
// pointer so that a reported duration of 0 still passes binding.
type EndSessionRequest struct {
	SessionID       string `json:"sessionId" binding:"required"`
	SessionDuration *int   `json:"sessionDuration" binding:"required"`
}
