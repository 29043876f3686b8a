// api/store/store.go
package store

import (
	"context"
	"time"

	"devflux/api/models"
)

// Visitors is the persistence surface for the Postgres-backed tables:
// sessions, payment feedback, and audit requests. since is an inclusive
// lower bound on created_at; nil means no bound. List methods return
// oldest-first when newestFirst is false, which is the order the stats
// deduplication walks.
type Visitors interface {
	CreateSession(ctx context.Context, s *models.VisitorSession) error
	EndSession(ctx context.Context, sessionID string, duration int, endedAt time.Time) (bool, error)
	ListSessions(ctx context.Context, since *time.Time, newestFirst bool) ([]models.VisitorSession, error)

	CreateFeedback(ctx context.Context, f *models.PaymentFeedback) error
	ListFeedback(ctx context.Context, since *time.Time, newestFirst bool) ([]models.PaymentFeedback, error)

	CreateAuditRequest(ctx context.Context, a *models.AuditRequest) error
	ListAuditRequests(ctx context.Context, since *time.Time, newestFirst bool) ([]models.AuditRequest, error)
}

// Events is the persistence surface for the ClickHouse-backed event table.
type Events interface {
	InsertEvent(ctx context.Context, e *models.AnalyticsEvent) error
	// ListEvents returns all events in the window, newest first.
	ListEvents(ctx context.Context, since *time.Time) ([]models.AnalyticsEvent, error)
	// CountEventsByType returns a per-type histogram over the window.
	CountEventsByType(ctx context.Context, since *time.Time) (map[string]uint64, error)
}
