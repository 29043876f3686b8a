// api/store/visitor_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"devflux/api/models"
)

// VisitorStore is the Postgres implementation of Visitors.
type VisitorStore struct {
	db *sql.DB
}

func NewVisitorStore(db *sql.DB) *VisitorStore {
	return &VisitorStore{db: db}
}

const sessionColumns = `
	id, visitor_id, session_id,
	utm_source, utm_medium, utm_campaign, utm_content, utm_term,
	referrer, landing_page,
	device_type, browser, browser_version, os,
	screen_width, screen_height, timezone, language,
	is_returning, visit_count,
	session_start, session_end, session_duration,
	ip_address, user_agent, created_at`

func (s *VisitorStore) CreateSession(ctx context.Context, session *models.VisitorSession) error {
	query := `
		INSERT INTO visitor_sessions (
			visitor_id, session_id,
			utm_source, utm_medium, utm_campaign, utm_content, utm_term,
			referrer, landing_page,
			device_type, browser, browser_version, os,
			screen_width, screen_height, timezone, language,
			is_returning, visit_count, session_start,
			ip_address, user_agent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id, created_at;
	`
	err := s.db.QueryRowContext(ctx, query,
		session.VisitorID, session.SessionID,
		session.UTMSource, session.UTMMedium, session.UTMCampaign, session.UTMContent, session.UTMTerm,
		session.Referrer, session.LandingPage,
		session.DeviceType, session.Browser, session.BrowserVersion, session.OS,
		session.ScreenWidth, session.ScreenHeight, session.Timezone, session.Language,
		session.IsReturning, session.VisitCount, session.SessionStart,
		session.IPAddress, session.UserAgent,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create visitor session: %w", err)
	}
	return nil
}

// EndSession closes a session, stamping session_end and storing the
// caller-reported duration. Returns false if no row matched; repeat calls
// overwrite (last write wins).
func (s *VisitorStore) EndSession(ctx context.Context, sessionID string, duration int, endedAt time.Time) (bool, error) {
	query := `
		UPDATE visitor_sessions
		SET session_end = $2, session_duration = $3
		WHERE session_id = $1;
	`
	res, err := s.db.ExecContext(ctx, query, sessionID, endedAt, duration)
	if err != nil {
		return false, fmt.Errorf("failed to end session %s: %w", sessionID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for session %s: %w", sessionID, err)
	}
	return affected > 0, nil
}

func (s *VisitorStore) ListSessions(ctx context.Context, since *time.Time, newestFirst bool) ([]models.VisitorSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM visitor_sessions`
	var args []interface{}
	if since != nil {
		query += ` WHERE created_at >= $1`
		args = append(args, *since)
	}
	if newestFirst {
		query += ` ORDER BY created_at DESC, id DESC`
	} else {
		query += ` ORDER BY id ASC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query visitor sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.VisitorSession
	for rows.Next() {
		var sess models.VisitorSession
		var sessionEnd sql.NullTime
		var sessionDuration sql.NullInt64
		if err := rows.Scan(
			&sess.ID, &sess.VisitorID, &sess.SessionID,
			&sess.UTMSource, &sess.UTMMedium, &sess.UTMCampaign, &sess.UTMContent, &sess.UTMTerm,
			&sess.Referrer, &sess.LandingPage,
			&sess.DeviceType, &sess.Browser, &sess.BrowserVersion, &sess.OS,
			&sess.ScreenWidth, &sess.ScreenHeight, &sess.Timezone, &sess.Language,
			&sess.IsReturning, &sess.VisitCount,
			&sess.SessionStart, &sessionEnd, &sessionDuration,
			&sess.IPAddress, &sess.UserAgent, &sess.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan visitor session row: %w", err)
		}
		if sessionEnd.Valid {
			t := sessionEnd.Time
			sess.SessionEnd = &t
		}
		if sessionDuration.Valid {
			d := int(sessionDuration.Int64)
			sess.SessionDuration = &d
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during visitor session query: %w", err)
	}
	return sessions, nil
}

func (s *VisitorStore) CreateFeedback(ctx context.Context, feedback *models.PaymentFeedback) error {
	query := `
		INSERT INTO payment_feedback (feedback_reason, user_agent, ip_address, referrer, page_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at;
	`
	err := s.db.QueryRowContext(ctx, query,
		feedback.FeedbackReason, feedback.UserAgent, feedback.IPAddress, feedback.Referrer, feedback.PageURL,
	).Scan(&feedback.ID, &feedback.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment feedback: %w", err)
	}
	return nil
}

func (s *VisitorStore) ListFeedback(ctx context.Context, since *time.Time, newestFirst bool) ([]models.PaymentFeedback, error) {
	query := `SELECT id, feedback_reason, user_agent, ip_address, referrer, page_url, created_at FROM payment_feedback`
	var args []interface{}
	if since != nil {
		query += ` WHERE created_at >= $1`
		args = append(args, *since)
	}
	if newestFirst {
		query += ` ORDER BY created_at DESC, id DESC`
	} else {
		query += ` ORDER BY id ASC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment feedback: %w", err)
	}
	defer rows.Close()

	var feedback []models.PaymentFeedback
	for rows.Next() {
		var f models.PaymentFeedback
		if err := rows.Scan(&f.ID, &f.FeedbackReason, &f.UserAgent, &f.IPAddress, &f.Referrer, &f.PageURL, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment feedback row: %w", err)
		}
		feedback = append(feedback, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during payment feedback query: %w", err)
	}
	return feedback, nil
}

func (s *VisitorStore) CreateAuditRequest(ctx context.Context, request *models.AuditRequest) error {
	query := `
		INSERT INTO audit_requests (name, email, company, team_size, current_spend, challenges)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at;
	`
	err := s.db.QueryRowContext(ctx, query,
		request.Name, request.Email, request.Company, request.TeamSize, request.CurrentSpend, request.Challenges,
	).Scan(&request.ID, &request.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create audit request: %w", err)
	}
	return nil
}

func (s *VisitorStore) ListAuditRequests(ctx context.Context, since *time.Time, newestFirst bool) ([]models.AuditRequest, error) {
	query := `SELECT id, name, email, company, team_size, current_spend, challenges, created_at FROM audit_requests`
	var args []interface{}
	if since != nil {
		query += ` WHERE created_at >= $1`
		args = append(args, *since)
	}
	if newestFirst {
		query += ` ORDER BY created_at DESC, id DESC`
	} else {
		query += ` ORDER BY id ASC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit requests: %w", err)
	}
	defer rows.Close()

	var requests []models.AuditRequest
	for rows.Next() {
		var a models.AuditRequest
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Company, &a.TeamSize, &a.CurrentSpend, &a.Challenges, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit request row: %w", err)
		}
		requests = append(requests, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during audit request query: %w", err)
	}
	return requests, nil
}
