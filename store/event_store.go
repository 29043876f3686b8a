// api/store/event_store.go
package store

import (
	"context"
	"fmt"
	"time"

	"devflux/api/database"
	"devflux/api/models"
)

// EventStore is the ClickHouse implementation of Events. The events table is
// insert-only; histograms are computed server-side with GROUP BY.
type EventStore struct {
	DB *database.ClickHouseClient
}

func NewEventStore(chClient *database.ClickHouseClient) *EventStore {
	return &EventStore{DB: chClient}
}

func (s *EventStore) InsertEvent(ctx context.Context, event *models.AnalyticsEvent) error {
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO analytics_events (
			event_id, visitor_id, session_id, event_type, event_category, event_action,
			event_label, event_value, page_url, element_id, element_text,
			scroll_depth, time_on_page, ip_address, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}

	if err := batch.Append(
		event.EventID,
		event.VisitorID,
		event.SessionID,
		event.EventType,
		event.EventCategory,
		event.EventAction,
		event.EventLabel,
		event.EventValue,
		event.PageURL,
		event.ElementID,
		event.ElementText,
		event.ScrollDepth,
		event.TimeOnPage,
		event.IPAddress,
		event.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to append event %s: %w", event.EventID, err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}

func (s *EventStore) ListEvents(ctx context.Context, since *time.Time) ([]models.AnalyticsEvent, error) {
	query := `
		SELECT event_id, visitor_id, session_id, event_type, event_category, event_action,
		       event_label, event_value, page_url, element_id, element_text,
		       scroll_depth, time_on_page, ip_address, created_at
		FROM analytics_events`
	var args []interface{}
	if since != nil {
		query += ` WHERE created_at >= ?`
		args = append(args, *since)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics events: %w", err)
	}
	defer rows.Close()

	var events []models.AnalyticsEvent
	for rows.Next() {
		var e models.AnalyticsEvent
		if err := rows.Scan(
			&e.EventID, &e.VisitorID, &e.SessionID, &e.EventType, &e.EventCategory, &e.EventAction,
			&e.EventLabel, &e.EventValue, &e.PageURL, &e.ElementID, &e.ElementText,
			&e.ScrollDepth, &e.TimeOnPage, &e.IPAddress, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analytics event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during analytics event query: %w", err)
	}
	return events, nil
}

func (s *EventStore) CountEventsByType(ctx context.Context, since *time.Time) (map[string]uint64, error) {
	query := `SELECT event_type, count() AS total FROM analytics_events`
	var args []interface{}
	if since != nil {
		query += ` WHERE created_at >= ?`
		args = append(args, *since)
	}
	query += ` GROUP BY event_type`

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event counts by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]uint64)
	for rows.Next() {
		var eventType string
		var total uint64
		if err := rows.Scan(&eventType, &total); err != nil {
			return nil, fmt.Errorf("failed to scan event count row: %w", err)
		}
		counts[eventType] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during event count query: %w", err)
	}
	return counts, nil
}
