package export

import (
	"errors"
	"strings"
	"testing"
	"time"

	"devflux/api/models"
)

func TestFeedbackEscaping(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []models.PaymentFeedback{
		{ID: 1, FeedbackReason: "He said, \"hi\"\n", CreatedAt: created},
	}

	data, err := Feedback(rows)
	if err != nil {
		t.Fatalf("Feedback: %v", err)
	}

	out := string(data)
	if !strings.HasPrefix(out, "id,feedbackReason,userAgent,ipAddress,referrer,pageUrl,createdAt") {
		t.Errorf("missing or wrong header row: %q", out)
	}
	// Comma, quote, and newline force quoting; internal quotes are doubled
	// and the newline survives inside the quotes.
	want := "\"He said, \"\"hi\"\"\n\""
	if !strings.Contains(out, want) {
		t.Errorf("escaped field %q not found in output %q", want, out)
	}
}

func TestExportEmptyIsNotFound(t *testing.T) {
	if _, err := Sessions(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("Sessions(nil) err = %v, want ErrNoData", err)
	}
	if _, err := Events([]models.AnalyticsEvent{}); !errors.Is(err, ErrNoData) {
		t.Errorf("Events(empty) err = %v, want ErrNoData", err)
	}
	if _, err := Feedback(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("Feedback(nil) err = %v, want ErrNoData", err)
	}
	if _, err := Audits(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("Audits(nil) err = %v, want ErrNoData", err)
	}
}

func TestSessionsNullsSerializeEmpty(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []models.VisitorSession{
		{
			ID:           7,
			VisitorID:    "v1",
			SessionID:    "s1",
			SessionStart: created,
			CreatedAt:    created,
			// SessionEnd and SessionDuration still null: session never closed
		},
	}

	data, err := Sessions(rows)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 record, got %d lines", len(lines))
	}
	header := strings.Split(lines[0], ",")
	record := strings.Split(lines[1], ",")
	if len(record) != len(header) {
		t.Fatalf("record has %d fields, header has %d", len(record), len(header))
	}

	cols := make(map[string]string, len(header))
	for i, name := range header {
		cols[name] = record[i]
	}
	if cols["sessionEnd"] != "" {
		t.Errorf("sessionEnd = %q, want empty", cols["sessionEnd"])
	}
	if cols["sessionDuration"] != "" {
		t.Errorf("sessionDuration = %q, want empty", cols["sessionDuration"])
	}
	if cols["sessionStart"] != "2026-03-01T12:00:00Z" {
		t.Errorf("sessionStart = %q", cols["sessionStart"])
	}
	if cols["visitorId"] != "v1" || cols["sessionId"] != "s1" {
		t.Errorf("identity columns wrong: %v", cols)
	}
}

func TestEventsColumns(t *testing.T) {
	value := 42.5
	rows := []models.AnalyticsEvent{
		{
			EventID:    "e1",
			EventType:  "buy_button_click",
			EventValue: &value,
			CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	data, err := Events(rows)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "buy_button_click") || !strings.Contains(out, "42.5") {
		t.Errorf("unexpected output: %q", out)
	}
}
