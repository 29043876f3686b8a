// api/export/csv.go
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"devflux/api/models"
)

// ErrNoData distinguishes "nothing matched the window" from a successful
// export; an empty CSV is ambiguous to an operator, so absence is reported
// explicitly instead.
var ErrNoData = errors.New("no data to export")

var sessionHeader = []string{
	"id", "visitorId", "sessionId",
	"utmSource", "utmMedium", "utmCampaign", "utmContent", "utmTerm",
	"referrer", "landingPage",
	"deviceType", "browser", "browserVersion", "os",
	"screenWidth", "screenHeight", "timezone", "language",
	"isReturning", "visitCount",
	"sessionStart", "sessionEnd", "sessionDuration",
	"ipAddress", "userAgent", "createdAt",
}

var eventHeader = []string{
	"eventId", "visitorId", "sessionId",
	"eventType", "eventCategory", "eventAction", "eventLabel", "eventValue",
	"pageUrl", "elementId", "elementText",
	"scrollDepth", "timeOnPage", "ipAddress", "createdAt",
}

var feedbackHeader = []string{
	"id", "feedbackReason", "userAgent", "ipAddress", "referrer", "pageUrl", "createdAt",
}

var auditHeader = []string{
	"id", "name", "email", "company", "teamSize", "currentSpend", "challenges", "createdAt",
}

// Sessions serializes the full session attribute set, header row first.
func Sessions(rows []models.VisitorSession) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, s := range rows {
		records = append(records, []string{
			strconv.Itoa(s.ID), s.VisitorID, s.SessionID,
			s.UTMSource, s.UTMMedium, s.UTMCampaign, s.UTMContent, s.UTMTerm,
			s.Referrer, s.LandingPage,
			s.DeviceType, s.Browser, s.BrowserVersion, s.OS,
			strconv.Itoa(s.ScreenWidth), strconv.Itoa(s.ScreenHeight), s.Timezone, s.Language,
			strconv.FormatBool(s.IsReturning), strconv.Itoa(s.VisitCount),
			formatTime(s.SessionStart), formatTimePtr(s.SessionEnd), formatIntPtr(s.SessionDuration),
			s.IPAddress, s.UserAgent, formatTime(s.CreatedAt),
		})
	}
	return render(sessionHeader, records)
}

// Events serializes the full event attribute set, header row first.
func Events(rows []models.AnalyticsEvent) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, e := range rows {
		records = append(records, []string{
			e.EventID, e.VisitorID, e.SessionID,
			e.EventType, e.EventCategory, e.EventAction, e.EventLabel, formatFloatPtr(e.EventValue),
			e.PageURL, e.ElementID, e.ElementText,
			strconv.Itoa(int(e.ScrollDepth)), strconv.Itoa(int(e.TimeOnPage)), e.IPAddress, formatTime(e.CreatedAt),
		})
	}
	return render(eventHeader, records)
}

// Feedback serializes payment feedback rows, header row first.
func Feedback(rows []models.PaymentFeedback) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, f := range rows {
		records = append(records, []string{
			strconv.Itoa(f.ID), f.FeedbackReason, f.UserAgent, f.IPAddress, f.Referrer, f.PageURL, formatTime(f.CreatedAt),
		})
	}
	return render(feedbackHeader, records)
}

// Audits serializes audit request rows, header row first.
func Audits(rows []models.AuditRequest) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, a := range rows {
		records = append(records, []string{
			strconv.Itoa(a.ID), a.Name, a.Email, a.Company, strconv.Itoa(a.TeamSize), a.CurrentSpend, a.Challenges, formatTime(a.CreatedAt),
		})
	}
	return render(auditHeader, records)
}

// render writes header + records with standard CSV escaping: fields holding
// a comma, quote, or newline are quoted and internal quotes doubled.
func render(header []string, records [][]string) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
