package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"devflux/api/middleware"
	"devflux/api/models"
	"devflux/api/store"
	"devflux/api/utils"

	"github.com/gin-gonic/gin"
)

// memStore is an in-memory fake backing both store.Visitors and
// store.Events for handler tests.
type memStore struct {
	mu       sync.Mutex
	nextID   int
	sessions []models.VisitorSession
	feedback []models.PaymentFeedback
	audits   []models.AuditRequest
	events   []models.AnalyticsEvent
}

func newMemStore() *memStore {
	return &memStore{}
}

func inWindow(createdAt time.Time, since *time.Time) bool {
	return since == nil || !createdAt.Before(*since)
}

func (m *memStore) CreateSession(ctx context.Context, s *models.VisitorSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s.ID = m.nextID
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	m.sessions = append(m.sessions, *s)
	return nil
}

func (m *memStore) EndSession(ctx context.Context, sessionID string, duration int, endedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sessions {
		if m.sessions[i].SessionID == sessionID {
			end := endedAt
			d := duration
			m.sessions[i].SessionEnd = &end
			m.sessions[i].SessionDuration = &d
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListSessions(ctx context.Context, since *time.Time, newestFirst bool) ([]models.VisitorSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.VisitorSession
	for _, s := range m.sessions {
		if inWindow(s.CreatedAt, since) {
			out = append(out, s)
		}
	}
	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (m *memStore) CreateFeedback(ctx context.Context, f *models.PaymentFeedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	f.ID = m.nextID
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	m.feedback = append(m.feedback, *f)
	return nil
}

func (m *memStore) ListFeedback(ctx context.Context, since *time.Time, newestFirst bool) ([]models.PaymentFeedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PaymentFeedback
	for _, f := range m.feedback {
		if inWindow(f.CreatedAt, since) {
			out = append(out, f)
		}
	}
	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (m *memStore) CreateAuditRequest(ctx context.Context, a *models.AuditRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = m.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	m.audits = append(m.audits, *a)
	return nil
}

func (m *memStore) ListAuditRequests(ctx context.Context, since *time.Time, newestFirst bool) ([]models.AuditRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AuditRequest
	for _, a := range m.audits {
		if inWindow(a.CreatedAt, since) {
			out = append(out, a)
		}
	}
	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (m *memStore) InsertEvent(ctx context.Context, e *models.AnalyticsEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *e)
	return nil
}

func (m *memStore) ListEvents(ctx context.Context, since *time.Time) ([]models.AnalyticsEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AnalyticsEvent
	for _, e := range m.events {
		if inWindow(e.CreatedAt, since) {
			out = append(out, e)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (m *memStore) CountEventsByType(ctx context.Context, since *time.Time) (map[string]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]uint64)
	for _, e := range m.events {
		if inWindow(e.CreatedAt, since) {
			counts[e.EventType]++
		}
	}
	return counts, nil
}

var (
	_ store.Visitors = (*memStore)(nil)
	_ store.Events   = (*memStore)(nil)
)

// newTestRouter wires the full route surface against the fake store.
func newTestRouter(m *memStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.UseJSONFieldNames()

	analyticsHandlers := NewAnalyticsHandlers(m, m)
	leadHandlers := NewLeadHandlers(m)
	dashboardHandlers := NewDashboardHandlers(m, m)
	downloadHandlers := NewDownloadHandlers()

	r := gin.New()
	api := r.Group("/api")
	api.POST("/analytics/session", analyticsHandlers.CreateSession)
	api.POST("/analytics/session/end", analyticsHandlers.EndSession)
	api.POST("/analytics/event", analyticsHandlers.TrackEvent)
	api.POST("/feedback", leadHandlers.CreateFeedback)
	api.POST("/audit-requests", leadHandlers.CreateAuditRequest)
	api.GET("/download/:token", downloadHandlers.Download)

	dashboard := api.Group("/dashboard")
	dashboard.Use(middleware.DashboardSecret())
	dashboard.GET("/stats", dashboardHandlers.Stats)
	dashboard.GET("/sessions", dashboardHandlers.Sessions)
	dashboard.GET("/events", dashboardHandlers.Events)
	dashboard.GET("/feedback", dashboardHandlers.Feedback)
	dashboard.GET("/audits", dashboardHandlers.Audits)
	dashboard.GET("/export/:type", dashboardHandlers.Export)
	dashboard.GET("/download-token", downloadHandlers.MintToken)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
