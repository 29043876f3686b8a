// api/stats/stats.go
package stats

import (
	"math"
	"sort"
	"strings"

	"devflux/api/models"
)

// Stats is the dashboard aggregate for one time window.
type Stats struct {
	Sessions     SessionStats    `json:"sessions"`
	Events       EventStats      `json:"events"`
	Feedback     FeedbackStats   `json:"feedback"`
	Audits       AuditStats      `json:"audits"`
	Devices      DeviceStats     `json:"devices"`
	Browsers     map[string]int  `json:"browsers"`
	UTMSources   map[string]int  `json:"utmSources"`
	TopReferrers []ReferrerCount `json:"topReferrers"`
}

type SessionStats struct {
	Total             int `json:"total"`
	UniqueIPs         int `json:"uniqueIPs"`
	ReturningVisitors int `json:"returningVisitors"`
	AvgDuration       int `json:"avgDuration"`
}

type EventStats struct {
	Total  uint64            `json:"total"`
	ByType map[string]uint64 `json:"byType"`
}

type FeedbackStats struct {
	Total    int            `json:"total"`
	ByReason map[string]int `json:"byReason"`
}

type AuditStats struct {
	Total int `json:"total"`
}

type DeviceStats struct {
	Mobile  int `json:"mobile"`
	Desktop int `json:"desktop"`
	Tablet  int `json:"tablet"`
}

type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Count    int    `json:"count"`
}

// Dedupe collapses repeat sessions into one entry per approximate physical
// visitor. The key is the IP address, falling back to the client-generated
// visitor id when no IP was recorded; the first-seen session wins, so later
// UTM/referrer/device data from the same IP is dropped. IP is a rough proxy
// (NAT and shared proxies undercount), accepted as-is.
func Dedupe(sessions []models.VisitorSession) []models.VisitorSession {
	seen := make(map[string]struct{}, len(sessions))
	var deduped []models.VisitorSession
	for _, s := range sessions {
		key := s.IPAddress
		if key == "" {
			key = s.VisitorID
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, s)
	}
	return deduped
}

// Compute derives the dashboard aggregate. sessions must be in storage
// (insertion) order so that deduplication keeps the earliest row per key.
// eventsByType comes pre-aggregated from the event store. An empty window
// yields zeroed counts and empty maps.
func Compute(sessions []models.VisitorSession, eventsByType map[string]uint64, feedback []models.PaymentFeedback, auditCount int) Stats {
	deduped := Dedupe(sessions)

	result := Stats{
		Sessions: SessionStats{
			Total:     len(sessions),
			UniqueIPs: len(deduped),
		},
		Audits:     AuditStats{Total: auditCount},
		Browsers:   make(map[string]int),
		UTMSources: make(map[string]int),
		Events: EventStats{
			ByType: make(map[string]uint64),
		},
		Feedback: FeedbackStats{
			ByReason: make(map[string]int),
		},
		TopReferrers: []ReferrerCount{},
	}

	var durationSum int
	referrers := make(map[string]int)
	var referrerOrder []string
	for _, s := range deduped {
		if s.IsReturning {
			result.Sessions.ReturningVisitors++
		}
		if s.SessionDuration != nil {
			durationSum += *s.SessionDuration
		}

		deviceType := strings.ToLower(s.DeviceType)
		switch {
		case strings.Contains(deviceType, "mobile"):
			result.Devices.Mobile++
		case strings.Contains(deviceType, "tablet"):
			result.Devices.Tablet++
		default:
			result.Devices.Desktop++
		}

		browser := s.Browser
		if browser == "" {
			browser = "Unknown"
		}
		result.Browsers[browser]++

		source := s.UTMSource
		if source == "" {
			source = "Direct"
		}
		result.UTMSources[source]++

		referrer := s.Referrer
		if referrer == "" {
			referrer = "Direct"
		}
		if _, ok := referrers[referrer]; !ok {
			referrerOrder = append(referrerOrder, referrer)
		}
		referrers[referrer]++
	}

	if len(deduped) > 0 {
		result.Sessions.AvgDuration = int(math.Round(float64(durationSum) / float64(len(deduped))))
	}

	for _, ref := range referrerOrder {
		result.TopReferrers = append(result.TopReferrers, ReferrerCount{Referrer: ref, Count: referrers[ref]})
	}
	sort.SliceStable(result.TopReferrers, func(i, j int) bool {
		return result.TopReferrers[i].Count > result.TopReferrers[j].Count
	})
	if len(result.TopReferrers) > 10 {
		result.TopReferrers = result.TopReferrers[:10]
	}

	for eventType, count := range eventsByType {
		result.Events.ByType[eventType] = count
		result.Events.Total += count
	}

	result.Feedback.Total = len(feedback)
	for _, f := range feedback {
		reason := f.FeedbackReason
		if reason == "" {
			reason = "Unknown"
		}
		result.Feedback.ByReason[reason]++
	}

	return result
}
