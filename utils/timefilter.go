// api/utils/timefilter.go
package utils

import "time"

// TimeFilterBound maps a named dashboard time filter to an inclusive lower
// bound on created_at. "today" is the start of the current calendar day,
// "7d"/"30d" are rolling windows ending now. nil means no bound; unknown
// values behave like "all". There is never an upper bound.
func TimeFilterBound(filter string, now time.Time) *time.Time {
	switch filter {
	case "today":
		t := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return &t
	case "7d":
		t := now.Add(-7 * 24 * time.Hour)
		return &t
	case "30d":
		t := now.Add(-30 * 24 * time.Hour)
		return &t
	default:
		return nil
	}
}
