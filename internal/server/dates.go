package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/parkqr/parking/internal/storage"
)

const dateOnly = "2006-01-02"

// parseDate accepts YYYY-MM-DD or RFC3339. A date-only value for the end of a
// range covers the whole day.
func parseDate(raw string, endOfRange bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD or RFC3339", raw)
	}
	if endOfRange {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func parseDateRange(r *http.Request) (storage.DateRange, error) {
	q := r.URL.Query()
	startRaw, endRaw := q.Get("startDate"), q.Get("endDate")
	if startRaw == "" || endRaw == "" {
		return storage.DateRange{}, nil
	}

	from, err := parseDate(startRaw, false)
	if err != nil {
		return storage.DateRange{}, err
	}
	to, err := parseDate(endRaw, true)
	if err != nil {
		return storage.DateRange{}, err
	}
	return storage.DateRange{From: &from, To: &to}, nil
}
