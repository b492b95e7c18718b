package punch

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const secondsPerDay = 24 * 60 * 60

// NormalizeTime coerces the source's time-of-day representations to HH:MM:SS.
func NormalizeTime(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case int:
		return fromSeconds(float64(t))
	case int32:
		return fromSeconds(float64(t))
	case int64:
		return fromSeconds(float64(t))
	case float32:
		return fromSeconds(float64(t))
	case float64:
		return fromSeconds(t)
	case []byte:
		return fromClock(string(t))
	case string:
		return fromClock(t)
	case time.Time:
		return t.UTC().Format("15:04:05"), true
	}
	return "", false
}

func fromSeconds(v float64) (string, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return "", false
	}
	s := int64(math.Floor(v)) % secondsPerDay
	return time.Unix(s, 0).UTC().Format("15:04:05"), true
}

func fromClock(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSeconds(n)
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	for _, layout := range []string{"15:04:05", "15:04", "3:04:05 PM", "3:04 PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05"), true
		}
	}
	return "", false
}

// Normalize converts source rows to events and reports how many rows were dropped.
func Normalize(rows []SourceRow) ([]RawPunchEvent, int) {
	events := make([]RawPunchEvent, 0, len(rows))
	dropped := 0
	for _, r := range rows {
		id := strings.TrimSpace(r.UserID)
		clock, ok := NormalizeTime(r.LogTime)
		if id == "" || r.LogDate.IsZero() || !ok {
			dropped++
			continue
		}

		direction := strings.ToLower(strings.TrimSpace(r.Direction))
		if direction == "" {
			direction = DirectionOut
		}

		events = append(events, RawPunchEvent{
			ID:         uuid.New(),
			ExternalID: id,
			Date:       DateOf(r.LogDate),
			Time:       clock,
			Direction:  direction,
		})
	}
	return events, dropped
}

// Dedupe keeps one event per (external id, date, time). A later duplicate replaces the
// earlier one but keeps its position.
func Dedupe(events []RawPunchEvent) []RawPunchEvent {
	index := make(map[string]int, len(events))
	out := make([]RawPunchEvent, 0, len(events))
	for _, e := range events {
		k := e.key()
		if i, ok := index[k]; ok {
			out[i] = e
			continue
		}
		index[k] = len(out)
		out = append(out, e)
	}
	return out
}

// DateOf drops the clock part, keeping the calendar date as written.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
