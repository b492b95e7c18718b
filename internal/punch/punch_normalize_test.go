package punch_test

import (
	"testing"
	"time"

	"go-hrms/internal/punch"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{"seconds int", 32400, "09:00:00", true},
		{"seconds int64", int64(64800), "18:00:00", true},
		{"seconds float", 45296.9, "12:34:56", true},
		{"wraps past midnight", 86400 + 60, "00:01:00", true},
		{"clock string", "09:05:07", "09:05:07", true},
		{"short clock", "9:05", "09:05:00", true},
		{"fractional clock", "17:30:00.0000000", "17:30:00", true},
		{"twelve hour", "5:30 PM", "17:30:00", true},
		{"numeric string", "3600", "01:00:00", true},
		{"bytes", []byte("08:00:00"), "08:00:00", true},
		{"timestamp", time.Date(2026, 3, 2, 8, 15, 0, 0, time.FixedZone("IST", 5*3600+1800)), "02:45:00", true},
		{"midnight time column", time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), "00:00:00", true},
		{"nil", nil, "", false},
		{"negative", -5, "", false},
		{"garbage", "not a time", "", false},
		{"empty", "  ", "", false},
		{"unsupported type", true, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := punch.NormalizeTime(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	events, dropped := punch.Normalize([]punch.SourceRow{
		{UserID: " 101 ", LogDate: day, LogTime: 32400, Direction: "IN"},
		{UserID: "102", LogDate: day, LogTime: "18:00"},
		{UserID: "", LogDate: day, LogTime: 32400},
		{UserID: "103", LogDate: day, LogTime: "??"},
		{UserID: "104", LogTime: "09:00"},
	})

	assert.Equal(t, 3, dropped)
	assert.Len(t, events, 2)
	assert.Equal(t, "101", events[0].ExternalID)
	assert.Equal(t, "in", events[0].Direction)
	assert.Equal(t, "out", events[1].Direction)
	assert.Equal(t, "18:00:00", events[1].Time)
	assert.False(t, events[0].Processed)
}

func TestDedupe(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	events := punch.Dedupe([]punch.RawPunchEvent{
		{ExternalID: "101", Date: day, Time: "09:00:00", Direction: "in"},
		{ExternalID: "102", Date: day, Time: "09:00:00", Direction: "in"},
		{ExternalID: "101", Date: day, Time: "09:00:00", Direction: "out"},
		{ExternalID: "101", Date: day.AddDate(0, 0, 1), Time: "09:00:00", Direction: "in"},
	})

	assert.Len(t, events, 3)
	assert.Equal(t, "101", events[0].ExternalID)
	assert.Equal(t, "out", events[0].Direction, "last write wins")
	assert.Equal(t, "102", events[1].ExternalID)
}
