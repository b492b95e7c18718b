package attendance

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	HalfDayThresholdMinutes = 240
	FullShiftMinutes        = 510
	AfternoonStart          = "13:30:00"
)

type Session string

const (
	SessionForenoon  Session = "Forenoon"
	SessionAfternoon Session = "Afternoon"
)

// HalfDayLeave is the approved leave context of a day.
type HalfDayLeave struct {
	Session Session
}

// Outcome is the derived state of one employee day. HalfDayPart is set iff Status is HalfDay.
type Outcome struct {
	TimeIn          *string
	TimeOut         *string
	Status          Status
	HalfDayPart     *HalfDayPart
	OvertimeMinutes int
}

func absent() Outcome {
	return Outcome{Status: StatusAbsent}
}

func halfDay(part HalfDayPart) *HalfDayPart {
	return &part
}

// Derive folds the punch times of a day into an attendance outcome. Times are HH:MM:SS.
// With leave context the half is taken from the leave session rather than from the duration,
// and overtime still follows the worked duration. On the weekly off every worked minute is overtime.
func Derive(times []string, leave *HalfDayLeave, weekday time.Weekday) Outcome {
	if len(times) == 0 {
		return absent()
	}
	sorted := append([]string(nil), times...)
	sort.Strings(sorted)

	timeIn := sorted[0]
	if leave != nil {
		switch leave.Session {
		case SessionForenoon:
			i := sort.SearchStrings(sorted, AfternoonStart)
			if i == len(sorted) {
				return absent()
			}
			timeIn = sorted[i]
		case SessionAfternoon:
			if sorted[0] >= AfternoonStart {
				return absent()
			}
		}
	}
	timeOut := sorted[len(sorted)-1]
	duration := minutesOf(timeOut) - minutesOf(timeIn)

	out := Outcome{TimeIn: &timeIn, TimeOut: &timeOut}

	switch {
	case weekday == time.Sunday:
		out.Status = StatusPresent
		out.OvertimeMinutes = duration
	case leave != nil && leave.Session == SessionForenoon:
		out.Status = StatusHalfDay
		out.HalfDayPart = halfDay(PartSecond)
		out.OvertimeMinutes = max(0, duration-FullShiftMinutes)
	case leave != nil && leave.Session == SessionAfternoon:
		out.Status = StatusHalfDay
		out.HalfDayPart = halfDay(PartFirst)
		out.OvertimeMinutes = max(0, duration-FullShiftMinutes)
	case duration < HalfDayThresholdMinutes:
		out.Status = StatusHalfDay
		if timeIn >= AfternoonStart {
			out.HalfDayPart = halfDay(PartSecond)
		} else {
			out.HalfDayPart = halfDay(PartFirst)
		}
	default:
		out.Status = StatusPresent
		out.OvertimeMinutes = max(0, duration-FullShiftMinutes)
	}
	return out
}

func minutesOf(clock string) int {
	parts := strings.SplitN(clock, ":", 3)
	if len(parts) < 2 {
		return 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m
}

// ClaimDeadline is the last instant an overtime claim for day may be filed: the end of the
// following day in loc.
func ClaimDeadline(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d+1, 23, 59, 59, 999_999_999, loc)
}

// DateIn returns the calendar date of t as observed in loc, as a UTC midnight value.
func DateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
