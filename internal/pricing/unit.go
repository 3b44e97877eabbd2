package pricing

import (
	"strings"
	"time"
)

// Unit is the billing granularity for a rental line.
type Unit string

// Supported billing units.
const (
	UnitHour  Unit = "hour"
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// Seconds in each billing unit. Months use a flat 30-day approximation rather
// than calendar arithmetic; partial units always bill as whole units.
const (
	secondsPerHour  int64 = 3600
	secondsPerDay   int64 = 24 * secondsPerHour
	secondsPerWeek  int64 = 7 * secondsPerDay
	secondsPerMonth int64 = 30 * secondsPerDay
)

// ParseUnit normalises a unit string. Matching is case-insensitive and
// tolerates plural forms; anything unrecognised falls back to day.
func ParseUnit(value string) Unit {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(value)), "s") {
	case "hour":
		return UnitHour
	case "week":
		return UnitWeek
	case "month":
		return UnitMonth
	default:
		return UnitDay
	}
}

// Seconds returns the length of one billing unit in seconds.
func (u Unit) Seconds() int64 {
	switch u {
	case UnitHour:
		return secondsPerHour
	case UnitWeek:
		return secondsPerWeek
	case UnitMonth:
		return secondsPerMonth
	default:
		return secondsPerDay
	}
}

// DurationUnits converts a rental window into a count of billable units,
// rounding up. It returns 0 when either bound is unset or the window is empty
// or inverted; callers that allow undated lines apply their own default.
func DurationUnits(unit Unit, start, end time.Time) int64 {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	elapsed := int64(end.Sub(start) / time.Second)
	if elapsed <= 0 {
		return 0
	}
	size := unit.Seconds()
	return (elapsed + size - 1) / size
}
