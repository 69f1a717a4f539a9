// Package timeutil provides the UTC/local conversions and WOCL-window
// arithmetic that every other fatigue-core component builds on (spec
// §4.2). It is deliberately dependency-free: every conversion goes
// through the stdlib IANA tz database via time.LoadLocation, which is
// the idiomatic Go path for civil-time conversions (no third-party
// timezone library appears anywhere in the retrieved corpus).
package timeutil

import (
	"fmt"
	"time"
)

// LoadLocation resolves an IANA timezone name, wrapping the stdlib error
// with the airport-code-shaped message spec §4 "Failure semantics"
// requires ("Missing timezone for an airport: fail... identifying the
// airport code" is produced by the caller, which has the code; this
// helper just surfaces a clear timezone-level error).
func LoadLocation(tz string) (*time.Location, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unresolvable timezone %q: %w", tz, err)
	}
	return loc, nil
}

// ToLocal converts an instant to its local wall-clock time in tz.
func ToLocal(instant time.Time, tz string) (time.Time, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return time.Time{}, err
	}
	return instant.In(loc), nil
}

// LocalHour returns the fractional hour-of-day (0.0 .. 23.999...) of
// instant in tz.
func LocalHour(instant time.Time, tz string) (float64, error) {
	local, err := ToLocal(instant, tz)
	if err != nil {
		return 0, err
	}
	return hourOfDay(local), nil
}

func hourOfDay(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60.0 + float64(t.Second())/3600.0
}

// IntervalOverlapHours returns the overlap, in hours, of two
// [start,end) instant intervals. Zero if they do not overlap.
func IntervalOverlapHours(aStart, aEnd, bStart, bEnd time.Time) float64 {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours()
}

// WOCLOverlapHours sums the minutes of [start,end) that fall within the
// home-base-local WOCL window (default 02:00 inclusive .. 06:00
// exclusive) on any calendar date, converted to hours. It walks the
// interval one local calendar day at a time so DST transitions and the
// "wrap into the previous day" boundary at 00:00 are both handled by
// asking the tz database for each day's actual WOCL window rather than
// assuming a fixed 24h period.
func WOCLOverlapHours(start, end time.Time, homeTZ string, woclStartHour, woclEndHour float64) (float64, error) {
	if !end.After(start) {
		return 0, fmt.Errorf("timeutil: end %v is not after start %v", end, start)
	}
	loc, err := LoadLocation(homeTZ)
	if err != nil {
		return 0, err
	}
	localStart := start.In(loc)
	localEnd := end.In(loc)

	dayCursor := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, loc)
	// A WOCL window can start the previous local day and still overlap
	// the interval's first instant, so begin scanning one day early.
	dayCursor = dayCursor.AddDate(0, 0, -1)

	total := 0.0
	for !dayCursor.After(localEnd) {
		woclStart := addFractionalHours(dayCursor, woclStartHour)
		woclEnd := addFractionalHours(dayCursor, woclEndHour)
		total += IntervalOverlapHours(localStart, localEnd, woclStart, woclEnd)
		dayCursor = dayCursor.AddDate(0, 0, 1)
	}
	return total, nil
}

func addFractionalHours(base time.Time, hours float64) time.Time {
	return base.Add(time.Duration(hours * float64(time.Hour)))
}

// DutyCrossesWOCL reports whether [reportUTC, releaseUTC) overlaps the
// home-base WOCL window at all.
func DutyCrossesWOCL(reportUTC, releaseUTC time.Time, homeTZ string, woclStartHour, woclEndHour float64) (bool, error) {
	h, err := WOCLOverlapHours(reportUTC, releaseUTC, homeTZ, woclStartHour, woclEndHour)
	if err != nil {
		return false, err
	}
	return h > 0, nil
}

// AtLocalTime builds the UTC instant corresponding to hour:minute local
// civil time on the same calendar date as reference (interpreted in tz).
// dayOffset shifts the calendar date by whole days first, which is how
// callers express "the morning before report day" or "the night of
// report day".
func AtLocalTime(reference time.Time, tz string, dayOffset int, hour, minute float64) (time.Time, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return time.Time{}, err
	}
	local := reference.In(loc).AddDate(0, 0, dayOffset)
	base := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return addFractionalHours(base, hour+minute/60.0), nil
}
