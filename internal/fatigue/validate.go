package fatigue

import (
	"sort"
	"time"
)

// NewDuty constructs a Duty and applies the report-time shift-back
// invariant from spec §3: if the supplied report time does not precede
// the first segment's scheduled departure, the source data disagrees
// with the duty constructor's contract by exactly one day (a common
// artifact of date-only roster rows), and report_utc is shifted back a
// day rather than rejected outright.
func NewDuty(dutyID string, date time.Time, reportUTC, releaseUTC time.Time, segments []FlightSegment, homeBaseTZ string) (Duty, error) {
	if len(segments) == 0 {
		return Duty{}, RosterValidationError("duty %q has no flight segments", dutyID)
	}
	if !reportUTC.Before(releaseUTC) {
		return Duty{}, RosterValidationError("duty %q: report_utc %v is not before release_utc %v", dutyID, reportUTC, releaseUTC)
	}
	for i := 0; i < len(segments)-1; i++ {
		if segments[i+1].SchedDepUTC.Before(segments[i].SchedArrUTC) {
			return Duty{}, RosterValidationError("duty %q: segment %d departs before segment %d arrives", dutyID, i+1, i)
		}
	}
	if reportUTC.After(segments[0].SchedDepUTC) {
		reportUTC = reportUTC.AddDate(0, 0, -1)
	}
	if !reportUTC.Before(segments[0].SchedDepUTC) && !reportUTC.Equal(segments[0].SchedDepUTC) {
		return Duty{}, RosterValidationError("duty %q: report_utc %v still does not precede first departure %v after shift", dutyID, reportUTC, segments[0].SchedDepUTC)
	}
	last := segments[len(segments)-1]
	if releaseUTC.Before(last.SchedArrUTC) {
		return Duty{}, RosterValidationError("duty %q: release_utc %v precedes last arrival %v", dutyID, releaseUTC, last.SchedArrUTC)
	}
	return Duty{
		DutyID:     dutyID,
		Date:       date,
		ReportUTC:  reportUTC,
		ReleaseUTC: releaseUTC,
		Segments:   segments,
		HomeBaseTZ: homeBaseTZ,
	}, nil
}

// NewFlightSegment constructs a FlightSegment, enforcing
// sched_arr_utc > sched_dep_utc.
func NewFlightSegment(flightNo string, dep, arr Airport, schedDepUTC, schedArrUTC time.Time) (FlightSegment, error) {
	if !schedArrUTC.After(schedDepUTC) {
		return FlightSegment{}, RosterValidationError("segment %q: sched_arr_utc %v is not after sched_dep_utc %v", flightNo, schedArrUTC, schedDepUTC)
	}
	return FlightSegment{
		FlightNo:    flightNo,
		Dep:         dep,
		Arr:         arr,
		SchedDepUTC: schedDepUTC,
		SchedArrUTC: schedArrUTC,
		BlockHours:  schedArrUTC.Sub(schedDepUTC).Hours(),
	}, nil
}

// ValidateRoster checks the whole-roster invariants that only make sense
// once every duty is known: no two duties overlap once sorted by
// report time. The order in which r lists its duties is not checked.
// Per spec §4: "Overlapping duties in the input roster: surface as a
// RosterValidation error; computation does not proceed."
func ValidateRoster(r Roster) error {
	if len(r.Duties) == 0 {
		return RosterValidationError("roster %q has no duties", r.RosterID)
	}
	duties := make([]Duty, len(r.Duties))
	copy(duties, r.Duties)
	sort.Slice(duties, func(i, j int) bool { return duties[i].ReportUTC.Before(duties[j].ReportUTC) })
	for i := 0; i < len(duties)-1; i++ {
		a, b := duties[i], duties[i+1]
		if b.ReportUTC.Before(a.ReleaseUTC) {
			return RosterValidationError("duties %q and %q overlap (%v..%v vs %v..%v)",
				a.DutyID, b.DutyID, a.ReportUTC, a.ReleaseUTC, b.ReportUTC, b.ReleaseUTC)
		}
	}
	return nil
}
