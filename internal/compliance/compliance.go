// Package compliance implements the EASA ORO.FTL.235 rest-requirement
// checks of spec §4.8: minimum rest, local-night coverage, sleep
// opportunity, and recurrent rest, each surfaced as a structured
// finding rather than a fatal error (spec §7: ComplianceFinding is
// non-fatal, recorded per rest period).
package compliance

import (
	"fmt"
	"time"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
	"github.com/avfatigue/fatigue-core/internal/timeutil"
)

const (
	minRestHomeHours  = 12.0
	minRestAwayHours  = 10.0
	sleepOverheadHours = 3.0
	sleepOpportunityMinHours = 8.0

	minimumCeilingHours  = 24.0
	adequateCeilingHours = 36.0
	extendedFloorHours   = 60.0
)

// CheckRestPeriod evaluates one inter-duty rest period.
func CheckRestPeriod(previous, next fatigue.Duty, homeBaseTZ string) (fatigue.RestPeriod, error) {
	arrival := previous.ArrivalAirport()
	away := arrival.Timezone != homeBaseTZ

	actualRest := next.ReportUTC.Sub(previous.ReleaseUTC).Hours()

	required := minRestHomeHours
	if away {
		required = minRestAwayHours
	}
	if previous.DutyHours() > required {
		required = previous.DutyHours()
	}

	var violations []string
	if actualRest < required {
		locationLabel := "home base"
		if away {
			locationLabel = "away from base"
		}
		violations = append(violations, fmt.Sprintf(
			"Rest %.1fh < minimum %.1fh (previous duty %.1fh, %s)",
			actualRest, required, previous.DutyHours(), locationLabel))
	}

	locationTZ := homeBaseTZ
	if away {
		locationTZ = arrival.Timezone
	}

	localNights := 0
	if !away {
		covered, err := containsLocalNight(previous.ReleaseUTC, next.ReportUTC, homeBaseTZ, 22.0, 8.0)
		if err != nil {
			return fatigue.RestPeriod{}, err
		}
		if covered {
			localNights = 1
		} else {
			violations = append(violations, "rest period does not fully contain a local night (22:00-08:00 home-local)")
		}
	} else {
		if actualRest-sleepOverheadHours < sleepOpportunityMinHours {
			violations = append(violations, fmt.Sprintf(
				"insufficient sleep opportunity: %.1fh < %.1fh required (actual rest %.1fh minus %.1fh overhead)",
				actualRest-sleepOverheadHours, sleepOpportunityMinHours, actualRest, sleepOverheadHours))
		}
	}

	return fatigue.RestPeriod{
		PreviousDutyID:     previous.DutyID,
		NextDutyID:         next.DutyID,
		StartUTC:           previous.ReleaseUTC,
		EndUTC:             next.ReportUTC,
		AwayFromBase:       away,
		LocationCode:       locationTZ,
		Type:               classifyRestType(actualRest),
		IsCompliant:        len(violations) == 0,
		Violations:         violations,
		LocalNightsCovered: localNights,
	}, nil
}

func classifyRestType(actualRestHours float64) fatigue.RestType {
	switch {
	case actualRestHours < minRestAwayHours:
		return fatigue.RestIllegal
	case actualRestHours < minimumCeilingHours:
		return fatigue.RestMinimum
	case actualRestHours < adequateCeilingHours:
		return fatigue.RestAdequate
	case actualRestHours < extendedFloorHours:
		return fatigue.RestRecurrent
	default:
		return fatigue.RestExtended
	}
}

// containsLocalNight reports whether [start,end) fully contains a
// nightStartHour..nightEndHour (next day) window in tz on at least one
// calendar night.
func containsLocalNight(start, end time.Time, tz string, nightStartHour, nightEndHour float64) (bool, error) {
	loc, err := timeutil.LoadLocation(tz)
	if err != nil {
		return false, err
	}
	localStart := start.In(loc)
	cursor := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	localEnd := end.In(loc)

	for !cursor.After(localEnd) {
		nightStart := cursor.Add(time.Duration(nightStartHour * float64(time.Hour)))
		nightEnd := cursor.AddDate(0, 0, 1).Add(time.Duration(nightEndHour * float64(time.Hour)))
		if !nightStart.Before(start) && !nightEnd.After(end) {
			return true, nil
		}
		cursor = cursor.AddDate(0, 0, 1)
	}
	return false, nil
}
