package compliance

import (
	"fmt"
	"time"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
	"github.com/avfatigue/fatigue-core/internal/timeutil"
)

const recurrentRestMinHours = 36.0
const recurrentWindowHours = 168.0

// CheckRecurrentRest verifies that at least one rest period within every
// rolling 168h window contains a >=36h rest covering two 00:00-05:00
// home-local periods (§4.8 recurrent rest rule). It returns the subset
// of rolling windows, anchored at each rest period's start, that have no
// qualifying rest — each becomes a roster-level diagnostic rather than a
// per-rest-period violation, since the rule spans multiple rest periods.
func CheckRecurrentRest(rests []fatigue.RestPeriod, homeTZ string) ([]fatigue.Diagnostic, error) {
	if len(rests) == 0 {
		return nil, nil
	}

	qualifies := make([]bool, len(rests))
	for i, r := range rests {
		if r.ActualRestHours() < recurrentRestMinHours {
			continue
		}
		twoNights, err := coversTwoHomeNights(r.StartUTC, r.EndUTC, homeTZ)
		if err != nil {
			return nil, err
		}
		qualifies[i] = twoNights
	}

	var diagnostics []fatigue.Diagnostic
	windowStart := rests[0].StartUTC
	for windowStart.Before(rests[len(rests)-1].EndUTC) {
		windowEnd := windowStart.Add(time.Duration(recurrentWindowHours * float64(time.Hour)))
		found := false
		for i, r := range rests {
			if r.StartUTC.Before(windowEnd) && r.EndUTC.After(windowStart) && qualifies[i] {
				found = true
				break
			}
		}
		if !found {
			diagnostics = append(diagnostics, fatigue.Diagnostic{
				DutyID:  "",
				Message: fmt.Sprintf("no recurrent rest (>=36h with two 00:00-05:00 home-local periods) found in rolling 168h window starting %s", windowStart.Format(time.RFC3339)),
			})
		}
		windowStart = windowStart.Add(24 * time.Hour)
	}
	return dedupeDiagnostics(diagnostics), nil
}

func coversTwoHomeNights(start, end time.Time, homeTZ string) (bool, error) {
	count, err := countCoveredNights(start, end, homeTZ, 0.0, 5.0)
	if err != nil {
		return false, err
	}
	return count >= 2, nil
}

func countCoveredNights(start, end time.Time, tz string, nightStartHour, nightEndHour float64) (int, error) {
	loc, err := timeutil.LoadLocation(tz)
	if err != nil {
		return 0, err
	}
	localStart := start.In(loc)
	cursor := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	localEnd := end.In(loc)

	count := 0
	for !cursor.After(localEnd) {
		nightStart := cursor.Add(time.Duration(nightStartHour * float64(time.Hour)))
		nightEnd := cursor.Add(time.Duration(nightEndHour * float64(time.Hour)))
		if !nightStart.Before(start) && !nightEnd.After(end) {
			count++
		}
		cursor = cursor.AddDate(0, 0, 1)
	}
	return count, nil
}

func dedupeDiagnostics(in []fatigue.Diagnostic) []fatigue.Diagnostic {
	seen := make(map[string]bool)
	var out []fatigue.Diagnostic
	for _, d := range in {
		if seen[d.Message] {
			continue
		}
		seen[d.Message] = true
		out = append(out, d)
	}
	return out
}
