// Package fixture loads test and demo rosters from a flat CSV row
// format, the same csvutil.Decoder-onto-tagged-struct approach the
// retrieval pack uses for its own row-oriented CSV inputs. It exists
// only to feed unit tests with realistic data (the CLI does not use it);
// production roster ingestion (PDF/CSV parsing of an airline's own
// export format) is explicitly out of scope for the fatigue core (spec
// §5 Non-goals) and this package makes no attempt to be that.
package fixture

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jszwec/csvutil"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
)

// SegmentRow is one CSV row: a single flight segment, tagged with the
// duty and roster it belongs to so an entire roster can be expressed as
// one flat file with no nested structure.
type SegmentRow struct {
	RosterID    string  `csv:"roster_id"`
	PilotID     string  `csv:"pilot_id"`
	HomeBaseTZ  string  `csv:"home_base_tz"`
	Year        int     `csv:"year"`
	Month       int     `csv:"month"`
	DutyID      string  `csv:"duty_id"`
	ReportUTC   string  `csv:"report_utc"`
	ReleaseUTC  string  `csv:"release_utc"`
	FlightNo    string  `csv:"flight_no"`
	DepCode     string  `csv:"dep_code"`
	DepTZ       string  `csv:"dep_tz"`
	DepLat      float64 `csv:"dep_lat"`
	DepLon      float64 `csv:"dep_lon"`
	ArrCode     string  `csv:"arr_code"`
	ArrTZ       string  `csv:"arr_tz"`
	ArrLat      float64 `csv:"arr_lat"`
	ArrLon      float64 `csv:"arr_lon"`
	SchedDepUTC string  `csv:"sched_dep_utc"`
	SchedArrUTC string  `csv:"sched_arr_utc"`
}

// LoadRoster decodes r as a SegmentRow CSV stream and assembles it into
// a single fatigue.Roster, grouping rows by duty_id and applying the
// same constructors (fatigue.NewFlightSegment, fatigue.NewDuty) any
// other caller must go through, so a fixture can never bypass the
// invariants a hand-built Roster would have to satisfy.
func LoadRoster(r io.Reader) (fatigue.Roster, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return fatigue.Roster{}, fmt.Errorf("fixture: creating CSV decoder: %w", err)
	}

	var rows []SegmentRow
	if err := dec.Decode(&rows); err != nil && err != io.EOF {
		return fatigue.Roster{}, fmt.Errorf("fixture: decoding roster CSV: %w", err)
	}
	if len(rows) == 0 {
		return fatigue.Roster{}, fmt.Errorf("fixture: roster CSV has no rows")
	}

	// A blank duty_id means the fixture author didn't bother assigning
	// one; each such row starts its own single-segment duty rather than
	// being grouped, since there is no key to group it by.
	dutyOrder := make([]string, 0)
	dutyRows := make(map[string][]SegmentRow)
	for i, row := range rows {
		key := row.DutyID
		if key == "" {
			key = fmt.Sprintf("_ungrouped_%d", i)
		}
		if _, ok := dutyRows[key]; !ok {
			dutyOrder = append(dutyOrder, key)
		}
		dutyRows[key] = append(dutyRows[key], row)
	}

	first := rows[0]
	rosterID := first.RosterID
	if rosterID == "" {
		rosterID = uuid.NewString()
	}

	duties := make([]fatigue.Duty, 0, len(dutyOrder))
	for _, key := range dutyOrder {
		segRows := dutyRows[key]
		sort.Slice(segRows, func(i, j int) bool { return segRows[i].SchedDepUTC < segRows[j].SchedDepUTC })

		dutyID := segRows[0].DutyID
		if dutyID == "" {
			dutyID = uuid.NewString()
		}

		segments := make([]fatigue.FlightSegment, 0, len(segRows))
		for _, sr := range segRows {
			dep := fatigue.Airport{Code: sr.DepCode, Timezone: sr.DepTZ, Latitude: sr.DepLat, Longitude: sr.DepLon}
			arr := fatigue.Airport{Code: sr.ArrCode, Timezone: sr.ArrTZ, Latitude: sr.ArrLat, Longitude: sr.ArrLon}
			schedDep, err := parseTime(sr.SchedDepUTC)
			if err != nil {
				return fatigue.Roster{}, fmt.Errorf("fixture: duty %q: %w", dutyID, err)
			}
			schedArr, err := parseTime(sr.SchedArrUTC)
			if err != nil {
				return fatigue.Roster{}, fmt.Errorf("fixture: duty %q: %w", dutyID, err)
			}
			seg, err := fatigue.NewFlightSegment(sr.FlightNo, dep, arr, schedDep, schedArr)
			if err != nil {
				return fatigue.Roster{}, fmt.Errorf("fixture: duty %q: %w", dutyID, err)
			}
			segments = append(segments, seg)
		}

		head := segRows[0]
		reportUTC, err := parseTime(head.ReportUTC)
		if err != nil {
			return fatigue.Roster{}, fmt.Errorf("fixture: duty %q: %w", dutyID, err)
		}
		releaseUTC, err := parseTime(head.ReleaseUTC)
		if err != nil {
			return fatigue.Roster{}, fmt.Errorf("fixture: duty %q: %w", dutyID, err)
		}

		duty, err := fatigue.NewDuty(dutyID, reportUTC.Truncate(24*time.Hour), reportUTC, releaseUTC, segments, head.HomeBaseTZ)
		if err != nil {
			return fatigue.Roster{}, err
		}
		duties = append(duties, duty)
	}

	return fatigue.Roster{
		RosterID:   rosterID,
		PilotID:    first.PilotID,
		Year:       first.Year,
		Month:      time.Month(first.Month),
		Duties:     duties,
		HomeBaseTZ: first.HomeBaseTZ,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
