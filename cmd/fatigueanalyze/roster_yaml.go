package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
)

// rosterDocument is the nested YAML shape accepted by the --roster flag,
// a friendlier ad-hoc alternative to the flat fixture CSV format for
// hand-written demo rosters. It uses yaml.v3 (distinct from the
// yaml.v2-backed pkg/paramconfig documents) so both major versions in
// the retrieval pack's dependency surface get exercised for the concern
// each is idiomatically used for elsewhere in the pack.
type rosterDocument struct {
	RosterID   string       `yaml:"roster_id"`
	PilotID    string       `yaml:"pilot_id"`
	Year       int          `yaml:"year"`
	Month      int          `yaml:"month"`
	HomeBaseTZ string       `yaml:"home_base_tz"`
	Duties     []dutyDoc    `yaml:"duties"`
}

type dutyDoc struct {
	DutyID     string       `yaml:"duty_id"`
	ReportUTC  time.Time    `yaml:"report_utc"`
	ReleaseUTC time.Time    `yaml:"release_utc"`
	Segments   []segmentDoc `yaml:"segments"`
}

type segmentDoc struct {
	FlightNo    string      `yaml:"flight_no"`
	Dep         airportDoc  `yaml:"dep"`
	Arr         airportDoc  `yaml:"arr"`
	SchedDepUTC time.Time   `yaml:"sched_dep_utc"`
	SchedArrUTC time.Time   `yaml:"sched_arr_utc"`
}

type airportDoc struct {
	Code      string  `yaml:"code"`
	Timezone  string  `yaml:"timezone"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

func loadRosterYAML(path string) (fatigue.Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fatigue.Roster{}, fmt.Errorf("reading roster file %s: %w", path, err)
	}
	var doc rosterDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fatigue.Roster{}, fmt.Errorf("parsing roster file %s: %w", path, err)
	}

	duties := make([]fatigue.Duty, 0, len(doc.Duties))
	for _, dd := range doc.Duties {
		segments := make([]fatigue.FlightSegment, 0, len(dd.Segments))
		for _, sd := range dd.Segments {
			dep := fatigue.Airport{Code: sd.Dep.Code, Timezone: sd.Dep.Timezone, Latitude: sd.Dep.Latitude, Longitude: sd.Dep.Longitude}
			arr := fatigue.Airport{Code: sd.Arr.Code, Timezone: sd.Arr.Timezone, Latitude: sd.Arr.Latitude, Longitude: sd.Arr.Longitude}
			seg, err := fatigue.NewFlightSegment(sd.FlightNo, dep, arr, sd.SchedDepUTC.UTC(), sd.SchedArrUTC.UTC())
			if err != nil {
				return fatigue.Roster{}, fmt.Errorf("duty %q: %w", dd.DutyID, err)
			}
			segments = append(segments, seg)
		}
		duty, err := fatigue.NewDuty(dd.DutyID, dd.ReportUTC.UTC().Truncate(24*time.Hour), dd.ReportUTC.UTC(), dd.ReleaseUTC.UTC(), segments, doc.HomeBaseTZ)
		if err != nil {
			return fatigue.Roster{}, err
		}
		duties = append(duties, duty)
	}

	return fatigue.Roster{
		RosterID:   doc.RosterID,
		PilotID:    doc.PilotID,
		Year:       doc.Year,
		Month:      time.Month(doc.Month),
		Duties:     duties,
		HomeBaseTZ: doc.HomeBaseTZ,
	}, nil
}
