// Package fatiguecore is the public entry point of the fatigue
// simulation core: given a validated Roster and a Parameters bundle, it
// runs the full pipeline of §4 and returns a MonthlyAnalysis. It exposes
// nothing beyond this door and the data model in internal/fatigue's
// exported mirror types below — every calculator stays internal, per
// spec §9 ("public surface: the analyze entry point and named types").
package fatiguecore

import (
	"time"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
	"github.com/avfatigue/fatigue-core/internal/rostersim"
)

// Re-exported data model. Callers construct Roster/Duty/FlightSegment
// values through the constructors below rather than the struct literals
// directly, so the report-time-shift and ordering invariants of spec §3
// are always applied.
type (
	Roster          = fatigue.Roster
	Duty            = fatigue.Duty
	FlightSegment   = fatigue.FlightSegment
	Airport         = fatigue.Airport
	AirportLookup   = fatigue.AirportLookup
	Parameters      = fatigue.Parameters
	MonthlyAnalysis = fatigue.MonthlyAnalysis
	DutyTimeline    = fatigue.DutyTimeline
	RestPeriod      = fatigue.RestPeriod
	SleepBlock      = fatigue.SleepBlock
	Diagnostic      = fatigue.Diagnostic
	Error           = fatigue.Error
	ErrorKind       = fatigue.ErrorKind
)

const (
	KindRosterValidation   = fatigue.KindRosterValidation
	KindCancelled          = fatigue.KindCancelled
	KindNumericInstability = fatigue.KindNumericInstability
)

// NewDuty validates and constructs a Duty, applying the report-time
// shift-back-one-day invariant of spec §3.
func NewDuty(dutyID string, date, reportUTC, releaseUTC time.Time, segments []FlightSegment, homeBaseTZ string) (Duty, error) {
	return fatigue.NewDuty(dutyID, date, reportUTC, releaseUTC, segments, homeBaseTZ)
}

// NewFlightSegment validates and constructs a FlightSegment.
func NewFlightSegment(flightNo string, dep, arr Airport, schedDepUTC, schedArrUTC time.Time) (FlightSegment, error) {
	return fatigue.NewFlightSegment(flightNo, dep, arr, schedDepUTC, schedArrUTC)
}

// ValidateRoster checks whole-roster invariants (non-overlapping duties,
// compared in report-time order) ahead of Analyze.
func ValidateRoster(r Roster) error { return fatigue.ValidateRoster(r) }

// DefaultParameters returns the literature-grounded default preset.
func DefaultParameters() Parameters { return fatigue.DefaultParameters() }

// PresetByName resolves one of the four named parameter presets.
func PresetByName(name string) (Parameters, bool) { return fatigue.PresetByName(name) }

// AnalyzeOptions controls stride and cooperative cancellation for one
// Analyze call.
type AnalyzeOptions struct {
	// StrideMinutes is the duty-simulation sample interval, clamped to
	// (0, 15] minutes; zero or out-of-range defaults to 5.
	StrideMinutes float64
	// Cancel is polled once per simulated step; returning true stops the
	// run and Analyze returns the partial MonthlyAnalysis built so far
	// alongside a Cancelled Error.
	Cancel func() bool
}

// Analyze runs the fatigue simulation core end to end for one roster:
// roster validation (§4 "Overlapping duties... surface as a
// RosterValidation error"), sleep-strategy dispatch, sleep-quality
// scoring, phase-shift and sleep-debt propagation, per-duty
// three-process integration, and EASA rest-compliance checking,
// returning the rolled-up MonthlyAnalysis.
func Analyze(roster Roster, params Parameters, opts AnalyzeOptions) (MonthlyAnalysis, error) {
	return rostersim.Analyze(roster, rostersim.Options{
		Params:        params,
		StrideMinutes: opts.StrideMinutes,
		Cancel:        opts.Cancel,
	})
}
