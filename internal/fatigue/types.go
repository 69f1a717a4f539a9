// Package fatigue defines the data model shared by every stage of the
// fatigue simulation core: reference data (airports, segments, duties,
// rosters), the artifacts the simulation produces (sleep blocks,
// performance points, timelines), and the monthly analysis they roll up
// into.
package fatigue

import "time"

// Environment classifies where a sleep block took place.
type Environment string

const (
	EnvHome         Environment = "home"
	EnvHotel        Environment = "hotel"
	EnvAirportHotel Environment = "airport_hotel"
	EnvCrewRest     Environment = "crew_rest"
	EnvCrewHouse    Environment = "crew_house"
)

// SleepType classifies the purpose of a sleep block.
type SleepType string

const (
	SleepMain      SleepType = "main"
	SleepNap       SleepType = "nap"
	SleepAnchor    SleepType = "anchor"
	SleepInflight  SleepType = "inflight"
	SleepRecovery  SleepType = "recovery"
	SleepBaseline  SleepType = "baseline"
)

// FlightPhase tags a PerformancePoint with the operational phase of flight
// active at that instant.
type FlightPhase string

const (
	PhasePreflight FlightPhase = "preflight"
	PhaseTaxiOut   FlightPhase = "taxi_out"
	PhaseTakeoff   FlightPhase = "takeoff"
	PhaseClimb     FlightPhase = "climb"
	PhaseCruise    FlightPhase = "cruise"
	PhaseDescent   FlightPhase = "descent"
	PhaseApproach  FlightPhase = "approach"
	PhaseLanding   FlightPhase = "landing"
	PhaseTaxiIn    FlightPhase = "taxi_in"
)

// RiskLevel is the categorical bucket of a landing-performance score, per
// the breakpoints in §4.1 of the specification.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
	RiskExtreme  RiskLevel = "extreme"
)

// RestType classifies an inter-duty rest period for EASA compliance
// reporting.
type RestType string

const (
	RestIllegal   RestType = "illegal"
	RestMinimum   RestType = "minimum"
	RestAdequate  RestType = "adequate"
	RestRecurrent RestType = "recurrent"
	RestExtended  RestType = "extended"
)

// Airport is immutable reference data, injected by the caller via an
// AirportLookup rather than held in package-level state.
type Airport struct {
	Code      string
	Timezone  string
	Latitude  float64
	Longitude float64
}

// AirportLookup resolves an IATA code to reference data. Implementations
// are expected to fail closed: an unknown code is a RosterValidation
// error, never a zero-value Airport.
type AirportLookup func(code string) (Airport, error)

// FlightSegment is one scheduled flight leg within a duty.
type FlightSegment struct {
	FlightNo    string
	Dep         Airport
	Arr         Airport
	SchedDepUTC time.Time
	SchedArrUTC time.Time
	BlockHours  float64
}

// Duty is one flight duty period: a report/release window and the
// ordered flight segments flown within it.
type Duty struct {
	DutyID      string
	Date        time.Time // civil date, time-of-day ignored
	ReportUTC   time.Time
	ReleaseUTC  time.Time
	Segments    []FlightSegment
	HomeBaseTZ  string
}

// DutyHours is the wall-clock span of the duty, report to release.
func (d Duty) DutyHours() float64 {
	return d.ReleaseUTC.Sub(d.ReportUTC).Hours()
}

// FDPHours is the Flight Duty Period per the glossary: report to 30
// minutes after the last scheduled arrival. Distinct from DutyHours,
// which runs to release.
func (d Duty) FDPHours() float64 {
	if len(d.Segments) == 0 {
		return 0
	}
	last := d.Segments[len(d.Segments)-1]
	return last.SchedArrUTC.Add(30 * time.Minute).Sub(d.ReportUTC).Hours()
}

// ArrivalAirport is the airport at which the duty's last segment lands,
// i.e. the pilot's position at release.
func (d Duty) ArrivalAirport() Airport {
	return d.Segments[len(d.Segments)-1].Arr
}

// DepartureAirport is the airport of the duty's first segment.
func (d Duty) DepartureAirport() Airport {
	return d.Segments[0].Dep
}

// Roster is one pilot's normalized monthly schedule: an already-parsed,
// already-validated sequence of duties. Roster ingestion (PDF/CSV
// parsing) happens upstream of the core; the core only ever receives a
// value shaped like this one.
type Roster struct {
	RosterID   string
	PilotID    string
	Year       int
	Month      time.Month
	Duties     []Duty
	HomeBaseTZ string
}

// SleepBlock is one inferred or scheduled sleep opportunity. SleepBlocks
// are created by the sleep-strategy dispatcher, apart from the baseline
// block the roster simulator seeds before the first duty.
type SleepBlock struct {
	StartUTC       time.Time
	EndUTC         time.Time
	LocationTZ     string
	Environment    Environment
	SleepType      SleepType
	Confidence     float64
	EffectiveHours float64
}

// DurationHours is the raw (not quality-adjusted) length of the block.
func (b SleepBlock) DurationHours() float64 {
	return b.EndUTC.Sub(b.StartUTC).Hours()
}

// PerformancePoint is one minute-or-step sample of the integrated
// biomathematical model.
type PerformancePoint struct {
	TUTC                  time.Time
	TLocal                time.Time
	S                     float64
	C                     float64
	W                     float64
	Performance           float64
	CumulativeSleepDebtH  float64
	FlightPhase           FlightPhase
	IsWOCL                bool
	IsCritical            bool
}

// PinchEvent records a coincidence of high sleep pressure and circadian
// trough during a safety-critical flight phase (§4.6 step 5).
type PinchEvent struct {
	TUTC        time.Time
	FlightPhase FlightPhase
	S           float64
	C           float64
}

// DutyTimeline is the complete simulation output for one duty.
type DutyTimeline struct {
	Duty                          Duty
	Timeline                      []PerformancePoint
	MinPerformance                float64
	AvgPerformance                float64
	LandingPerformance            float64
	HasLanding                    bool
	PinchEvents                   []PinchEvent
	WOCLEncroachmentH             float64
	CumulativeSleepDebtAtRelease  float64
	SleepBlocksGeneratedBefore    []SleepBlock
	SAtRelease                    float64
	PhaseShiftAtRelease           float64
}

// RestPeriod is the interval between one duty's release and the next
// duty's report, plus the EASA compliance finding computed over it.
type RestPeriod struct {
	PreviousDutyID string
	NextDutyID     string
	StartUTC       time.Time
	EndUTC         time.Time
	AwayFromBase   bool
	LocationCode   string
	Type           RestType
	IsCompliant    bool
	Violations     []string
	LocalNightsCovered int
}

// ActualRestHours is the wall-clock length of the rest period.
func (r RestPeriod) ActualRestHours() float64 {
	return r.EndUTC.Sub(r.StartUTC).Hours()
}

// MonthlyAnalysis is the top-level output of Analyze: one roster's worth
// of duty timelines, rest-period compliance findings, and rolled-up
// summary metrics.
type MonthlyAnalysis struct {
	Roster                  Roster
	DutyTimelines           []DutyTimeline
	RestPeriods             []RestPeriod
	AvgSleepPerNightH       float64
	MaxSleepDebtH           float64
	LowCount                int
	ModerateCount           int
	HighCount               int
	CriticalCount           int
	ExtremeCount            int
	WorstDutyID             string
	TotalPinchEvents        int
	Diagnostics             []Diagnostic
	Cancelled               bool
	CompletedThroughDutyID  string
}

// Diagnostic is a non-fatal note surfaced by sleep-block generation, e.g.
// a truncated or dropped block (§7, SleepGenerationDiagnostic).
type Diagnostic struct {
	DutyID  string
	Message string
}
