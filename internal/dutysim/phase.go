package dutysim

import (
	"time"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
)

// classifyPhase implements the flight-phase windows of spec §4.6 step 4.
// Ground time between report and the first segment's TaxiOut window, and
// any ground time between consecutive segments, is reported as
// Preflight — the spec only names a phase for the windows immediately
// around each segment's departure and arrival.
func classifyPhase(t time.Time, segments []fatigue.FlightSegment) fatigue.FlightPhase {
	for _, seg := range segments {
		dep := seg.SchedDepUTC
		arr := seg.SchedArrUTC

		taxiOutStart := dep.Add(-10 * time.Minute)
		takeoffEnd := dep.Add(5 * time.Minute)
		climbEnd := takeoffEnd.Add(15 * time.Minute)
		approachStart := arr.Add(-10 * time.Minute)
		landingStart := arr.Add(-3 * time.Minute)
		descentStart := arr.Add(-20 * time.Minute)
		taxiInEnd := arr.Add(10 * time.Minute)

		switch {
		case !t.Before(taxiOutStart) && t.Before(dep):
			return fatigue.PhaseTaxiOut
		case !t.Before(dep) && t.Before(takeoffEnd):
			return fatigue.PhaseTakeoff
		case !t.Before(takeoffEnd) && t.Before(climbEnd) && climbEnd.Before(descentStart):
			return fatigue.PhaseClimb
		case !t.Before(climbEnd) && t.Before(descentStart) && climbEnd.Before(descentStart):
			return fatigue.PhaseCruise
		case !t.Before(descentStart) && t.Before(approachStart):
			return fatigue.PhaseDescent
		case !t.Before(approachStart) && t.Before(landingStart):
			return fatigue.PhaseApproach
		case !t.Before(landingStart) && !t.After(arr):
			return fatigue.PhaseLanding
		case t.After(arr) && !t.After(taxiInEnd):
			return fatigue.PhaseTaxiIn
		}
	}
	return fatigue.PhasePreflight
}

var criticalPinchPhases = map[fatigue.FlightPhase]bool{
	fatigue.PhaseTakeoff:  true,
	fatigue.PhaseApproach: true,
	fatigue.PhaseLanding:  true,
}
