// Package circadian evaluates the three-process biomathematical model
// (spec §4.5): homeostatic pressure S, circadian alertness C, and sleep
// inertia W, plus the performance integration that combines them. Every
// function here is a closed-form evaluation at a single instant, given a
// wake anchor and a cumulative phase shift — there is no per-step state
// carried inside this package, matching spec §9 ("the core holds
// [no global state]... global state").
package circadian

import (
	"math"
	"time"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
)

// SAtWake derives the homeostatic pressure present at the moment of
// waking from the quality of the sleep just completed. A perfectly
// restored 8h sleep yields ~0.1; a 4h sleep yields ~0.4.
func SAtWake(effectiveHours float64) float64 {
	v := 0.7 - 0.6*(effectiveHours/8.0)
	return clamp(v, 0.1, 0.9)
}

// SAwake evaluates process S during wakefulness: pressure builds toward
// SMax with time constant TauWakeHours.
func SAwake(sAtWake float64, hoursAwake float64, p fatigue.HomeostaticParams) float64 {
	if hoursAwake < 0 {
		hoursAwake = 0
	}
	return p.SMax - (p.SMax-sAtWake)*math.Exp(-hoursAwake/p.TauWakeHours)
}

// SAsleep evaluates process S during sleep itself, decaying from the
// pressure present at sleep onset toward SMin with time constant
// TauSleepHours. Used when back-filling S across a sleep block.
func SAsleep(sAtSleepOnset float64, hoursAsleep float64, p fatigue.HomeostaticParams) float64 {
	if hoursAsleep < 0 {
		hoursAsleep = 0
	}
	return p.SMin + (sAtSleepOnset-p.SMin)*math.Exp(-hoursAsleep/p.TauSleepHours)
}

// LocalHourOfDay is the fractional hour-of-day of t in loc, the only
// clock quantity process C depends on.
func LocalHourOfDay(t time.Time, loc *time.Location) float64 {
	local := t.In(loc)
	return float64(local.Hour()) + float64(local.Minute())/60.0 + float64(local.Second())/3600.0
}

// C evaluates process C (circadian alertness, -1..+1) at the given
// local hour-of-day, with phaseShift accumulated from jet-lag adaptation
// (§4.5).
func C(localHour float64, phaseShiftHours float64, p fatigue.CircadianParams) float64 {
	angle := 2 * math.Pi * (localHour - p.AcrophaseEffectiveHours + phaseShiftHours) / p.PeriodHours
	return p.AmplitudeEffective * math.Cos(angle)
}

// CircadianInertiaFactor scales sleep-inertia magnitude by how deep in
// the circadian trough the pilot woke: waking near C's minimum (-1)
// produces the strongest inertia; waking near the peak (+1) the
// weakest. Linearly interpolated between 1.0 (trough) and 0.4 (peak).
func CircadianInertiaFactor(cAtWake float64) float64 {
	// cAtWake in [-1,1]; map to [1.0, 0.4].
	t := (cAtWake + 1) / 2 // 0 at trough, 1 at peak
	return 1.0 - 0.6*t
}

// W evaluates process W (sleep inertia) given minutes elapsed since
// waking and the circadian phase present at that wake moment.
func W(minutesSinceWake float64, cAtWake float64, p fatigue.InertiaParams) float64 {
	if minutesSinceWake < 0 || minutesSinceWake >= p.DurationMinutes {
		return 0
	}
	decay := 1 - minutesSinceWake/p.DurationMinutes
	return p.WMax * decay * CircadianInertiaFactor(cAtWake)
}

// PhaseShiftStep advances an accumulated jet-lag phase shift by one
// layover period toward targetShiftHours, at the given directional rate
// (§4.5: "each day of layover advances phase_shift toward the local
// acrophase of the arrival base"). Full adaptation is reached once the
// remaining gap is under 0.5h, per spec.
func PhaseShiftStep(current, targetShiftHours, ratePerDay, days float64) float64 {
	gap := targetShiftHours - current
	if math.Abs(gap) < 0.5 {
		return targetShiftHours
	}
	step := ratePerDay * days
	if gap < 0 {
		step = -step
	}
	if math.Abs(step) > math.Abs(gap) {
		return targetShiftHours
	}
	return current + step
}

// Instant is one fully-evaluated point of the three-process model,
// ready to be folded into a fatigue.PerformancePoint by the duty
// simulator.
type Instant struct {
	S           float64
	C           float64
	W           float64
	Performance float64
}

// EvaluateInputs bundles everything Evaluate needs at one time step so
// call sites read as a single record rather than a long parameter list.
type EvaluateInputs struct {
	SAtWake          float64
	HoursAwake       float64
	LocalHour        float64
	PhaseShiftHours  float64
	CAtWake          float64
	MinutesSinceWake float64
	HoursOnDuty      float64
}

// Evaluate performs the full performance integration of §4.5:
//
//	s_alertness = 1 - S(t)
//	c_alertness = (C(t)+1)/2
//	base = w_h*s_alertness + w_c*c_alertness - time_on_task - W(t)
//	performance = 20 + 80*clamp(base, 0, 1)
func Evaluate(in EvaluateInputs, params fatigue.Parameters) (Instant, error) {
	s := SAwake(in.SAtWake, in.HoursAwake, params.Homeostatic)
	c := C(in.LocalHour, in.PhaseShiftHours, params.Circadian)
	w := W(in.MinutesSinceWake, in.CAtWake, params.Inertia)

	if math.IsNaN(s) || math.IsInf(s, 0) {
		return Instant{}, fatigue.NumericInstabilityError("process S", s)
	}
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return Instant{}, fatigue.NumericInstabilityError("process C", c)
	}
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return Instant{}, fatigue.NumericInstabilityError("process W", w)
	}

	sAlertness := 1 - s
	cAlertness := (c + 1) / 2

	hoursOnDuty := in.HoursOnDuty
	if hoursOnDuty < 0 {
		hoursOnDuty = 0
	}

	base := params.Weights.Homeostatic*sAlertness + params.Weights.Circadian*cAlertness
	base -= params.Weights.TimeOnTaskRate * hoursOnDuty
	base -= w

	performance := 20 + 80*clamp(base, 0, 1)
	if math.IsNaN(performance) || math.IsInf(performance, 0) {
		return Instant{}, fatigue.NumericInstabilityError("performance integration", performance)
	}

	return Instant{S: s, C: c, W: w, Performance: performance}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
