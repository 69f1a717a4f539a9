// Package dutysim integrates the three-process model across one duty,
// tagging flight phases, detecting pinch events, and summarizing the
// resulting performance timeline (spec §4.6). The loop is a plain,
// synchronous for-loop over fixed time steps — no goroutines, no
// channels — since the work is CPU-bound and short-lived (spec §9).
package dutysim

import (
	"time"

	"github.com/avfatigue/fatigue-core/internal/circadian"
	"github.com/avfatigue/fatigue-core/internal/fatigue"
	"github.com/avfatigue/fatigue-core/internal/timeutil"
)

// Input bundles everything one duty simulation needs.
type Input struct {
	Duty                   fatigue.Duty
	LastSleepBlock         fatigue.SleepBlock // most recent sleep block ending at or before Duty.ReportUTC
	PhaseShiftHours        float64
	CumulativeSleepDebtH   float64 // debt as of report; carried unchanged through the duty's points
	HomeBaseTZ             string
	StrideMinutes          float64
	Params                 fatigue.Parameters
	Cancel                 func() bool // returns true to request cooperative cancellation
}

// Simulate runs the fixed-stride integration loop from report to
// release and returns the completed DutyTimeline. If Cancel trips
// mid-loop it returns the partial timeline built so far alongside a
// fatigue.Error of kind Cancelled.
func Simulate(in Input) (fatigue.DutyTimeline, error) {
	stride := in.StrideMinutes
	if stride <= 0 || stride > 15 {
		stride = 5
	}
	strideDur := time.Duration(stride * float64(time.Minute))

	wakeTime := in.LastSleepBlock.EndUTC
	sAtWake := circadian.SAtWake(in.LastSleepBlock.EffectiveHours)

	wakeLocalHour, err := timeutil.LocalHour(wakeTime, in.HomeBaseTZ)
	if err != nil {
		return fatigue.DutyTimeline{}, err
	}
	cAtWake := circadian.C(wakeLocalHour, in.PhaseShiftHours, in.Params.Circadian)

	timeline := make([]fatigue.PerformancePoint, 0, expectedPoints(in.Duty, strideDur))
	seenPinchPhases := make(map[fatigue.FlightPhase]bool)
	var pinches []fatigue.PinchEvent

	minPerf := 100.0
	sumPerf := 0.0
	hasLanding := false
	landingPerf := 0.0

	homeLoc, err := timeutil.LoadLocation(in.HomeBaseTZ)
	if err != nil {
		return fatigue.DutyTimeline{}, err
	}

	t := in.Duty.ReportUTC
	for !t.After(in.Duty.ReleaseUTC) {
		if in.Cancel != nil && in.Cancel() {
			partial := buildTimeline(in.Duty, timeline, minPerf, sumPerf, hasLanding, landingPerf, pinches, in.CumulativeSleepDebtH, in.HomeBaseTZ, in.Params)
			return partial, fatigue.CancelledError(in.Duty.DutyID)
		}

		hoursAwake := t.Sub(wakeTime).Hours()
		minutesSinceWake := t.Sub(wakeTime).Minutes()
		hoursOnDuty := t.Sub(in.Duty.ReportUTC).Hours()
		localHour := circadian.LocalHourOfDay(t, homeLoc)

		instant, err := circadian.Evaluate(circadian.EvaluateInputs{
			SAtWake:          sAtWake,
			HoursAwake:       hoursAwake,
			LocalHour:        localHour,
			PhaseShiftHours:  in.PhaseShiftHours,
			CAtWake:          cAtWake,
			MinutesSinceWake: minutesSinceWake,
			HoursOnDuty:      hoursOnDuty,
		}, in.Params)
		if err != nil {
			return fatigue.DutyTimeline{}, err
		}

		phase := classifyPhase(t, in.Duty.Segments)
		isWOCL := localHour >= in.Params.Circadian.WOCLStartHour && localHour < in.Params.Circadian.WOCLEndHour
		isCritical := instant.Performance < 55

		local, err := timeutil.ToLocal(t, in.HomeBaseTZ)
		if err != nil {
			return fatigue.DutyTimeline{}, err
		}

		point := fatigue.PerformancePoint{
			TUTC:                 t,
			TLocal:               local,
			S:                    instant.S,
			C:                    instant.C,
			W:                    instant.W,
			Performance:          instant.Performance,
			CumulativeSleepDebtH: in.CumulativeSleepDebtH,
			FlightPhase:          phase,
			IsWOCL:               isWOCL,
			IsCritical:           isCritical,
		}
		timeline = append(timeline, point)

		if instant.Performance < minPerf {
			minPerf = instant.Performance
		}
		sumPerf += instant.Performance
		if phase == fatigue.PhaseLanding {
			hasLanding = true
			landingPerf = instant.Performance
		}

		if instant.S > 0.7 && instant.C < 0.4 && criticalPinchPhases[phase] && !seenPinchPhases[phase] {
			seenPinchPhases[phase] = true
			pinches = append(pinches, fatigue.PinchEvent{TUTC: t, FlightPhase: phase, S: instant.S, C: instant.C})
		}

		t = t.Add(strideDur)
	}

	return buildTimeline(in.Duty, timeline, minPerf, sumPerf, hasLanding, landingPerf, pinches, in.CumulativeSleepDebtH, in.HomeBaseTZ, in.Params), nil
}

func buildTimeline(duty fatigue.Duty, timeline []fatigue.PerformancePoint, minPerf, sumPerf float64, hasLanding bool, landingPerf float64, pinches []fatigue.PinchEvent, debtAtReport float64, homeTZ string, params fatigue.Parameters) fatigue.DutyTimeline {
	avg := 0.0
	if len(timeline) > 0 {
		avg = sumPerf / float64(len(timeline))
	} else {
		minPerf = 0
	}
	woclH, _ := timeutil.WOCLOverlapHours(duty.ReportUTC, duty.ReleaseUTC, homeTZ, params.Circadian.WOCLStartHour, params.Circadian.WOCLEndHour)

	return fatigue.DutyTimeline{
		Duty:                         duty,
		Timeline:                     timeline,
		MinPerformance:               minPerf,
		AvgPerformance:               avg,
		LandingPerformance:           landingPerf,
		HasLanding:                   hasLanding,
		PinchEvents:                  pinches,
		WOCLEncroachmentH:            woclH,
		CumulativeSleepDebtAtRelease: debtAtReport,
	}
}

func expectedPoints(duty fatigue.Duty, stride time.Duration) int {
	if stride <= 0 {
		return 0
	}
	n := int(duty.ReleaseUTC.Sub(duty.ReportUTC)/stride) + 1
	if n < 0 {
		return 0
	}
	return n
}
