// Package rostersim is the top-level driver of spec §4.7: it walks a
// validated roster duty by duty, threading sleep history, cumulative
// sleep debt, and accumulated circadian phase shift from one duty to the
// next, and rolls the resulting DutyTimelines and RestPeriods up into a
// MonthlyAnalysis. Nothing here holds state across calls — everything a
// step needs is either an argument or the previous step's return value,
// matching the "no global state" rule of spec §9.
package rostersim

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/avfatigue/fatigue-core/internal/circadian"
	"github.com/avfatigue/fatigue-core/internal/compliance"
	"github.com/avfatigue/fatigue-core/internal/dutysim"
	"github.com/avfatigue/fatigue-core/internal/fatigue"
	"github.com/avfatigue/fatigue-core/internal/risk"
	"github.com/avfatigue/fatigue-core/internal/sleepquality"
	"github.com/avfatigue/fatigue-core/internal/sleepstrategy"
)

const (
	baselineLeadHours      = 8.0
	baselineEndBufferHours = 1.0
	maxJetLagShiftHours    = 12.0
)

// Options controls one Analyze run.
type Options struct {
	Params        fatigue.Parameters
	StrideMinutes float64
	Cancel        func() bool
}

// Analyze runs the full monthly simulation for r, returning the
// completed MonthlyAnalysis. r is checked with fatigue.ValidateRoster
// first and any validation error is returned as is. If opts.Cancel trips mid-roster, Analyze
// returns the partial analysis built through the last completed duty
// alongside a fatigue.Error of kind Cancelled — callers should still use
// the returned value (spec §7).
func Analyze(r fatigue.Roster, opts Options) (fatigue.MonthlyAnalysis, error) {
	if err := fatigue.ValidateRoster(r); err != nil {
		return fatigue.MonthlyAnalysis{}, err
	}

	duties := make([]fatigue.Duty, len(r.Duties))
	copy(duties, r.Duties)
	sort.Slice(duties, func(i, j int) bool { return duties[i].ReportUTC.Before(duties[j].ReportUTC) })

	phaseShift := 0.0
	cumulativeDebt := 0.0
	sleepHistory := []fatigue.SleepBlock{seedBaselineBlock(duties[0], r.HomeBaseTZ)}
	var diagnostics []fatigue.Diagnostic
	var timelines []fatigue.DutyTimeline
	var restPeriods []fatigue.RestPeriod

	for i, duty := range duties {
		var previous *fatigue.Duty
		if i > 0 {
			previous = &duties[i-1]
		}

		strategyOut, err := sleepstrategy.Dispatch(sleepstrategy.Input{
			Duty:         duty,
			PreviousDuty: previous,
			HomeBaseTZ:   r.HomeBaseTZ,
			Params:       opts.Params,
		})
		if err != nil {
			return fatigue.MonthlyAnalysis{}, err
		}
		diagnostics = append(diagnostics, strategyOut.Diagnostics...)

		periodRawSleepH := 0.0
		for j := range strategyOut.Blocks {
			b := &strategyOut.Blocks[j]
			timeSincePrevRelease := 0.0
			if previous != nil {
				timeSincePrevRelease = b.StartUTC.Sub(previous.ReleaseUTC).Hours()
			}
			timeUntilReport := duty.ReportUTC.Sub(b.EndUTC).Hours()
			isRecovery := b.SleepType == fatigue.SleepRecovery

			effective, _, err := sleepquality.Compute(*b, sleepquality.Context{
				TimeSincePreviousReleaseH: timeSincePrevRelease,
				TimeUntilNextReportH:      timeUntilReport,
				IsRecovery:                isRecovery,
			}, opts.Params)
			if err != nil {
				return fatigue.MonthlyAnalysis{}, err
			}
			b.EffectiveHours = effective
			sleepHistory = append(sleepHistory, *b)
			periodRawSleepH += b.DurationHours()
		}

		if previous != nil {
			hoursOfLayover := duty.ReportUTC.Sub(previous.ReleaseUTC).Hours() / 24.0

			cumulativeDebt = updateSleepDebt(cumulativeDebt, periodRawSleepH, hoursOfLayover, opts.Params.Homeostatic.BaselineSleepNeed, opts.Params.SleepDebt)

			targetShift, err := jetLagTargetShift(*previous, duty)
			if err != nil {
				return fatigue.MonthlyAnalysis{}, err
			}
			rate := opts.Params.JetLag.EastwardHoursPerDay
			if targetShift < phaseShift {
				rate = opts.Params.JetLag.WestwardHoursPerDay
			}
			phaseShift = circadian.PhaseShiftStep(phaseShift, targetShift, rate, hoursOfLayover)
		}

		lastBlock, ok := lastSleepBlockBefore(sleepHistory, duty.ReportUTC)
		if !ok {
			return fatigue.MonthlyAnalysis{}, fatigue.RosterValidationError("duty %q: no sleep block precedes report time", duty.DutyID)
		}

		timeline, simErr := dutysim.Simulate(dutysim.Input{
			Duty:                 duty,
			LastSleepBlock:       lastBlock,
			PhaseShiftHours:      phaseShift,
			CumulativeSleepDebtH: cumulativeDebt,
			HomeBaseTZ:           r.HomeBaseTZ,
			StrideMinutes:        opts.StrideMinutes,
			Params:               opts.Params,
			Cancel:               opts.Cancel,
		})
		timeline.SleepBlocksGeneratedBefore = append([]fatigue.SleepBlock(nil), sleepHistory...)
		timeline.PhaseShiftAtRelease = phaseShift
		timeline.SAtRelease = circadian.SAwake(circadian.SAtWake(lastBlock.EffectiveHours), duty.ReleaseUTC.Sub(lastBlock.EndUTC).Hours(), opts.Params.Homeostatic)
		timelines = append(timelines, timeline)

		if fatigueErr, isCancelled := asCancelled(simErr); isCancelled {
			analysis := aggregate(r, timelines, restPeriods, diagnostics, sleepHistory, opts.Params)
			analysis.Cancelled = true
			if i > 0 {
				analysis.CompletedThroughDutyID = duties[i-1].DutyID
			}
			return analysis, fatigueErr
		}
		if simErr != nil {
			return fatigue.MonthlyAnalysis{}, simErr
		}

		if previous != nil {
			rest, err := compliance.CheckRestPeriod(*previous, duty, r.HomeBaseTZ)
			if err != nil {
				return fatigue.MonthlyAnalysis{}, err
			}
			restPeriods = append(restPeriods, rest)
		}
	}

	recurrent, err := compliance.CheckRecurrentRest(restPeriods, r.HomeBaseTZ)
	if err != nil {
		return fatigue.MonthlyAnalysis{}, err
	}
	diagnostics = append(diagnostics, recurrent...)

	return aggregate(r, timelines, restPeriods, diagnostics, sleepHistory, opts.Params), nil
}

// seedBaselineBlock manufactures the pre-roster sleep opportunity spec
// §4.7.a requires so the first duty's SAtWake has an anchor: an 8h home
// block ending one hour before the first duty's report.
func seedBaselineBlock(firstDuty fatigue.Duty, homeBaseTZ string) fatigue.SleepBlock {
	end := firstDuty.ReportUTC.Add(-time.Duration(baselineEndBufferHours * float64(time.Hour)))
	start := end.Add(-time.Duration(baselineLeadHours * float64(time.Hour)))
	return fatigue.SleepBlock{
		StartUTC:       start,
		EndUTC:         end,
		LocationTZ:     homeBaseTZ,
		Environment:    fatigue.EnvHome,
		SleepType:      fatigue.SleepBaseline,
		Confidence:     1.0,
		EffectiveHours: baselineLeadHours * 0.95,
	}
}

// updateSleepDebt applies §4.7.c over one whole inter-duty period: the
// pilot owes baseline_sleep_need for every elapsed day, not per sleep
// block, so period_need scales with Δdays and is compared against the
// raw (not effective) hours actually slept across every block in the
// interval. A shortfall adds to debt; a surplus only pays down existing
// debt, never banks credit. The result then decays exponentially over
// the elapsed days, matching a first-order recovery process rather than
// a fixed daily fraction.
func updateSleepDebt(current, periodRawSleepH, deltaDays, baselineNeed float64, p fatigue.SleepDebtParams) float64 {
	periodNeed := baselineNeed * deltaDays
	balance := periodRawSleepH - periodNeed

	updated := current
	switch {
	case balance < 0:
		updated += -balance
	case balance > 0 && updated > 0:
		updated -= balance
		if updated < 0 {
			updated = 0
		}
	}

	updated *= math.Exp(-p.DecayRatePerDay * deltaDays)
	if updated < 0 {
		updated = 0
	}
	return updated
}

// jetLagTargetShift derives the phase-shift target of §4.5 from the UTC
// offset difference between the previous duty's arrival airport and the
// next duty's home base, evaluated at the next duty's report time: the
// pilot's circadian phase drifts toward whatever local time zone they
// are currently sitting in.
func jetLagTargetShift(previous, next fatigue.Duty) (float64, error) {
	arrival := previous.ArrivalAirport()
	if arrival.Timezone == next.HomeBaseTZ {
		return 0, nil
	}
	arrivalOffset, err := utcOffsetHours(arrival.Timezone, next.ReportUTC)
	if err != nil {
		return 0, err
	}
	homeOffset, err := utcOffsetHours(next.HomeBaseTZ, next.ReportUTC)
	if err != nil {
		return 0, err
	}
	shift := arrivalOffset - homeOffset
	if shift > maxJetLagShiftHours {
		shift = maxJetLagShiftHours
	}
	if shift < -maxJetLagShiftHours {
		shift = -maxJetLagShiftHours
	}
	return shift, nil
}

func utcOffsetHours(tz string, at time.Time) (float64, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return 0, err
	}
	_, offsetSeconds := at.In(loc).Zone()
	return float64(offsetSeconds) / 3600.0, nil
}

// lastSleepBlockBefore returns the sleep block whose EndUTC is closest
// to, but not after, before — the wake anchor dutysim.Simulate needs.
func lastSleepBlockBefore(history []fatigue.SleepBlock, before time.Time) (fatigue.SleepBlock, bool) {
	var best fatigue.SleepBlock
	found := false
	for _, b := range history {
		if b.EndUTC.After(before) {
			continue
		}
		if !found || b.EndUTC.After(best.EndUTC) {
			best = b
			found = true
		}
	}
	return best, found
}

func asCancelled(err error) (*fatigue.Error, bool) {
	fe, ok := err.(*fatigue.Error)
	if !ok || fe == nil {
		return nil, false
	}
	return fe, fe.Kind == fatigue.KindCancelled
}

func aggregate(r fatigue.Roster, timelines []fatigue.DutyTimeline, rests []fatigue.RestPeriod, diagnostics []fatigue.Diagnostic, sleepHistory []fatigue.SleepBlock, params fatigue.Parameters) fatigue.MonthlyAnalysis {
	analysis := fatigue.MonthlyAnalysis{
		Roster:        r,
		DutyTimelines: timelines,
		RestPeriods:   rests,
		Diagnostics:   diagnostics,
	}

	worstPerf := 101.0
	debtsAtRelease := make([]float64, 0, len(timelines))

	for _, t := range timelines {
		if t.HasLanding {
			level := risk.Classify(t.LandingPerformance, params.Risk)
			switch level {
			case fatigue.RiskLow:
				analysis.LowCount++
			case fatigue.RiskModerate:
				analysis.ModerateCount++
			case fatigue.RiskHigh:
				analysis.HighCount++
			case fatigue.RiskCritical:
				analysis.CriticalCount++
			case fatigue.RiskExtreme:
				analysis.ExtremeCount++
			}
			if t.LandingPerformance < worstPerf {
				worstPerf = t.LandingPerformance
				analysis.WorstDutyID = t.Duty.DutyID
			}
		}
		analysis.TotalPinchEvents += len(t.PinchEvents)
		debtsAtRelease = append(debtsAtRelease, t.CumulativeSleepDebtAtRelease)
	}
	maxDebt := 0.0
	if len(debtsAtRelease) > 0 {
		maxDebt = floats.Max(debtsAtRelease)
	}

	nightlyHours := make([]float64, 0, len(sleepHistory))
	for _, b := range sleepHistory {
		if b.SleepType == fatigue.SleepMain || b.SleepType == fatigue.SleepBaseline {
			nightlyHours = append(nightlyHours, b.EffectiveHours)
		}
	}
	if len(nightlyHours) > 0 {
		analysis.AvgSleepPerNightH = stat.Mean(nightlyHours, nil)
	}
	analysis.MaxSleepDebtH = maxDebt

	return analysis
}
