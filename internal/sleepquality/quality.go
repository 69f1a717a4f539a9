// Package sleepquality converts a raw sleep interval plus its
// environment and surrounding context into an effective-sleep-hours
// scalar (spec §4.3). Every contributing factor is its own function so
// each is independently testable against the peer-reviewed sources
// cited in the spec, and Factors.Product keeps the multiplicative
// composition in one place for auditing.
package sleepquality

import (
	"github.com/avfatigue/fatigue-core/internal/fatigue"
	"github.com/avfatigue/fatigue-core/internal/timeutil"
)

// Context is the situational input to the calculator beyond the raw
// interval and environment (§4.3).
type Context struct {
	TimeSincePreviousReleaseH float64
	TimeUntilNextReportH      float64
	IsRecovery                bool
	WakeAnchorPhaseC          float64 // process C value at the block's end (used by late-onset/misalignment nuance if needed by callers)
}

// Factors is the record of independently-computed multiplicative
// factors that Product and Compute fold into the final effective-hours
// figure.
// Exposing them as a record (rather than inlining the multiplication)
// is what makes each one unit-testable in isolation.
type Factors struct {
	Base                float64
	WOCLMisalignment    float64
	LateOnset           float64
	Recovery            float64
	TimePressure        float64
	Insufficient        float64
}

// Product is the combined multiplicative factor before the final clamp.
func (f Factors) Product() float64 {
	return f.Base * f.WOCLMisalignment * f.LateOnset * f.Recovery * f.TimePressure * f.Insufficient
}

// BaseEfficiency returns the environment's base sleep efficiency (§4.1).
// Environments absent from the table (a caller bug, not a data problem)
// fall back to the most conservative published value, crew-rest 0.70.
func BaseEfficiency(env fatigue.Environment, p fatigue.SleepQualityParams) float64 {
	if v, ok := p.BaseEfficiency[env]; ok {
		return v
	}
	return p.BaseEfficiency[fatigue.EnvCrewRest]
}

// WOCLMisalignmentFactor penalizes sleep that lies entirely outside the
// WOCL by up to MaxPenalty, scaled by how much of the block DID
// coincide with the WOCL (a block fully inside the WOCL gets no
// penalty; a block with no WOCL overlap at all gets the full penalty).
func WOCLMisalignmentFactor(woclOverlapFraction float64, p fatigue.SleepQualityParams) float64 {
	if woclOverlapFraction < 0 {
		woclOverlapFraction = 0
	}
	if woclOverlapFraction > 1 {
		woclOverlapFraction = 1
	}
	return 1.0 - p.CircadianMisalignmentMaxPenalty*(1.0-woclOverlapFraction)
}

// LateOnsetFactor penalizes a sleep onset drifting past LateOnsetHour
// local time (01:00 by default), linearly down to LateOnsetFloor by
// 06:00.
func LateOnsetFactor(onsetLocalHour float64, p fatigue.SleepQualityParams) float64 {
	// Treat drift past midnight as continuing to increase until 06:00,
	// beyond which the block is no longer a "late" onset but an
	// early-morning one handled by the strategy dispatcher, not here.
	driftHours := onsetLocalHour - p.LateOnsetHour
	const driftSpanHours = 5.0
	if driftHours < 0 || driftHours > driftSpanHours {
		return p.LateOnsetCeil
	}
	frac := driftHours / driftSpanHours
	if frac > 1 {
		frac = 1
	}
	return p.LateOnsetCeil - frac*(p.LateOnsetCeil-p.LateOnsetFloor)
}

// RecoveryFactor boosts effective hours when the sleep is a
// post-duty recovery block taken soon after release.
func RecoveryFactor(isRecovery bool, timeSincePreviousReleaseH float64, p fatigue.SleepQualityParams) float64 {
	if !isRecovery {
		return 1.0
	}
	switch {
	case timeSincePreviousReleaseH < 2.0:
		return p.RecoveryBoostUnder2h
	case timeSincePreviousReleaseH < 4.0:
		return p.RecoveryBoostUnder4h
	default:
		return 1.0
	}
}

// TimePressureFactor reduces quality as the next duty's report time
// approaches, reaching Floor as imminence increases and 1.00 once
// SafeHoursAhead or more remain.
func TimePressureFactor(timeUntilNextReportH float64, p fatigue.SleepQualityParams) float64 {
	if timeUntilNextReportH >= p.TimePressureSafeHoursAhead {
		return 1.0
	}
	if timeUntilNextReportH <= 0 {
		return p.TimePressureFloor
	}
	frac := timeUntilNextReportH / p.TimePressureSafeHoursAhead
	return p.TimePressureFloor + frac*(1.0-p.TimePressureFloor)
}

// InsufficientFactor reduces quality for durations under
// InsufficientCeilH (6h default), reaching Floor (0.75) at zero
// duration and 1.00 at the ceiling.
func InsufficientFactor(rawDurationH float64, p fatigue.SleepQualityParams) float64 {
	if rawDurationH >= p.InsufficientCeilH {
		return 1.0
	}
	if rawDurationH <= 0 {
		return p.InsufficientFloor
	}
	frac := rawDurationH / p.InsufficientCeilH
	return p.InsufficientFloor + frac*(1.0-p.InsufficientFloor)
}

// Compute evaluates §4.3 end to end: raw duration, WOCL overlap
// fraction, the five multiplicative factors, and the final clamped
// effective-hours figure.
func Compute(block fatigue.SleepBlock, ctx Context, params fatigue.Parameters) (effectiveHours float64, factors Factors, err error) {
	rawDuration := block.DurationHours()
	if rawDuration <= 0 {
		return 0, Factors{}, fatigue.RosterValidationError("sleep block has non-positive duration")
	}

	woclHours, err := timeutil.WOCLOverlapHours(block.StartUTC, block.EndUTC, block.LocationTZ, params.Circadian.WOCLStartHour, params.Circadian.WOCLEndHour)
	if err != nil {
		return 0, Factors{}, err
	}
	woclFraction := 0.0
	if rawDuration > 0 {
		woclFraction = woclHours / rawDuration
		if woclFraction > 1 {
			woclFraction = 1
		}
	}

	onsetLocalHour, err := timeutil.LocalHour(block.StartUTC, block.LocationTZ)
	if err != nil {
		return 0, Factors{}, err
	}

	q := params.SleepQuality
	factors = Factors{
		Base:             BaseEfficiency(block.Environment, q),
		WOCLMisalignment: WOCLMisalignmentFactor(woclFraction, q),
		LateOnset:        LateOnsetFactor(onsetLocalHour, q),
		Recovery:         RecoveryFactor(ctx.IsRecovery, ctx.TimeSincePreviousReleaseH, q),
		TimePressure:     TimePressureFactor(ctx.TimeUntilNextReportH, q),
		Insufficient:     InsufficientFactor(rawDuration, q),
	}

	product := factors.Product()
	clampedProduct := clamp(product, q.FactorClampLow, q.FactorClampHigh)
	// The clamp is applied to the non-base portion of the product so the
	// base efficiency itself is never distorted by the safety clamp;
	// dividing back out and reapplying keeps the clamp meaningful when
	// Base itself is small (e.g. crew-rest 0.70).
	nonBaseProduct := clampedProduct
	if factors.Base > 0 {
		nonBaseProduct = clamp(product/factors.Base, q.FactorClampLow, q.FactorClampHigh)
	}
	effective := rawDuration * factors.Base * nonBaseProduct

	if effective > rawDuration {
		effective = rawDuration
	}
	minEffective := rawDuration * factors.Base * q.FactorClampLow
	if effective < minEffective {
		effective = minEffective
	}

	return effective, factors, nil
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
