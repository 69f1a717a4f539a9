package sleepstrategy

import (
	"github.com/avfatigue/fatigue-core/internal/fatigue"
	"github.com/avfatigue/fatigue-core/internal/timeutil"
)

const (
	earlyMorningEndBufferH  = 1.0
	earlyMorningMinDurH     = 4.0
	earlyMorningRegressionK = 6.6
	earlyMorningRegressionM = 0.25
	earlyMorningPivotHour   = 9.0
	earlyMorningBedtimeFloorHour = 21.5 // 21:30 the prior evening
)

// earlyMorningStrategy covers 04:00 <= report < 07:00: a single block
// per the Roach (2012) regression, floored at a fixed earliest bedtime.
type earlyMorningStrategy struct{}

func (earlyMorningStrategy) Name() string { return "early_morning" }

func (earlyMorningStrategy) Generate(in Input) (Output, error) {
	reportLocalHour, err := timeutil.LocalHour(in.Duty.ReportUTC, in.HomeBaseTZ)
	if err != nil {
		return Output{}, err
	}

	deficit := earlyMorningPivotHour - reportLocalHour
	if deficit < 0 {
		deficit = 0
	}
	duration := earlyMorningRegressionK - earlyMorningRegressionM*deficit
	if duration < earlyMorningMinDurH {
		duration = earlyMorningMinDurH
	}

	end := in.Duty.ReportUTC.Add(-hoursDuration(earlyMorningEndBufferH))
	start := end.Add(-hoursDuration(duration))

	floor, err := timeutil.AtLocalTime(in.Duty.ReportUTC, in.HomeBaseTZ, -1, earlyMorningBedtimeFloorHour, 0)
	if err != nil {
		return Output{}, err
	}
	if start.Before(floor) {
		start = floor
	}

	block := fatigue.SleepBlock{
		StartUTC:    start,
		EndUTC:      end,
		LocationTZ:  in.HomeBaseTZ,
		Environment: fatigue.EnvHome,
		SleepType:   fatigue.SleepMain,
		Confidence:  0.55,
	}
	return Output{Blocks: []fatigue.SleepBlock{block}}, nil
}
