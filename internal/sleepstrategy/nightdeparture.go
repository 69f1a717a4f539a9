package sleepstrategy

import (
	"github.com/avfatigue/fatigue-core/internal/fatigue"
	"github.com/avfatigue/fatigue-core/internal/timeutil"
)

// Night-Departure timing constants, calibrated against spec §8
// scenario S3 (report 22:00 -> main sleep 07:00-14:00 + nap 18:00-20:00).
const (
	nightDepMainStartHour    = 7.0
	nightDepMainDurationH    = 7.0
	nightDepNapDurationH     = 2.0
	nightDepNapEndBufferH    = 2.0 // >= the 1.5h minimum spec requires
)

// nightDepartureStrategy covers report >= 20:00 or < 04:00 home-local: a
// morning main sleep plus a short pre-duty nap.
type nightDepartureStrategy struct{}

func (nightDepartureStrategy) Name() string { return "night_departure" }

func (nightDepartureStrategy) Generate(in Input) (Output, error) {
	mainStart, err := timeutil.AtLocalTime(in.Duty.ReportUTC, in.HomeBaseTZ, 0, nightDepMainStartHour, 0)
	if err != nil {
		return Output{}, err
	}
	mainEnd := mainStart.Add(hoursDuration(nightDepMainDurationH))

	napEnd := in.Duty.ReportUTC.Add(-hoursDuration(nightDepNapEndBufferH))
	napStart := napEnd.Add(-hoursDuration(nightDepNapDurationH))

	main := fatigue.SleepBlock{
		StartUTC:    mainStart,
		EndUTC:      mainEnd,
		LocationTZ:  in.HomeBaseTZ,
		Environment: fatigue.EnvHome,
		SleepType:   fatigue.SleepMain,
		Confidence:  0.80,
	}
	nap := fatigue.SleepBlock{
		StartUTC:    napStart,
		EndUTC:      napEnd,
		LocationTZ:  in.HomeBaseTZ,
		Environment: fatigue.EnvHome,
		SleepType:   fatigue.SleepNap,
		Confidence:  0.75,
	}
	return Output{Blocks: []fatigue.SleepBlock{main, nap}}, nil
}
