package sleepstrategy

import (
	"github.com/avfatigue/fatigue-core/internal/fatigue"
	"github.com/avfatigue/fatigue-core/internal/timeutil"
)

// normalStrategy is the default daytime pattern: a single 23:00-07:00
// home-local block the night before report day.
type normalStrategy struct{}

func (normalStrategy) Name() string { return "normal" }

func (normalStrategy) Generate(in Input) (Output, error) {
	start, err := timeutil.AtLocalTime(in.Duty.ReportUTC, in.HomeBaseTZ, -1, 23, 0)
	if err != nil {
		return Output{}, err
	}
	end, err := timeutil.AtLocalTime(in.Duty.ReportUTC, in.HomeBaseTZ, 0, 7, 0)
	if err != nil {
		return Output{}, err
	}
	block := fatigue.SleepBlock{
		StartUTC:    start,
		EndUTC:      end,
		LocationTZ:  in.HomeBaseTZ,
		Environment: fatigue.EnvHome,
		SleepType:   fatigue.SleepMain,
		Confidence:  0.85,
	}
	return Output{Blocks: []fatigue.SleepBlock{block}}, nil
}
