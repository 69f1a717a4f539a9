package sleepstrategy

import (
	"github.com/avfatigue/fatigue-core/internal/fatigue"
)

const (
	woclAnchorDurationH  = 4.5
	woclAnchorEndBufferH = 1.5
)

// woclAnchorStrategy covers 07:00-19:59 reports where the duty itself
// crosses the WOCL and runs over 6h: a short consolidated anchor sleep
// (Minors & Waterhouse 1981) ending shortly before report.
type woclAnchorStrategy struct{}

func (woclAnchorStrategy) Name() string { return "wocl_anchor" }

func (woclAnchorStrategy) Generate(in Input) (Output, error) {
	end := in.Duty.ReportUTC.Add(-hoursDuration(woclAnchorEndBufferH))
	start := end.Add(-hoursDuration(woclAnchorDurationH))

	block := fatigue.SleepBlock{
		StartUTC:    start,
		EndUTC:      end,
		LocationTZ:  in.HomeBaseTZ,
		Environment: fatigue.EnvHome,
		SleepType:   fatigue.SleepAnchor,
		Confidence:  0.70,
	}
	return Output{Blocks: []fatigue.SleepBlock{block}}, nil
}
