package sleepstrategy

import (
	"github.com/avfatigue/fatigue-core/internal/fatigue"
	"github.com/avfatigue/fatigue-core/internal/timeutil"
)

const (
	recoveryPostDutyStartBufferH = 2.0 // >= release + 2h
	recoveryPostDutyEndBufferH   = 2.0 // >= 1h before next report; 2h used as the safety default
	recoveryMinWindowH           = 1.5
	recoveryStandardStartHour    = 23.0
	recoveryStandardEndHour      = 7.0
)

// recoveryStrategy covers rest days and post-duty layovers: an
// inter-duty gap wide enough to contain a full overnight (§4.4). It is
// grounded on the simple environment rule from §9 open question 3
// ("Home at home base, Hotel otherwise") rather than the buggier
// conditional the original source used.
type recoveryStrategy struct{}

func (recoveryStrategy) Name() string { return "recovery" }

func (recoveryStrategy) Generate(in Input) (Output, error) {
	env, locationTZ := recoveryEnvironment(in)

	// First attempt: a standard 23:00-07:00 night anchored to the local
	// evening after release. If the following duty's report time falls
	// inside or immediately after that window (a same-day rest gap that
	// never contains a normal bedtime), fall back to a bounded post-duty
	// sleep instead of emitting a block that no-overlap enforcement
	// would just truncate away.
	standardStart, err := timeutil.AtLocalTime(in.PreviousDuty.ReleaseUTC, locationTZ, 0, recoveryStandardStartHour, 0)
	if err != nil {
		return Output{}, err
	}
	standardEnd, err := timeutil.AtLocalTime(in.PreviousDuty.ReleaseUTC, locationTZ, 1, recoveryStandardEndHour, 0)
	if err != nil {
		return Output{}, err
	}

	fitsBeforeReport := standardEnd.Add(hoursDuration(1.5)).Before(in.Duty.ReportUTC) || standardEnd.Add(hoursDuration(1.5)).Equal(in.Duty.ReportUTC)
	startsAfterRelease := standardStart.After(in.PreviousDuty.ReleaseUTC)

	if fitsBeforeReport && startsAfterRelease {
		block := fatigue.SleepBlock{
			StartUTC:    standardStart,
			EndUTC:      standardEnd,
			LocationTZ:  locationTZ,
			Environment: env,
			SleepType:   fatigue.SleepRecovery,
			Confidence:  0.80,
		}
		return Output{Blocks: []fatigue.SleepBlock{block}}, nil
	}

	postStart := in.PreviousDuty.ReleaseUTC.Add(hoursDuration(recoveryPostDutyStartBufferH))
	postEnd := in.Duty.ReportUTC.Add(-hoursDuration(recoveryPostDutyEndBufferH))

	if !postEnd.After(postStart) || postEnd.Sub(postStart).Hours() < recoveryMinWindowH {
		return Output{
			Diagnostics: []fatigue.Diagnostic{{
				DutyID:  in.Duty.DutyID,
				Message: "recovery sleep dropped: gap too tight for post-duty bounded window",
			}},
		}, nil
	}

	block := fatigue.SleepBlock{
		StartUTC:    postStart,
		EndUTC:      postEnd,
		LocationTZ:  locationTZ,
		Environment: env,
		SleepType:   fatigue.SleepRecovery,
		Confidence:  0.60,
	}

	out := Output{Blocks: []fatigue.SleepBlock{block}}
	if diag, disrupted := disruptedCircadianDiagnostic(in, block); disrupted {
		out.Diagnostics = append(out.Diagnostics, diag)
	}
	return out, nil
}

// disruptedCircadianDiagnostic flags a post-duty bounded-window block
// that a pilot's body clock would not recognize as a sleep opportunity:
// no overlap at all with the WOCL (the window the circadian pacemaker
// most readily permits sleep in). A tight same-day gap forces the block
// into daytime hours instead, the disruptive-duty condition EASA GM1
// ORO.FTL.235 calls out for duty timing and which applies just as much
// to a recovery sleep pushed entirely outside the WOCL.
func disruptedCircadianDiagnostic(in Input, block fatigue.SleepBlock) (fatigue.Diagnostic, bool) {
	woclHours, err := timeutil.WOCLOverlapHours(block.StartUTC, block.EndUTC, block.LocationTZ, in.Params.Circadian.WOCLStartHour, in.Params.Circadian.WOCLEndHour)
	if err != nil || woclHours > 0 {
		return fatigue.Diagnostic{}, false
	}
	return fatigue.Diagnostic{
		DutyID:  in.Duty.DutyID,
		Message: "disrupted circadian: recovery sleep fell entirely outside the WOCL",
	}, true
}

func recoveryEnvironment(in Input) (fatigue.Environment, string) {
	arrival := in.PreviousDuty.ArrivalAirport()
	if arrival.Timezone == in.HomeBaseTZ {
		return fatigue.EnvHome, in.HomeBaseTZ
	}
	return fatigue.EnvHotel, arrival.Timezone
}
