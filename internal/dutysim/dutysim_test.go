package dutysim

import (
	"testing"
	"time"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
)

func TestClassifyPhase(t *testing.T) {
	dep := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	arr := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	segments := []fatigue.FlightSegment{{SchedDepUTC: dep, SchedArrUTC: arr}}

	tests := []struct {
		name string
		t    time.Time
		want fatigue.FlightPhase
	}{
		{"before taxi-out window", dep.Add(-11 * time.Minute), fatigue.PhasePreflight},
		{"taxi-out window", dep.Add(-10 * time.Minute), fatigue.PhaseTaxiOut},
		{"takeoff", dep, fatigue.PhaseTakeoff},
		{"climb", dep.Add(6 * time.Minute), fatigue.PhaseClimb},
		{"cruise", dep.Add(25 * time.Minute), fatigue.PhaseCruise},
		{"descent", arr.Add(-15 * time.Minute), fatigue.PhaseDescent},
		{"approach", arr.Add(-8 * time.Minute), fatigue.PhaseApproach},
		{"landing", arr.Add(-2 * time.Minute), fatigue.PhaseLanding},
		{"taxi-in", arr.Add(5 * time.Minute), fatigue.PhaseTaxiIn},
		{"after taxi-in window", arr.Add(15 * time.Minute), fatigue.PhasePreflight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyPhase(tt.t, segments); got != tt.want {
				t.Errorf("classifyPhase() = %v, want %v", got, tt.want)
			}
		})
	}
}

func mustDuty(t *testing.T, reportUTC, releaseUTC time.Time) fatigue.Duty {
	t.Helper()
	dep := fatigue.Airport{Code: "DOH", Timezone: "UTC"}
	arr := fatigue.Airport{Code: "DXB", Timezone: "UTC"}
	seg, err := fatigue.NewFlightSegment("FL1", dep, arr, reportUTC.Add(20*time.Minute), releaseUTC.Add(-20*time.Minute))
	if err != nil {
		t.Fatalf("NewFlightSegment: %v", err)
	}
	duty, err := fatigue.NewDuty("D1", reportUTC, reportUTC, releaseUTC, []fatigue.FlightSegment{seg}, "UTC")
	if err != nil {
		t.Fatalf("NewDuty: %v", err)
	}
	return duty
}

func TestSimulateProducesBoundedPerformance(t *testing.T) {
	report := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	release := report.Add(time.Hour)
	duty := mustDuty(t, report, release)
	lastSleep := fatigue.SleepBlock{
		StartUTC:       report.Add(-9 * time.Hour),
		EndUTC:         report.Add(-1 * time.Hour),
		EffectiveHours: 7.6,
	}

	timeline, err := Simulate(Input{
		Duty:                 duty,
		LastSleepBlock:       lastSleep,
		HomeBaseTZ:           "UTC",
		StrideMinutes:        5,
		CumulativeSleepDebtH: 0,
		Params:               fatigue.DefaultParameters(),
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(timeline.Timeline) == 0 {
		t.Fatal("expected a non-empty timeline")
	}
	if !timeline.HasLanding {
		t.Error("expected a landing point within the duty window")
	}
	for _, p := range timeline.Timeline {
		if p.Performance < 20 || p.Performance > 100 {
			t.Errorf("point at %v has out-of-range performance %v", p.TUTC, p.Performance)
		}
	}
	if timeline.MinPerformance > timeline.AvgPerformance {
		t.Errorf("MinPerformance %v should not exceed AvgPerformance %v", timeline.MinPerformance, timeline.AvgPerformance)
	}
}

func TestSimulateCancellation(t *testing.T) {
	report := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	release := report.Add(2 * time.Hour)
	duty := mustDuty(t, report, release)
	lastSleep := fatigue.SleepBlock{
		StartUTC:       report.Add(-9 * time.Hour),
		EndUTC:         report.Add(-1 * time.Hour),
		EffectiveHours: 7.6,
	}

	_, err := Simulate(Input{
		Duty:           duty,
		LastSleepBlock: lastSleep,
		HomeBaseTZ:     "UTC",
		StrideMinutes:  5,
		Params:         fatigue.DefaultParameters(),
		Cancel:         func() bool { return true },
	})
	if err == nil {
		t.Fatal("expected a Cancelled error")
	}
	fe, ok := err.(*fatigue.Error)
	if !ok || fe.Kind != fatigue.KindCancelled {
		t.Errorf("got error %v, want a Cancelled *fatigue.Error", err)
	}
}

func TestPinchEventsDedupPerPhase(t *testing.T) {
	report := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC) // squarely in WOCL, high S expected
	release := report.Add(2 * time.Hour)
	duty := mustDuty(t, report, release)
	lastSleep := fatigue.SleepBlock{
		StartUTC:       report.Add(-23 * time.Hour),
		EndUTC:         report.Add(-20 * time.Hour),
		EffectiveHours: 2.0, // heavily sleep-restricted to push S high
	}

	timeline, err := Simulate(Input{
		Duty:           duty,
		LastSleepBlock: lastSleep,
		HomeBaseTZ:     "UTC",
		StrideMinutes:  5,
		Params:         fatigue.DefaultParameters(),
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	seen := make(map[fatigue.FlightPhase]int)
	for _, pe := range timeline.PinchEvents {
		seen[pe.FlightPhase]++
	}
	for phase, count := range seen {
		if count > 1 {
			t.Errorf("phase %v recorded %d pinch events, want at most 1", phase, count)
		}
	}
}
