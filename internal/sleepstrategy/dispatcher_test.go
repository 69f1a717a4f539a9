package sleepstrategy

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
)

const homeTZ = "UTC"

func mustDuty(t *testing.T, dutyID string, reportUTC time.Time, durationHours float64) fatigue.Duty {
	t.Helper()
	dep := fatigue.Airport{Code: "DOH", Timezone: homeTZ}
	arr := fatigue.Airport{Code: "DXB", Timezone: homeTZ}
	segDep := reportUTC.Add(30 * time.Minute)
	segArr := reportUTC.Add(time.Duration(durationHours*float64(time.Hour)) - 30*time.Minute)
	seg, err := fatigue.NewFlightSegment("FL1", dep, arr, segDep, segArr)
	if err != nil {
		t.Fatalf("NewFlightSegment: %v", err)
	}
	release := reportUTC.Add(time.Duration(durationHours * float64(time.Hour)))
	duty, err := fatigue.NewDuty(dutyID, reportUTC, reportUTC, release, []fatigue.FlightSegment{seg}, homeTZ)
	if err != nil {
		t.Fatalf("NewDuty: %v", err)
	}
	return duty
}

func TestSelectBoundaries(t *testing.T) {
	tests := []struct {
		name         string
		reportHour   int
		reportMinute int
		wantName     string
	}{
		{"exactly 07:00 uses Normal", 7, 0, "normal"},
		{"exactly 20:00 uses Night-Departure", 20, 0, "night_departure"},
		{"06:59 uses Early-Morning", 6, 59, "early_morning"},
		{"19:59 with no WOCL crossing uses Normal", 19, 59, "normal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := time.Date(2026, 3, 2, tt.reportHour, tt.reportMinute, 0, 0, time.UTC)
			duty := mustDuty(t, "D1", report, 5)
			strategy, err := Select(Input{Duty: duty, HomeBaseTZ: homeTZ, Params: fatigue.DefaultParameters()})
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if strategy.Name() != tt.wantName {
				t.Errorf("Select() = %q, want %q", strategy.Name(), tt.wantName)
			}
		})
	}
}

// TestNightDeparture grounds on spec scenario S3: report 22:00, expects
// main sleep 07:00-14:00 and a nap 18:00-20:00.
func TestNightDeparture(t *testing.T) {
	report := time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC)
	duty := mustDuty(t, "D1", report, 8)
	out, err := Dispatch(Input{Duty: duty, HomeBaseTZ: homeTZ, Params: fatigue.DefaultParameters()})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(out.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(out.Blocks))
	}
	main, nap := out.Blocks[0], out.Blocks[1]
	wantMainStart := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	wantMainEnd := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	if !main.StartUTC.Equal(wantMainStart) || !main.EndUTC.Equal(wantMainEnd) {
		t.Errorf("main block = [%v,%v), want [%v,%v)", main.StartUTC, main.EndUTC, wantMainStart, wantMainEnd)
	}
	wantNapStart := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	wantNapEnd := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	if !nap.StartUTC.Equal(wantNapStart) || !nap.EndUTC.Equal(wantNapEnd) {
		t.Errorf("nap block = [%v,%v), want [%v,%v)", nap.StartUTC, nap.EndUTC, wantNapStart, wantNapEnd)
	}
}

// TestEarlyMorning grounds on spec scenario S4: report 04:30, Roach
// regression yields duration 5.475h.
func TestEarlyMorning(t *testing.T) {
	report := time.Date(2026, 3, 2, 4, 30, 0, 0, time.UTC)
	duty := mustDuty(t, "D1", report, 5)
	out, err := Dispatch(Input{Duty: duty, HomeBaseTZ: homeTZ, Params: fatigue.DefaultParameters()})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(out.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(out.Blocks))
	}
	block := out.Blocks[0]
	wantEnd := time.Date(2026, 3, 2, 3, 30, 0, 0, time.UTC)
	if !block.EndUTC.Equal(wantEnd) {
		t.Errorf("block end = %v, want %v", block.EndUTC, wantEnd)
	}
	wantDuration := 5.475
	if math.Abs(block.DurationHours()-wantDuration) > 1e-9 {
		t.Errorf("duration = %v, want %v", block.DurationHours(), wantDuration)
	}
	if block.Confidence != 0.55 {
		t.Errorf("confidence = %v, want 0.55", block.Confidence)
	}
	if block.Environment != fatigue.EnvHome {
		t.Errorf("environment = %v, want Home", block.Environment)
	}
}

// TestWOCLAnchor grounds on spec scenario S5: a 07:00-19:59 report whose
// duty crosses the WOCL and runs over 6h anchors a 4.5h block ending
// 1.5h before report.
func TestWOCLAnchor(t *testing.T) {
	report := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	duty := mustDuty(t, "D1", report, 20) // release next day 06:00, crossing 02:00-06:00
	out, err := Dispatch(Input{Duty: duty, HomeBaseTZ: homeTZ, Params: fatigue.DefaultParameters()})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(out.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(out.Blocks))
	}
	block := out.Blocks[0]
	wantEnd := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	wantStart := time.Date(2026, 3, 2, 4, 0, 0, 0, time.UTC)
	if !block.StartUTC.Equal(wantStart) || !block.EndUTC.Equal(wantEnd) {
		t.Errorf("block = [%v,%v), want [%v,%v)", block.StartUTC, block.EndUTC, wantStart, wantEnd)
	}
}

func TestRecoveryGapOverridesNightDeparture(t *testing.T) {
	prevRelease := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	prev := mustDuty(t, "D0", prevRelease.Add(-8*time.Hour), 8)
	report := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC) // >=20:00, would be night-departure without the gap override
	next := mustDuty(t, "D1", report, 6)

	strategy, err := Select(Input{Duty: next, PreviousDuty: &prev, HomeBaseTZ: homeTZ, Params: fatigue.DefaultParameters()})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if strategy.Name() != "recovery" {
		t.Errorf("Select() = %q, want %q (17h gap should trigger Recovery)", strategy.Name(), "recovery")
	}
}

// TestRecoveryDisruptedCircadianDiagnostic grounds on spec scenario S2:
// a same-day 17h gap forces the recovery block into a 08:00-21:00
// daytime window with no WOCL overlap, so Dispatch must record a
// "disrupted circadian" diagnostic alongside the block.
func TestRecoveryDisruptedCircadianDiagnostic(t *testing.T) {
	prevRelease := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	prev := mustDuty(t, "D0", prevRelease.Add(-8*time.Hour), 8)
	report := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	next := mustDuty(t, "D1", report, 6)

	out, err := Dispatch(Input{Duty: next, PreviousDuty: &prev, HomeBaseTZ: homeTZ, Params: fatigue.DefaultParameters()})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(out.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(out.Blocks))
	}
	block := out.Blocks[0]
	wantStart := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)
	if !block.StartUTC.Equal(wantStart) || !block.EndUTC.Equal(wantEnd) {
		t.Errorf("block = [%v,%v), want [%v,%v)", block.StartUTC, block.EndUTC, wantStart, wantEnd)
	}

	found := false
	for _, d := range out.Diagnostics {
		if strings.Contains(d.Message, "disrupted circadian") {
			found = true
		}
	}
	if !found {
		t.Errorf("Diagnostics = %+v, want one containing %q", out.Diagnostics, "disrupted circadian")
	}
}

func TestZeroSegmentDutyIsValidationError(t *testing.T) {
	_, err := fatigue.NewDuty("D1", time.Now(), time.Now(), time.Now().Add(time.Hour), nil, homeTZ)
	if err == nil {
		t.Fatal("expected RosterValidation error for zero-segment duty")
	}
	fe, ok := err.(*fatigue.Error)
	if !ok || fe.Kind != fatigue.KindRosterValidation {
		t.Errorf("got error %v, want a RosterValidation *fatigue.Error", err)
	}
}
