package compliance

import (
	"testing"
	"time"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
)

func mustDuty(t *testing.T, dutyID string, reportUTC, releaseUTC time.Time, arrCode, arrTZ string) fatigue.Duty {
	t.Helper()
	dep := fatigue.Airport{Code: "DOH", Timezone: "Asia/Qatar"}
	arr := fatigue.Airport{Code: arrCode, Timezone: arrTZ}
	seg, err := fatigue.NewFlightSegment("FL1", dep, arr, reportUTC.Add(30*time.Minute), releaseUTC.Add(-30*time.Minute))
	if err != nil {
		t.Fatalf("NewFlightSegment: %v", err)
	}
	duty, err := fatigue.NewDuty(dutyID, reportUTC, reportUTC, releaseUTC, []fatigue.FlightSegment{seg}, "Asia/Qatar")
	if err != nil {
		t.Fatalf("NewDuty: %v", err)
	}
	return duty
}

// TestAwayFromBaseViolation grounds on spec scenario S6: a 12h duty
// ending away from base, followed 11h later by the next report, is a
// minimum-rest violation ("required = max(12,10) = 12h").
func TestAwayFromBaseViolation(t *testing.T) {
	prevReport := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	prevRelease := prevReport.Add(12 * time.Hour)
	previous := mustDuty(t, "D0", prevReport, prevRelease, "LHR", "Europe/London")

	nextReport := prevRelease.Add(11 * time.Hour)
	nextRelease := nextReport.Add(8 * time.Hour)
	next := mustDuty(t, "D1", nextReport, nextRelease, "LHR", "Europe/London")

	rest, err := CheckRestPeriod(previous, next, "Asia/Qatar")
	if err != nil {
		t.Fatalf("CheckRestPeriod: %v", err)
	}
	if rest.IsCompliant {
		t.Fatal("expected non-compliant rest period")
	}
	if !rest.AwayFromBase {
		t.Fatal("expected away-from-base rest period")
	}
	wantViolation := "Rest 11.0h < minimum 12.0h (previous duty 12.0h, away from base)"
	if len(rest.Violations) == 0 || rest.Violations[0] != wantViolation {
		t.Errorf("violations = %v, want first entry %q", rest.Violations, wantViolation)
	}
}

func TestHomeRestRequiresLocalNight(t *testing.T) {
	prevReport := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	prevRelease := prevReport.Add(6 * time.Hour)
	previous := mustDuty(t, "D0", prevReport, prevRelease, "DOH", "Asia/Qatar")

	// 14h home rest that never contains a full 22:00-08:00 local night.
	nextReport := prevRelease.Add(14 * time.Hour)
	next := mustDuty(t, "D1", nextReport, nextReport.Add(6*time.Hour), "DOH", "Asia/Qatar")

	rest, err := CheckRestPeriod(previous, next, "Asia/Qatar")
	if err != nil {
		t.Fatalf("CheckRestPeriod: %v", err)
	}
	if rest.AwayFromBase {
		t.Fatal("expected home rest period")
	}
	if rest.LocalNightsCovered == 1 && len(rest.Violations) > 0 {
		t.Errorf("local night marked covered but violations present: %v", rest.Violations)
	}
}

func TestClassifyRestType(t *testing.T) {
	tests := []struct {
		hours float64
		want  fatigue.RestType
	}{
		{9, fatigue.RestIllegal},
		{17, fatigue.RestMinimum},
		{30, fatigue.RestAdequate},
		{50, fatigue.RestRecurrent},
		{70, fatigue.RestExtended},
	}
	for _, tt := range tests {
		if got := classifyRestType(tt.hours); got != tt.want {
			t.Errorf("classifyRestType(%v) = %v, want %v", tt.hours, got, tt.want)
		}
	}
}

func TestCheckRecurrentRestFlagsMissingWindow(t *testing.T) {
	// Two short rests, neither >= 36h, spanning well under 168h: the
	// rolling window should be flagged as missing a qualifying rest.
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rests := []fatigue.RestPeriod{
		{PreviousDutyID: "D0", NextDutyID: "D1", StartUTC: base, EndUTC: base.Add(14 * time.Hour)},
		{PreviousDutyID: "D1", NextDutyID: "D2", StartUTC: base.Add(48 * time.Hour), EndUTC: base.Add(48*time.Hour + 14*time.Hour)},
	}
	diagnostics, err := CheckRecurrentRest(rests, "UTC")
	if err != nil {
		t.Fatalf("CheckRecurrentRest: %v", err)
	}
	if len(diagnostics) == 0 {
		t.Error("expected at least one missing-recurrent-rest diagnostic")
	}
}

func TestCheckRecurrentRestSatisfiedByLongRest(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rests := []fatigue.RestPeriod{
		{PreviousDutyID: "D0", NextDutyID: "D1", StartUTC: base, EndUTC: base.Add(60 * time.Hour)},
	}
	diagnostics, err := CheckRecurrentRest(rests, "UTC")
	if err != nil {
		t.Fatalf("CheckRecurrentRest: %v", err)
	}
	if len(diagnostics) != 0 {
		t.Errorf("expected no diagnostics for a 60h rest spanning two full nights, got %v", diagnostics)
	}
}
