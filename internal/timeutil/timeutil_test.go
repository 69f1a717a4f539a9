package timeutil

import (
	"testing"
	"time"
)

func mustLoad(t *testing.T, tz string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	if err != nil {
		t.Fatalf("LoadLocation(%q): %v", tz, err)
	}
	return loc
}

func TestLocalHour(t *testing.T) {
	loc := mustLoad(t, "Asia/Qatar")
	instant := time.Date(2026, 3, 1, 5, 30, 0, 0, time.UTC) // 08:30 Doha
	got, err := LocalHour(instant, "Asia/Qatar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 8.5
	if got != want {
		t.Errorf("LocalHour() = %v, want %v", got, want)
	}
	_ = loc
}

func TestWOCLOverlapHours(t *testing.T) {
	tests := []struct {
		name          string
		startLocal    time.Time
		endLocal      time.Time
		woclStartHour float64
		woclEndHour   float64
		want          float64
	}{
		{
			name:          "fully inside WOCL",
			startLocal:    time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC),
			endLocal:      time.Date(2026, 3, 1, 5, 0, 0, 0, time.UTC),
			woclStartHour: 2.0,
			woclEndHour:   6.0,
			want:          2.0,
		},
		{
			name:          "fully outside WOCL",
			startLocal:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			endLocal:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			woclStartHour: 2.0,
			woclEndHour:   6.0,
			want:          0.0,
		},
		{
			name:          "straddles WOCL start",
			startLocal:    time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC),
			endLocal:      time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC),
			woclStartHour: 2.0,
			woclEndHour:   6.0,
			want:          1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WOCLOverlapHours(tt.startLocal, tt.endLocal, "UTC", tt.woclStartHour, tt.woclEndHour)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("WOCLOverlapHours() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWOCLOverlapHoursMonotonicShift(t *testing.T) {
	// Property 7: shifting a duty later, out of the WOCL window, should
	// monotonically decrease its WOCL encroachment.
	base := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	prevOverlap := 4.0
	for shiftHours := 0; shiftHours <= 6; shiftHours++ {
		start := base.Add(time.Duration(shiftHours) * time.Hour)
		end := start.Add(4 * time.Hour)
		overlap, err := WOCLOverlapHours(start, end, "UTC", 2.0, 6.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if overlap > prevOverlap {
			t.Errorf("shift %dh: overlap %v increased from previous %v", shiftHours, overlap, prevOverlap)
		}
		prevOverlap = overlap
	}
}

func TestAtLocalTime(t *testing.T) {
	ref := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	got, err := AtLocalTime(ref, "UTC", -1, 23, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 4, 23, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AtLocalTime() = %v, want %v", got, want)
	}
}
