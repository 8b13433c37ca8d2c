package model

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{name: "valid date", input: "2025-09-01", wantError: false},
		{name: "leap day", input: "2024-02-29", wantError: false},
		{name: "non-leap february 29", input: "2025-02-29", wantError: true},
		{name: "month out of range", input: "2025-13-01", wantError: true},
		{name: "missing zero padding", input: "2025-9-1", wantError: true},
		{name: "slashes", input: "2025/09/01", wantError: true},
		{name: "datetime instead of date", input: "2025-09-01T09:00:00Z", wantError: true},
		{name: "empty", input: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("ParseDate(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
				t.Errorf("ParseDate(%q) = %v, expected UTC midnight", tt.input, got)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      int
		wantError bool
	}{
		{name: "morning", input: "09:00", want: 540},
		{name: "no leading zero", input: "9:00", want: 540},
		{name: "midnight", input: "00:00", want: 0},
		{name: "last minute of day", input: "23:59", want: 1439},
		{name: "hour out of range", input: "24:00", wantError: true},
		{name: "minute out of range", input: "09:60", wantError: true},
		{name: "with seconds", input: "09:00:00", wantError: true},
		{name: "dash separator", input: "09-00", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("ParseClock(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestAt(t *testing.T) {
	date, err := ParseDate("2025-09-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}

	got, err := At(date, "09:30")
	if err != nil {
		t.Fatalf("At: %v", err)
	}

	want := time.Date(2025, 9, 1, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("At() = %v, want %v", got, want)
	}
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time {
		return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}

	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{name: "identical ranges", s1: at(9, 0), e1: at(11, 0), s2: at(9, 0), e2: at(11, 0), want: true},
		{name: "partial overlap", s1: at(9, 0), e1: at(10, 30), s2: at(10, 0), e2: at(11, 0), want: true},
		{name: "containment", s1: at(9, 0), e1: at(12, 0), s2: at(10, 0), e2: at(11, 0), want: true},
		{name: "touching boundaries do not conflict", s1: at(9, 0), e1: at(10, 0), s2: at(10, 0), e2: at(11, 0), want: false},
		{name: "disjoint", s1: at(9, 0), e1: at(10, 0), s2: at(14, 0), e2: at(15, 0), want: false},
		{name: "one minute overlap", s1: at(9, 0), e1: at(10, 1), s2: at(10, 0), e2: at(11, 0), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2)
			if got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}

			// The predicate must be symmetric in its two ranges.
			mirrored := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1)
			if mirrored != got {
				t.Errorf("Overlaps() is not symmetric: %v vs %v", got, mirrored)
			}
		})
	}
}

func TestClockOverlaps(t *testing.T) {
	// 09:00-10:00 against 10:00-11:00 in minutes: half-open, no conflict.
	if ClockOverlaps(540, 600, 600, 660) {
		t.Error("adjacent clock ranges must not overlap")
	}
	if !ClockOverlaps(540, 660, 600, 630) {
		t.Error("contained clock range must overlap")
	}
}
