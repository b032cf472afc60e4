package domain

import (
	"testing"
	"time"
)

func TestParseTimeOfDay_Valid(t *testing.T) {
	tests := []struct {
		input      string
		wantHour   int
		wantMinute int
	}{
		{"00:00", 0, 0},
		{"07:00", 7, 0},
		{"7:30", 7, 30},
		{"12:05", 12, 5},
		{"19:59", 19, 59},
		{"23:59", 23, 59},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) error = %v", tt.input, err)
			}
			if got.Hour != tt.wantHour || got.Minute != tt.wantMinute {
				t.Errorf("ParseTimeOfDay(%q) = %02d:%02d, want %02d:%02d",
					tt.input, got.Hour, got.Minute, tt.wantHour, tt.wantMinute)
			}
		})
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	inputs := []string{"", "24:00", "12:60", "7", "7:5", "ab:cd", "12:345", "-1:00", "12.30"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseTimeOfDay(input); err == nil {
				t.Errorf("ParseTimeOfDay(%q) = nil error, want InvalidFormatError", input)
			}
		})
	}
}

func TestTimeOfDay_RoundTrip(t *testing.T) {
	// For all valid inputs, parsing must preserve the hour/minute pair
	// through Minutes and the display formats.
	for h := 0; h < 24; h++ {
		for _, m := range []int{0, 1, 30, 59} {
			tod := TimeOfDay{Hour: h, Minute: m}

			parsed, err := ParseTimeOfDay(tod.String())
			if err != nil {
				t.Fatalf("round trip parse of %s: %v", tod, err)
			}
			if parsed != tod {
				t.Fatalf("round trip of %s = %s", tod, parsed)
			}
			if got := parsed.Minutes(); got != h*60+m {
				t.Fatalf("%s.Minutes() = %d, want %d", tod, got, h*60+m)
			}
			if parsed.Format12h() == "" {
				t.Fatalf("%s.Format12h() is empty", tod)
			}
		}
	}
}

func TestFormat12h(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"00:00", "12:00 AM"},
		{"00:30", "12:30 AM"},
		{"07:05", "7:05 AM"},
		{"12:00", "12:00 PM"},
		{"13:00", "1:00 PM"},
		{"23:59", "11:59 PM"},
	}

	for _, tt := range tests {
		tod := MustTimeOfDay(tt.input)
		if got := tod.Format12h(); got != tt.want {
			t.Errorf("Format12h(%s) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMinutesBetween(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want int
	}{
		{"regular day", "07:00", "23:00", 960},
		{"wraps past midnight", "07:00", "00:30", 1050},
		{"wake to midnight", "06:30", "22:00", 930},
		{"same time wraps full day", "09:00", "09:00", 1440},
		{"one minute", "09:00", "09:01", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MinutesBetween(MustTimeOfDay(tt.from), MustTimeOfDay(tt.to))
			if got != tt.want {
				t.Errorf("MinutesBetween(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTimeOfDay_At(t *testing.T) {
	base := time.Date(2026, 3, 14, 15, 26, 53, 0, time.UTC)
	got := MustTimeOfDay("08:30").At(base)
	want := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("At() = %v, want %v", got, want)
	}
}
