package timeslot

import (
	"fmt"
	"testing"

	apperrors "bookable/pkg/errors"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{
			name:  "midnight",
			input: "00:00",
			want:  0,
		},
		{
			name:  "morning",
			input: "09:30",
			want:  9*60 + 30,
		},
		{
			name:  "end of day",
			input: "23:59",
			want:  23*60 + 59,
		},
		{
			name:  "12h morning",
			input: "9:30 AM",
			want:  9*60 + 30,
		},
		{
			name:  "12h afternoon",
			input: "2:15 PM",
			want:  14*60 + 15,
		},
		{
			name:  "12h noon",
			input: "12:00 PM",
			want:  12 * 60,
		},
		{
			name:  "12h midnight",
			input: "12:00 AM",
			want:  0,
		},
		{
			name:  "lowercase meridiem",
			input: "2:15 pm",
			want:  14*60 + 15,
		},
		{
			name:  "zero padded 12h",
			input: "02:15 PM",
			want:  14*60 + 15,
		},
		{
			name:  "surrounding whitespace",
			input: "  09:30 ",
			want:  9*60 + 30,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "hour out of range",
			input:   "24:00",
			wantErr: true,
		},
		{
			name:    "minute out of range",
			input:   "09:60",
			wantErr: true,
		},
		{
			name:    "missing zero padding in 24h form",
			input:   "9:30",
			wantErr: true,
		},
		{
			name:    "13 o'clock PM",
			input:   "13:00 PM",
			wantErr: true,
		},
		{
			name:    "zero hour 12h",
			input:   "0:30 AM",
			wantErr: true,
		},
		{
			name:    "no colon",
			input:   "0930",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "half past nine",
			wantErr: true,
		},
		{
			name:    "single digit minutes",
			input:   "09:3",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseClock(%q) = %d, want error", tt.input, got)
				}
				if !apperrors.IsCode(err, apperrors.CodeInvalidTimeFormat) {
					t.Errorf("ParseClock(%q) error code = %v, want %s", tt.input, err, apperrors.CodeInvalidTimeFormat)
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

func TestAddMinutes(t *testing.T) {
	tests := []struct {
		name  string
		clock string
		n     int
		want  string
	}{
		{
			name:  "hour rollover",
			clock: "11:45",
			n:     30,
			want:  "12:15",
		},
		{
			name:  "day rollover",
			clock: "23:50",
			n:     30,
			want:  "00:20",
		},
		{
			name:  "no rollover",
			clock: "09:00",
			n:     30,
			want:  "09:30",
		},
		{
			name:  "negative delta",
			clock: "00:10",
			n:     -30,
			want:  "23:40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddMinutes(tt.clock, tt.n)
			if err != nil {
				t.Fatalf("AddMinutes(%q, %d) unexpected error: %v", tt.clock, tt.n, err)
			}
			if got != tt.want {
				t.Errorf("AddMinutes(%q, %d) = %q, want %q", tt.clock, tt.n, got, tt.want)
			}
		})
	}

	if _, err := AddMinutes("not a time", 30); err == nil {
		t.Error("AddMinutes with invalid clock should fail")
	}
}

func TestFormat12RoundTrip(t *testing.T) {
	// Every valid HH:MM must survive a trip through the 12h rendering.
	for minutes := 0; minutes < minutesPerDay; minutes++ {
		t24 := Format24(minutes)
		t12 := Format12(minutes)

		back, err := To24Hour(t12)
		if err != nil {
			t.Fatalf("To24Hour(%q) unexpected error: %v", t12, err)
		}
		if back != t24 {
			t.Fatalf("round trip %q -> %q -> %q", t24, t12, back)
		}
	}
}

func TestParseSlotToken(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{
			name:      "bare start",
			input:     "14:30",
			wantStart: "14:30",
		},
		{
			name:      "range",
			input:     "14:30 - 15:00",
			wantStart: "14:30",
			wantEnd:   "15:00",
		},
		{
			name:      "12h range",
			input:     "2:30 PM - 3:00 PM",
			wantStart: "14:30",
			wantEnd:   "15:00",
		},
		{
			name:      "12h bare start",
			input:     "2:30 PM",
			wantStart: "14:30",
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "bad start",
			input:   "25:00 - 26:00",
			wantErr: true,
		},
		{
			name:    "bad end",
			input:   "14:30 - nonsense",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ParseSlotToken(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSlotToken(%q) = (%q, %q), want error", tt.input, start, end)
				}
				if !apperrors.IsCode(err, apperrors.CodeInvalidSlotFormat) {
					t.Errorf("ParseSlotToken(%q) error code = %v, want %s", tt.input, err, apperrors.CodeInvalidSlotFormat)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSlotToken(%q) unexpected error: %v", tt.input, err)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("ParseSlotToken(%q) = (%q, %q), want (%q, %q)", tt.input, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestFormat24Wraps(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{minutesPerDay, "00:00"},
		{minutesPerDay + 20, "00:20"},
		{-10, "23:50"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.minutes), func(t *testing.T) {
			if got := Format24(tt.minutes); got != tt.want {
				t.Errorf("Format24(%d) = %q, want %q", tt.minutes, got, tt.want)
			}
		})
	}
}
