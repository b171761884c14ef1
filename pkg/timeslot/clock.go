// Package timeslot holds the pure slot arithmetic: clock-time parsing,
// weekly rule expansion, override merging and booking conflict filtering.
// Everything operates on integer minutes since midnight; timezone handling
// happens before values reach this package.
package timeslot

import (
	"fmt"
	"strings"

	apperrors "bookable/pkg/errors"
)

const minutesPerDay = 24 * 60

// ParseClock converts a clock token to minutes since midnight. It accepts
// the zero-padded 24h form ("14:30") and the 12h form with a meridiem
// suffix ("2:30 PM", case-insensitive).
func ParseClock(s string) (int, error) {
	token := strings.TrimSpace(s)
	if token == "" {
		return 0, apperrors.InvalidTimeFormat(s)
	}

	meridiem := ""
	upper := strings.ToUpper(token)
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		meridiem = upper[len(upper)-2:]
		token = strings.TrimSpace(token[:len(token)-2])
	}

	hourStr, minStr, found := strings.Cut(token, ":")
	if !found {
		return 0, apperrors.InvalidTimeFormat(s)
	}

	hour, ok := parseTwoDigit(hourStr)
	if !ok {
		return 0, apperrors.InvalidTimeFormat(s)
	}
	minute, ok := parseTwoDigit(minStr)
	if !ok || len(minStr) != 2 || minute > 59 {
		return 0, apperrors.InvalidTimeFormat(s)
	}

	switch meridiem {
	case "":
		if len(hourStr) != 2 || hour > 23 {
			return 0, apperrors.InvalidTimeFormat(s)
		}
	case "AM":
		if hour < 1 || hour > 12 {
			return 0, apperrors.InvalidTimeFormat(s)
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return 0, apperrors.InvalidTimeFormat(s)
		}
		if hour != 12 {
			hour += 12
		}
	}

	return hour*60 + minute, nil
}

func parseTwoDigit(s string) (int, bool) {
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, true
}

// Format24 renders minutes since midnight as zero-padded "HH:MM".
func Format24(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Format12 renders minutes since midnight as "h:mm AM" / "h:mm PM".
func Format12(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	hour := minutes / 60
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minutes%60, meridiem)
}

// To24Hour normalizes any accepted clock token to the 24h form.
func To24Hour(s string) (string, error) {
	minutes, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return Format24(minutes), nil
}

// AddMinutes adds n minutes to a clock token, wrapping past midnight.
func AddMinutes(clock string, n int) (string, error) {
	minutes, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	return Format24(minutes + n), nil
}

// ParseSlotToken accepts either a bare start time ("14:30") or a
// "start - end" range and returns both ends in 24h form. A bare start
// returns an empty end.
func ParseSlotToken(token string) (start, end string, err error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", "", apperrors.InvalidSlotFormat(token)
	}

	if first, second, found := strings.Cut(trimmed, " - "); found {
		start, err = To24Hour(first)
		if err != nil {
			return "", "", apperrors.InvalidSlotFormat(token)
		}
		end, err = To24Hour(second)
		if err != nil {
			return "", "", apperrors.InvalidSlotFormat(token)
		}
		return start, end, nil
	}

	start, err = To24Hour(trimmed)
	if err != nil {
		return "", "", apperrors.InvalidSlotFormat(token)
	}
	return start, "", nil
}
