package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidShowTime is returned when a show time cannot be canonicalized.
var ErrInvalidShowTime = errors.New("invalid show time")

var (
	re24h = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)
	re12h = regexp.MustCompile(`^(\d{1,2}):([0-5][0-9])\s*(AM|PM)$`)
)

// ParseShowTime canonicalizes a show time string to 12-hour "H:MM AM/PM"
// form, with no leading zero on the hour. Both 24-hour input ("18:45",
// "9:30") and 12-hour input ("10:30 AM", "7:45 pm") are accepted. Shows
// are keyed by the canonical string, so two spellings of the same time
// always resolve to the same slot.
func ParseShowTime(value string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(value))

	if m := re24h.FindStringSubmatch(v); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := m[2]

		ampm := "AM"
		if hour >= 12 {
			ampm = "PM"
		}

		hour = hour % 12
		if hour == 0 {
			hour = 12
		}

		return fmt.Sprintf("%d:%s %s", hour, minute, ampm), nil
	}

	if m := re12h.FindStringSubmatch(v); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour < 1 || hour > 12 {
			return "", fmt.Errorf("%w: %q", ErrInvalidShowTime, value)
		}

		return fmt.Sprintf("%d:%s %s", hour, m[2], m[3]), nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidShowTime, value)
}
