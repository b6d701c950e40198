package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// MalformedTimeError is returned when a time of day is not a valid HH:MM string
type MalformedTimeError struct {
	Value  string
	Reason string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time %q: %s", e.Value, e.Reason)
}

// ParseClock converts an "HH:MM" string into minutes since midnight.
// A trailing ":SS", as spreadsheets render time cells, is accepted and truncated.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, &MalformedTimeError{Value: s, Reason: "expected HH:MM"}
	}
	if m, ss, hasSeconds := strings.Cut(mm, ":"); hasSeconds {
		if len(ss) != 2 || !isDigits(ss) || ss > "59" {
			return 0, &MalformedTimeError{Value: s, Reason: "invalid seconds"}
		}
		mm = m
	}
	if len(hh) < 1 || len(hh) > 2 || len(mm) != 2 || !isDigits(hh) || !isDigits(mm) {
		return 0, &MalformedTimeError{Value: s, Reason: "expected HH:MM"}
	}

	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return 0, &MalformedTimeError{Value: s, Reason: "invalid hours"}
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, &MalformedTimeError{Value: s, Reason: "invalid minutes"}
	}

	return hours*60 + minutes, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MinutesBetween returns end - start in minutes. The result is negative when end is before start.
func MinutesBetween(start, end string) (int, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return endMin - startMin, nil
}

// FormatMinutes renders a minute count as "22h00"
func FormatMinutes(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%dh%02d", sign, minutes/60, minutes%60)
}
