package core

import (
	"strings"
	"time"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// StartOfDay truncates `t` to midnight of its calendar day, keeping the
// location. Two timestamps on the same day always truncate to the same value.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// ContainsString reports whether `s` is an element of `ss`.
func ContainsString(ss []string, s string) bool {
	for _, el := range ss {
		if el == s {
			return true
		}
	}
	return false
}
