// Package dates provides calendar helpers for the assistant: the current
// date/time stamps injected into every context, relative-date parsing for
// phrases like "tomorrow" or "in 3 days", and user-friendly formatting.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	inDaysRe  = regexp.MustCompile(`in (\d+) days?`)
	inWeeksRe = regexp.MustCompile(`in (\d+) weeks?`)
)

// Day reduces t to its calendar day, read in t's own location and pinned to
// UTC midnight. Pinning to one zone makes days comparable regardless of where
// their source values came from: a stored UTC timestamp and a local clock
// reading land on the same instant when their dates match.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day.
func Today() time.Time {
	return Day(time.Now())
}

// CurrentDate returns today's date in ISO form (YYYY-MM-DD).
func CurrentDate() string {
	return time.Now().Format(time.DateOnly)
}

// CurrentTime returns the current wall-clock time (HH:MM).
func CurrentTime() string {
	return time.Now().Format("15:04")
}

// Parse parses an ISO calendar date string (YYYY-MM-DD).
func Parse(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

// ParseRelative resolves a relative date phrase inside free text against the
// given reference day. Recognized phrases: "today", "tomorrow", "yesterday",
// "this week", "next week", "in N days", "in N weeks".
// Returns nil when the text contains no recognized phrase.
func ParseRelative(text string, today time.Time) *time.Time {
	lower := strings.ToLower(text)
	today = Day(today)

	resolve := func(t time.Time) *time.Time { return &t }

	switch {
	case strings.Contains(lower, "today"):
		return resolve(today)
	case strings.Contains(lower, "tomorrow"):
		return resolve(today.AddDate(0, 0, 1))
	case strings.Contains(lower, "yesterday"):
		return resolve(today.AddDate(0, 0, -1))
	case strings.Contains(lower, "this week"):
		return resolve(today)
	case strings.Contains(lower, "next week"):
		return resolve(today.AddDate(0, 0, 7))
	}

	if m := inDaysRe.FindStringSubmatch(lower); m != nil {
		days, err := strconv.Atoi(m[1])
		if err == nil {
			return resolve(today.AddDate(0, 0, days))
		}
	}
	if m := inWeeksRe.FindStringSubmatch(lower); m != nil {
		weeks, err := strconv.Atoi(m[1])
		if err == nil {
			return resolve(today.AddDate(0, 0, weeks*7))
		}
	}

	return nil
}

// FormatFriendly renders a date relative to today: "Today", "Tomorrow",
// "Yesterday", or "Monday, Jan 15" for anything further away.
func FormatFriendly(date, today time.Time) string {
	date = Day(date)
	today = Day(today)

	switch {
	case date.Equal(today):
		return "Today"
	case date.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	case date.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	}
	return date.Format("Monday, Jan 2")
}
