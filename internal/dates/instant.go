// Package dates normalizes the heterogeneous date and time representations a
// calendar source can produce into absolute instants, and resolves the
// caller-supplied "from" specification of a day-range query. It is pure
// computation; all network and rendering concerns live elsewhere.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"agendacal/internal/locale"
)

// Instant is an absolute point in time together with the flavor it was
// expressed in: date-only (midnight, no time-of-day meaning) or a precise
// date-time. Instants are produced only by this package.
type Instant struct {
	Time     time.Time
	DateOnly bool
}

// ParseError reports date text the parser could not make sense of.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse date from %q", e.Input)
}

var (
	dateRe   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	clockRe  = regexp.MustCompile(`[T ](\d{1,2})(?::(\d{1,2})(?::(\d{1,2}))?)?`)
	offsetRe = regexp.MustCompile(`(Z|[+-]\d{2}:?\d{2})$`)
)

// ParseDateString parses either a plain YYYY-MM-DD date or an ISO 8601
// date-time. A trailing Z or a missing offset both mean UTC. Clock fields
// that are absent default to zero; only a malformed date portion is an
// error. The leniency about partial clock values is deliberate: calendar
// sources are not consistent about them.
func ParseDateString(s string) (Instant, error) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return Instant{}, &ParseError{Input: s}
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	rest := s[len(m[0]):]
	if rest == "" {
		return Instant{
			Time:     time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
			DateOnly: true,
		}, nil
	}

	var hour, min, sec int
	if cm := clockRe.FindStringSubmatch(rest); cm != nil {
		hour, _ = strconv.Atoi(cm[1])
		if cm[2] != "" {
			min, _ = strconv.Atoi(cm[2])
		}
		if cm[3] != "" {
			sec, _ = strconv.Atoi(cm[3])
		}
	}

	loc := time.UTC
	if om := offsetRe.FindStringSubmatch(rest); om != nil && om[1] != "Z" {
		raw := om[1]
		sign := 1
		if raw[0] == '-' {
			sign = -1
		}
		hours, _ := strconv.Atoi(raw[1:3])
		mins := raw[3:]
		if len(mins) == 3 { // strip the colon
			mins = mins[1:]
		}
		minutes, _ := strconv.Atoi(mins)
		loc = time.FixedZone(raw, sign*(hours*3600+minutes*60))
	}

	return Instant{
		Time: time.Date(year, time.Month(month), day, hour, min, sec, 0, loc),
	}, nil
}

// IsZero reports whether i carries no point in time at all.
func (i Instant) IsZero() bool {
	return i.Time.IsZero()
}

// UTC returns the instant normalized to UTC.
func (i Instant) UTC() time.Time {
	return i.Time.UTC()
}

// TruncateDay drops the time-of-day portion, yielding a date-only instant at
// UTC midnight.
func (i Instant) TruncateDay() Instant {
	u := i.Time.UTC()
	return Instant{
		Time:     time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC),
		DateOnly: true,
	}
}

// AddDays returns the instant shifted by n calendar days.
func (i Instant) AddDays(n int) Instant {
	return Instant{Time: i.Time.AddDate(0, 0, n), DateOnly: i.DateOnly}
}

// Format renders the instant with the given reference-time layout, in the
// zone the instant was expressed in.
func (i Instant) Format(layout string) string {
	return i.Time.Format(layout)
}

// RFC3339 renders the instant for use as an API query parameter.
func (i Instant) RFC3339() string {
	return i.UTC().Format(time.RFC3339)
}

// DateKey renders the calendar date of the instant, the form day buckets are
// keyed by.
func (i Instant) DateKey() string {
	return i.UTC().Format("2006-01-02")
}

// SameDay reports whether both instants fall on the same calendar date once
// normalized to UTC.
func SameDay(a, b Instant) bool {
	au, bu := a.UTC(), b.UTC()
	ay, am, ad := au.Date()
	by, bm, bd := bu.Date()
	return ay == by && am == bm && ad == bd
}

// HumanTime renders an instant relative to a reference day: a bare time when
// it falls on the reference day, otherwise a day label. dateOnly suppresses
// the time portion for instants that carry no meaningful time of day.
func HumanTime(loc *locale.Locale, i, referenceDay Instant, dateOnly bool) string {
	if SameDay(i, referenceDay) {
		if dateOnly {
			return i.Format(loc.DayFormat)
		}
		return i.Format(loc.TimeFormat)
	}
	if dateOnly {
		return i.Format(loc.DayFormat)
	}
	return i.Format(loc.AtFormat)
}
