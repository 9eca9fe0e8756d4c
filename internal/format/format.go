// Package format renders events into the short human-readable fragments shown
// next to them: the all-day flag and the "From ... to ..." style time string.
package format

import (
	"agendacal/internal/dates"
	"agendacal/internal/locale"
	"agendacal/internal/models"
)

// AllDay reports whether an event uses the all-day convention: both sides
// date-only with the end at least one day after the start. The end date is
// exclusive (one day past the last included day), so this also covers
// multi-day all-day spans.
func AllDay(start, end models.EventTime) bool {
	if start.Date == "" || end.Date == "" {
		return false
	}
	s, err := dates.ParseDateString(start.Date)
	if err != nil {
		return false
	}
	e, err := dates.ParseDateString(end.Date)
	if err != nil {
		return false
	}
	return e.UTC().After(s.UTC())
}

// TimeString builds the human-readable time descriptor for an event relative
// to the day bucket it lives in. A missing start means all-day. When both
// sides are date-only the exclusive end is first stepped back one day, so a
// single-day all-day event collapses to "All day" and a multi-day span reads
// through its last included day.
//
// The comparison branches mirror the long-standing behavior of the system
// this replaces: a start after the end yields "Starting at ...".
func TimeString(loc *locale.Locale, start, end models.EventTime, referenceDay dates.Instant) string {
	if start.IsZero() {
		return loc.AllDay
	}

	s, err := dates.ParseDateString(start.Value())
	if err != nil {
		return loc.UnknownTime
	}
	e, err := dates.ParseDateString(end.Value())
	if err != nil {
		return loc.UnknownTime
	}

	if s.DateOnly && e.DateOnly {
		e = e.AddDays(-1)
	}

	su, eu := s.UTC(), e.UTC()
	switch {
	case su.Equal(eu):
		return loc.AllDay
	case su.After(eu):
		return loc.StartingAt + dates.HumanTime(loc, s, referenceDay, s.DateOnly)
	case su.Before(eu):
		return loc.From + dates.HumanTime(loc, s, referenceDay, s.DateOnly) +
			loc.To + dates.HumanTime(loc, e, referenceDay, e.DateOnly)
	}
	return loc.UnknownTime
}
