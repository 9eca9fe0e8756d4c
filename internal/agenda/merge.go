// Package agenda turns flat event lists from one or more calendar sources
// into a single day-bucketed view: it buckets events by their start date,
// accumulates result pages, and merges bucketed results across calendars
// with deduplication.
package agenda

import (
	"sort"

	"agendacal/internal/dates"
	"agendacal/internal/locale"
	"agendacal/internal/models"
)

// MergeFlat appends secondary's events after primary's, extends the range
// envelope to cover both pages, and carries secondary's continuation token
// forward. It is how pages of a single calendar accumulate.
func MergeFlat(primary, secondary *models.EventPage) *models.EventPage {
	if primary == nil {
		primary = &models.EventPage{}
	}
	if secondary == nil {
		return primary
	}

	primary.Events = append(primary.Events, secondary.Events...)

	if secondary.RangeStart != nil {
		if primary.RangeStart == nil || secondary.RangeStart.UTC().Before(primary.RangeStart.UTC()) {
			primary.RangeStart = secondary.RangeStart
		}
	}
	if secondary.RangeEnd != nil {
		if primary.RangeEnd == nil || secondary.RangeEnd.UTC().After(primary.RangeEnd.UTC()) {
			primary.RangeEnd = secondary.RangeEnd
		}
	}

	primary.NextPageToken = secondary.NextPageToken
	return primary
}

// MergeBuckets folds secondary's buckets into primary. Buckets for new dates
// are taken whole; for shared dates only events with an unseen identifier
// are appended, and any append triggers a full resort of that bucket by raw
// (start, end, summary). The date range and requested window grow to the
// envelope of both results and the human-readable range strings are
// regenerated from the new extremes.
//
// Merging a result with itself changes nothing, and the resulting range is
// independent of merge order. Insertion order within a bucket is not: events
// whose sort keys tie stay in whichever order the merges produced.
func MergeBuckets(loc *locale.Locale, primary, secondary *models.BucketedResult) *models.BucketedResult {
	if primary == nil {
		return secondary
	}
	if secondary == nil {
		return primary
	}

	for date, sb := range secondary.Days {
		pb, ok := primary.Days[date]
		if !ok {
			primary.Days[date] = sb
			continue
		}
		seen := make(map[string]bool, len(pb.Events))
		for _, ev := range pb.Events {
			seen[ev.ID] = true
		}
		appended := false
		for _, ev := range sb.Events {
			if seen[ev.ID] {
				continue
			}
			pb.Events = append(pb.Events, ev)
			appended = true
		}
		if appended {
			sortEvents(pb.Events)
		}
	}

	primary.StartDate = earlier(primary.StartDate, secondary.StartDate)
	primary.EndDate = later(primary.EndDate, secondary.EndDate)
	primary.ReqStart = earlier(primary.ReqStart, secondary.ReqStart)
	primary.ReqEnd = later(primary.ReqEnd, secondary.ReqEnd)
	primary.Start = primary.StartDate.Format(loc.DayFormat)
	primary.End = primary.EndDate.Format(loc.DayFormat)

	return primary
}

// sortEvents orders events by the raw start, end, and summary strings,
// ascending. The comparison is on the wire text, not parsed instants, so a
// date-only value sorts against a date-time value byte-wise.
func sortEvents(events []models.Event) {
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Start.Value() != b.Start.Value() {
			return a.Start.Value() < b.Start.Value()
		}
		if a.End.Value() != b.End.Value() {
			return a.End.Value() < b.End.Value()
		}
		return a.Summary < b.Summary
	})
}

func earlier(a, b dates.Instant) dates.Instant {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	if b.UTC().Before(a.UTC()) {
		return b
	}
	return a
}

func later(a, b dates.Instant) dates.Instant {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	if b.UTC().After(a.UTC()) {
		return b
	}
	return a
}
