// Package models defines the provider-independent event, page, and bucket
// types passed between the calendar sources, the bucketizer, and the
// aggregator. All of them are value objects scoped to a single aggregation
// call.
package models

import (
	"sort"

	"agendacal/internal/dates"
)

// EventTime is the wire representation of a calendar instant: exactly one of
// Date (all-day, YYYY-MM-DD) or DateTime (ISO 8601) is set.
type EventTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
}

// Value returns whichever representation is present, preferring the precise
// one.
func (t EventTime) Value() string {
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

// IsZero reports whether neither representation is present.
func (t EventTime) IsZero() bool {
	return t.Date == "" && t.DateTime == ""
}

// Event is a single calendar entry. ID is unique per source and is the sole
// identity used for deduplication.
type Event struct {
	ID       string `json:"id"`
	Summary  string `json:"summary"`
	Location string `json:"location,omitempty"`
	HTMLLink string `json:"htmlLink,omitempty"`

	Start EventTime `json:"start"`
	End   EventTime `json:"end"`

	// Derived when the event is bucketed.
	AllDay     bool   `json:"allDay"`
	TimeString string `json:"timeString,omitempty"`
}

// EventPage is the unit a single source query produces: a flat ordered event
// list, an optional continuation token, and the date range the list covers.
type EventPage struct {
	Events        []Event
	NextPageToken string
	RangeStart    *dates.Instant
	RangeEnd      *dates.Instant
}

// ListQuery describes one events request against a calendar source.
type ListQuery struct {
	CalendarID   string
	OrderBy      string // defaults to startTime
	SingleEvents *bool  // defaults to true
	TimeMin      *dates.Instant
	TimeMax      *dates.Instant
	PageToken    string
	MaxResults   int64
}

// DayBucket holds the events of one calendar date, in insertion order until
// a merge forces a resort.
type DayBucket struct {
	LongName  string
	ShortName string
	Anchor    dates.Instant
	Events    []Event
}

// BucketedResult is a day-keyed view over one or more calendars. StartDate
// and EndDate track the actual extremes of the data; ReqStart and ReqEnd
// track the originally requested window even when events fall outside it.
type BucketedResult struct {
	Days map[string]*DayBucket

	StartDate dates.Instant
	EndDate   dates.Instant
	ReqStart  dates.Instant
	ReqEnd    dates.Instant

	// Human-readable renderings of StartDate and EndDate.
	Start string
	End   string

	NextPageToken string
}

// SortedDates returns the bucket keys in chronological order. The keys are
// YYYY-MM-DD strings, so lexical order is date order.
func (r *BucketedResult) SortedDates() []string {
	out := make([]string, 0, len(r.Days))
	for date := range r.Days {
		out = append(out, date)
	}
	sort.Strings(out)
	return out
}

// EventCount returns the total number of events across all buckets.
func (r *BucketedResult) EventCount() int {
	n := 0
	for _, b := range r.Days {
		n += len(b.Events)
	}
	return n
}
