// Package export renders a bucketed agenda to an iCalendar stream for
// downstream consumers that want a feed rather than buckets.
package export

import (
	"fmt"
	"io"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"agendacal/internal/dates"
	"agendacal/internal/models"
)

// Calendar converts a bucketed result into an iCalendar document. Events
// whose dates cannot be parsed are left out; the bucketing pipeline has
// already warned about them.
func Calendar(result *models.BucketedResult) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//agendacal//EN")

	for _, date := range result.SortedDates() {
		for _, ev := range result.Days[date].Events {
			vevent, err := toICal(ev)
			if err != nil {
				continue
			}
			cal.Children = append(cal.Children, vevent)
		}
	}
	return cal
}

// Write encodes the result as iCalendar onto w.
func Write(w io.Writer, result *models.BucketedResult) error {
	if err := ical.NewEncoder(w).Encode(Calendar(result)); err != nil {
		return fmt.Errorf("failed to encode agenda to iCal format: %w", err)
	}
	return nil
}

// toICal converts an internal event to an ical.Component (VEVENT).
func toICal(ev models.Event) (*ical.Component, error) {
	start, err := dates.ParseDateString(ev.Start.Value())
	if err != nil {
		return nil, err
	}
	end, err := dates.ParseDateString(ev.End.Value())
	if err != nil {
		return nil, err
	}

	uid := ev.ID
	if uid == "" {
		uid = uuid.New().String()
	}

	vevent := ical.NewComponent(ical.CompEvent)
	vevent.Props.SetText(ical.PropUID, uid)
	vevent.Props.SetText(ical.PropSummary, ev.Summary)
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, start.UTC())
	vevent.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	vevent.Props.SetDateTime(ical.PropDateTimeEnd, end.UTC())

	if ev.Location != "" {
		vevent.Props.SetText(ical.PropLocation, ev.Location)
	}
	if ev.HTMLLink != "" {
		vevent.Props.SetText(ical.PropURL, ev.HTMLLink)
	}
	if ev.TimeString != "" {
		vevent.Props.SetText(ical.PropDescription, ev.TimeString)
	}
	return vevent, nil
}
