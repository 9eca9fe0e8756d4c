package agenda

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"agendacal/internal/dates"
	"agendacal/internal/format"
	"agendacal/internal/locale"
	"agendacal/internal/models"
)

// Source is any calendar backend that can return all events in a time range,
// pages already accumulated.
type Source interface {
	FetchAllEvents(ctx context.Context, query models.ListQuery) (*models.EventPage, error)
}

// Bucketizer converts a ranged flat event list into per-day buckets.
type Bucketizer struct {
	logger *slog.Logger
	loc    *locale.Locale
	now    func() time.Time
}

// NewBucketizer creates a Bucketizer. The logger is the sink for per-event
// diagnostics about events that had to be skipped.
func NewBucketizer(logger *slog.Logger, loc *locale.Locale) *Bucketizer {
	return &Bucketizer{logger: logger, loc: loc, now: time.Now}
}

// Bucketize resolves the from specification, fetches the covered events from
// one calendar, and groups them by the date portion of their start field.
//
// The requested window is [reqStart, reqStart + days + 1): the remote API
// treats timeMax as exclusive, so one extra day captures the whole last day.
// An event without a usable start date is skipped with a warning rather than
// failing the whole fetch; every other failure is fatal and yields no
// partial result.
func (b *Bucketizer) Bucketize(ctx context.Context, src Source, calendarID string, days int, from dates.FromSpec) (*models.BucketedResult, error) {
	today := dates.Instant{Time: b.now().UTC()}
	reqStart := from.Resolve(today).TruncateDay()
	reqEnd := reqStart.AddDays(days + 1)

	page, err := src.FetchAllEvents(ctx, models.ListQuery{
		CalendarID: calendarID,
		TimeMin:    &reqStart,
		TimeMax:    &reqEnd,
	})
	if err != nil {
		return nil, err
	}

	result := &models.BucketedResult{
		Days:          make(map[string]*models.DayBucket),
		ReqStart:      reqStart,
		ReqEnd:        reqEnd,
		StartDate:     reqStart,
		EndDate:       reqEnd,
		NextPageToken: page.NextPageToken,
	}
	if page.RangeStart != nil {
		result.StartDate = *page.RangeStart
	}
	if page.RangeEnd != nil {
		result.EndDate = *page.RangeEnd
	}
	result.Start = result.StartDate.Format(b.loc.DayFormat)
	result.End = result.EndDate.Format(b.loc.DayFormat)

	for _, ev := range page.Events {
		if ev.Start.IsZero() {
			b.logger.Warn("Event has no usable start date, skipping.", "summary", ev.Summary, "calendarID", calendarID)
			continue
		}
		datePart, _, _ := strings.Cut(ev.Start.Value(), "T")
		anchor, err := dates.ParseDateString(datePart)
		if err != nil {
			b.logger.Warn("Event has no usable start date, skipping.", "summary", ev.Summary, "calendarID", calendarID)
			continue
		}

		key := anchor.DateKey()
		bucket, ok := result.Days[key]
		if !ok {
			bucket = &models.DayBucket{
				LongName:  anchor.Format(b.loc.LongDayFormat),
				ShortName: anchor.Format(b.loc.DayFormat),
				Anchor:    anchor,
			}
			result.Days[key] = bucket
		}

		ev.AllDay = format.AllDay(ev.Start, ev.End)
		ev.TimeString = format.TimeString(b.loc, ev.Start, ev.End, bucket.Anchor)
		bucket.Events = append(bucket.Events, ev)
	}

	return result, nil
}
