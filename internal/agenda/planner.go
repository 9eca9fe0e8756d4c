package agenda

import (
	"context"
	"fmt"
	"log/slog"

	"agendacal/internal/dates"
	"agendacal/internal/locale"
	"agendacal/internal/models"
)

// CalendarRef names one calendar on one source. The caller's slice order is
// the merge order.
type CalendarRef struct {
	Source     Source
	CalendarID string
}

// Planner fetches and merges the agendas of multiple calendars into one
// bucketed result.
type Planner struct {
	logger     *slog.Logger
	loc        *locale.Locale
	bucketizer *Bucketizer
}

// NewPlanner creates a Planner.
func NewPlanner(logger *slog.Logger, loc *locale.Locale) *Planner {
	return &Planner{
		logger:     logger,
		loc:        loc,
		bucketizer: NewBucketizer(logger, loc),
	}
}

// Agenda fetches each calendar to completion in order and merges the
// bucketed results. Any fatal fetch error aborts the whole operation; the
// caller never sees partial buckets.
func (p *Planner) Agenda(ctx context.Context, calendars []CalendarRef, days int, from dates.FromSpec) (*models.BucketedResult, error) {
	var result *models.BucketedResult

	for _, cal := range calendars {
		p.logger.Debug("Fetching calendar agenda.", "calendarID", cal.CalendarID, "days", days)
		bucketed, err := p.bucketizer.Bucketize(ctx, cal.Source, cal.CalendarID, days, from)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch calendar %s: %w", cal.CalendarID, err)
		}
		if result == nil {
			result = bucketed
			continue
		}
		result = MergeBuckets(p.loc, result, bucketed)
	}

	if result == nil {
		result = &models.BucketedResult{Days: make(map[string]*models.DayBucket)}
	}
	p.logger.Info("Built agenda.", "calendars", len(calendars), "events", result.EventCount(), "days", len(result.Days))
	return result, nil
}
