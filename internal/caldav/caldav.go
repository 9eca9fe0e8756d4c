// Package caldav reads events from a CalDAV calendar (iCloud and friends) so
// they can be merged into the same day-bucketed view as Google calendars.
// CalDAV servers do not expand recurring events server-side, so VEVENTs with
// an RRULE are expanded into concrete occurrences within the requested
// window.
package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
	"github.com/teambition/rrule-go"

	"agendacal/internal/models"
)

// maxOccurrences caps recurrence expansion per event so a rule without an
// UNTIL or COUNT cannot blow up a query.
const maxOccurrences = 1000

// customTransport handles adding Basic Auth and custom headers to requests.
type customTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

// RoundTrip adds required headers and authentication to each request.
func (t *customTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "agendacal/1.0")
	return t.Transport.RoundTrip(req)
}

// Client is a read-only client for one calendar on a CalDAV server.
type Client struct {
	caldavClient *caldav.Client
	logger       *slog.Logger
	calendarPath string
}

// NewClient creates a CalDAV client and resolves the named calendar's path
// via principal and calendar-home-set discovery.
func NewClient(logger *slog.Logger, endpoint, username, password, calendarName string) (*Client, error) {
	transport := &customTransport{
		Username:  username,
		Password:  password,
		Transport: http.DefaultTransport,
	}
	httpClient := &http.Client{Transport: transport}

	caldavClient, err := caldav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	c := &Client{caldavClient: caldavClient, logger: logger}

	logger.Info("Finding CalDAV calendar.", "calendarName", calendarName)
	calendarPath, err := c.findCalendar(context.Background(), calendarName)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", calendarName, err)
	}
	c.calendarPath = calendarPath
	logger.Info("Successfully found CalDAV calendar.", "path", calendarPath)

	return c, nil
}

// findCalendar discovers the user's calendars and returns the path of the one
// with the matching name.
func (c *Client) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := c.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := c.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := c.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return cal.Path, nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}

// FetchAllEvents queries the calendar for VEVENTs overlapping the requested
// window and converts them, recurring ones expanded, into a flat EventPage
// sorted by start. CalDAV has no pagination, so this is always a single
// round trip.
func (c *Client) FetchAllEvents(ctx context.Context, query models.ListQuery) (*models.EventPage, error) {
	start, end := queryWindow(query)

	request := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  ical.CompCalendar,
			Comps: []caldav.CalendarCompRequest{{Name: ical.CompEvent, AllProps: true}},
		},
		CompFilter: caldav.CompFilter{
			Name: ical.CompCalendar,
			Comps: []caldav.CompFilter{{
				Name:  ical.CompEvent,
				Start: start,
				End:   end,
			}},
		},
	}

	objects, err := c.caldavClient.QueryCalendar(ctx, c.calendarPath, request)
	if err != nil {
		return nil, fmt.Errorf("caldav query failed: %w", err)
	}

	page := &models.EventPage{
		RangeStart: query.TimeMin,
		RangeEnd:   query.TimeMax,
	}
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		for _, vevent := range obj.Data.Events() {
			events, err := c.expandEvent(vevent, start, end)
			if err != nil {
				c.logger.Warn("Skipping unreadable CalDAV event.", "path", obj.Path, "error", err)
				continue
			}
			page.Events = append(page.Events, events...)
		}
	}

	sort.Slice(page.Events, func(i, j int) bool {
		return page.Events[i].Start.Value() < page.Events[j].Start.Value()
	})

	c.logger.Info("Fetched events from CalDAV calendar.", "count", len(page.Events))
	return page, nil
}

// queryWindow falls back to a sane default range when the caller did not
// constrain the query; an unbounded recurrence expansion is never useful.
func queryWindow(query models.ListQuery) (time.Time, time.Time) {
	now := time.Now().UTC()
	start, end := now, now.AddDate(0, 0, 7)
	if query.TimeMin != nil {
		start = query.TimeMin.UTC()
	}
	if query.TimeMax != nil {
		end = query.TimeMax.UTC()
	}
	return start, end
}

// expandEvent converts one VEVENT into internal events: a single event when
// it has no recurrence rule, otherwise one event per occurrence within the
// window, minus EXDATE exceptions.
func (c *Client) expandEvent(vevent ical.Event, windowStart, windowEnd time.Time) ([]models.Event, error) {
	uid, err := vevent.Props.Text(ical.PropUID)
	if err != nil || uid == "" {
		return nil, fmt.Errorf("event has no UID: %w", err)
	}
	summary, _ := vevent.Props.Text(ical.PropSummary)
	location, _ := vevent.Props.Text(ical.PropLocation)
	link, _ := vevent.Props.Text(ical.PropURL)

	startProp := vevent.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return nil, fmt.Errorf("event %s has no DTSTART", uid)
	}
	allDay := startProp.ValueType() == ical.ValueDate

	start, err := startProp.DateTime(time.UTC)
	if err != nil {
		return nil, fmt.Errorf("event %s has unreadable DTSTART: %w", uid, err)
	}

	end := start
	if allDay {
		end = start.AddDate(0, 0, 1)
	}
	if endProp := vevent.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		if t, err := endProp.DateTime(time.UTC); err == nil {
			end = t
		}
	}
	duration := end.Sub(start)

	roption, err := vevent.Props.RecurrenceRule()
	if err != nil {
		return nil, fmt.Errorf("event %s has unreadable RRULE: %w", uid, err)
	}
	if roption == nil {
		ev := makeEvent(uid, summary, location, link, start, end, allDay)
		return []models.Event{ev}, nil
	}

	exceptions := exceptionDates(vevent)

	roption.Dtstart = start
	rule, err := rrule.NewRRule(*roption)
	if err != nil {
		return nil, fmt.Errorf("event %s has invalid RRULE: %w", uid, err)
	}

	var events []models.Event
	for _, occ := range rule.Between(windowStart, windowEnd, true) {
		if exceptions[occ.Format(time.RFC3339)] {
			continue
		}
		id := fmt.Sprintf("%s:%s", uid, occ.UTC().Format(time.RFC3339))
		events = append(events, makeEvent(id, summary, location, link, occ, occ.Add(duration), allDay))
		if len(events) >= maxOccurrences {
			c.logger.Warn("Recurrence expansion truncated.", "uid", uid, "cap", maxOccurrences)
			break
		}
	}
	return events, nil
}

// exceptionDates collects EXDATE values keyed by RFC 3339 text for cheap
// occurrence lookups.
func exceptionDates(vevent ical.Event) map[string]bool {
	props := vevent.Props.Values(ical.PropExceptionDates)
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]bool, len(props))
	for i := range props {
		if t, err := props[i].DateTime(time.UTC); err == nil {
			out[t.Format(time.RFC3339)] = true
		}
	}
	return out
}

// makeEvent renders start and end back into the wire representation the rest
// of the pipeline consumes: date-only for all-day events, RFC 3339 otherwise.
func makeEvent(id, summary, location, link string, start, end time.Time, allDay bool) models.Event {
	ev := models.Event{
		ID:       id,
		Summary:  summary,
		Location: location,
		HTMLLink: link,
	}
	if allDay {
		ev.Start = models.EventTime{Date: start.UTC().Format("2006-01-02")}
		ev.End = models.EventTime{Date: end.UTC().Format("2006-01-02")}
	} else {
		ev.Start = models.EventTime{DateTime: start.UTC().Format(time.RFC3339)}
		ev.End = models.EventTime{DateTime: end.UTC().Format(time.RFC3339)}
	}
	return ev
}
