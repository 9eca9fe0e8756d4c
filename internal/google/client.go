// Package google queries the Google Calendar events API: it builds the query
// parameters, pages through results, and decodes responses into the internal
// event model. Authentication is the OAuth token-file flow; the resulting
// http.Client attaches bearer credentials to every request and refreshes
// tokens opaquely.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"agendacal/internal/agenda"
	"agendacal/internal/dates"
	"agendacal/internal/models"
)

// DefaultBaseURL is the production Google Calendar API endpoint.
const DefaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Client fetches events from the Google Calendar REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a client authenticated for one account. The accountName
// selects the token file saved by the auth command (token-<name>.json).
func NewClient(ctx context.Context, logger *slog.Logger, clientID, clientSecret, accountName string) (*Client, error) {
	config, err := getOAuthConfig(clientID, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth config: %w", err)
	}

	tokenFile := fmt.Sprintf("token-%s.json", accountName)
	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("could not load token for account %s: %w. Please run the 'auth' command first", accountName, err)
	}

	return &Client{
		httpClient: config.Client(ctx, token),
		baseURL:    DefaultBaseURL,
		logger:     logger,
	}, nil
}

// NewRESTClient creates a client over an already-authenticated http.Client
// and a custom endpoint. Used for tests and non-production deployments.
func NewRESTClient(logger *slog.Logger, httpClient *http.Client, baseURL string) *Client {
	return &Client{httpClient: httpClient, baseURL: baseURL, logger: logger}
}

// TransportError is a non-success HTTP status from the calendar API. It is
// fatal: the whole fetch is aborted.
type TransportError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("calendar API returned %s: %s", e.Status, e.Body)
}

// DecodeError is a response body that could not be decoded as JSON. It is
// fatal in the same way.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode calendar API response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Wire shapes of the events list response.
type eventsResponse struct {
	Items         []wireEvent `json:"items"`
	NextPageToken string      `json:"nextPageToken"`
}

type wireEvent struct {
	ID       string           `json:"id"`
	Summary  string           `json:"summary"`
	Location string           `json:"location"`
	HTMLLink string           `json:"htmlLink"`
	Start    models.EventTime `json:"start"`
	End      models.EventTime `json:"end"`
}

// ListEvents issues a single events request and decodes one page.
//
// orderBy defaults to startTime and singleEvents to true; timeMin and
// timeMax are rendered in RFC 3339 when present, pageToken and maxResults
// passed through verbatim when set. When the caller supplied a time window
// it becomes the page's range; otherwise the range of a non-empty page is
// derived from the first event's start and the last event's end, trusting
// the server-side ordering.
func (c *Client) ListEvents(ctx context.Context, query models.ListQuery) (*models.EventPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.eventsURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build events request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("events request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &TransportError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	var decoded eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &DecodeError{Err: err}
	}

	page := &models.EventPage{
		Events:        make([]models.Event, 0, len(decoded.Items)),
		NextPageToken: decoded.NextPageToken,
	}
	for _, item := range decoded.Items {
		page.Events = append(page.Events, models.Event{
			ID:       item.ID,
			Summary:  item.Summary,
			Location: item.Location,
			HTMLLink: item.HTMLLink,
			Start:    item.Start,
			End:      item.End,
		})
	}

	c.deriveRange(page, query)
	c.logger.Debug("Fetched events page.", "calendarID", query.CalendarID, "count", len(page.Events), "more", page.NextPageToken != "")
	return page, nil
}

// FetchAllEvents pages through the events of one calendar, accumulating
// every page into a single flat EventPage. The loop carries each response's
// continuation token into the next request and stops when none is returned.
func (c *Client) FetchAllEvents(ctx context.Context, query models.ListQuery) (*models.EventPage, error) {
	accumulated := &models.EventPage{}
	pages := 0
	for {
		page, err := c.ListEvents(ctx, query)
		if err != nil {
			return nil, err
		}
		accumulated = agenda.MergeFlat(accumulated, page)
		pages++
		if page.NextPageToken == "" {
			break
		}
		query.PageToken = page.NextPageToken
	}

	c.logger.Info("Fetched all events from Google Calendar.", "calendarID", query.CalendarID, "count", len(accumulated.Events), "pages", pages)
	return accumulated, nil
}

func (c *Client) eventsURL(query models.ListQuery) string {
	orderBy := query.OrderBy
	if orderBy == "" {
		orderBy = "startTime"
	}
	single := true
	if query.SingleEvents != nil {
		single = *query.SingleEvents
	}

	q := url.Values{}
	q.Set("orderBy", orderBy)
	q.Set("singleEvents", strconv.FormatBool(single))
	if query.TimeMin != nil {
		q.Set("timeMin", query.TimeMin.RFC3339())
	}
	if query.TimeMax != nil {
		q.Set("timeMax", query.TimeMax.RFC3339())
	}
	if query.PageToken != "" {
		q.Set("pageToken", query.PageToken)
	}
	if query.MaxResults > 0 {
		q.Set("maxResults", strconv.FormatInt(query.MaxResults, 10))
	}

	return fmt.Sprintf("%s/calendars/%s/events?%s", c.baseURL, url.PathEscape(query.CalendarID), q.Encode())
}

// deriveRange fills in the page range: the caller's window wins when given,
// otherwise the extremes of a non-empty page are parsed out of the first and
// last events.
func (c *Client) deriveRange(page *models.EventPage, query models.ListQuery) {
	if query.TimeMin != nil {
		page.RangeStart = query.TimeMin
	}
	if query.TimeMax != nil {
		page.RangeEnd = query.TimeMax
	}
	if len(page.Events) == 0 {
		return
	}
	if page.RangeStart == nil {
		if first, err := dates.ParseDateString(page.Events[0].Start.Value()); err == nil {
			page.RangeStart = &first
		}
	}
	if page.RangeEnd == nil {
		if last, err := dates.ParseDateString(page.Events[len(page.Events)-1].End.Value()); err == nil {
			page.RangeEnd = &last
		}
	}
}
