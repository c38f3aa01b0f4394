package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/tsheet/internal/logger"
)

const (
	graphBaseURL = "https://graph.microsoft.com/v1.0"
	pageSize     = 100
)

// eventFields are the event properties requested from Graph.
var eventFields = []string{
	"id", "subject", "isAllDay", "isCancelled", "sensitivity", "showAs", "start", "end", "location",
}

// Client is an authenticated Microsoft Graph API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client that refreshes tok as needed and writes refreshed
// tokens back to store.
func NewClient(ctx context.Context, tok *oauth2.Token, cfg *oauth2.Config, store TokenStore) *Client {
	src := &savingTokenSource{ts: cfg.TokenSource(ctx, tok), store: store}
	return &Client{
		baseURL:    graphBaseURL,
		httpClient: oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)),
	}
}

type savingTokenSource struct {
	ts    oauth2.TokenSource
	store TokenStore
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(tok); err != nil {
		logger.Warn("could not save refreshed token", "err", err)
	}
	return tok, nil
}

// graphTime is a Graph dateTimeTimeZone value. Only the wall time is read;
// its zone is the one asked for with the Prefer header, or UTC.
type graphTime struct {
	DateTime string `json:"dateTime"`
}

// CalendarEvent is the part of a Graph event that gets booked.
type CalendarEvent struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	IsAllDay    bool   `json:"isAllDay"`
	IsCancelled bool   `json:"isCancelled"`
	// Sensitivity is "normal", "personal", "private" or "confidential".
	Sensitivity string `json:"sensitivity"`
	// ShowAs is "free", "tentative", "busy", "oof", "workingElsewhere" or "unknown".
	ShowAs   string    `json:"showAs"`
	Start    graphTime `json:"start"`
	End      graphTime `json:"end"`
	Location struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
}

type eventPage struct {
	Value    []CalendarEvent `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

// calendarViewURL builds the first page URL for events in [from, to).
func (c *Client) calendarViewURL(from, to time.Time) string {
	q := url.Values{}
	q.Set("startDateTime", from.UTC().Format(time.RFC3339))
	q.Set("endDateTime", to.UTC().Format(time.RFC3339))
	q.Set("$select", strings.Join(eventFields, ","))
	q.Set("$top", fmt.Sprint(pageSize))
	return c.baseURL + "/me/calendarView?" + q.Encode()
}

// GetCalendarView fetches calendar events in [from, to), following
// @odata.nextLink. With a non-empty IANA timezone Graph returns event times in
// that zone, otherwise in UTC.
func (c *Client) GetCalendarView(ctx context.Context, from, to time.Time, timezone string) ([]CalendarEvent, error) {
	var all []CalendarEvent
	for next := c.calendarViewURL(from, to); next != ""; {
		page, err := c.fetchPage(ctx, next, timezone)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Value...)
		next = page.NextLink
	}
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, endpoint, timezone string) (eventPage, error) {
	var page eventPage
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return page, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if timezone != "" {
		req.Header.Set("Prefer", fmt.Sprintf(`outlook.timezone="%s"`, timezone))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return page, fmt.Errorf("graph API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return page, fmt.Errorf("graph API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return page, fmt.Errorf("decoding graph response: %w", err)
	}
	logger.Debug("calendar page fetched", "events", len(page.Value), "more", page.NextLink != "")
	return page, nil
}
