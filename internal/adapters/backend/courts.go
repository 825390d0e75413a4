package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"courtlink/internal/domain/court"
)

// ListSports returns every sport offered.
func (c *Client) ListSports(ctx context.Context) ([]court.Sport, error) {
	var payload []wireSport
	if err := c.call(ctx, "list_sports", http.MethodGet, "/ListSports", nil, nil, &payload); err != nil {
		return nil, err
	}
	sports := make([]court.Sport, 0, len(payload))
	for _, s := range payload {
		sports = append(sports, court.Sport{ID: s.ID, Name: s.Name})
	}
	return sports, nil
}

// GetCourts returns slot availability for every court of a sport. A 404 means
// the sport has no courts yet and yields an empty list.
func (c *Client) GetCourts(ctx context.Context, sport string) ([]court.Availability, error) {
	var payload []wireAvailability
	err := c.call(ctx, "get_courts", http.MethodGet, "/getCourts", url.Values{"sport": {sport}}, nil, &payload)
	if errors.Is(err, ErrNotFound) {
		return []court.Availability{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]court.Availability, 0, len(payload))
	for _, w := range payload {
		out = append(out, w.toDomain())
	}
	return out, nil
}

// ListCourts returns every court with its sport, for the admin console.
func (c *Client) ListCourts(ctx context.Context) ([]court.Court, error) {
	var payload []wireCourt
	if err := c.call(ctx, "list_courts", http.MethodGet, "/ListCourts", nil, nil, &payload); err != nil {
		return nil, err
	}
	out := make([]court.Court, 0, len(payload))
	for _, w := range payload {
		out = append(out, w.toDomain())
	}
	return out, nil
}
