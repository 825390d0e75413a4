package backend

import (
	"context"
	"net/http"
	"net/url"

	"courtlink/internal/domain/profile"
)

// GetCustomer fetches the profile stored for email. A missing customer returns
// an error matching ErrNotFound.
func (c *Client) GetCustomer(ctx context.Context, email string) (profile.Profile, error) {
	var payload wireCustomer
	if err := c.call(ctx, "get_customer", http.MethodGet, "/GetCustomer", url.Values{"email": {email}}, nil, &payload); err != nil {
		return profile.Profile{}, err
	}
	p := payload.toDomain()
	if p.Email == "" {
		p.Email = email
	}
	return p, nil
}

// UpsertCustomer creates the customer or updates its name and university ID.
func (c *Client) UpsertCustomer(ctx context.Context, p profile.Profile) error {
	return c.call(ctx, "upsert_customer", http.MethodPost, "/Customer", nil, wireCustomer{
		Name:  p.Name,
		Email: p.Email,
		UFID:  p.UniversityID,
	}, nil)
}
