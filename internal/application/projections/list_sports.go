package projections

import (
	"context"

	"courtlink/internal/domain/court"
)

// ListSportsDeps holds dependencies for ListSports.
type ListSportsDeps struct {
	Sports SportLister
}

// QueryListSports returns the sports offered on the dashboard.
// POST: Returns a non-nil slice in backend order
func QueryListSports(ctx context.Context, deps ListSportsDeps) ([]court.Sport, error) {
	sports, err := deps.Sports.ListSports(ctx)
	if err != nil {
		return nil, err
	}
	if sports == nil {
		sports = []court.Sport{}
	}
	return sports, nil
}
