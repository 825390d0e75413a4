package projections

import (
	"context"
	"strings"

	"courtlink/internal/domain/court"
)

// CourtAvailabilityQuery names the sport whose courts are shown.
type CourtAvailabilityQuery struct {
	Sport string
}

// CourtView is one court with its labelled slots.
type CourtView struct {
	court.Availability
	Labelled []court.Slot
}

// CourtAvailabilityResult is the slot grid for one sport.
type CourtAvailabilityResult struct {
	Sport  string
	Courts []CourtView
}

// Empty reports whether the sport has no courts yet.
func (r CourtAvailabilityResult) Empty() bool {
	return len(r.Courts) == 0
}

// CourtAvailabilityDeps holds dependencies for CourtAvailability.
type CourtAvailabilityDeps struct {
	Courts CourtReader
}

// QueryCourtAvailability loads every court of a sport and labels its slots.
// PRE: Sport is non-empty
// POST: Slot i of every court carries label i; a sport without courts is an empty result, not an error
func QueryCourtAvailability(ctx context.Context, query CourtAvailabilityQuery, deps CourtAvailabilityDeps) (CourtAvailabilityResult, error) {
	sport := strings.TrimSpace(query.Sport)
	courts, err := deps.Courts.GetCourts(ctx, sport)
	if err != nil {
		return CourtAvailabilityResult{}, err
	}
	return BuildCourtAvailability(sport, courts), nil
}

// BuildCourtAvailability labels an already fetched court list.
func BuildCourtAvailability(sport string, courts []court.Availability) CourtAvailabilityResult {
	views := make([]CourtView, 0, len(courts))
	for _, c := range courts {
		views = append(views, CourtView{Availability: c, Labelled: c.LabelledSlots()})
	}
	return CourtAvailabilityResult{Sport: sport, Courts: views}
}
