package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"courtlink/internal/domain/profile"
)

// CompleteProfileInput carries the completion prompt form.
type CompleteProfileInput struct {
	Name      string `form:"name" validate:"required,min=2"`
	UFID      string `form:"ufid" validate:"required,ufid"`
	Email     string `validate:"required,email"`
	SessionID string `validate:"-"`
}

// CompleteProfileDeps holds dependencies for CompleteProfile.
type CompleteProfileDeps struct {
	Profiles ProfileWriter
	Cache    ProfileCacheWriter
}

// ExecuteCompleteProfile upserts the profile in the backend and marks the cache complete.
// PRE: Email is the signed-in user's email
// POST: On success the backend holds name and UFID and the cache is complete;
// on failure nothing changes and the prompt stays open
func ExecuteCompleteProfile(ctx context.Context, input CompleteProfileInput, deps CompleteProfileDeps) (profile.Profile, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.UFID = strings.TrimSpace(input.UFID)
	if err := validateInput(input); err != nil {
		return profile.Profile{}, err
	}

	p := profile.Profile{Email: input.Email, Name: input.Name, UniversityID: input.UFID}
	if err := deps.Profiles.UpsertCustomer(ctx, p); err != nil {
		slog.Warn("profile_event", "event", "complete_failed", "email", input.Email, "error", err)
		return profile.Profile{}, err
	}

	if err := deps.Cache.Put(ctx, profile.CacheEntry{
		SessionID:    input.SessionID,
		Email:        p.Email,
		Name:         p.Name,
		UniversityID: p.UniversityID,
		Completed:    true,
	}); err != nil {
		slog.Warn("profile_event", "event", "cache_write_failed", "session_id", input.SessionID, "error", err)
	}

	slog.Info("profile_event", "event", "profile_completed", "email", input.Email)
	return p, nil
}
