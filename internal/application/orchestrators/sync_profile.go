package orchestrators

import (
	"context"
	"log/slog"

	"courtlink/internal/domain/profile"
	"courtlink/internal/domain/session"
)

// ProfileReader loads a customer profile from the backend.
type ProfileReader interface {
	GetCustomer(ctx context.Context, email string) (profile.Profile, error)
}

// ProfileCacheWriter writes the per-session profile cache.
type ProfileCacheWriter interface {
	Put(ctx context.Context, entry profile.CacheEntry) error
}

// SyncProfileInput identifies the page load being synchronised.
type SyncProfileInput struct {
	Path    string
	Session session.Session
	Email   string // email reported by the identity provider
}

// ProfileStatus is the outcome of a synchronisation.
type ProfileStatus struct {
	Skipped bool // admin context; nothing was fetched
	Prompt  bool // the completion prompt must be shown
	Profile profile.Profile
}

// SyncProfileDeps holds dependencies for SyncProfile.
type SyncProfileDeps struct {
	Profiles ProfileReader
	Cache    ProfileCacheWriter
}

// ExecuteSyncProfile reconciles the backend profile with the session cache.
// The backend is always fetched and always wins over the cache.
// PRE: Session is a resolved user session
// POST: Prompt is true when the backend profile is missing or incomplete;
// otherwise the cache holds the backend values
func ExecuteSyncProfile(ctx context.Context, input SyncProfileInput, deps SyncProfileDeps) ProfileStatus {
	if session.IsAdminRoute(input.Path) || input.Session.HasAdminClaim() {
		return ProfileStatus{Skipped: true}
	}

	p, err := deps.Profiles.GetCustomer(ctx, input.Email)
	if err != nil {
		slog.Info("profile_event", "event", "profile_missing", "email", input.Email, "error", err)
		return ProfileStatus{Prompt: true, Profile: profile.Profile{Email: input.Email}}
	}
	if p.Email == "" {
		p.Email = input.Email
	}

	complete := !p.NeedsCompletion()
	if err := deps.Cache.Put(ctx, profile.CacheEntry{
		SessionID:    input.Session.ID,
		Email:        p.Email,
		Name:         p.Name,
		UniversityID: p.UniversityID,
		Completed:    complete,
	}); err != nil {
		slog.Warn("profile_event", "event", "cache_write_failed", "session_id", input.Session.ID, "error", err)
	}
	if !complete {
		slog.Info("profile_event", "event", "profile_incomplete", "email", p.Email)
	}
	return ProfileStatus{Prompt: !complete, Profile: p}
}
