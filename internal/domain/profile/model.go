package profile

import "strings"

// SentinelName is the placeholder name the backend stores for customers who
// never completed their profile.
const SentinelName = "Gator User"

// PlaceholderUniversityID is the backend's stand-in for a missing university ID.
const PlaceholderUniversityID = "N/A"

// CacheVersion is the current layout of cached profile entries. Entries written
// under an older version are ignored.
const CacheVersion = 2

// Profile is a customer's backend profile.
type Profile struct {
	CustomerID   int
	Email        string
	Name         string
	UniversityID string
	Contact      string
}

// NeedsCompletion reports whether the user must be prompted to complete the profile.
// PRE: none
// POST: true for the sentinel name, an empty name, or a missing/placeholder university ID
func (p Profile) NeedsCompletion() bool {
	name := strings.TrimSpace(p.Name)
	if name == "" || name == SentinelName {
		return true
	}
	id := strings.TrimSpace(p.UniversityID)
	return id == "" || id == PlaceholderUniversityID
}

// CacheEntry is the locally cached mirror of a profile for one browser session.
// It is a hint only; the backend is re-read on every protected page load.
type CacheEntry struct {
	SessionID    string
	Email        string
	Name         string
	UniversityID string
	Completed    bool
	Version      int
}
