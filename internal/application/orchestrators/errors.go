package orchestrators

import "errors"

var (
	// ErrSessionMismatch is returned when a sign-in still fails after the one forced sign-out and retry.
	ErrSessionMismatch = errors.New("Session mismatch. Please refresh and try again.")
	// ErrConfirmationRequired is returned by destructive admin commands that were not confirmed.
	ErrConfirmationRequired = errors.New("this action cannot be undone and must be confirmed")
	// ErrSlotUnavailable is returned when the chosen slot is closed, taken or out of range.
	ErrSlotUnavailable = errors.New("this slot is not available")
	// ErrCourtNotFound is returned when the chosen court is not offered for the sport.
	ErrCourtNotFound = errors.New("court not found for this sport")
	// ErrInvalidAdminCredentials is returned when the backend rejects an admin login.
	ErrInvalidAdminCredentials = errors.New("invalid admin username or password")
	// ErrNotSignedIn is returned when a user command runs without a signed-in user.
	ErrNotSignedIn = errors.New("you are not signed in")
)
