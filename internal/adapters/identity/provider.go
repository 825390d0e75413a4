package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotAuthenticated   = errors.New("identity: no signed-in user")
	ErrAlreadySignedIn    = errors.New("identity: there is already a signed in user")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUserNotConfirmed   = errors.New("account is not confirmed; check your email for the code")
	ErrUserExists         = errors.New("an account with this email already exists")
	ErrInvalidCode        = errors.New("invalid or expired confirmation code")
	ErrPasswordPolicy     = errors.New("password does not meet the requirements")
	ErrChallengeRequired  = errors.New("additional sign-in step required")
)

// Tokens are the credentials issued at sign-in.
type Tokens struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// SignUpInput registers a new user.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

// SignUpResult reports the next step after sign-up.
type SignUpResult struct {
	UserID           string
	NeedsConfirm     bool
	CodeDeliveryHint string
}

// SignInInput authenticates a user. ActiveAccessToken is the access token of a
// user already signed in on this browser session, if any.
type SignInInput struct {
	Email             string
	Password          string
	ActiveAccessToken string
}

// Attributes are the current user's identity attributes.
type Attributes struct {
	Username string
	Email    string
	Name     string
	Extra    map[string]string
}

// Provider is the external identity service.
type Provider interface {
	SignUp(ctx context.Context, in SignUpInput) (SignUpResult, error)
	ConfirmSignUp(ctx context.Context, email, code string) error
	SignIn(ctx context.Context, in SignInInput) (Tokens, error)
	// SignOut ends the browser session that holds refreshToken only.
	SignOut(ctx context.Context, refreshToken string) error
	CurrentUserAttributes(ctx context.Context, accessToken string) (Attributes, error)
}
