package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"courtlink/internal/adapters/identity"
	"courtlink/internal/domain/profile"
)

// IdentityForRegister defines the identity operation needed by Register.
type IdentityForRegister interface {
	SignUp(ctx context.Context, in identity.SignUpInput) (identity.SignUpResult, error)
}

// ProfileWriter upserts a customer profile in the backend.
type ProfileWriter interface {
	UpsertCustomer(ctx context.Context, p profile.Profile) error
}

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Name            string `form:"name" validate:"required,min=2"`
	Email           string `form:"email" validate:"required,email"`
	UFID            string `form:"ufid" validate:"required,ufid"`
	Password        string `form:"password" validate:"required,min=8"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// RegisterResult reports the next step after sign-up.
type RegisterResult struct {
	Email        string
	NeedsConfirm bool
}

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	Identity IdentityForRegister
	Profiles ProfileWriter
}

// ExecuteRegister creates the identity account and seeds the backend profile
// so the completion prompt does not appear after the first sign-in.
// PRE: Form fields satisfy the sign-up rules
// POST: The identity account exists; the backend profile is written when the backend accepts it
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) (RegisterResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(input); err != nil {
		return RegisterResult{}, err
	}

	res, err := deps.Identity.SignUp(ctx, identity.SignUpInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	})
	if err != nil {
		slog.Info("auth_event", "event", "register_failed", "email", input.Email, "error", err)
		return RegisterResult{}, err
	}

	// A missing profile only means the completion prompt shows later.
	if err := deps.Profiles.UpsertCustomer(ctx, profile.Profile{
		Email:        input.Email,
		Name:         input.Name,
		UniversityID: input.UFID,
	}); err != nil {
		slog.Warn("profile_event", "event", "register_profile_failed", "email", input.Email, "error", err)
	}

	slog.Info("auth_event", "event", "register_success", "email", input.Email, "needs_confirm", res.NeedsConfirm)
	return RegisterResult{Email: input.Email, NeedsConfirm: res.NeedsConfirm}, nil
}
