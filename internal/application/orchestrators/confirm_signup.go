package orchestrators

import (
	"context"
	"log/slog"
	"strings"
)

// IdentityForConfirm defines the identity operation needed by ConfirmSignUp.
type IdentityForConfirm interface {
	ConfirmSignUp(ctx context.Context, email, code string) error
}

// ConfirmSignUpInput carries the emailed confirmation code.
type ConfirmSignUpInput struct {
	Email string `form:"email" validate:"required,email"`
	Code  string `form:"code" validate:"required,min=6"`
}

// ConfirmSignUpDeps holds dependencies for ConfirmSignUp.
type ConfirmSignUpDeps struct {
	Identity IdentityForConfirm
}

// ExecuteConfirmSignUp confirms a new account with the emailed code.
// PRE: The account was registered and is unconfirmed
// POST: The account can sign in
func ExecuteConfirmSignUp(ctx context.Context, input ConfirmSignUpInput, deps ConfirmSignUpDeps) error {
	input.Email = strings.TrimSpace(input.Email)
	input.Code = strings.TrimSpace(input.Code)
	if err := validateInput(input); err != nil {
		return err
	}
	if err := deps.Identity.ConfirmSignUp(ctx, input.Email, input.Code); err != nil {
		slog.Info("auth_event", "event", "confirm_failed", "email", input.Email, "error", err)
		return err
	}
	slog.Info("auth_event", "event", "confirm_success", "email", input.Email)
	return nil
}
