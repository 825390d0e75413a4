package orchestrators

import (
	"context"
	"errors"
	"testing"

	"courtlink/internal/adapters/identity"
)

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Name:            " Alberta Gator ",
		Email:           "alberta@ufl.edu",
		UFID:            "12345678",
		Password:        "longenough",
		ConfirmPassword: "longenough",
	}
}

// TestExecuteRegister_Success verifies sign-up then profile upsert.
func TestExecuteRegister_Success(t *testing.T) {
	id := &mockIdentity{}
	be := &mockBackend{}

	res, err := ExecuteRegister(context.Background(), validRegisterInput(), RegisterDeps{Identity: id, Profiles: be})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.NeedsConfirm || res.Email != "alberta@ufl.edu" {
		t.Errorf("result = %+v", res)
	}
	if len(id.signUpInputs) != 1 || id.signUpInputs[0].Name != "Alberta Gator" {
		t.Errorf("sign-up inputs = %+v", id.signUpInputs)
	}
	if len(be.upserted) != 1 || be.upserted[0].UniversityID != "12345678" {
		t.Errorf("upserted = %+v", be.upserted)
	}
}

// TestExecuteRegister_ProfileFailureIsNotFatal verifies a backend failure still completes sign-up.
func TestExecuteRegister_ProfileFailureIsNotFatal(t *testing.T) {
	be := &mockBackend{upsertErr: errBackendDown}
	if _, err := ExecuteRegister(context.Background(), validRegisterInput(), RegisterDeps{Identity: &mockIdentity{}, Profiles: be}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecuteRegister_SignUpFailure verifies no profile is written when sign-up fails.
func TestExecuteRegister_SignUpFailure(t *testing.T) {
	be := &mockBackend{}
	_, err := ExecuteRegister(context.Background(), validRegisterInput(), RegisterDeps{Identity: &mockIdentity{signUpErr: identity.ErrUserExists}, Profiles: be})
	if !errors.Is(err, identity.ErrUserExists) {
		t.Fatalf("err = %v", err)
	}
	if len(be.calls) != 0 {
		t.Errorf("backend calls = %v, want none", be.calls)
	}
}

// TestExecuteRegister_Validation covers each field rule.
func TestExecuteRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		field  string
		msg    string
	}{
		{"short name", func(in *RegisterInput) { in.Name = "A" }, "name", "Name must be at least 2 characters"},
		{"bad email", func(in *RegisterInput) { in.Email = "alberta" }, "email", "Enter a valid email address"},
		{"short ufid", func(in *RegisterInput) { in.UFID = "1234" }, "ufid", "UFID must be exactly 8 digits"},
		{"letters in ufid", func(in *RegisterInput) { in.UFID = "1234abcd" }, "ufid", "UFID must be exactly 8 digits"},
		{"short password", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "short", "short" }, "password", "Password must be at least 8 characters"},
		{"mismatch", func(in *RegisterInput) { in.ConfirmPassword = "different1" }, "confirm_password", "Passwords don't match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegisterInput()
			tt.mutate(&in)
			_, err := ExecuteRegister(context.Background(), in, RegisterDeps{Identity: &mockIdentity{}, Profiles: &mockBackend{}})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if verr.Fields[tt.field] != tt.msg {
				t.Errorf("Fields[%s] = %q, want %q (all: %v)", tt.field, verr.Fields[tt.field], tt.msg, verr.Fields)
			}
		})
	}
}

// TestExecuteConfirmSignUp verifies the code is trimmed and forwarded.
func TestExecuteConfirmSignUp(t *testing.T) {
	id := &mockIdentity{}
	err := ExecuteConfirmSignUp(context.Background(), ConfirmSignUpInput{Email: "a@ufl.edu", Code: " 123456 "}, ConfirmSignUpDeps{Identity: id})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(id.confirmed) != 1 || id.confirmed[0] != "a@ufl.edu:123456" {
		t.Errorf("confirmed = %v", id.confirmed)
	}
}

// TestExecuteConfirmSignUp_ShortCode verifies short codes never reach the provider.
func TestExecuteConfirmSignUp_ShortCode(t *testing.T) {
	id := &mockIdentity{}
	err := ExecuteConfirmSignUp(context.Background(), ConfirmSignUpInput{Email: "a@ufl.edu", Code: "123"}, ConfirmSignUpDeps{Identity: id})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["code"] == "" {
		t.Fatalf("err = %v, want code validation error", err)
	}
	if len(id.confirmed) != 0 {
		t.Error("provider should not be called")
	}
}

// TestExecuteConfirmSignUp_InvalidCode verifies provider errors pass through.
func TestExecuteConfirmSignUp_InvalidCode(t *testing.T) {
	id := &mockIdentity{confirmErr: identity.ErrInvalidCode}
	err := ExecuteConfirmSignUp(context.Background(), ConfirmSignUpInput{Email: "a@ufl.edu", Code: "654321"}, ConfirmSignUpDeps{Identity: id})
	if !errors.Is(err, identity.ErrInvalidCode) {
		t.Errorf("err = %v", err)
	}
}
