package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound(t *testing.T) {
	err := NotFound("post", "abc123")

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFound() should wrap ErrNotFound")
	}
	if err.Message != "post not found with id abc123" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNotFoundMsg(t *testing.T) {
	err := NotFoundMsg("no pending connection request found")

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundMsg() should wrap ErrNotFound")
	}
	if err.Message != "no pending connection request found" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestValidationFailed(t *testing.T) {
	err := ValidationFailed("content", "post content is required")

	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationFailed() should wrap ErrValidation")
	}
	if err.Field != "content" {
		t.Errorf("Field = %q, want %q", err.Field, "content")
	}
}

func TestConflict(t *testing.T) {
	err := Conflict("connection already exists")

	if !errors.Is(err, ErrConflict) {
		t.Error("Conflict() should wrap ErrConflict")
	}
}

func TestUnauthorized(t *testing.T) {
	err := Unauthorized("invalid credentials")

	if !errors.Is(err, ErrUnauthorized) {
		t.Error("Unauthorized() should wrap ErrUnauthorized")
	}
	if errors.Is(err, ErrForbidden) {
		t.Error("Unauthorized() must not match ErrForbidden")
	}
}

// TestWrappedChain verifies errors.Is still matches after the service layer
// wraps an AppError with fmt.Errorf("%w").
func TestWrappedChain(t *testing.T) {
	inner := NotFound("user", "u1")
	outer := fmt.Errorf("fetching profile: %w", inner)

	if !errors.Is(outer, ErrNotFound) {
		t.Error("errors.Is should unwrap through fmt.Errorf")
	}

	var appErr *AppError
	if !errors.As(outer, &appErr) {
		t.Fatal("errors.As should extract the *AppError")
	}
	if appErr.Message != inner.Message {
		t.Errorf("Message = %q, want %q", appErr.Message, inner.Message)
	}
}
