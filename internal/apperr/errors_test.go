package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("Search query is required")

	if err.Error() != "Search query is required" {
		t.Errorf("expected 'Search query is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("strconv.Atoi: parsing \"x\"")
	err := apperr.NewValidationWrap("invalid page", inner)

	if err.Error() != "invalid page: strconv.Atoi: parsing \"x\"" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("Search query is required")

	wrapped := fmt.Errorf("failed to search writings: %w", original)
	doubleWrapped := fmt.Errorf("aggregator: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "Search query is required" {
		t.Errorf("expected 'Search query is required', got %q", ve.Message)
	}
}

func TestValidationError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("database connection failed")
	wrapped := fmt.Errorf("storage error: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("failed to resolve article: %w", apperr.NewNotFound("article", "hello-world"))

	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatal("errors.As should find NotFoundError")
	}
	if nf.Resource != "article" || nf.Key != "hello-world" {
		t.Errorf("unexpected fields %+v", nf)
	}
	if nf.Error() != `article "hello-world" not found` {
		t.Errorf("unexpected message %q", nf.Error())
	}
}

func TestUpstreamError(t *testing.T) {
	inner := errors.New("connection refused")
	err := fmt.Errorf("failed to list repositories: %w", apperr.NewUpstream("github", inner))

	var ue *apperr.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatal("errors.As should find UpstreamError")
	}
	if ue.Source != "github" {
		t.Errorf("expected source github, got %q", ue.Source)
	}
	if !errors.Is(err, inner) {
		t.Error("expected inner error in chain")
	}
}
