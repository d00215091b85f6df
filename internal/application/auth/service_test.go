package auth

import (
	"errors"
	"testing"

	"useraccounts/internal/domain"
)

func TestDomainCode(t *testing.T) {
	t.Parallel()

	if got := domainCode(nil); got != "" {
		t.Fatalf("expected empty code for nil, got %q", got)
	}
	if got := domainCode(domain.ErrUserNotFound()); got != "user_not_found" {
		t.Fatalf("expected user_not_found, got %q", got)
	}
	if got := domainCode(domain.ErrDBUnavailable(errors.New("down"))); got != "db_unavailable" {
		t.Fatalf("expected db_unavailable, got %q", got)
	}
	if got := domainCode(errors.New("plain")); got != "non_domain_error" {
		t.Fatalf("expected non_domain_error, got %q", got)
	}
}
