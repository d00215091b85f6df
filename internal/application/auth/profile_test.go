package auth

import (
	"context"
	"strings"
	"testing"

	"useraccounts/internal/domain"
)

func strp(s string) *string { return &s }

func TestUpdateProfile_PatchesOnlyProvidedFields(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	u := seedUser(users, "u1", "ada@example.com", "ada", "pw")
	u.FirstName = "Ada"
	u.Bio = "mathematician"
	users.put(u)

	got, err := svc.UpdateProfile(context.Background(), "u1", domain.ProfileUpdate{
		LastName: strp("Lovelace"),
		Bio:      strp(""),
	})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if got.FirstName != "Ada" {
		t.Fatalf("expected first name untouched, got %q", got.FirstName)
	}
	if got.LastName != "Lovelace" {
		t.Fatalf("expected last name set, got %q", got.LastName)
	}
	if got.Bio != "" {
		t.Fatalf("expected bio cleared, got %q", got.Bio)
	}
}

func TestUpdateProfile_RejectsBadURL(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "ada@example.com", "ada", "pw")

	_, err := svc.UpdateProfile(context.Background(), "u1", domain.ProfileUpdate{
		GitHubURL: strp("javascript:alert(1)"),
	})
	requireErrCode(t, err, "invalid_field")
}

func TestUpdateProfile_RejectsOverlongBio(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "ada@example.com", "ada", "pw")

	_, err := svc.UpdateProfile(context.Background(), "u1", domain.ProfileUpdate{
		Bio: strp(strings.Repeat("x", 501)),
	})
	requireErrCode(t, err, "invalid_field")
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newSvcForTest(t)

	_, err := svc.UpdateProfile(context.Background(), "missing", domain.ProfileUpdate{
		FirstName: strp("Ada"),
	})
	requireErrCode(t, err, "user_not_found")
}

func TestGetUserByID(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "ada@example.com", "ada", "pw")

	u, err := svc.GetUserByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if u.Email != "ada@example.com" {
		t.Fatalf("unexpected user %+v", u)
	}

	_, err = svc.GetUserByID(context.Background(), "missing")
	requireErrCode(t, err, "user_not_found")

	_, err = svc.GetUserByID(context.Background(), " ")
	requireErrCode(t, err, "missing_field")
}
