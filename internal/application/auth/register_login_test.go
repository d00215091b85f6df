package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"useraccounts/internal/domain"
)

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:    "ada@example.com",
		Nickname: "ada_lovelace",
		Password: "correct horse battery staple",
	}
}

func TestRegister_Success_PersistsUnverifiedAnonymousUser(t *testing.T) {
	t.Parallel()

	svc, users, _, _, pub := newSvcForTest(t)

	res, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if res.User.ID == "" {
		t.Fatalf("expected user ID set")
	}
	if res.User.Role != domain.RoleAnonymous {
		t.Fatalf("expected role anonymous, got %q", res.User.Role)
	}
	if res.User.EmailVerified {
		t.Fatalf("expected unverified account")
	}
	if res.User.VerificationToken == "" {
		t.Fatalf("expected verification token stored")
	}
	if res.User.PasswordHash == "" || res.User.PasswordHash == "correct horse battery staple" {
		t.Fatalf("expected hashed password, got %q", res.User.PasswordHash)
	}
	if _, ok := users.byID[res.User.ID]; !ok {
		t.Fatalf("expected user stored by id")
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected one verification event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.UserID != res.User.ID || evt.Email != "ada@example.com" {
		t.Fatalf("unexpected event %+v", evt)
	}
	want := "https://fe/verify?token=" + res.User.VerificationToken
	if evt.URL != want {
		t.Fatalf("expected URL %q, got %q", want, evt.URL)
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)

	in := validRegisterInput()
	in.Email = "  Ada@Example.COM "
	res, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if res.User.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", res.User.Email)
	}
	if _, ok := users.byEmail["ada@example.com"]; !ok {
		t.Fatalf("expected lookup by normalized email")
	}
}

func TestRegister_InvalidFields(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
		code   string
	}{
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "invalid_field"},
		{"missing email", func(in *RegisterInput) { in.Email = "" }, "missing_field"},
		{"short nickname", func(in *RegisterInput) { in.Nickname = "ab" }, "invalid_field"},
		{"nickname with space", func(in *RegisterInput) { in.Nickname = "ada lovelace" }, "invalid_field"},
		{"nickname with symbol", func(in *RegisterInput) { in.Nickname = "ada!" }, "invalid_field"},
		{"ftp profile url", func(in *RegisterInput) { in.GitHubURL = "ftp://example.com/x" }, "invalid_field"},
		{"schemeless url", func(in *RegisterInput) { in.LinkedInURL = "example.com/in/ada" }, "invalid_field"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, _, _, _, _ := newSvcForTest(t)
			in := validRegisterInput()
			tc.mutate(&in)
			_, err := svc.Register(context.Background(), in)
			requireErrCode(t, err, tc.code)
		})
	}
}

func TestRegister_OverlongProfileFields_Rejected(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"first name over 100", func(in *RegisterInput) { in.FirstName = strings.Repeat("a", 101) }},
		{"last name over 100", func(in *RegisterInput) { in.LastName = strings.Repeat("a", 101) }},
		{"bio over 500", func(in *RegisterInput) { in.Bio = strings.Repeat("a", 501) }},
		{"url over 255", func(in *RegisterInput) { in.GitHubURL = "https://example.com/" + strings.Repeat("a", 250) }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, users, _, _, _ := newSvcForTest(t)
			in := validRegisterInput()
			tc.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			requireErrCode(t, err, "invalid_field")
			if len(users.byID) != 0 {
				t.Fatalf("expected nothing persisted, got %d users", len(users.byID))
			}
		})
	}
}

func TestRegister_BoundedProfileFields_Accepted(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newSvcForTest(t)
	in := validRegisterInput()
	in.FirstName = strings.Repeat("a", 100)
	in.LastName = strings.Repeat("b", 100)
	in.Bio = strings.Repeat("c", 500)

	res, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if len(res.User.Bio) != 500 {
		t.Fatalf("expected bio kept at its bound, got len %d", len(res.User.Bio))
	}
}

func TestRegister_DuplicateEmail_Conflict(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "ada@example.com", "other_nick", "pw")

	_, err := svc.Register(context.Background(), validRegisterInput())
	requireErrCode(t, err, "email_already_exists")
}

func TestRegister_DuplicateNickname_Conflict(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "other@example.com", "ada_lovelace", "pw")

	_, err := svc.Register(context.Background(), validRegisterInput())
	requireErrCode(t, err, "nickname_already_exists")
}

func TestRegister_PublishFailure_DoesNotFailRegistration(t *testing.T) {
	t.Parallel()

	svc, users, _, _, pub := newSvcForTest(t)
	pub.err = errors.New("broker down")

	res, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if _, ok := users.byID[res.User.ID]; !ok {
		t.Fatalf("expected user persisted despite publish failure")
	}
}

func TestRegister_HashFailure_Propagates(t *testing.T) {
	t.Parallel()

	svc, _, hasher, _, _ := newSvcForTest(t)
	hasher.hashFn = func(string) (string, error) { return "", domain.ErrHashFailed(errors.New("boom")) }

	_, err := svc.Register(context.Background(), validRegisterInput())
	requireErrCode(t, err, "hash_failed")
}

func TestLogin_Success_IssuesBearerToken(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "ada@example.com", "ada", "pw")

	res, err := svc.Login(context.Background(), "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if res.Tokens.AccessToken == "" {
		t.Fatalf("expected access token")
	}
	if res.Tokens.TokenType != "bearer" {
		t.Fatalf("expected token_type bearer, got %q", res.Tokens.TokenType)
	}
	if res.Tokens.ExpiresIn <= 0 {
		t.Fatalf("expected positive expires_in")
	}
	if len(users.successIDs) != 1 || users.successIDs[0] != "u1" {
		t.Fatalf("expected success recorded for u1, got %v", users.successIDs)
	}
}

func TestLogin_UnknownEmail_SameErrorAsWrongPassword(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "ada@example.com", "ada", "pw")

	_, errUnknown := svc.Login(context.Background(), "nobody@example.com", "pw")
	_, errWrongPw := svc.Login(context.Background(), "ada@example.com", "nope")

	requireErrCode(t, errUnknown, "invalid_credentials")
	requireErrCode(t, errWrongPw, "invalid_credentials")
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatalf("messages differ: %q vs %q", errUnknown, errWrongPw)
	}
}

func TestLogin_EmptyFields_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newSvcForTest(t)

	_, err := svc.Login(context.Background(), "", "pw")
	requireErrCode(t, err, "invalid_credentials")

	_, err = svc.Login(context.Background(), "ada@example.com", "")
	requireErrCode(t, err, "invalid_credentials")
}

// The attempt that trips the threshold still reports invalid credentials;
// the lock only surfaces on the following attempt.
func TestLogin_LockoutSequence_DeferredVisibility(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "ada@example.com", "ada", "pw")

	// threshold is 3 in newSvcForTest
	for i := 1; i <= 3; i++ {
		_, err := svc.Login(context.Background(), "ada@example.com", "wrong")
		requireErrCode(t, err, "invalid_credentials")
	}

	if !users.byID["u1"].IsLocked {
		t.Fatalf("expected account locked after 3 failures")
	}

	// Fourth attempt hits LOCK_CHECK, even with the correct password.
	_, err := svc.Login(context.Background(), "ada@example.com", "pw")
	requireErrCode(t, err, "account_locked")
}

func TestLogin_SuccessResetsFailureCounter(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "ada@example.com", "ada", "pw")

	_, _ = svc.Login(context.Background(), "ada@example.com", "wrong")
	_, _ = svc.Login(context.Background(), "ada@example.com", "wrong")
	if got := users.byID["u1"].FailedLoginAttempts; got != 2 {
		t.Fatalf("expected 2 failures, got %d", got)
	}

	res, err := svc.Login(context.Background(), "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if res.User.FailedLoginAttempts != 0 {
		t.Fatalf("expected counter reset in result, got %d", res.User.FailedLoginAttempts)
	}
	if got := users.byID["u1"].FailedLoginAttempts; got != 0 {
		t.Fatalf("expected counter reset in store, got %d", got)
	}

	// Fresh allowance: three more failures are needed to lock again.
	_, _ = svc.Login(context.Background(), "ada@example.com", "wrong")
	if users.byID["u1"].IsLocked {
		t.Fatalf("expected account not locked after a single new failure")
	}
}

func TestLogin_RecordFailureError_Propagates(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "ada@example.com", "ada", "pw")
	users.recordFailureErr = domain.ErrDBUnavailable(errors.New("down"))

	_, err := svc.Login(context.Background(), "ada@example.com", "wrong")
	requireErrCode(t, err, "db_unavailable")
}

func TestLogin_RecordSuccessError_NoToken(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "ada@example.com", "ada", "pw")
	users.recordSuccessErr = domain.ErrDBUnavailable(errors.New("down"))

	_, err := svc.Login(context.Background(), "ada@example.com", "pw")
	requireErrCode(t, err, "db_unavailable")
}
