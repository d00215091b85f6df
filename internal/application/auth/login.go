package auth

import (
	"context"

	"useraccounts/internal/domain"
	"useraccounts/internal/validation"
)

// Login authenticates an account and issues a bearer token.
//
// The flow is LOOKUP -> LOCK_CHECK -> VERIFY. Unknown email and wrong
// password produce the same error so callers cannot enumerate accounts.
// A failed VERIFY that trips the lock threshold still returns invalid
// credentials: the lock only becomes visible on the next attempt, which
// hits LOCK_CHECK first. That ordering is deliberate and covered by tests.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = validation.NormalizeEmail(email)

	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Hide not-found behind invalid credentials; the audit trail keeps
		// the real cause (user_not_found vs a store outage).
		s.audit.LoginFailed(ctx, email, domainCode(err))
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	if u.IsLocked {
		s.audit.LoginRejectedLocked(ctx, u.ID, email)
		return LoginResult{}, domain.ErrAccountLocked()
	}

	if !s.hasher.Verify(u.PasswordHash, password) {
		locked, attempts, ferr := s.users.RecordLoginFailure(ctx, u.ID, s.maxLoginAttempts)
		if ferr != nil {
			return LoginResult{}, ferr
		}
		s.audit.LoginFailed(ctx, email, "wrong_password")
		if locked {
			s.audit.AccountLocked(ctx, u.ID, attempts)
		}
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	// Persist the outcome before handing out a token.
	if err := s.users.RecordLoginSuccess(ctx, u.ID); err != nil {
		return LoginResult{}, err
	}
	u.FailedLoginAttempts = 0

	toks, err := s.issueToken(u.ID, string(u.Role))
	if err != nil {
		return LoginResult{}, err
	}

	s.audit.LoginSuccess(ctx, u.ID, email)
	return LoginResult{User: u, Tokens: toks}, nil
}
