package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"useraccounts/internal/domain"
)

// VerifyEmail proves control of the registered address: the supplied token
// must match the one stored at registration. Verification is idempotent and
// upgrades a fresh account from anonymous to authenticated.
func (s *Service) VerifyEmail(ctx context.Context, userID, token string) error {
	userID = strings.TrimSpace(userID)
	token = strings.TrimSpace(token)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if token == "" {
		return domain.ErrMissingField("token")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if u.EmailVerified {
		// Token already consumed; repeating the click is fine.
		return nil
	}

	if u.VerificationToken == "" ||
		subtle.ConstantTimeCompare([]byte(u.VerificationToken), []byte(token)) != 1 {
		return domain.ErrVerificationTokenInvalid()
	}

	role := u.Role
	if role == domain.RoleAnonymous {
		role = domain.RoleAuthenticated
	}

	if err := s.users.SetEmailVerified(ctx, u.ID, role); err != nil {
		return err
	}

	s.audit.EmailVerified(ctx, u.ID, u.Email)
	return nil
}
