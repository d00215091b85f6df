package auth

import (
	"context"
	"strings"

	"useraccounts/internal/domain"
	"useraccounts/internal/validation"
)

// GetUserByID loads a single account. Administrative lookups surface a real
// 404; only the login path hides existence.
func (s *Service) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.User{}, domain.ErrMissingField("user_id")
	}
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile patches the optional profile fields of the caller's own
// account. Nickname and email are immutable and not part of ProfileUpdate.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.User{}, domain.ErrMissingField("user_id")
	}

	if err := validation.Profile(upd); err != nil {
		return domain.User{}, err
	}

	u, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return domain.User{}, err
	}

	s.audit.ProfileUpdated(ctx, userID)
	return u, nil
}

// SetProfessionalStatus flips the is_professional flag and stamps the change
// time. Manager and above only.
func (s *Service) SetProfessionalStatus(ctx context.Context, actorID, actorRole, targetID string, professional bool) (domain.User, error) {
	target, err := s.moderationTarget(ctx, actorID, actorRole, targetID)
	if err != nil {
		return domain.User{}, err
	}

	u, err := s.users.SetProfessionalStatus(ctx, target.ID, professional)
	if err != nil {
		return domain.User{}, err
	}

	s.audit.ProfessionalStatusChanged(ctx, actorID, target.ID, professional)
	return u, nil
}
