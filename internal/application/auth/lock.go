package auth

import (
	"context"
	"fmt"
	"strings"

	"useraccounts/internal/domain"
)

// LockUser locks a target account so LOCK_CHECK rejects every subsequent
// login. Hard rules enforced here (not in handlers):
// - Nobody can lock themselves
// - Manager cannot lock admin
// - Requires at least manager
func (s *Service) LockUser(ctx context.Context, actorID, actorRole, targetID string) error {
	target, err := s.moderationTarget(ctx, actorID, actorRole, targetID)
	if err != nil {
		return err
	}

	if err := s.users.LockUser(ctx, target.ID); err != nil {
		return err
	}

	s.audit.AccountLockedByAdmin(ctx, actorID, target.ID)
	return nil
}

// UnlockUser clears the lock and the failure counter. Same rules as LockUser.
func (s *Service) UnlockUser(ctx context.Context, actorID, actorRole, targetID string) error {
	target, err := s.moderationTarget(ctx, actorID, actorRole, targetID)
	if err != nil {
		return err
	}

	if err := s.users.UnlockUser(ctx, target.ID); err != nil {
		return err
	}

	s.audit.AccountUnlocked(ctx, actorID, target.ID)
	return nil
}

// moderationTarget applies the shared RBAC rules for lock/unlock/professional
// operations and loads the target row.
func (s *Service) moderationTarget(ctx context.Context, actorID, actorRole, targetID string) (domain.User, error) {
	actorID = strings.TrimSpace(actorID)
	actorRole = strings.TrimSpace(actorRole)
	targetID = strings.TrimSpace(targetID)

	if targetID == "" {
		return domain.User{}, domain.ErrMissingField("user_id")
	}

	if !domain.IsValidRole(actorRole) {
		return domain.User{}, domain.ErrForbidden()
	}
	if domain.RoleRank(actorRole) < domain.RoleRank(string(domain.RoleManager)) {
		return domain.User{}, domain.ErrInsufficientRole(string(domain.RoleManager))
	}

	if actorID != "" && actorID == targetID {
		return domain.User{}, domain.ErrCannotModerateSelf()
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return domain.User{}, err
	}

	if !domain.IsValidRole(string(target.Role)) {
		return domain.User{}, domain.ErrInternal(
			fmt.Errorf("invalid stored role for user %s: %q", targetID, target.Role))
	}

	if actorRole == string(domain.RoleManager) && target.Role == domain.RoleAdmin {
		return domain.User{}, domain.ErrCannotModerateAdmin()
	}

	return target, nil
}
