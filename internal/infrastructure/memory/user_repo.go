// Package memory provides in-memory adapters for local development and tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"useraccounts/internal/domain"
)

// UserRepo is a mutex-guarded map store with the same conflict and lockout
// semantics as the postgres adapter. Useful for handler tests and for
// running the service without a database.
type UserRepo struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	emailIx map[string]string // normalized email -> id
	nickIx  map[string]string // nickname -> id
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]domain.User),
		emailIx: make(map[string]string),
		nickIx:  make(map[string]string),
	}
}

func normEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	email = normEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.emailIx[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) GetByNickname(_ context.Context, nickname string) (domain.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return domain.User{}, domain.ErrMissingField("nickname")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.nickIx[nickname]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	u.Email = normEmail(u.Email)
	u.Nickname = strings.TrimSpace(u.Nickname)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.Nickname == "" {
		return domain.User{}, domain.ErrMissingField("nickname")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}
	if u.Role == "" {
		u.Role = domain.RoleAnonymous
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.emailIx[u.Email]; taken {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	if _, taken := r.nickIx[u.Nickname]; taken {
		return domain.User{}, domain.ErrNicknameAlreadyExists()
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.byID[u.ID] = u
	r.emailIx[u.Email] = u.ID
	r.nickIx[u.Nickname] = u.ID
	return u, nil
}

func (r *UserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	email = normEmail(email)
	if email == "" {
		return false, domain.ErrMissingField("email")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.emailIx[email]
	return ok, nil
}

func (r *UserRepo) ExistsByNickname(_ context.Context, nickname string) (bool, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return false, domain.ErrMissingField("nickname")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.nickIx[nickname]
	return ok, nil
}

func (r *UserRepo) RecordLoginSuccess(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	now := time.Now().UTC()
	u.FailedLoginAttempts = 0
	u.LastLoginAt = &now
	u.UpdatedAt = now
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) RecordLoginFailure(_ context.Context, userID string, threshold int) (bool, int, error) {
	if threshold <= 0 {
		return false, 0, domain.ErrInternal(errInvalidThreshold)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return false, 0, domain.ErrUserNotFound()
	}
	if u.IsLocked {
		// counter freezes once locked, same as the postgres guard
		return true, u.FailedLoginAttempts, nil
	}
	u.FailedLoginAttempts++
	u.IsLocked = u.FailedLoginAttempts >= threshold
	u.UpdatedAt = time.Now().UTC()
	r.byID[userID] = u
	return u.IsLocked, u.FailedLoginAttempts, nil
}

func (r *UserRepo) SetEmailVerified(_ context.Context, userID string, role domain.Role) error {
	if !domain.IsValidRole(string(role)) {
		return domain.ErrInvalidRole(string(role))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.EmailVerified = true
	u.VerificationToken = ""
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) LockUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.IsLocked = true
	u.UpdatedAt = time.Now().UTC()
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) UnlockUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.IsLocked = false
	u.FailedLoginAttempts = 0
	u.UpdatedAt = time.Now().UTC()
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) UpdateProfile(_ context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.ProfilePictureURL != nil {
		u.ProfilePictureURL = *upd.ProfilePictureURL
	}
	if upd.LinkedInURL != nil {
		u.LinkedInURL = *upd.LinkedInURL
	}
	if upd.GitHubURL != nil {
		u.GitHubURL = *upd.GitHubURL
	}
	u.UpdatedAt = time.Now().UTC()
	r.byID[userID] = u
	return u, nil
}

func (r *UserRepo) SetProfessionalStatus(_ context.Context, userID string, professional bool) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	now := time.Now().UTC()
	u.IsProfessional = professional
	u.ProfessionalStatusChangedAt = &now
	u.UpdatedAt = now
	r.byID[userID] = u
	return u, nil
}
