package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"useraccounts/internal/audit"
	"useraccounts/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byID       map[string]domain.User
	byEmail    map[string]domain.User
	byNickname map[string]domain.User

	// injected errors (if set, method returns error)
	getByIDErr        error
	getByEmailErr     error
	createErr         error
	recordSuccessErr  error
	recordFailureErr  error
	setVerifiedErr    error
	lockErr           error
	unlockErr         error
	updateProfileErr  error
	setProfessionalEr error

	// record calls
	lockedIDs     []string
	unlockedIDs   []string
	successIDs    []string
	failureIDs    []string
	verifiedRoles map[string]domain.Role
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:          map[string]domain.User{},
		byEmail:       map[string]domain.User{},
		byNickname:    map[string]domain.User{},
		verifiedRoles: map[string]domain.Role{},
	}
}

func (f *fakeUserRepo) put(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	f.byNickname[u.Nickname] = u
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByNickname(_ context.Context, nickname string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byNickname[nickname]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, taken := f.byEmail[u.Email]; taken {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	if _, taken := f.byNickname[u.Nickname]; taken {
		return domain.User{}, domain.ErrNicknameAlreadyExists()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	f.byNickname[u.Nickname] = u
	return u, nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserRepo) ExistsByNickname(_ context.Context, nickname string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byNickname[nickname]
	return ok, nil
}

func (f *fakeUserRepo) RecordLoginSuccess(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordSuccessErr != nil {
		return f.recordSuccessErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	now := time.Now().UTC()
	u.FailedLoginAttempts = 0
	u.LastLoginAt = &now
	f.store(u)
	f.successIDs = append(f.successIDs, userID)
	return nil
}

func (f *fakeUserRepo) RecordLoginFailure(_ context.Context, userID string, threshold int) (bool, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordFailureErr != nil {
		return false, 0, f.recordFailureErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return false, 0, domain.ErrUserNotFound()
	}
	if u.IsLocked {
		return true, u.FailedLoginAttempts, nil
	}
	u.FailedLoginAttempts++
	u.IsLocked = u.FailedLoginAttempts >= threshold
	f.store(u)
	f.failureIDs = append(f.failureIDs, userID)
	return u.IsLocked, u.FailedLoginAttempts, nil
}

func (f *fakeUserRepo) SetEmailVerified(_ context.Context, userID string, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setVerifiedErr != nil {
		return f.setVerifiedErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.EmailVerified = true
	u.VerificationToken = ""
	u.Role = role
	f.store(u)
	f.verifiedRoles[userID] = role
	return nil
}

func (f *fakeUserRepo) LockUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lockErr != nil {
		return f.lockErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.IsLocked = true
	f.store(u)
	f.lockedIDs = append(f.lockedIDs, userID)
	return nil
}

func (f *fakeUserRepo) UnlockUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unlockErr != nil {
		return f.unlockErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.IsLocked = false
	u.FailedLoginAttempts = 0
	f.store(u)
	f.unlockedIDs = append(f.unlockedIDs, userID)
	return nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateProfileErr != nil {
		return domain.User{}, f.updateProfileErr
	}
	u, ok := f.byID[userID]
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
	f.store(u)
	return u, nil
}

func (f *fakeUserRepo) SetProfessionalStatus(_ context.Context, userID string, professional bool) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setProfessionalEr != nil {
		return domain.User{}, f.setProfessionalEr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	now := time.Now().UTC()
	u.IsProfessional = professional
	u.ProfessionalStatusChangedAt = &now
	f.store(u)
	return u, nil
}

// store updates every index; caller holds the mutex.
func (f *fakeUserRepo) store(u domain.User) {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	f.byNickname[u.Nickname] = u
}

type fakeHasher struct {
	hashFn   func(pw string) (string, error)
	verifyFn func(hash, pw string) bool
}

func (f *fakeHasher) Hash(pw string) (string, error) {
	if f.hashFn != nil {
		return f.hashFn(pw)
	}
	return "hash:" + pw, nil
}

func (f *fakeHasher) Verify(hash, pw string) bool {
	if f.verifyFn != nil {
		return f.verifyFn(hash, pw)
	}
	return hash == "hash:"+pw
}

type fakePolicy struct {
	validateFn func(pw string) error
}

func (f *fakePolicy) Validate(pw string) error {
	if f.validateFn != nil {
		return f.validateFn(pw)
	}
	if pw == "" {
		return domain.ErrMissingField("password")
	}
	return nil
}

type fakeSigner struct {
	signErr error
	n       int
}

func (f *fakeSigner) SignAccessToken(userID, role string, _ time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	f.n++
	return fmt.Sprintf("jwt-%s-%s-%d", userID, role, f.n), nil
}

func (f *fakeSigner) VerifyAccessToken(string) (TokenClaims, error) {
	return TokenClaims{}, domain.ErrTokenInvalid()
}

type fakePublisher struct {
	mu     sync.Mutex
	events []VerifyEmailEvent
	err    error
}

func (f *fakePublisher) PublishVerifyEmail(_ context.Context, evt VerifyEmailEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, evt)
	return nil
}

func newSvcForTest(t *testing.T) (*Service, *fakeUserRepo, *fakeHasher, *fakeSigner, *fakePublisher) {
	t.Helper()

	users := newFakeUserRepo()
	hasher := &fakeHasher{}
	signer := &fakeSigner{}
	pub := &fakePublisher{}

	svc := NewService(users, hasher, &fakePolicy{}, signer, pub, audit.Nop(), Config{
		AccessTTL:          15 * time.Minute,
		MaxLoginAttempts:   3,
		VerifyEmailBaseURL: "https://fe/verify?token=",
	})
	if svc == nil {
		t.Fatalf("svc is nil")
	}

	return svc, users, hasher, signer, pub
}

// seedUser inserts a user with a fakeHasher-compatible password hash.
func seedUser(users *fakeUserRepo, id, email, nickname, password string) domain.User {
	u := domain.User{
		ID:           id,
		Email:        email,
		Nickname:     nickname,
		Role:         domain.RoleAuthenticated,
		PasswordHash: "hash:" + password,
	}
	users.put(u)
	return u
}
