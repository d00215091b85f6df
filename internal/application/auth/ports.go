package auth

import (
	"context"
	"time"

	"useraccounts/internal/domain"
)

/*
UserRepo
--------
Persistence port for accounts. Only describes WHAT the flows need, not HOW
it is stored. Every mutating operation is row-atomic: the postgres
implementation uses single UPDATE statements, the memory implementation a
mutex, so concurrent logins against the same account cannot lose counter
updates.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByNickname(ctx context.Context, nickname string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)

	// RecordLoginSuccess resets failed_login_attempts to 0 and stamps
	// last_login_at in one statement.
	RecordLoginSuccess(ctx context.Context, userID string) error
	// RecordLoginFailure increments failed_login_attempts and sets is_locked
	// when the post-increment count reaches threshold, in one statement.
	// It reports the resulting lock state and counter value. Rows that are
	// already locked are left untouched.
	RecordLoginFailure(ctx context.Context, userID string, threshold int) (locked bool, attempts int, err error)

	// SetEmailVerified marks the account verified, clears the verification
	// token and applies the post-verification role, atomically.
	SetEmailVerified(ctx context.Context, userID string, role domain.Role) error

	LockUser(ctx context.Context, userID string) error
	// UnlockUser clears is_locked and resets the failure counter so the
	// account gets a fresh allowance.
	UnlockUser(ctx context.Context, userID string) error

	UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error)
	SetProfessionalStatus(ctx context.Context, userID string, professional bool) (domain.User, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt. Verify never errors: malformed hashes count as mismatch.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

// PasswordPolicy gates registration on password strength.
type PasswordPolicy interface {
	Validate(password string) error
}

/*
TokenSigner
-----------
Issues and verifies bearer access tokens (JWT).
Used by the service + auth middleware.
*/
type TokenClaims struct {
	UserID string
	Role   string
	Exp    time.Time
}

type TokenSigner interface {
	SignAccessToken(userID string, role string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}

/*
EventPublisher
--------------
Publishes the verification-email event to the broker. The email service
consumes it and sends the mail; this service never talks SMTP.
*/
type EventPublisher interface {
	PublishVerifyEmail(ctx context.Context, evt VerifyEmailEvent) error
}

type VerifyEmailEvent struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	URL      string `json:"url"`
}
