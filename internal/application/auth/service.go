package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"useraccounts/internal/audit"
	"useraccounts/internal/domain"
)

const defaultMaxLoginAttempts = 5

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	policy PasswordPolicy
	signer TokenSigner
	pub    EventPublisher
	audit  *audit.Logger

	accessTTL        time.Duration
	maxLoginAttempts int

	// URL the verification token is appended to when building the email link
	verifyEmailBaseURL string
	publishTimeout     time.Duration
}

type Config struct {
	AccessTTL          time.Duration
	MaxLoginAttempts   int
	VerifyEmailBaseURL string
	PublishTimeout     time.Duration
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	policy PasswordPolicy,
	signer TokenSigner,
	pub EventPublisher,
	auditLog *audit.Logger,
	cfg Config,
) *Service {
	maxAttempts := cfg.MaxLoginAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxLoginAttempts
	}
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	publishTimeout := cfg.PublishTimeout
	if publishTimeout <= 0 {
		publishTimeout = 5 * time.Second
	}
	return &Service{
		users:  users,
		hasher: hasher,
		policy: policy,
		signer: signer,
		pub:    pub,
		audit:  auditLog,

		accessTTL:        accessTTL,
		maxLoginAttempts: maxAttempts,

		verifyEmailBaseURL: cfg.VerifyEmailBaseURL,
		publishTimeout:     publishTimeout,
	}
}

// AuthTokens is the token output for handlers/DTO mapping. TokenType is
// always "bearer".
type AuthTokens struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64 // seconds
}

type RegisterResult struct {
	User domain.User
}

type LoginResult struct {
	User   domain.User
	Tokens AuthTokens
}

func (s *Service) issueToken(userID, role string) (AuthTokens, error) {
	access, err := s.signer.SignAccessToken(userID, role, s.accessTTL)
	if err != nil {
		return AuthTokens{}, err
	}
	return AuthTokens{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}

// newOpaqueToken returns a URL-safe opaque token.
func newOpaqueToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "non_domain_error"
}
