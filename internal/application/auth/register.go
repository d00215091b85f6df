package auth

import (
	"context"

	"github.com/google/uuid"

	"useraccounts/internal/domain"
	"useraccounts/internal/validation"
)

// RegisterInput carries the validated-at-the-edge registration fields.
// The service revalidates: it is the last line before persistence.
type RegisterInput struct {
	Email    string
	Nickname string
	Password string

	FirstName         string
	LastName          string
	Bio               string
	ProfilePictureURL string
	LinkedInURL       string
	GitHubURL         string
}

// Register creates an unverified account and dispatches the verification
// email event. The event dispatch is awaited but its failure never rolls
// back the created account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	in.Email = validation.NormalizeEmail(in.Email)
	in.Nickname = validation.NormalizeNickname(in.Nickname)

	if err := validation.Email(in.Email); err != nil {
		return RegisterResult{}, err
	}
	if err := validation.Nickname(in.Nickname); err != nil {
		return RegisterResult{}, err
	}
	if err := validation.ProfileValues(
		in.FirstName, in.LastName, in.Bio,
		in.ProfilePictureURL, in.LinkedInURL, in.GitHubURL,
	); err != nil {
		return RegisterResult{}, err
	}
	if err := s.policy.Validate(in.Password); err != nil {
		return RegisterResult{}, err
	}

	// Uniqueness precheck gives precise conflicts; the insert's unique
	// constraints remain the authority under concurrency.
	if taken, err := s.users.ExistsByEmail(ctx, in.Email); err != nil {
		return RegisterResult{}, err
	} else if taken {
		return RegisterResult{}, domain.ErrEmailAlreadyExists()
	}
	if taken, err := s.users.ExistsByNickname(ctx, in.Nickname); err != nil {
		return RegisterResult{}, err
	} else if taken {
		return RegisterResult{}, domain.ErrNicknameAlreadyExists()
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return RegisterResult{}, err
	}

	token, err := newOpaqueToken(32)
	if err != nil {
		return RegisterResult{}, domain.ErrRandomFailed(err)
	}

	u := domain.User{
		ID:       uuid.NewString(),
		Email:    in.Email,
		Nickname: in.Nickname,

		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Bio:               in.Bio,
		ProfilePictureURL: in.ProfilePictureURL,
		LinkedInURL:       in.LinkedInURL,
		GitHubURL:         in.GitHubURL,

		Role:              domain.RoleAnonymous,
		EmailVerified:     false,
		VerificationToken: token,
		PasswordHash:      hash,
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return RegisterResult{}, err
	}

	s.audit.UserRegistered(ctx, created.ID, created.Email)
	s.publishVerificationEmail(ctx, created)

	return RegisterResult{User: created}, nil
}

// publishVerificationEmail dispatches the verification event with a bounded
// deadline. Failures are logged through the audit trail only: registration
// already succeeded.
func (s *Service) publishVerificationEmail(ctx context.Context, u domain.User) {
	if s.pub == nil {
		return
	}

	pctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	evt := VerifyEmailEvent{
		UserID:   u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
		URL:      s.verifyEmailBaseURL + u.VerificationToken,
	}
	if err := s.pub.PublishVerifyEmail(pctx, evt); err != nil {
		s.audit.VerificationDispatchFailed(ctx, u.ID, u.Email, err)
	}
}
