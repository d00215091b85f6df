package dto

import (
	"strings"

	"useraccounts/internal/domain"
)

// -------- Registration / login --------

type RegisterRequest struct {
	Nickname          string `json:"nickname"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	FirstName         string `json:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty"`
	Bio               string `json:"bio,omitempty"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	LinkedInURL       string `json:"linkedin_profile_url,omitempty"`
	GitHubURL         string `json:"github_profile_url,omitempty"`
}

// Validate only gates on presence; format and strength rules live in the
// validation layer and the password policy.
func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.Nickname = strings.TrimSpace(r.Nickname)
	if r.Nickname == "" {
		return domain.ErrMissingField("nickname")
	}
	if r.Email == "" {
		return domain.ErrMissingField("email")
	}
	if r.Password == "" {
		return domain.ErrMissingField("password")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return domain.ErrMissingField("email")
	}
	if r.Password == "" {
		return domain.ErrMissingField("password")
	}
	return nil
}

// -------- Email verification --------

type VerifyEmailRequest struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

func (r *VerifyEmailRequest) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	r.Token = strings.TrimSpace(r.Token)
	if r.UserID == "" {
		return domain.ErrMissingField("user_id")
	}
	if r.Token == "" {
		return domain.ErrMissingField("token")
	}
	return nil
}

// -------- Profile --------

// UpdateProfileRequest uses pointers so an absent field means "leave as is"
// while an empty string clears the value.
type UpdateProfileRequest struct {
	FirstName         *string `json:"first_name,omitempty"`
	LastName          *string `json:"last_name,omitempty"`
	Bio               *string `json:"bio,omitempty"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
	LinkedInURL       *string `json:"linkedin_profile_url,omitempty"`
	GitHubURL         *string `json:"github_profile_url,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	if r.FirstName == nil && r.LastName == nil && r.Bio == nil &&
		r.ProfilePictureURL == nil && r.LinkedInURL == nil && r.GitHubURL == nil {
		return domain.ErrInvalidField("body", "no updatable fields provided")
	}
	return nil
}

func (r *UpdateProfileRequest) ToDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Bio:               r.Bio,
		ProfilePictureURL: r.ProfilePictureURL,
		LinkedInURL:       r.LinkedInURL,
		GitHubURL:         r.GitHubURL,
	}
}

// -------- Admin --------

type SetProfessionalRequest struct {
	Professional *bool `json:"professional"`
}

func (r *SetProfessionalRequest) Validate() error {
	if r.Professional == nil {
		return domain.ErrMissingField("professional")
	}
	return nil
}
