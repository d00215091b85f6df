package dto

import (
	"time"

	"useraccounts/internal/application/auth"
	"useraccounts/internal/domain"
)

// UserView is the standard user payload for account responses.
// The password hash and verification token never leave the service.
type UserView struct {
	ID                string     `json:"id"`
	Nickname          string     `json:"nickname"`
	Email             string     `json:"email"`
	FirstName         string     `json:"first_name,omitempty"`
	LastName          string     `json:"last_name,omitempty"`
	Bio               string     `json:"bio,omitempty"`
	ProfilePictureURL string     `json:"profile_picture_url,omitempty"`
	LinkedInURL       string     `json:"linkedin_profile_url,omitempty"`
	GitHubURL         string     `json:"github_profile_url,omitempty"`
	Role              string     `json:"role"`
	IsProfessional    bool       `json:"is_professional"`
	EmailVerified     bool       `json:"email_verified"`
	Locked            bool       `json:"locked"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		ID:                u.ID,
		Nickname:          u.Nickname,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Bio:               u.Bio,
		ProfilePictureURL: u.ProfilePictureURL,
		LinkedInURL:       u.LinkedInURL,
		GitHubURL:         u.GitHubURL,
		Role:              string(u.Role),
		IsProfessional:    u.IsProfessional,
		EmailVerified:     u.EmailVerified,
		Locked:            u.IsLocked,
		LastLoginAt:       u.LastLoginAt,
		CreatedAt:         u.CreatedAt,
	}
}

// TokensView is the standard access token payload.
type TokensView struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // "bearer"
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

func NewTokensView(t auth.AuthTokens) TokensView {
	return TokensView{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
		ExpiresIn:   t.ExpiresIn,
	}
}

// AuthData is returned by login.
type AuthData struct {
	User   UserView   `json:"user"`
	Tokens TokensView `json:"tokens"`
}

// RegisterData is returned by register. There is no token: the account must
// verify its email and log in.
type RegisterData struct {
	User UserView `json:"user"`
}

// MeData is returned by /me.
type MeData struct {
	User UserView `json:"user"`
}

type VerifyEmailData struct {
	Status string `json:"status"` // "verified"
}

type ModerationData struct {
	Status string `json:"status"` // "locked" / "unlocked"
	UserID string `json:"user_id"`
}
