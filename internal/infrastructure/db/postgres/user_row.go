package postgres

import (
	"database/sql"
	"time"

	"useraccounts/internal/domain"
)

// userRow mirrors the users table; optional columns are nullable.
type userRow struct {
	ID       string
	Nickname string
	Email    string

	FirstName         sql.NullString
	LastName          sql.NullString
	Bio               sql.NullString
	ProfilePictureURL sql.NullString
	LinkedInURL       sql.NullString
	GitHubURL         sql.NullString

	Role                        string
	IsProfessional              bool
	ProfessionalStatusChangedAt *time.Time

	LastLoginAt         *time.Time
	FailedLoginAttempts int
	IsLocked            bool

	EmailVerified     bool
	VerificationToken sql.NullString

	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:       ur.ID,
		Nickname: ur.Nickname,
		Email:    ur.Email,

		FirstName:         ur.FirstName.String,
		LastName:          ur.LastName.String,
		Bio:               ur.Bio.String,
		ProfilePictureURL: ur.ProfilePictureURL.String,
		LinkedInURL:       ur.LinkedInURL.String,
		GitHubURL:         ur.GitHubURL.String,

		Role:                        domain.Role(ur.Role),
		IsProfessional:              ur.IsProfessional,
		ProfessionalStatusChangedAt: ur.ProfessionalStatusChangedAt,

		LastLoginAt:         ur.LastLoginAt,
		FailedLoginAttempts: ur.FailedLoginAttempts,
		IsLocked:            ur.IsLocked,

		EmailVerified:     ur.EmailVerified,
		VerificationToken: ur.VerificationToken.String,

		PasswordHash: ur.PasswordHash,

		CreatedAt: ur.CreatedAt,
		UpdatedAt: ur.UpdatedAt,
	}
}

// nullable maps "" to NULL so optional columns stay NULL instead of ''.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
