package domain

import "time"

// User is the persisted account record. Nickname and email are unique,
// immutable lookup identifiers; everything else is mutated through the
// repository operations, never in place.
type User struct {
	ID       string
	Nickname string
	Email    string

	FirstName         string
	LastName          string
	Bio               string
	ProfilePictureURL string
	LinkedInURL       string
	GitHubURL         string

	Role           Role
	IsProfessional bool
	// Set whenever IsProfessional flips.
	ProfessionalStatusChangedAt *time.Time

	LastLoginAt         *time.Time
	FailedLoginAttempts int
	IsLocked            bool

	EmailVerified     bool
	VerificationToken string

	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileUpdate carries the optional profile fields a user may change.
// Nil pointers mean "leave unchanged". Nickname and email are not here on
// purpose: they identify the row and never change after registration.
type ProfileUpdate struct {
	FirstName         *string
	LastName          *string
	Bio               *string
	ProfilePictureURL *string
	LinkedInURL       *string
	GitHubURL         *string
}
