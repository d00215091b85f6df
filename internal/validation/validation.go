// Package validation checks and normalizes account field input before it
// reaches the service layer or persistence. It wraps go-playground/validator
// with the custom tags the user schema needs (nickname, profile_url) and
// converts validator errors into field-scoped domain errors.
package validation

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"useraccounts/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("nickname", validateNicknameFormat); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("profile_url", validateProfileURL); err != nil {
		panic(err)
	}
}

// validateNicknameFormat restricts nicknames to letters, digits, underscore
// and hyphen. Length bounds are enforced by min/max tags alongside.
func validateNicknameFormat(fl validator.FieldLevel) bool {
	nickname := fl.Field().String()
	if nickname == "" {
		return false
	}
	for _, r := range nickname {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return false
		}
	}
	return true
}

// validateProfileURL accepts an empty value (optional field) or an absolute
// http/https URL with a host. ftp and scheme-less strings are rejected.
func validateProfileURL(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Struct validates any struct carrying validate tags and returns the first
// failure as a field-scoped domain error.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return domain.ErrInternal(err)
	}
	return fieldError(verrs[0])
}

func fieldError(fe validator.FieldError) error {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return domain.ErrMissingField(field)
	case "email":
		return domain.ErrInvalidField(field, "not a valid email address")
	case "min":
		return domain.ErrInvalidField(field, "must be at least "+fe.Param()+" characters")
	case "max":
		return domain.ErrInvalidField(field, "must be at most "+fe.Param()+" characters")
	case "nickname":
		return domain.ErrInvalidField(field, "only letters, digits, underscore and hyphen allowed")
	case "profile_url":
		return domain.ErrInvalidField(field, "must be an http or https URL")
	default:
		return domain.ErrInvalidField(field, "invalid value")
	}
}

// NormalizeEmail lowercases and trims an email address. Emails are stored and
// looked up in this form only.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeNickname trims surrounding whitespace; the charset check rejects
// inner whitespace outright.
func NormalizeNickname(nickname string) string {
	return strings.TrimSpace(nickname)
}

// nicknameField / emailField / urlField let single values be validated
// outside a request DTO (profile updates patch one field at a time).

type nicknameField struct {
	Nickname string `validate:"required,min=3,max=50,nickname"`
}

type emailField struct {
	Email string `validate:"required,email,max=255"`
}

type urlField struct {
	URL string `validate:"omitempty,max=255,profile_url"`
}

type profileFields struct {
	FirstName         string `validate:"omitempty,max=100"`
	LastName          string `validate:"omitempty,max=100"`
	Bio               string `validate:"omitempty,max=500"`
	ProfilePictureURL string `validate:"omitempty,max=255,profile_url"`
	LinkedInURL       string `validate:"omitempty,max=255,profile_url"`
	GitHubURL         string `validate:"omitempty,max=255,profile_url"`
}

// Profile validates the fields present in a profile update; nil pointers are
// untouched fields and always valid.
func Profile(upd domain.ProfileUpdate) error {
	var f profileFields
	if upd.FirstName != nil {
		f.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		f.LastName = *upd.LastName
	}
	if upd.Bio != nil {
		f.Bio = *upd.Bio
	}
	if upd.ProfilePictureURL != nil {
		f.ProfilePictureURL = *upd.ProfilePictureURL
	}
	if upd.LinkedInURL != nil {
		f.LinkedInURL = *upd.LinkedInURL
	}
	if upd.GitHubURL != nil {
		f.GitHubURL = *upd.GitHubURL
	}
	return Struct(f)
}

// ProfileValues validates raw optional profile values as supplied at
// registration; empty values are always valid.
func ProfileValues(firstName, lastName, bio, pictureURL, linkedInURL, gitHubURL string) error {
	return Struct(profileFields{
		FirstName:         firstName,
		LastName:          lastName,
		Bio:               bio,
		ProfilePictureURL: pictureURL,
		LinkedInURL:       linkedInURL,
		GitHubURL:         gitHubURL,
	})
}

// Nickname validates a single nickname value.
func Nickname(v string) error {
	return Struct(nicknameField{Nickname: v})
}

// Email validates a single email value.
func Email(v string) error {
	return Struct(emailField{Email: v})
}

// ProfileURL validates a single optional URL value; empty is valid.
func ProfileURL(v string) error {
	return Struct(urlField{URL: v})
}
