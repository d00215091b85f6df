package security

import (
	passwordvalidator "github.com/wagslane/go-password-validator"

	"useraccounts/internal/domain"
)

// DefaultMinEntropy roughly corresponds to a 10+ character password with
// mixed character classes.
const DefaultMinEntropy = 60

// PasswordPolicy gates registration and password changes on an entropy
// estimate instead of composition rules.
type PasswordPolicy struct {
	minEntropy float64
}

func NewPasswordPolicy(minEntropy float64) *PasswordPolicy {
	if minEntropy <= 0 {
		minEntropy = DefaultMinEntropy
	}
	return &PasswordPolicy{minEntropy: minEntropy}
}

func (p *PasswordPolicy) Validate(password string) error {
	if password == "" {
		return domain.ErrMissingField("password")
	}
	if err := passwordvalidator.Validate(password, p.minEntropy); err != nil {
		return domain.ErrWeakPassword(err.Error())
	}
	return nil
}
