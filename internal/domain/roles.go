package domain

type Role string

const (
	// RoleAnonymous is the registration default; the account has not yet
	// verified its email address.
	RoleAnonymous Role = "anonymous"
	// RoleAuthenticated is a regular verified account.
	RoleAuthenticated Role = "authenticated"
	// RoleManager can lock/unlock accounts and change professional status.
	RoleManager Role = "manager"
	// RoleAdmin has every manager privilege plus user administration.
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleAnonymous, RoleAuthenticated, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// RoleRank: bigger => higher privilege
func RoleRank(r string) int {
	switch Role(r) {
	case RoleAnonymous:
		return 1
	case RoleAuthenticated:
		return 2
	case RoleManager:
		return 3
	case RoleAdmin:
		return 4
	default:
		return 0
	}
}
