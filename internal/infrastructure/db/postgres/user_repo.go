package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"useraccounts/internal/domain"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

const userColumns = `id, nickname, email, first_name, last_name, bio,
profile_picture_url, linkedin_profile_url, github_profile_url,
role, is_professional, professional_status_updated_at,
last_login_at, failed_login_attempts, is_locked,
email_verified, verification_token, password_hash,
created_at, updated_at`

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(row rowScanner) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Nickname,
		&ur.Email,
		&ur.FirstName,
		&ur.LastName,
		&ur.Bio,
		&ur.ProfilePictureURL,
		&ur.LinkedInURL,
		&ur.GitHubURL,
		&ur.Role,
		&ur.IsProfessional,
		&ur.ProfessionalStatusChangedAt,
		&ur.LastLoginAt,
		&ur.FailedLoginAttempts,
		&ur.IsLocked,
		&ur.EmailVerified,
		&ur.VerificationToken,
		&ur.PasswordHash,
		&ur.CreatedAt,
		&ur.UpdatedAt,
	)
	return ur, err
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// conflictError maps a unique violation onto the right field conflict.
func conflictError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "nickname") {
			return domain.ErrNicknameAlreadyExists()
		}
		return domain.ErrEmailAlreadyExists()
	}
	return nil
}

// ---------- auth.UserRepo ----------

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1;`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByNickname(ctx context.Context, nickname string) (domain.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return domain.User{}, domain.ErrMissingField("nickname")
	}

	q := `SELECT ` + userColumns + ` FROM users WHERE nickname = $1 LIMIT 1;`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, nickname))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1;`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Nickname = strings.TrimSpace(u.Nickname)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.Nickname == "" {
		return domain.User{}, domain.ErrMissingField("nickname")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}
	if u.Role == "" {
		u.Role = domain.RoleAnonymous
	}

	q := `
INSERT INTO users (id, nickname, email, first_name, last_name, bio,
	profile_picture_url, linkedin_profile_url, github_profile_url,
	role, is_professional, email_verified, verification_token, password_hash)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
RETURNING ` + userColumns + `;`

	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q,
		u.ID, u.Nickname, u.Email,
		nullable(u.FirstName), nullable(u.LastName), nullable(u.Bio),
		nullable(u.ProfilePictureURL), nullable(u.LinkedInURL), nullable(u.GitHubURL),
		string(u.Role), u.IsProfessional, u.EmailVerified,
		nullable(u.VerificationToken), u.PasswordHash,
	))
	if err != nil {
		if cerr := conflictError(err); cerr != nil {
			return domain.User{}, cerr
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, domain.ErrMissingField("email")
	}

	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1);`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, email).Scan(&exists); err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return exists, nil
}

func (r *UserRepo) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return false, domain.ErrMissingField("nickname")
	}

	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE nickname = $1);`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, nickname).Scan(&exists); err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return exists, nil
}

func (r *UserRepo) RecordLoginSuccess(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `
UPDATE users
SET failed_login_attempts = 0,
    last_login_at = NOW(),
    updated_at = NOW()
WHERE id = $1;`
	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// RecordLoginFailure runs the increment-and-maybe-lock as one UPDATE so two
// concurrent failures both land: the row is locked in-place by the database,
// there is no read-modify-write window. Already-locked rows are excluded so
// the counter freezes once the account locks.
func (r *UserRepo) RecordLoginFailure(ctx context.Context, userID string, threshold int) (bool, int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, 0, domain.ErrMissingField("user_id")
	}
	if threshold <= 0 {
		return false, 0, domain.ErrInternal(errors.New("non-positive lock threshold"))
	}

	const q = `
UPDATE users
SET failed_login_attempts = failed_login_attempts + 1,
    is_locked = (failed_login_attempts + 1 >= $2),
    updated_at = NOW()
WHERE id = $1 AND is_locked = FALSE
RETURNING failed_login_attempts, is_locked;`

	var attempts int
	var locked bool
	err := r.db.QueryRowContext(ctx, q, userID, threshold).Scan(&attempts, &locked)
	if err == nil {
		return locked, attempts, nil
	}
	if !isNoRows(err) {
		return false, 0, domain.ErrDBUnavailable(err)
	}

	// No row updated: the account was locked by a concurrent attempt, or it
	// does not exist at all.
	const check = `SELECT is_locked, failed_login_attempts FROM users WHERE id = $1 LIMIT 1;`
	if err := r.db.QueryRowContext(ctx, check, userID).Scan(&locked, &attempts); err != nil {
		if isNoRows(err) {
			return false, 0, domain.ErrUserNotFound()
		}
		return false, 0, domain.ErrDBUnavailable(err)
	}
	return locked, attempts, nil
}

func (r *UserRepo) SetEmailVerified(ctx context.Context, userID string, role domain.Role) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if !domain.IsValidRole(string(role)) {
		return domain.ErrInvalidRole(string(role))
	}

	const q = `
UPDATE users
SET email_verified = TRUE,
    verification_token = NULL,
    role = $2,
    updated_at = NOW()
WHERE id = $1;`
	res, err := r.db.ExecContext(ctx, q, userID, string(role))
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) LockUser(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `
UPDATE users
SET is_locked = TRUE,
    updated_at = NOW()
WHERE id = $1;`
	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) UnlockUser(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `
UPDATE users
SET is_locked = FALSE,
    failed_login_attempts = 0,
    updated_at = NOW()
WHERE id = $1;`
	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// UpdateProfile patches only the supplied fields; COALESCE keeps the rest.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.User{}, domain.ErrMissingField("user_id")
	}

	q := `
UPDATE users
SET first_name = COALESCE($2, first_name),
    last_name = COALESCE($3, last_name),
    bio = COALESCE($4, bio),
    profile_picture_url = COALESCE($5, profile_picture_url),
    linkedin_profile_url = COALESCE($6, linkedin_profile_url),
    github_profile_url = COALESCE($7, github_profile_url),
    updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns + `;`

	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q,
		userID,
		upd.FirstName, upd.LastName, upd.Bio,
		upd.ProfilePictureURL, upd.LinkedInURL, upd.GitHubURL,
	))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) SetProfessionalStatus(ctx context.Context, userID string, professional bool) (domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.User{}, domain.ErrMissingField("user_id")
	}

	q := `
UPDATE users
SET is_professional = $2,
    professional_status_updated_at = NOW(),
    updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns + `;`

	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, userID, professional))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}
