// Package audit provides structured audit logging for account business
// events. Entries are regular zerolog lines tagged audit=true so they can be
// filtered into a separate stream.
package audit

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	appctx "useraccounts/internal/pkg/context"
)

type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Nop returns a logger that discards everything; used by tests.
func Nop() *Logger {
	return New(zerolog.Nop())
}

func (l *Logger) LoginSuccess(ctx context.Context, userID, email string) {
	l.log.Info().
		Str("action", "login_success").
		Str("user_id", userID).
		Str("email", maskEmail(email)).
		Str("request_id", appctx.GetRequestID(ctx)).
		Msg("user logged in")
}

func (l *Logger) LoginFailed(ctx context.Context, email, reason string) {
	l.log.Warn().
		Str("action", "login_failed").
		Str("email", maskEmail(email)).
		Str("reason", reason).
		Str("request_id", appctx.GetRequestID(ctx)).
		Msg("login attempt failed")
}

func (l *Logger) LoginRejectedLocked(ctx context.Context, userID, email string) {
	l.log.Warn().
		Str("action", "login_rejected_locked").
		Str("user_id", userID).
		Str("email", maskEmail(email)).
		Str("request_id", appctx.GetRequestID(ctx)).
		Msg("login rejected: account locked")
}

// AccountLocked records the lock threshold being reached by failed logins.
func (l *Logger) AccountLocked(ctx context.Context, userID string, attempts int) {
	l.log.Warn().
		Str("action", "account_locked").
		Str("user_id", userID).
		Int("failed_attempts", attempts).
		Str("request_id", appctx.GetRequestID(ctx)).
		Msg("account locked after repeated failed logins")
}

func (l *Logger) AccountLockedByAdmin(ctx context.Context, actorID, targetID string) {
	l.log.Warn().
		Str("action", "account_locked_by_admin").
		Str("actor_id", actorID).
		Str("target_id", targetID).
		Str("request_id", appctx.GetRequestID(ctx)).
		Msg("account locked by administrator")
}

func (l *Logger) AccountUnlocked(ctx context.Context, actorID, targetID string) {
	l.log.Info().
		Str("action", "account_unlocked").
		Str("actor_id", actorID).
		Str("target_id", targetID).
		Str("request_id", appctx.GetRequestID(ctx)).
		Msg("account unlocked by administrator")
}

func (l *Logger) UserRegistered(ctx context.Context, userID, email string) {
	l.log.Info().
		Str("action", "user_registered").
		Str("user_id", userID).
		Str("email", maskEmail(email)).
		Str("request_id", appctx.GetRequestID(ctx)).
		Msg("user registered")
}

func (l *Logger) EmailVerified(ctx context.Context, userID, email string) {
	l.log.Info().
		Str("action", "email_verified").
		Str("user_id", userID).
		Str("email", maskEmail(email)).
		Str("request_id", appctx.GetRequestID(ctx)).
		Msg("email verified")
}

// VerificationDispatchFailed is the only place a registration-side publish
// error surfaces; the flow itself swallows it.
func (l *Logger) VerificationDispatchFailed(ctx context.Context, userID, email string, err error) {
	l.log.Error().
		Err(err).
		Str("action", "verification_dispatch_failed").
		Str("user_id", userID).
		Str("email", maskEmail(email)).
		Str("request_id", appctx.GetRequestID(ctx)).
		Msg("failed to publish verification email event")
}

func (l *Logger) ProfileUpdated(ctx context.Context, userID string) {
	l.log.Info().
		Str("action", "profile_updated").
		Str("user_id", userID).
		Str("request_id", appctx.GetRequestID(ctx)).
		Msg("profile updated")
}

func (l *Logger) ProfessionalStatusChanged(ctx context.Context, actorID, targetID string, professional bool) {
	l.log.Info().
		Str("action", "professional_status_changed").
		Str("actor_id", actorID).
		Str("target_id", targetID).
		Bool("professional", professional).
		Str("request_id", appctx.GetRequestID(ctx)).
		Msg("professional status changed")
}

// maskEmail keeps the first character and the domain: a@example.com stays
// readable in logs without exposing the full address.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
