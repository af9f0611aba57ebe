package audit

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	pkgctx "github.com/Gourab-ghosh21/digital-spark/internal/pkg/context"
)

// Logger provides structured audit logging for console session events.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// SignInSucceeded logs an operator sign-in bound to a client session.
func (l *Logger) SignInSucceeded(ctx context.Context, operatorID, email, clientID string) {
	l.log.Info().
		Str("action", "sign_in_success").
		Str("operator_id", operatorID).
		Str("email", maskEmail(email)).
		Str("client_session", shortID(clientID)).
		Str("request_id", pkgctx.GetRequestID(ctx)).
		Msg("Operator signed in")
}

// SignInFailed logs a rejected sign-in attempt.
func (l *Logger) SignInFailed(ctx context.Context, email, reason string) {
	l.log.Warn().
		Str("action", "sign_in_failed").
		Str("email", maskEmail(email)).
		Str("reason", reason).
		Str("request_id", pkgctx.GetRequestID(ctx)).
		Msg("Sign-in attempt failed")
}

func (l *Logger) SignedUp(ctx context.Context, email string) {
	l.log.Info().
		Str("action", "sign_up").
		Str("email", maskEmail(email)).
		Str("request_id", pkgctx.GetRequestID(ctx)).
		Msg("Operator registration requested")
}

func (l *Logger) SignedOut(ctx context.Context, operatorID, clientID string) {
	l.log.Info().
		Str("action", "sign_out").
		Str("operator_id", operatorID).
		Str("client_session", shortID(clientID)).
		Str("request_id", pkgctx.GetRequestID(ctx)).
		Msg("Operator signed out")
}

func (l *Logger) EmailVerified(ctx context.Context, operatorID, email string) {
	l.log.Info().
		Str("action", "email_verified").
		Str("operator_id", operatorID).
		Str("email", maskEmail(email)).
		Str("request_id", pkgctx.GetRequestID(ctx)).
		Msg("Operator email verified")
}

// Record dispatches a generic action/fields pair to the matching event.
func (l *Logger) Record(ctx context.Context, action string, fields map[string]string) {
	switch action {
	case "sign_in_success":
		l.SignInSucceeded(ctx, fields["operator_id"], fields["email"], fields["client_session"])
	case "sign_in_failed":
		l.SignInFailed(ctx, fields["email"], fields["reason"])
	case "sign_up":
		l.SignedUp(ctx, fields["email"])
	case "sign_out":
		l.SignedOut(ctx, fields["operator_id"], fields["client_session"])
	case "email_verified":
		l.EmailVerified(ctx, fields["operator_id"], fields["email"])
	default:
		ev := l.log.Info().Str("action", action).Str("request_id", pkgctx.GetRequestID(ctx))
		for k, v := range fields {
			if k == "email" {
				v = maskEmail(v)
			}
			ev = ev.Str(k, v)
		}
		ev.Msg("Audit event")
	}
}

// maskEmail keeps the first two characters of the local part and the domain.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 5 || at < 0 {
		return "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}

// shortID trims opaque ids so full cookie values never reach the logs.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
