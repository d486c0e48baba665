// Package auth verifies the bearer tokens issued by the hosted auth provider
// and gates the editing routes on the user's role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"

	"github.com/guiafaen/guia/internal/libs/respond"
	"github.com/guiafaen/guia/internal/scope/db"
)

// ErrInvalidToken is returned for tokens that are malformed, expired, signed
// with another key or missing a subject.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the caller may edit content.
func (i Identity) IsAdmin() bool {
	return i.Role == db.RoleAdmin
}

type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens against a shared secret and resolves the
// caller's role from the users table.
type Verifier struct {
	secret []byte
	roles  db.RoleStore
	logger zerolog.Logger
}

// NewVerifier creates a verifier. The secret must not be empty.
func NewVerifier(secret string, roles db.RoleStore, logger zerolog.Logger) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Verifier{secret: []byte(secret), roles: roles, logger: logger}, nil
}

// Verify parses token and looks up the subject's role. Users without a row
// in the users table get an empty role.
func (v *Verifier) Verify(ctx context.Context, token string) (Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	id := Identity{UserID: c.Subject, Email: c.Email}
	role, err := v.roles.Role(ctx, c.Subject)
	switch {
	case errors.Is(err, db.ErrNotFound):
	case err != nil:
		return Identity{}, fmt.Errorf("resolve role: %w", err)
	default:
		id.Role = role
	}
	return id, nil
}

type ctxKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by RequireAdmin.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// RequireAdmin rejects requests without a valid admin token: 401 when the
// token is missing or invalid, 403 when the caller is not an admin. A nil
// verifier means auth is not configured and every request gets 503.
func RequireAdmin(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v == nil {
				respond.Error(w, http.StatusServiceUnavailable, "editing is not configured", "AUTH_DISABLED")
				return
			}

			token := bearerToken(r)
			if token == "" {
				respond.Error(w, http.StatusUnauthorized, "missing authorization token", "UNAUTHORIZED")
				return
			}

			id, err := v.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, ErrInvalidToken) {
					respond.Error(w, http.StatusUnauthorized, "invalid token", "UNAUTHORIZED")
					return
				}
				v.logger.Error().Err(err).Msg("role lookup failed")
				respond.Error(w, http.StatusInternalServerError, "could not verify user", "AUTH_FAILED")
				return
			}
			if !id.IsAdmin() {
				respond.Error(w, http.StatusForbidden, "admin role required", "FORBIDDEN")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
