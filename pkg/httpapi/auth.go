package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken reports a bearer token that failed verification.
var ErrInvalidToken = errors.New("httpapi: invalid or expired token")

// User is the authenticated caller handed to the route access gate. Policy
// expressions see it as `user`, e.g. `"admin" in user.Roles`.
type User struct {
	ID    string
	Roles []string
}

// HasRole reports whether the user carries role.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Claims is the JWT payload accepted by the bearer middleware.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}

type userKey struct{}

// UserFromContext returns the user stored by the bearer middleware, or nil
// for anonymous requests.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userKey{}).(*User)
	return user
}

// WithUser stores user on ctx.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// SignToken issues an HS256 token for subject.
func SignToken(secret []byte, subject string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Roles: roles,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("httpapi: sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies an HMAC-signed token and returns its claims.
func ParseToken(raw string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// bearer authenticates requests carrying "Authorization: Bearer <jwt>".
// Requests without the header continue anonymously; malformed or invalid
// tokens are rejected with 401.
func (s *Server) bearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || len(s.secret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			s.fail(w, r, http.StatusUnauthorized, errors.New("httpapi: invalid auth header format"))
			return
		}
		claims, err := ParseToken(strings.TrimSpace(parts[1]), s.secret)
		if err != nil {
			s.fail(w, r, http.StatusUnauthorized, err)
			return
		}

		user := &User{ID: claims.Subject, Roles: claims.Roles}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}
