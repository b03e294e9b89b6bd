package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Manager issues and verifies the signed tokens that bind HTTP callers to a
// working dataset. A token carries the session ID and nothing else; this is
// dataset scoping, not user authentication.
type Manager struct {
	hmac []byte
	ttl  time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{hmac: []byte(secret), ttl: ttl}
}

type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (m *Manager) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "skills-audit",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.hmac)
}

var errInvalidToken = errors.New("invalid session token")

func (m *Manager) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.hmac, nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}
	c, ok := token.Claims.(*Claims)
	if !ok || c.SessionID == "" {
		return "", errInvalidToken
	}
	return c.SessionID, nil
}

type ctxKey struct{}

// FromContext returns the session ID placed by Middleware, or "".
func FromContext(ctx context.Context) string {
	sid, _ := ctx.Value(ctxKey{}).(string)
	return sid
}

// Middleware extracts the bearer token and puts the session ID in the
// request context.
func Middleware(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing session token", http.StatusUnauthorized)
				return
			}
			sid, err := m.Verify(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "bad session token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sid)))
		})
	}
}
