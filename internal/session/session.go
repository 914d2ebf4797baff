// Package session identifies voter browsers with a signed cookie.
package session

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName    = "pollbox_session"
	SessionExpiry = 365 * 24 * time.Hour
)

var ErrInvalidToken = stderrors.New("invalid session token")

type contextKey struct{}

// Manager issues and verifies session cookies
type Manager struct {
	secret []byte
	now    func() time.Time
	secure bool
}

// NewManager creates a Manager signing tokens with secret
func NewManager(secret string) *Manager {
	return &Manager{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// SetSecure marks issued cookies as HTTPS-only
func (m *Manager) SetSecure(secure bool) {
	m.secure = secure
}

// SetClock replaces the time source. Used by tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Issue signs a token carrying the session id
func (m *Manager) Issue(sessionID string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(SessionExpiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies a token and returns its session id
func (m *Manager) Parse(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Middleware attaches the browser's session id to the request context,
// issuing a fresh identity when the cookie is missing or invalid.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if cookie, err := r.Cookie(CookieName); err == nil {
			sessionID, _ = m.Parse(cookie.Value)
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			token, err := m.Issue(sessionID)
			if err != nil {
				http.Error(w, "could not start session", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(SessionExpiry.Seconds()),
			})
		}

		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), sessionID)))
	})
}

// WithID returns a context carrying the session id
func WithID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextKey{}, sessionID)
}

// IDFromContext returns the session id, or "" outside the middleware
func IDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
