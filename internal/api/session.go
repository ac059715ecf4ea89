package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ecosort/ecosort/internal/store"
)

const sessionTTL = 24 * time.Hour

// Session is the authenticated identity carried by a request.
type Session struct {
	UserID string
	Role   string
}

// SessionManager issues and verifies HMAC-signed session tokens. Token
// lifetimes follow the simulated clock so advancing time expires sessions.
type SessionManager struct {
	secret []byte
	clock  *store.Clock
}

// NewSessionManager creates a manager signing with the given secret.
func NewSessionManager(secret string, clock *store.Clock) *SessionManager {
	return &SessionManager{secret: []byte(secret), clock: clock}
}

// Issue creates a signed session token for the given user.
func (m *SessionManager) Issue(userID, role string) (string, error) {
	now := m.clock.Now()
	claims := jwt.MapClaims{
		"iss":  "ecosort",
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns the session it carries.
func (m *SessionManager) Parse(token string) (Session, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.clock.Now))
	if err != nil {
		return Session{}, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, fmt.Errorf("unexpected claims type")
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return Session{}, fmt.Errorf("missing subject claim")
	}
	return Session{UserID: sub, Role: role}, nil
}
