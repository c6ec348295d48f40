package jwt

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lumeon-dev/accounts/internal/domain"
	internal_errors "github.com/lumeon-dev/accounts/internal/errors"
	"github.com/lumeon-dev/accounts/internal/logger"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "jwt"

type Claims struct {
	jwt.RegisteredClaims
	Kind   string `json:"kind"`
	UserId string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	OrgId  string `json:"org,omitempty"`
}

type Service struct {
	secretKey    string
	ttl          time.Duration
	cookieDomain string
	secure       bool
}

func New(secretKey string, ttl time.Duration, cookieDomain string, secure bool) *Service {
	return &Service{secretKey: secretKey, ttl: ttl, cookieDomain: cookieDomain, secure: secure}
}

// NewToken signs a session into an HS256 bearer token with the configured
// expiry.
func (s *Service) NewToken(sess domain.Session) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Kind:   string(sess.Kind),
		UserId: sess.UserId,
		Email:  sess.Email,
		Role:   string(sess.Role),
		OrgId:  sess.OrgId,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", err
	}
	return tokenString, nil
}

// DecodeSession verifies a token string and reconstructs the session it
// carries. Any failure (bad signature, wrong algorithm, expiry) surfaces as
// the single invalid-token error.
func (s *Service) DecodeSession(tokenString string) (domain.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, internal_errors.ErrInvalidToken
		}
		return []byte(s.secretKey), nil
	})
	if err != nil || !token.Valid {
		return domain.Session{}, internal_errors.ErrInvalidToken
	}

	kind := domain.SessionKind(claims.Kind)
	switch kind {
	case domain.SessionUser, domain.SessionAdmin, domain.SessionSubUser:
	default:
		return domain.Session{}, internal_errors.ErrInvalidToken
	}

	return domain.Session{
		Kind:   kind,
		UserId: claims.UserId,
		Email:  claims.Email,
		Role:   domain.Role(claims.Role),
		OrgId:  claims.OrgId,
	}, nil
}

// SessionCookie wraps a token in the session cookie: httpOnly, secure,
// SameSite=None, scoped to the configured domain, expiring with the token.
func (s *Service) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Path:     "/",
		Name:     CookieName,
		Value:    token,
		MaxAge:   int(s.ttl.Seconds()),
		Domain:   s.cookieDomain,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteNoneMode,
	}
}

// ExpiredCookie clears the session cookie immediately.
func (s *Service) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Path:     "/",
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		Domain:   s.cookieDomain,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteNoneMode,
	}
}
