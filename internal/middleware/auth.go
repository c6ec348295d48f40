package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lumeon-dev/accounts/internal/domain"
	internal_errors "github.com/lumeon-dev/accounts/internal/errors"
	internal_jwt "github.com/lumeon-dev/accounts/internal/jwt"
	"github.com/lumeon-dev/accounts/internal/utils"
)

// Blocklist answers whether a user has been blocked since the token was
// minted. Tokens are stateless, so this is the one stateful check per request.
type Blocklist interface {
	IsBlocked(userId domain.UserId) (bool, error)
}

type key int

const sessionKey key = 0

// Auth holds dependencies for authentication middleware.
type Auth struct {
	jwtService *internal_jwt.Service
	blocklist  Blocklist
}

func NewAuth(jwtService *internal_jwt.Service, blocklist Blocklist) *Auth {
	return &Auth{jwtService: jwtService, blocklist: blocklist}
}

// NeedAuth returns middleware that requires a valid session.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(func(domain.Session) bool { return true })
}

// AdminOnly returns middleware that requires a platform admin session.
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(func(s domain.Session) bool { return s.IsAdmin() })
}

// OrgAdminOnly returns middleware that requires a session allowed to manage
// an organization (platform admins included).
func (a *Auth) OrgAdminOnly() func(http.Handler) http.Handler {
	return a.auth(func(s domain.Session) bool { return s.CanManageOrg() })
}

func (a *Auth) auth(allowed func(domain.Session) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := a.extractSession(r)
			if err != nil {
				utils.WriteError(w, err)
				return
			}

			blocked, err := a.blocklist.IsBlocked(session.UserId)
			if err != nil {
				utils.WriteError(w, err)
				return
			}
			if blocked {
				// Force re-login; the stale token is useless anyway.
				http.SetCookie(w, a.jwtService.ExpiredCookie())
				utils.WriteError(w, internal_errors.ErrUserBlocked)
				return
			}

			if !allowed(session) {
				utils.WriteError(w, internal_errors.ErrAccessDenied)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractSession reads the token from the session cookie (browser clients)
// or the Authorization header (API clients) and decodes it.
func (a *Auth) extractSession(r *http.Request) (domain.Session, error) {
	var tokenString string
	cookie, err := r.Cookie(internal_jwt.CookieName)
	if err == nil {
		tokenString = cookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return domain.Session{}, internal_errors.ErrInvalidToken
	}
	return a.jwtService.DecodeSession(tokenString)
}

// GetSession retrieves the session stored by the auth middleware. The bool is
// false on routes that never went through it.
func GetSession(r *http.Request) (domain.Session, bool) {
	session, ok := r.Context().Value(sessionKey).(domain.Session)
	return session, ok
}
