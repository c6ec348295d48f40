package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lumeon-dev/accounts/internal/domain"
	internal_errors "github.com/lumeon-dev/accounts/internal/errors"
	internal_jwt "github.com/lumeon-dev/accounts/internal/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterHandler(t *testing.T) {
	user := domain.User{Id: "u1", Email: "alice@example.com", Role: domain.RoleUser}

	t.Run("success exposes code when configured", func(t *testing.T) {
		auth := &MockAuthService{
			RegisterFunc: func(reg domain.Registration) (domain.User, string, error) {
				assert.Equal(t, "alice@example.com", reg.Email)
				return user, "123456", nil
			},
		}
		h := newTestHandler(auth, nil)

		rr := postJSON(t, h.Register, `{"email":"alice@example.com","password":"Str0ng!pw","confirmPassword":"Str0ng!pw"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		success, message, data, _ := decodeEnvelope(t, rr)
		assert.True(t, success)
		assert.Equal(t, "Verification code sent", message)
		assert.Equal(t, "u1", data["userId"])
		assert.Equal(t, "123456", data["code"])
	})

	t.Run("code hidden when flag is off", func(t *testing.T) {
		auth := &MockAuthService{
			RegisterFunc: func(reg domain.Registration) (domain.User, string, error) {
				return user, "123456", nil
			},
		}
		h := newTestHandler(auth, nil)
		h.cfg.Public.ExposeCodeInResponse = false

		rr := postJSON(t, h.Register, `{"email":"alice@example.com","password":"Str0ng!pw","confirmPassword":"Str0ng!pw"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		_, _, data, _ := decodeEnvelope(t, rr)
		assert.NotContains(t, data, "code")
	})

	t.Run("missing fields", func(t *testing.T) {
		h := newTestHandler(nil, nil)
		rr := postJSON(t, h.Register, `{"email":"alice@example.com"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		success, _, _, errMsg := decodeEnvelope(t, rr)
		assert.False(t, success)
		assert.Equal(t, "Missing required inputs", errMsg)
	})

	t.Run("invalid json", func(t *testing.T) {
		h := newTestHandler(nil, nil)
		rr := postJSON(t, h.Register, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("business error passes through", func(t *testing.T) {
		auth := &MockAuthService{
			RegisterFunc: func(reg domain.Registration) (domain.User, string, error) {
				return domain.User{}, "", internal_errors.ErrUserAlreadyExists
			},
		}
		h := newTestHandler(auth, nil)
		rr := postJSON(t, h.Register, `{"email":"alice@example.com","password":"Str0ng!pw","confirmPassword":"Str0ng!pw"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		_, _, _, errMsg := decodeEnvelope(t, rr)
		assert.Equal(t, "User already exists", errMsg)
	})
}

func TestConfirmHandler(t *testing.T) {
	user := domain.User{Id: "u1", Email: "alice@example.com", Role: domain.RoleUser}

	t.Run("success sets session cookie", func(t *testing.T) {
		auth := &MockAuthService{
			ConfirmRegistrationFunc: func(email domain.Email, code string) (domain.User, string, error) {
				assert.Equal(t, "123456", code)
				return user, "signed_token", nil
			},
		}
		h := newTestHandler(auth, nil)

		rr := postJSON(t, h.Confirm, `{"email":"alice@example.com","code":"123456"}`)

		require.Equal(t, http.StatusOK, rr.Code)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, internal_jwt.CookieName, cookies[0].Name)
		assert.Equal(t, "signed_token", cookies[0].Value)
		assert.Equal(t, int(time.Hour.Seconds()), cookies[0].MaxAge)

		_, _, data, _ := decodeEnvelope(t, rr)
		assert.Equal(t, true, data["isAuthUser"])
		assert.Equal(t, "user", data["role"])
	})

	t.Run("wrong code leaves no cookie", func(t *testing.T) {
		auth := &MockAuthService{
			ConfirmRegistrationFunc: func(email domain.Email, code string) (domain.User, string, error) {
				return domain.User{}, "", internal_errors.ErrCodeInvalid
			},
		}
		h := newTestHandler(auth, nil)

		rr := postJSON(t, h.Confirm, `{"email":"alice@example.com","code":"000000"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, rr.Result().Cookies())
		_, _, _, errMsg := decodeEnvelope(t, rr)
		assert.Equal(t, "Invalid verification code", errMsg)
	})
}

func TestLoginHandler(t *testing.T) {
	user := domain.User{Id: "u1", Email: "alice@example.com", Role: domain.RoleUser}

	t.Run("success", func(t *testing.T) {
		auth := &MockAuthService{
			LoginFunc: func(email domain.Email, password string) (domain.User, string, error) {
				return user, "signed_token", nil
			},
		}
		h := newTestHandler(auth, nil)

		rr := postJSON(t, h.Login, `{"email":"alice@example.com","password":"Str0ng!pw"}`)

		require.Equal(t, http.StatusOK, rr.Code)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "signed_token", cookies[0].Value)
	})

	t.Run("blocked user maps to 403", func(t *testing.T) {
		auth := &MockAuthService{
			LoginFunc: func(email domain.Email, password string) (domain.User, string, error) {
				return domain.User{}, "", internal_errors.ErrUserBlocked
			},
		}
		h := newTestHandler(auth, nil)

		rr := postJSON(t, h.Login, `{"email":"alice@example.com","password":"Str0ng!pw"}`)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("unexpected error maps to 500", func(t *testing.T) {
		auth := &MockAuthService{
			LoginFunc: func(email domain.Email, password string) (domain.User, string, error) {
				return domain.User{}, "", assert.AnError
			},
		}
		h := newTestHandler(auth, nil)

		rr := postJSON(t, h.Login, `{"email":"alice@example.com","password":"Str0ng!pw"}`)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	h := newTestHandler(nil, nil)

	rr := postJSON(t, h.Logout, `{}`)

	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, internal_jwt.CookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}

func TestForgotPasswordHandler(t *testing.T) {
	user := domain.User{Id: "u1", Email: "alice@example.com"}
	auth := &MockAuthService{
		ForgotPasswordFunc: func(email domain.Email) (domain.User, string, error) {
			return user, "654321", nil
		},
	}
	h := newTestHandler(auth, nil)

	rr := postJSON(t, h.ForgotPassword, `{"email":"alice@example.com"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	_, message, data, _ := decodeEnvelope(t, rr)
	assert.Equal(t, "Reset code sent", message)
	assert.Equal(t, "654321", data["code"])
}

func TestResetPasswordHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotCode string
		auth := &MockAuthService{
			ResetPasswordFunc: func(email domain.Email, code, newPassword, confirmPassword string) error {
				gotCode = code
				return nil
			},
		}
		h := newTestHandler(auth, nil)

		rr := postJSON(t, h.ResetPassword, `{"email":"alice@example.com","code":"654321","newPassword":"N3w!Passw","confirmPassword":"N3w!Passw"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "654321", gotCode)
	})

	t.Run("expired code", func(t *testing.T) {
		auth := &MockAuthService{
			ResetPasswordFunc: func(email domain.Email, code, newPassword, confirmPassword string) error {
				return internal_errors.ErrCodeExpired
			},
		}
		h := newTestHandler(auth, nil)

		rr := postJSON(t, h.ResetPassword, `{"email":"alice@example.com","code":"654321","newPassword":"N3w!Passw","confirmPassword":"N3w!Passw"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		_, _, _, errMsg := decodeEnvelope(t, rr)
		assert.Equal(t, "Verification code expired", errMsg)
	})
}

func TestChangePasswordHandler(t *testing.T) {
	t.Run("without session context", func(t *testing.T) {
		h := newTestHandler(nil, nil)
		rr := postJSON(t, h.ChangePassword, `{"currentPassword":"a","newPassword":"b","confirmPassword":"b"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestMeHandler(t *testing.T) {
	t.Run("without session context", func(t *testing.T) {
		h := newTestHandler(nil, nil)
		req := httptest.NewRequest(http.MethodGet, "/v1/me", bytes.NewBufferString(""))
		rr := httptest.NewRecorder()
		h.Me(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
