package handler

import (
	"net/http"

	"github.com/lumeon-dev/accounts/internal/domain"
	internal_errors "github.com/lumeon-dev/accounts/internal/errors"
	"github.com/lumeon-dev/accounts/internal/middleware"
	"github.com/lumeon-dev/accounts/internal/utils"
)

type registerRequest struct {
	Email           string `validate:"required" json:"email"`
	Password        string `validate:"required" json:"password"`
	ConfirmPassword string `validate:"required" json:"confirmPassword"`
	UserName        string `json:"userName"`
	PhoneNumber     string `json:"phoneNumber"`
	UserRole        string `json:"userRole"`
}

type emailRequest struct {
	Email string `validate:"required" json:"email"`
}

type confirmRequest struct {
	Email string `validate:"required" json:"email"`
	Code  string `validate:"required" json:"code"`
}

type loginRequest struct {
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `validate:"required" json:"currentPassword"`
	NewPassword     string `validate:"required" json:"newPassword"`
	ConfirmPassword string `validate:"required" json:"confirmPassword"`
}

type resetPasswordRequest struct {
	Email           string `validate:"required" json:"email"`
	Code            string `validate:"required" json:"code"`
	NewPassword     string `validate:"required" json:"newPassword"`
	ConfirmPassword string `validate:"required" json:"confirmPassword"`
}

// challengeData echoes back who the challenge was issued for. The code is
// only present when expose_code_in_response is on (local and test setups
// without an SMTP relay).
func (h *Handler) challengeData(user domain.User, code string) map[string]interface{} {
	data := map[string]interface{}{
		"userId": user.Id,
		"email":  user.Email,
	}
	if h.cfg.Public.ExposeCodeInResponse {
		data["code"] = code
	}
	return data
}

func sessionData(user domain.User) map[string]interface{} {
	return map[string]interface{}{
		"userId":     user.Id,
		"email":      user.Email,
		"role":       user.Role,
		"isAuthUser": true,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	user, code, err := h.auth.Register(domain.Registration{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		UserName:        req.UserName,
		PhoneNumber:     req.PhoneNumber,
		UserRole:        req.UserRole,
	})
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "Verification code sent", h.challengeData(user, code))
}

func (h *Handler) ResendCode(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	user, code, err := h.auth.ResendCode(req.Email)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Verification code sent", h.challengeData(user, code))
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	user, token, err := h.auth.ConfirmRegistration(req.Email, req.Code)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	http.SetCookie(w, h.jwt.SessionCookie(token))
	utils.WriteSuccess(w, http.StatusOK, "Email verified", sessionData(user))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	user, token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	http.SetCookie(w, h.jwt.SessionCookie(token))
	utils.WriteSuccess(w, http.StatusOK, "Logged in", sessionData(user))
}

// Logout clears the session cookie. Idempotent, no auth required.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.jwt.ExpiredCookie())
	utils.WriteSuccess(w, http.StatusOK, "Logged out", nil)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	user, code, err := h.auth.ForgotPassword(req.Email)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Reset code sent", h.challengeData(user, code))
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.auth.ResetPassword(req.Email, req.Code, req.NewPassword, req.ConfirmPassword); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Password reset", nil)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r)
	if !ok {
		utils.WriteError(w, internal_errors.ErrInvalidToken)
		return
	}

	var req changePasswordRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.auth.ChangePassword(session.UserId, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Password changed", nil)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r)
	if !ok {
		utils.WriteError(w, internal_errors.ErrInvalidToken)
		return
	}

	user, err := h.auth.Profile(session.UserId)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{
		"userId":      user.Id,
		"email":       user.Email,
		"role":        user.Role,
		"userName":    user.UserName,
		"phoneNumber": user.PhoneNumber,
		"orgId":       user.OrgId,
		"loginCount":  len(user.Logins),
		"createdAt":   user.CreatedAt,
	})
}
