package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lumeon-dev/accounts/internal/domain"
	internal_errors "github.com/lumeon-dev/accounts/internal/errors"
	"github.com/lumeon-dev/accounts/internal/middleware"
	"github.com/lumeon-dev/accounts/internal/utils"
)

type createSubUserRequest struct {
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
	UserName string `json:"userName"`
}

func userData(user domain.User) map[string]interface{} {
	return map[string]interface{}{
		"userId":      user.Id,
		"email":       user.Email,
		"role":        user.Role,
		"blocked":     user.Blocked,
		"userName":    user.UserName,
		"phoneNumber": user.PhoneNumber,
		"orgId":       user.OrgId,
		"verified":    user.EmailVerification.Verified,
		"loginCount":  len(user.Logins),
		"createdAt":   user.CreatedAt,
	}
}

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.Users()
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	data := make([]map[string]interface{}, 0, len(users))
	for _, user := range users {
		data = append(data, userData(user))
	}
	utils.WriteSuccess(w, http.StatusOK, "", data)
}

func (h *Handler) BlockUser(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.BlockUser(chi.URLParam(r, "id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "User blocked", nil)
}

func (h *Handler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.UnblockUser(chi.URLParam(r, "id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "User unblocked", nil)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.DeleteUser(chi.URLParam(r, "id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "User deleted", nil)
}

// CreateSubUser provisions a verified sub-account under the caller's
// organization. The service re-checks the actor's rights.
func (h *Handler) CreateSubUser(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r)
	if !ok {
		utils.WriteError(w, internal_errors.ErrInvalidToken)
		return
	}

	var req createSubUserRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	user, err := h.auth.CreateSubUser(session, req.Email, req.Password, req.UserName)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "Sub-user created", userData(user))
}
