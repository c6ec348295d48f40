package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	internal_errors "github.com/lumeon-dev/accounts/internal/errors"
	"github.com/lumeon-dev/accounts/internal/middleware"
	"github.com/lumeon-dev/accounts/internal/utils"
)

type articleRequest struct {
	Title string `validate:"required" json:"title"`
	Body  string `validate:"required" json:"body"`
}

type testimonialRequest struct {
	Author string `validate:"required" json:"author"`
	Quote  string `validate:"required" json:"quote"`
	Rating int    `validate:"required" json:"rating"`
}

func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r)
	if !ok {
		utils.WriteError(w, internal_errors.ErrInvalidToken)
		return
	}

	var req articleRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	article, err := h.content.CreateArticle(session.UserId, req.Title, req.Body)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Article created", article)
}

func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	article, err := h.content.UpdateArticle(chi.URLParam(r, "id"), req.Title, req.Body)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Article updated", article)
}

func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeleteArticle(chi.URLParam(r, "id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Article deleted", nil)
}

func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.content.Article(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", article)
}

func (h *Handler) GetArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := h.content.Articles()
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", articles)
}

func (h *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	testimonial, err := h.content.CreateTestimonial(req.Author, req.Quote, req.Rating)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Testimonial created", testimonial)
}

func (h *Handler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeleteTestimonial(chi.URLParam(r, "id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Testimonial deleted", nil)
}

func (h *Handler) GetTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.content.Testimonials()
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "", testimonials)
}
