package router

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lumeon-dev/accounts/internal/config"
	"github.com/lumeon-dev/accounts/internal/handler"
	"github.com/lumeon-dev/accounts/internal/middleware"
	"github.com/lumeon-dev/accounts/internal/middleware/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New wires the HTTP surface: ops endpoints at the root, the JSON API under
// /v1 with auth gates per subtree.
func New(h *handler.Handler, authMw *middleware.Auth, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders(cfg.Public.SecureCookies))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/resend_code", h.ResendCode)
			r.Post("/confirm", h.Confirm)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Post("/forgot_password", h.ForgotPassword)
			r.Post("/reset_password", h.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(authMw.NeedAuth())
				r.Post("/change_password", h.ChangePassword)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())
			r.Get("/me", h.Me)
		})

		r.Route("/org", func(r chi.Router) {
			r.Use(authMw.OrgAdminOnly())
			r.Post("/subusers", h.CreateSubUser)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMw.AdminOnly())
			r.Get("/users", h.Users)
			r.Put("/users/{id}/block", h.BlockUser)
			r.Delete("/users/{id}/block", h.UnblockUser)
			r.Delete("/users/{id}", h.DeleteUser)
		})

		r.Route("/content", func(r chi.Router) {
			r.Get("/articles", h.GetArticles)
			r.Get("/articles/{id}", h.GetArticle)
			r.Get("/testimonials", h.GetTestimonials)

			r.Group(func(r chi.Router) {
				r.Use(authMw.AdminOnly())
				r.Post("/articles", h.CreateArticle)
				r.Put("/articles/{id}", h.UpdateArticle)
				r.Delete("/articles/{id}", h.DeleteArticle)
				r.Post("/testimonials", h.CreateTestimonial)
				r.Delete("/testimonials/{id}", h.DeleteTestimonial)
			})
		})
	})

	return r
}
