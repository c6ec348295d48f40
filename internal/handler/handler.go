package handler

import (
	"context"

	"github.com/lumeon-dev/accounts/internal/config"
	"github.com/lumeon-dev/accounts/internal/jwt"
	"github.com/lumeon-dev/accounts/internal/service"
)

// Pinger reports whether the backing store can serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth    service.AuthService
	content service.ContentService
	cfg     *config.Config
	jwt     *jwt.Service
	health  Pinger
}

func New(auth service.AuthService, content service.ContentService, cfg *config.Config, jwt *jwt.Service, health Pinger) *Handler {
	return &Handler{auth, content, cfg, jwt, health}
}
