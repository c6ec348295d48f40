package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/lumeon-dev/accounts/internal/config"
	"github.com/lumeon-dev/accounts/internal/email"
	"github.com/lumeon-dev/accounts/internal/handler"
	"github.com/lumeon-dev/accounts/internal/jwt"
	"github.com/lumeon-dev/accounts/internal/logger"
	"github.com/lumeon-dev/accounts/internal/middleware"
	"github.com/lumeon-dev/accounts/internal/router"
	"github.com/lumeon-dev/accounts/internal/service"
	"github.com/lumeon-dev/accounts/internal/storage/pg"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	storage, err := pg.New(&cfg.Private.Pg)
	if err != nil {
		logger.Log.Error("failed to set up storage", "error", err)
		os.Exit(1)
	}
	defer storage.Cleanup()

	sender := email.New(&cfg.Private.Email)
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL(), cfg.Public.CookieDomain, cfg.Public.SecureCookies)

	auth := service.NewAuth(storage, sender, jwtService, cfg)
	content := service.NewContent(storage)

	h := handler.New(auth, content, cfg, jwtService, storage)
	authMw := middleware.NewAuth(jwtService, auth)
	r := router.New(h, authMw, cfg)

	addr := fmt.Sprintf(":%d", cfg.Public.Port)
	logger.Log.Info("server started", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
