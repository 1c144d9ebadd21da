package cmd

import (
	"github.com/studyboosters/backend/internal/app"
	"github.com/studyboosters/backend/internal/config"
	"github.com/studyboosters/backend/internal/logger"
)

// openApp loads configuration the same way the server does and connects the store.
func openApp() (*app.App, error) {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	return app.New(cfg)
}
