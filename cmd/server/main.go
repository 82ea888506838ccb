package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"topodash/internal/access"
	"topodash/internal/apiclient"
	"topodash/internal/config"
	"topodash/internal/database"
	"topodash/internal/handlers"
	"topodash/internal/logger"
	"topodash/internal/server"
)

func main() {
	cfg := config.Load()

	lg, err := logger.New(logger.Config{Level: cfg.LogLevel, Environment: cfg.Environment, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var trail *database.Trail
	if cfg.DBDSN != "" {
		db, err := database.Open(cfg.DBDSN, lg)
		if err != nil {
			lg.Error("failed to connect to audit database", "error", err)
			os.Exit(1)
		}
		trail = database.NewTrail(db, lg)
	} else {
		lg.Warn("DB_DSN is not set, audit trail disabled")
	}

	routes := access.Default()
	h := handlers.New(handlers.Options{
		API:      apiclient.New(cfg.APIBaseURL, nil, lg),
		Trail:    trail,
		Routes:   routes,
		Log:      lg,
		PageSize: cfg.DefaultPageSize,
	})

	r, err := server.NewRouter(server.Deps{Config: cfg, Handlers: h, Routes: routes, Log: lg})
	if err != nil {
		lg.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	lg.Info("starting server", "addr", addr, "api", cfg.APIBaseURL, "env", cfg.Environment)
	if err := r.Run(addr); err != nil {
		lg.Error("server error", "error", err)
		os.Exit(1)
	}
}
