// ecosortd is the EcoSort backend: waste logging, impact aggregation,
// smart bin capacity, rewards, and vendor requests for a municipal
// waste-sorting program.
package main

import (
	"log"
	"os"

	"github.com/ecosort/ecosort/internal/admin"
	"github.com/ecosort/ecosort/internal/api"
	"github.com/ecosort/ecosort/internal/config"
	"github.com/ecosort/ecosort/internal/notify"
	"github.com/ecosort/ecosort/internal/server"
	"github.com/ecosort/ecosort/internal/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	srv := server.New(cfg)
	memStore := store.New()

	dispatcher := notify.NewDispatcher(notify.Config{
		URL:         cfg.Webhook.URL,
		Secret:      cfg.Webhook.Secret,
		Logger:      srv.Logger,
		AutoDeliver: true,
	})

	// API handlers
	apiHandler := api.NewHandler(memStore, cfg, dispatcher)
	apiHandler.Routes(srv.Router)

	// Admin control plane
	adminHandler := admin.NewHandler(memStore, srv.RequestLog(), memStore.Clock)
	adminHandler.SetFlusher(dispatcher)
	adminHandler.Routes(srv.Router)

	// Initial state: a snapshot file when configured, fixtures otherwise
	if cfg.SeedFile != "" {
		data, err := os.ReadFile(cfg.SeedFile)
		if err != nil {
			log.Fatalf("failed to read seed file: %v", err)
		}
		if err := memStore.LoadState(data); err != nil {
			log.Fatalf("failed to load seed data: %v", err)
		}
		srv.Logger.Info("loaded seed data", "file", cfg.SeedFile)
	} else {
		memStore.SeedDefaults()
	}

	srv.Logger.Info("ecosortd ready", "port", cfg.Port)

	if err := srv.Serve(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
