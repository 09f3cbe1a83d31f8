package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"

	_ "modernc.org/sqlite"

	"bazar/internal/catalog"
	"bazar/internal/config"
	"bazar/internal/orders"
	"bazar/internal/server"
	"bazar/internal/websocket"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	dbPath := flag.String("db", "", "SQLite catalog database path (overrides config)")
	backend := flag.String("backend", "", "Dashboard backend base URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal("Config load failed:", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *backend != "" {
		cfg.BackendURL = *backend
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		log.Fatal("DB open failed:", err)
	}
	store, err := catalog.NewStore(db)
	if err != nil {
		log.Fatal("Catalog init failed:", err)
	}

	// Without a backend the local store serves the catalog; with one, the
	// store becomes its fallback cache.
	var svc catalog.Service = store
	if cfg.BackendURL != "" {
		svc = catalog.NewCached(catalog.NewHTTPService(cfg.BackendURL), store)
	}

	hub := websocket.NewHub()
	app := server.NewApp(svc, orders.NewClient(cfg.BackendURL), hub, cfg)

	log.Printf("bazar drafting service listening on :%d (catalog: %s)", cfg.Port, svc.Name())
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), app.Routes()))
}
