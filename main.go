package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"

	"doform/internal/auth"
	"doform/internal/config"
	"doform/internal/handlers/admin"
	dohandler "doform/internal/handlers/do"
	"doform/internal/render"
	"doform/internal/server"
	"doform/internal/store"
	"doform/internal/websocket"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	storeRoot := flag.String("store", "", "Record store root directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Config load failed: ", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *storeRoot != "" {
		cfg.StoreRoot = *storeRoot
	}

	db, err := auth.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("DB init failed: ", err)
	}
	if err := auth.Bootstrap(db, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatal("Admin bootstrap failed: ", err)
	}

	recordStore := store.New(cfg.StoreRoot)
	var renderer render.Renderer = render.Noop{}
	if cfg.Renderer == config.RendererExcel {
		renderer = render.NewExcel(cfg.StoreRoot)
	}

	hub := websocket.NewHub()
	doH := dohandler.New(recordStore, renderer, hub, cfg)
	adminH := admin.New(db)

	mux := http.NewServeMux()

	// Static files (form UI, when deployed alongside)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "static/index.html")
	})

	// Auth routes
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" {
			adminH.Login(w, r)
		} else {
			http.Error(w, "Method not allowed", 405)
		}
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" {
			adminH.Logout(w, r)
		} else {
			http.Error(w, "Method not allowed", 405)
		}
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		adminH.Me(w, r)
	})

	// Live updates
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r)
	})

	// API routes - using a simple router
	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := strings.TrimPrefix(r.URL.Path, "/api/v1/")
		path = strings.TrimSuffix(path, "/")
		parts := strings.Split(path, "/")

		switch {
		case path == "dos" && r.Method == "GET":
			doH.List(w, r)
		case path == "dos" && r.Method == "POST":
			doH.Submit(w, r)
		case path == "dos/next-number" && r.Method == "GET":
			doH.NextNumber(w, r)
		case path == "dos/template" && r.Method == "GET":
			doH.Template(w, r)
		case path == "dos/export" && r.Method == "GET":
			doH.Export(w, r)
		case len(parts) == 3 && parts[0] == "dos" && parts[2] == "document" && r.Method == "GET":
			doH.Document(w, r, parts[1])
		case path == "config" && r.Method == "GET":
			doH.Config(w, r)
		default:
			http.Error(w, `{"error":"not found"}`, 404)
		}
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("doform server starting on http://localhost%s", addr)
	log.Fatal(http.ListenAndServe(addr, server.Logging(server.RequireAuth(db)(mux))))
}
