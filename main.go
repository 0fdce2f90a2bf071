package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"gomoku/internal/storage"
)

// noCacheMiddleware adds cache-busting headers for JS/CSS files
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Apply no-cache headers to JS and CSS files to prevent stale code
		if strings.HasSuffix(r.URL.Path, ".js") || strings.HasSuffix(r.URL.Path, ".css") {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	dbPath := getEnv("GAMES_DB_PATH", "../data/games.db")
	store, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("failed to open replay store: %v", err)
	}
	defer store.Close()

	hub := newHub(store)
	go hub.run()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, false)
	})
	http.HandleFunc("/ws/worker", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, true)
	})
	http.HandleFunc("/api/decide", decideHandler)

	// Determine static files directory
	// In Docker: files are in /app
	// In development: files are in parent directory ../
	staticDir := "../"
	if _, err := os.Stat("/app/index.html"); err == nil {
		staticDir = "/app"
	}

	// Serve static files with no-cache headers to prevent browser caching issues
	fs := http.FileServer(http.Dir(staticDir))
	http.Handle("/", noCacheMiddleware(fs))

	log.Println("Server starting on :8080")
	log.Printf("Serving static files from: %s", staticDir)
	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
