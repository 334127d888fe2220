package web

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hpungsan/pagelog/internal/config"
)

// NewServer creates and configures the HTTP server for the pagelog JSON API.
// The handlers are thin pass-throughs to the ops layer; all semantics live
// there.
func NewServer(db *sql.DB, cfg *config.Config, bind string, port int) *http.Server {
	h := &Handlers{
		db:  db,
		cfg: cfg,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("POST /entries", h.HandleCreate)
	mux.HandleFunc("GET /entries", h.HandleList)
	mux.HandleFunc("GET /entries/{id}", h.HandleGet)
	mux.HandleFunc("PATCH /entries/{id}", h.HandleUpdate)
	mux.HandleFunc("DELETE /entries/{id}", h.HandleDelete)
	mux.HandleFunc("POST /entries/{id}/attachments", h.HandleAttachmentAdd)
	mux.HandleFunc("GET /attachments/{id}", h.HandleAttachmentGet)
	mux.HandleFunc("DELETE /attachments/{id}", h.HandleAttachmentDelete)
	mux.HandleFunc("GET /count", h.HandleCount)
	mux.HandleFunc("GET /export.json", h.HandleExportJSON)
	mux.HandleFunc("GET /export.md", h.HandleExportMarkdown)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: securityHeaders(mux),
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("pagelog API running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
