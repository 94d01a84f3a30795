// Package server provides the HTTP REST API for the CV tailoring service.
// The server holds no per-client state: the interactive skill-gap
// questionnaire travels in a signed session token the client sends back with
// each request.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noor/cv-tailor/internal/config"
	"github.com/noor/cv-tailor/internal/gapsession"
	"github.com/noor/cv-tailor/internal/store"
	"github.com/noor/cv-tailor/internal/tailoring"
)

// Tailor is the part of the tailoring engine the server uses.
type Tailor interface {
	Generate(ctx context.Context, jobDescription string, addSkills []string) (*tailoring.Result, error)
	GenerateWithAnswers(ctx context.Context, jobDescription string, answers map[string]gapsession.Answer) (*tailoring.Result, error)
	MergeSkills(cvHTML string, names []string, category string) (string, []string, error)
}

// PDFRenderer converts CV markup to PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, cvHTML string) ([]byte, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	engine     Tailor
	store      *store.Store
	pdf        PDFRenderer
	sessions   *config.SessionConfig
	validate   *validator.Validate
}

// Config holds server configuration
type Config struct {
	ListenAddr string
}

// New creates a new server instance. All dependencies are passed in
// explicitly; nothing is constructed lazily.
func New(cfg Config, engine Tailor, st *store.Store, pdfRenderer PDFRenderer, sessions *config.SessionConfig) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("tailoring engine is required")
	}
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session config is required")
	}

	s := &Server{
		engine:   engine,
		store:    st,
		pdf:      pdfRenderer,
		sessions: sessions,
		validate: validator.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Generation and the interactive questionnaire
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /session/answer", s.handleSessionAnswer)
	mux.HandleFunc("POST /session/previous", s.handleSessionPrevious)
	mux.HandleFunc("POST /session/finalize", s.handleSessionFinalize)

	// Saved applications
	mux.HandleFunc("GET /applications", s.handleListApplications)
	mux.HandleFunc("GET /applications/{id}", s.handleGetApplication)
	mux.HandleFunc("GET /applications/{id}/pdf", s.handleApplicationPDF)
	mux.HandleFunc("POST /applications/{id}/skills", s.handleAddSkills)

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // model calls and PDF renders are slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler exposes the configured routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps a typed error onto a status code and writes it.
func (s *Server) handleError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}
	s.errorResponse(w, status, err.Error())
}

// decodeRequest decodes and validates a JSON request body.
func (s *Server) decodeRequest(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validate.Struct(dst); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			return &ErrValidation{
				Field:   fieldErrs[0].Field(),
				Message: fmt.Sprintf("failed on the %q rule", fieldErrs[0].Tag()),
			}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}
