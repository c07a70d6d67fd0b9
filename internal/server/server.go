package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/rasterize"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/tailoring"
	"github.com/jonathan/resume-builder/internal/types"
)

// ResumeStore persists saved resumes. *db.DB implements it.
type ResumeStore interface {
	SaveResume(ctx context.Context, input *db.ResumeCreateInput) (*db.Resume, error)
	GetResume(ctx context.Context, id uuid.UUID) (*db.Resume, error)
	UpdateResume(ctx context.Context, id uuid.UUID, title string, doc types.ResumeDocument) error
	ListResumes(ctx context.Context, userID string, limit int) ([]db.ResumeSummary, error)
}

// JobDescriber resolves a job posting URL to its text. *fetch.JobFetcher implements it.
type JobDescriber interface {
	JobDescription(ctx context.Context, url string) (*fetch.JobPosting, error)
}

// Options holds the collaborators of a server. Nil collaborators disable the routes that
// need them with 503 responses; a nil RateLimit disables rate limiting.
type Options struct {
	Addr           string
	LLM            llm.Client
	Exporter       *export.Service
	Resumes        ResumeStore
	Jobs           JobDescriber
	SessionTTL     time.Duration
	MaxUploadBytes int64
	RateLimit      *ratelimit.Config
	Verbose        bool
}

// DefaultMaxUploadBytes bounds uploaded resumes and request bodies.
const DefaultMaxUploadBytes = 10 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	llm         llm.Client
	tailorer    *tailoring.Tailorer
	exporter    *export.Service
	resumes     ResumeStore
	jobs        JobDescriber
	sessions    *SessionStore
	rateLimiter *ratelimit.Limiter
	maxUpload   int64
	verbose     bool
	stop        chan struct{}
}

// New builds a server from environment settings: it connects the database, the model client,
// the artifact store and the job posting fetcher that cfg enables.
func New(ctx context.Context, cfg config.ServerConfig) (*Server, error) {
	opts := Options{
		Addr:           cfg.Addr,
		SessionTTL:     cfg.SessionTTL,
		MaxUploadBytes: cfg.MaxUploadBytes,
		RateLimit:      ratelimit.NewConfig(cfg.RateLimit, cfg.RateBurst, cfg.RateWhitelist),
	}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
		opts.Resumes = database
	}

	if cfg.APIKey != "" {
		llmConfig := llm.DefaultConfig()
		if cfg.Model != "" {
			llmConfig = llmConfig.Pin(cfg.Model, llm.TierAdvanced)
		}
		client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
		if err != nil {
			if database != nil {
				database.Close()
			}
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		opts.LLM = client
	} else {
		log.Printf("[SERVER] GEMINI_API_KEY not set: tailoring, import and rating are disabled")
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		if database != nil {
			database.Close()
		}
		return nil, err
	}
	opts.Exporter = &export.Service{
		Rasterizer: rasterize.Chrome{ExecPath: cfg.ChromePath},
		Store:      store,
	}

	fetcher := &fetch.JobFetcher{}
	if database != nil {
		fetcher.Cache = database
	}
	if cfg.UseBrowser {
		fetcher.Browser = fetch.Browser{}
	}
	opts.Jobs = fetcher

	s := NewWithOptions(opts)
	s.db = database
	return s, nil
}

func newStore(ctx context.Context, cfg config.ServerConfig) (storage.Store, error) {
	switch {
	case cfg.S3Bucket != "":
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Prefix:    cfg.S3Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 store: %w", err)
		}
		return store, nil
	case cfg.StorageDir != "":
		return storage.NewFileStore(cfg.StorageDir), nil
	default:
		return nil, nil
	}
}

// NewWithOptions creates a server around the given collaborators.
func NewWithOptions(opts Options) *Server {
	s := &Server{
		llm:       opts.LLM,
		exporter:  opts.Exporter,
		resumes:   opts.Resumes,
		jobs:      opts.Jobs,
		sessions:  NewSessionStore(opts.SessionTTL),
		maxUpload: opts.MaxUploadBytes,
		verbose:   opts.Verbose,
		stop:      make(chan struct{}),
	}
	if s.exporter == nil {
		s.exporter = &export.Service{}
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUploadBytes
	}
	if s.llm != nil {
		s.tailorer = tailoring.NewTailorer(s.llm)
		s.tailorer.Verbose = opts.Verbose
	}

	// Initialize rate limiter
	limits := opts.RateLimit
	if limits == nil {
		limits = &ratelimit.Config{Enabled: false}
	}
	s.rateLimiter = ratelimit.NewLimiter(limits)

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /validate", s.handleValidate)

	// Editing sessions
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("PUT /sessions/{id}/resume", s.handleReplaceResume)
	mux.HandleFunc("PATCH /sessions/{id}/fields", s.handleUpdateFields)
	mux.HandleFunc("POST /sessions/{id}/sections/{section}/items", s.handleAddItem)
	mux.HandleFunc("DELETE /sessions/{id}/sections/{section}/items/{index}", s.handleRemoveItem)
	mux.HandleFunc("POST /sessions/{id}/sections/{section}/items/{index}/tasks", s.handleAddTask)
	mux.HandleFunc("DELETE /sessions/{id}/sections/{section}/items/{index}/tasks/{task}", s.handleRemoveTask)

	// Tailoring
	mux.HandleFunc("POST /sessions/{id}/tailor", s.handleTailor)
	mux.HandleFunc("POST /sessions/{id}/regenerate", s.handleRegenerate)
	mux.HandleFunc("POST /sessions/{id}/reset", s.handleReset)

	// Exports and persistence
	mux.HandleFunc("GET /sessions/{id}/export/docx", s.handleExportDOCX)
	mux.HandleFunc("GET /sessions/{id}/export/pdf", s.handleExportPDF)
	mux.HandleFunc("POST /sessions/{id}/save", s.handleSave)
	mux.HandleFunc("GET /resumes", s.handleListResumes)

	// Uploads
	mux.HandleFunc("POST /import", s.handleImport)
	mux.HandleFunc("POST /rate", s.handleRate)

	addr := opts.Addr
	if addr == "" {
		addr = ":8080"
	}

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.withBodyLimit(mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for model calls and PDF capture
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Sessions returns the session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go s.sweepSessions()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[SERVER] starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("[SERVER] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("[SERVER] stopped")
	return nil
}

// Close releases background workers, the model client and the database pool.
func (s *Server) Close() {
	select {
	case <-s.stop:
		return
	default:
		close(s.stop)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llm != nil {
		if err := s.llm.Close(); err != nil {
			log.Printf("[SERVER] closing LLM client: %v", err)
		}
	}
	if s.db != nil {
		s.db.Close()
	}
}

// sweepSessions drops expired sessions until the server is closed.
func (s *Server) sweepSessions() {
	interval := s.sessions.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 && s.verbose {
				log.Printf("[SERVER] expired %d sessions", n)
			}
		case <-s.stop:
			return
		}
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withBodyLimit caps request bodies at the upload limit
func (s *Server) withBodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[SERVER] %s %s %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
		"llm":      s.llm != nil,
		"database": s.resumes != nil,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[SERVER] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status code and a client-safe message. Server-side failures are
// logged with their cause.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[SERVER] %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	s.errorResponse(w, status, PublicMessage(err))
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
