package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/raysh454/configlens/internal/app"
	"github.com/raysh454/configlens/internal/ignore"
	"github.com/raysh454/configlens/internal/logging"
	"github.com/raysh454/configlens/internal/settings"
	"github.com/raysh454/configlens/internal/store"

	_ "modernc.org/sqlite" // SQLite driver
)

// Server is the HTTP + WebSocket API surface for config-lens.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	router       chi.Router
	upgrader     websocket.Upgrader
	logger       logging.Logger
	historyDB    *sql.DB
}

// NewServer creates a new Server with its own Orchestrator.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	var (
		historyDB *sql.DB
		history   *store.Store
	)
	if cfg.AppConfig.HistoryPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.AppConfig.HistoryPath), 0o755); err != nil {
			logger.Warn("creating history directory",
				logging.Field{Key: "path", Value: cfg.AppConfig.HistoryPath},
				logging.Field{Key: "error", Value: err.Error()})
		}
		db, err := sql.Open("sqlite", cfg.AppConfig.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("opening history database: %w", err)
		}
		st, err := store.NewStore(db, logger)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("creating history store: %w", err)
		}
		historyDB = db
		history = st
	}

	settingsPath := cfg.AppConfig.SettingsPath
	if settingsPath == "" {
		if p, err := settings.DefaultPath(); err == nil {
			settingsPath = p
		}
	}
	ignores := ignore.NewManager(settings.Load(settingsPath))

	orch := app.NewOrchestrator(cfg.AppConfig, history, ignores, logger)

	r := chi.NewRouter()
	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		router:       r,
		logger:       logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
		historyDB: historyDB,
	}

	s.routes()
	return s, nil
}

// Orchestrator returns the underlying orchestrator for advanced use (tests, etc.).
func (s *Server) Orchestrator() *app.Orchestrator {
	return s.orchestrator
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/compare", s.optionsHandler("POST"))
	r.Options("/validate", s.optionsHandler("POST"))
	r.Options("/runs", s.optionsHandler("GET"))
	r.Options("/runs/{runID}", s.optionsHandler("GET, DELETE"))
	r.Options("/platforms", s.optionsHandler("GET"))
	r.Options("/ws/compare", s.optionsHandler("GET"))

	// Comparison and validation
	r.Post("/compare", s.handleCompare)
	r.Post("/validate", s.handleValidate)

	// History
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{runID}", s.handleGetRun)
	r.Delete("/runs/{runID}", s.handleDeleteRun)

	// Platforms
	r.Get("/platforms", s.handleListPlatforms)

	// WebSocket row streaming
	r.Get("/ws/compare", s.handleCompareWS)

	// API docs
	r.Get("/swagger/*", httpSwagger.WrapHandler)
}

// ServeHTTP makes the Server usable with httptest and custom http.Servers.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the API server on the configured address.
func (s *Server) ListenAndServe() error {
	addr := s.cfg.ServerAddr
	if addr == "" {
		addr = s.cfg.AppConfig.ServerAddr
	}
	s.logger.Info("api server listening", logging.Field{Key: "addr", Value: addr})
	return http.ListenAndServe(addr, s.router)
}

// Close releases the history database, if any.
func (s *Server) Close() error {
	if s.historyDB != nil {
		return s.historyDB.Close()
	}
	return nil
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}
