// internal/httpserver/server.go
//
// HTTP server wiring for the Nerdle solver.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics", POST /clue.
//   - Solving sessions: POST /sessions, then /session/* guarded by a session JWT.
//   - Daily equation endpoints: mounted under /daily.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the session cookie works).
//   - Sessions live in the Store only; restarting the server forgets them.

package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/nerdle/internal/config"
	"github.com/robalobadob/nerdle/internal/game"
	"github.com/robalobadob/nerdle/internal/solver"
	"github.com/robalobadob/nerdle/internal/store"
	"github.com/robalobadob/nerdle/internal/words"
)

const defaultTimeout = 2 * time.Minute

// PoolSource resolves named known-solution pools. *store.Cache satisfies it.
type PoolSource interface {
	LoadPool(ctx context.Context, name string, u *words.Universe) (*words.Set, error)
}

// Server bundles router, session store and the equation universe.
type Server struct {
	r        *chi.Mux
	store    store.Store
	universe *words.Universe
	pools    PoolSource
	cfg      config.Config
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
// pools may be nil, in which case named pools are rejected.
func New(st store.Store, u *words.Universe, pools PoolSource, cfg config.Config) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	s := &Server{r: chi.NewRouter(), store: st, universe: u, pools: pools, cfg: cfg, now: time.Now}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                   // add X-Request-ID
	s.r.Use(chimw.RealIP)                      // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                   // recover from panics
	s.r.Use(chimw.Timeout(cfg.RequestTimeout)) // bound handler time (guess selection honours ctx)
	s.r.Use(jsonContentType)                   // default JSON responses
	s.r.Use(s.cors)                            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "nerdle-go",
			"endpoints": []string{"/health", "/metrics", "POST /clue", "POST /sessions",
				"GET /session", "GET /session/guess", "POST /session/clue", "/daily"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "length": u.Length(), "equations": u.Len()})
	})
	s.r.Handle("/metrics", promhttp.Handler())

	s.r.Post("/clue", s.handleClue)

	s.mountSessions()
	s.mountDaily()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ CLUE ---------------------------------------

type clueReq struct {
	Goal  string `json:"goal"`
	Guess string `json:"guess"`
}
type clueRes struct {
	Clue   string `json:"clue"`
	Code   uint32 `json:"code"`
	Solved bool   `json:"solved"`
}

// handleClue computes the clue for a guess against a known goal. Any two strings of
// equal length are accepted; neither has to be a valid equation.
func (s *Server) handleClue(w http.ResponseWriter, r *http.Request) {
	var req clueReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if len(req.Goal) == 0 || len(req.Goal) != len(req.Guess) || len(req.Goal) > game.MaxLength {
		writeError(w, http.StatusBadRequest, "length_mismatch")
		return
	}
	clue := game.Compare(req.Goal, req.Guess)
	writeJSON(w, http.StatusOK, clueRes{Clue: clue.String(), Code: clue.Code(), Solved: clue.Solved()})
}

// ------------------------------- small util --------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError writes {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// sessionOptions returns the solver options shared by all sessions.
func (s *Server) sessionOptions() solver.Options {
	return solver.Options{Workers: s.cfg.Workers}
}
