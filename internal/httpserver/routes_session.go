// internal/httpserver/routes_session.go
//
// Solving sessions over HTTP:
//   - POST   /sessions      → start a session (optionally from a named pool); returns a JWT
//   - GET    /session       → state, remaining count, a sample of candidates, rounds
//   - GET    /session/guess → the optimizer's next guess
//   - POST   /session/clue  → apply an observed clue for a guess
//   - DELETE /session       → forget the session
//
// The JWT only carries the session id ("sid"); the candidates stay server-side.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/nerdle/internal/game"
	"github.com/robalobadob/nerdle/internal/solver"
	"github.com/robalobadob/nerdle/internal/store"
)

// candidateSample caps the candidates listed by GET /session.
const candidateSample = 20

// ctxSessionKey is the context key type for the resolved *solver.Session.
type ctxSessionKey struct{}

// mountSessions registers the session routes.
func (s *Server) mountSessions() {
	s.r.Post("/sessions", s.handleNewSession)
	s.r.Route("/session", func(r chi.Router) {
		r.Use(s.requireSession())
		r.Get("/", s.handleSessionState)
		r.Get("/guess", s.handleSessionGuess)
		r.Post("/clue", s.handleSessionClue)
		r.Delete("/", s.handleSessionDelete)
	})
}

type newSessionReq struct {
	Pool string `json:"pool"`
}
type newSessionRes struct {
	Token     string       `json:"token"`
	ID        string       `json:"id"`
	State     solver.State `json:"state"`
	Remaining int          `json:"remaining"`
}

// handleNewSession starts a solving session. An empty body starts from the whole universe.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}

	pool := s.universe.All()
	if req.Pool != "" {
		if s.pools == nil {
			writeError(w, http.StatusNotFound, "pool_not_found")
			return
		}
		p, err := s.pools.LoadPool(r.Context(), req.Pool, s.universe)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "pool_not_found")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("pool", req.Pool).Msg("load pool")
			writeError(w, http.StatusInternalServerError, "pool_failed")
			return
		}
		pool = p
	}

	sess, err := solver.NewSession(genID(), s.universe, pool, s.sessionOptions())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "session_failed")
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.signJWT(sess.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "token_failed")
		return
	}
	s.setSessionCookie(w, r, tok, exp)
	log.Info().Str("session", sess.ID).Str("pool", req.Pool).Int("remaining", sess.Remaining()).Msg("session started")

	writeJSON(w, http.StatusCreated, newSessionRes{Token: tok, ID: sess.ID, State: sess.State(), Remaining: sess.Remaining()})
}

type sessionRes struct {
	ID         string         `json:"id"`
	State      solver.State   `json:"state"`
	Remaining  int            `json:"remaining"`
	Candidates []string       `json:"candidates"`
	Solution   string         `json:"solution,omitempty"`
	Rounds     []solver.Round `json:"rounds"`
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	res := sessionRes{
		ID:         sess.ID,
		State:      sess.State(),
		Remaining:  sess.Remaining(),
		Candidates: sess.Candidates(candidateSample),
		Rounds:     sess.Rounds(),
	}
	res.Solution, _ = sess.Solution()
	writeJSON(w, http.StatusOK, res)
}

// handleSessionGuess runs the optimizer under the request context, so the
// Timeout middleware also bounds the scan.
func (s *Server) handleSessionGuess(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	score, err := sess.Suggest(r.Context())
	switch {
	case errors.Is(err, solver.ErrNoCandidates):
		writeJSON(w, http.StatusConflict, map[string]any{"error": "no_candidates", "state": solver.StateInconsistent})
		return
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// chimw.Timeout writes 504 on deadline; a cancelled client gets nothing
		log.Debug().Err(err).Str("session", sess.ID).Msg("suggest abandoned")
		return
	case err != nil:
		log.Error().Err(err).Str("session", sess.ID).Msg("suggest")
		writeError(w, http.StatusInternalServerError, "suggest_failed")
		return
	}
	writeJSON(w, http.StatusOK, score)
}

type sessionClueReq struct {
	Guess string `json:"guess"`
	Clue  string `json:"clue"`
}
type sessionClueRes struct {
	State     solver.State `json:"state"`
	Remaining int          `json:"remaining"`
	Solution  string       `json:"solution,omitempty"`
}

// handleSessionClue applies a clue. The clue string uses ' ', 'Y' and 'G' per position.
func (s *Server) handleSessionClue(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	var req sessionClueReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	clue, err := game.ParseClue(req.Clue, s.universe.Length())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_clue")
		return
	}

	state, err := sess.Apply(req.Guess, clue)
	switch {
	case errors.Is(err, solver.ErrNoCandidates):
		writeJSON(w, http.StatusConflict, sessionClueRes{State: state})
		return
	case errors.Is(err, solver.ErrLengthMismatch):
		writeError(w, http.StatusBadRequest, "length_mismatch")
		return
	case err != nil:
		log.Error().Err(err).Str("session", sess.ID).Msg("apply clue")
		writeError(w, http.StatusInternalServerError, "apply_failed")
		return
	}
	res := sessionClueRes{State: state, Remaining: sess.Remaining()}
	res.Solution, _ = sess.Solution()
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	s.clearSessionCookie(w, r)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT carrying the session id with the configured expiry.
func (s *Server) signJWT(sid string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.JWTExpires)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseJWT validates tok and returns its session id.
func (s *Server) parseJWT(tok string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return sid, nil
}

// setSessionCookie writes the session token cookie.
func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

// clearSessionCookie deletes the session token cookie.
func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a bearer token from the Authorization header or the session cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// requireSession enforces a valid session JWT and injects the session into the request context.
func (s *Server) requireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := s.bearerOrCookie(r)
			if tok == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			sid, err := s.parseJWT(tok)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			// the token may outlive the session (restart or DELETE)
			sess, err := s.store.Get(r.Context(), sid)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentSession returns the session injected by requireSession.
func currentSession(r *http.Request) *solver.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*solver.Session)
	return sess
}
