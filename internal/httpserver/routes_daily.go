// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily equation:
//   - GET  /daily       → today's date key and equation length
//   - POST /daily/guess → judge a guess against today's equation
//
// The target is picked deterministically from the universe by date + salt, so every
// server with the same salt and length agrees on it. Nothing is persisted.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/nerdle/internal/daily"
	"github.com/robalobadob/nerdle/internal/game"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily() {
	s.r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyInfo)
		r.Post("/guess", s.handleDailyGuess)
	})
}

type dailyInfoRes struct {
	Date   string `json:"date"`
	Length int    `json:"length"`
}

func (s *Server) handleDailyInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dailyInfoRes{Date: daily.DateKey(s.now()), Length: s.universe.Length()})
}

type dailyGuessReq struct {
	Guess string `json:"guess"`
}
type dailyGuessRes struct {
	Date   string `json:"date"`
	Clue   string `json:"clue"`
	Solved bool   `json:"solved"`
}

// handleDailyGuess validates the guess against the universe and scores it.
func (s *Server) handleDailyGuess(w http.ResponseWriter, r *http.Request) {
	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if len(p.Guess) != s.universe.Length() {
		writeError(w, http.StatusBadRequest, "length_mismatch")
		return
	}
	if !s.universe.Contains(p.Guess) {
		writeError(w, http.StatusBadRequest, "not_an_equation")
		return
	}

	now := s.now()
	target := daily.Target(now, s.cfg.DailySalt, s.universe, nil)
	clue := game.Compare(target, p.Guess)
	writeJSON(w, http.StatusOK, dailyGuessRes{Date: daily.DateKey(now), Clue: clue.String(), Solved: clue.Solved()})
}
