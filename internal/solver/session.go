// internal/solver/session.go
//
// A Session is one solving loop: suggest a guess, receive its clue, filter, repeat.
// Rounds are strictly sequential; the mutex keeps a filter from overlapping a
// selection when the session is shared (e.g. behind the HTTP API).
//
// State transitions:
//   - playing → solved        when exactly one candidate remains
//   - playing → inconsistent  when filtering empties the candidate set

package solver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/nerdle/internal/game"
	"github.com/robalobadob/nerdle/internal/words"
)

// State is the coarse status of a session.
type State string

const (
	StatePlaying      State = "playing"
	StateSolved       State = "solved"
	StateInconsistent State = "inconsistent"
)

// Round records one applied (guess, clue) pair.
type Round struct {
	Guess     string `json:"guess"`
	Clue      string `json:"clue"`
	Remaining int    `json:"remaining"`
}

// Session holds the candidate set of one solving loop.
type Session struct {
	ID string

	mu         sync.Mutex
	universe   *words.Universe
	candidates *words.Set
	rounds     []Round
	state      State
	opts       Options
}

// NewSession starts a session over universe. pool, when non-nil, is the initial
// candidate set (a known-solution pool); otherwise the whole universe is used.
// The pool is cloned; the caller's set is never mutated.
func NewSession(id string, universe *words.Universe, pool *words.Set, opts Options) (*Session, error) {
	if pool == nil {
		pool = universe.All()
	} else if pool.Universe() != universe {
		return nil, ErrForeignSet
	}
	s := &Session{
		ID:         id,
		universe:   universe,
		candidates: pool.Clone(),
		state:      StatePlaying,
		opts:       opts,
	}
	switch s.candidates.Len() {
	case 0:
		s.state = StateInconsistent
	case 1:
		s.state = StateSolved
	}
	sessionsStarted.Inc()
	return s, nil
}

// Suggest returns the best next guess for the current candidates.
func (s *Session) Suggest(ctx context.Context) (Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateInconsistent {
		return Score{}, ErrNoCandidates
	}
	return SelectGuess(ctx, s.universe, s.candidates, s.opts)
}

// Apply filters the candidates by an observed clue for guess and returns the new state.
// An all-exact clue leaves only the guess itself, which solves the session. When the
// clues contradict each other the state becomes StateInconsistent and ErrNoCandidates
// is returned.
func (s *Session) Apply(guess string, clue game.Clue) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateInconsistent {
		return s.state, ErrNoCandidates
	}

	removed, err := Filter(s.candidates, guess, clue)
	if err != nil && !errors.Is(err, ErrNoCandidates) {
		return s.state, fmt.Errorf("apply %s: %w", guess, err)
	}
	s.rounds = append(s.rounds, Round{Guess: guess, Clue: clue.String(), Remaining: s.candidates.Len()})

	switch {
	case errors.Is(err, ErrNoCandidates):
		s.state = StateInconsistent
	case s.candidates.Len() == 1:
		s.state = StateSolved
	}
	log.Debug().Str("session", s.ID).Str("guess", guess).Str("clue", clue.String()).
		Int("removed", removed).Int("remaining", s.candidates.Len()).Str("state", string(s.state)).
		Msg("applied clue")
	return s.state, err
}

// State reports the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining returns the number of candidates left.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidates.Len()
}

// Candidates returns up to limit remaining candidates in sorted order (all if limit <= 0).
func (s *Session) Candidates(limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []string{}
	s.candidates.Each(func(_ int, w string) bool {
		out = append(out, w)
		return limit <= 0 || len(out) < limit
	})
	return out
}

// Solution returns the answer once the session is solved.
func (s *Session) Solution() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSolved {
		return "", false
	}
	var answer string
	s.candidates.Each(func(_ int, w string) bool {
		answer = w
		return false
	})
	return answer, answer != ""
}

// Rounds returns a copy of the applied rounds.
func (s *Session) Rounds() []Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Round(nil), s.rounds...)
}

// Universe returns the session's universe.
func (s *Session) Universe() *words.Universe { return s.universe }
