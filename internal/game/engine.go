// internal/game/engine.go
//
// Clue computation and the local judge.
// Responsibilities:
//   - Score a guess against a goal with the two-pass, duplicate-safe algorithm.
//   - Expose the sentinel-consumption step (FirstUnused) so the candidate filter
//     consumes goal symbols exactly the way scoring does.
//   - Judge a game: validate guesses, record clues, track playing → won/lost.
//
// Notes:
//   - Pattern is the allocation-free form used by the optimizer's inner loop; Compare
//     wraps it. Both panic on a length mismatch: that is a caller bug, not input.

package game

import (
	"errors"
	"fmt"
)

// MaxLength bounds equation length so a consumed-position mask fits in a uint32 and a
// clue code fits in a uint32 (3^20 < 2^32).
const MaxLength = 20

const defaultRows = 6

var (
	ErrFinished     = errors.New("game finished")
	ErrGuessLength  = errors.New("guess has the wrong length")
	ErrNotAllowed   = errors.New("not a valid equation")
	ErrAnswerLength = errors.New("answer length out of range")
)

// FirstUnused returns the first index j with src[j] == c whose bit in used is clear,
// or -1. Setting bit j afterwards "consumes" that occurrence.
func FirstUnused(src string, c byte, used uint32) int {
	for j := 0; j < len(src); j++ {
		if src[j] == c && used&(1<<j) == 0 {
			return j
		}
	}
	return -1
}

// Compare scores guess against goal.
//
// Pass 1 marks exact positions and consumes them in goal.
// Pass 2 resolves the remaining positions left to right: the first unconsumed goal
// occurrence of the guess symbol makes it Present (and is consumed); otherwise Absent.
func Compare(goal, guess string) Clue {
	return DecodeClue(Pattern(goal, guess), len(guess))
}

// Pattern returns Compare(goal, guess).Code() without allocating.
func Pattern(goal, guess string) uint32 {
	n := len(guess)
	if len(goal) != n || n > MaxLength {
		panic(fmt.Sprintf("game: compare %q against %q: length mismatch", guess, goal))
	}

	var used, exact uint32
	for i := 0; i < n; i++ {
		if guess[i] == goal[i] {
			exact |= 1 << i
			used |= 1 << i
		}
	}

	var code, scale uint32 = 0, 1
	for i := 0; i < n; i++ {
		m := MarkAbsent
		if exact&(1<<i) != 0 {
			m = MarkExact
		} else if j := FirstUnused(goal, guess[i], used); j >= 0 {
			m = MarkPresent
			used |= 1 << j
		}
		code += uint32(m) * scale
		scale *= 3
	}
	return code
}

// New constructs a judged game for answer.
// isAllowed, when non-nil, restricts guesses to legal equations.
func New(answer string, isAllowed func(string) bool) (*Game, error) {
	if len(answer) == 0 || len(answer) > MaxLength {
		return nil, fmt.Errorf("%w: %d", ErrAnswerLength, len(answer))
	}
	g := &Game{
		Answer:  answer,
		Rows:    defaultRows,
		Cols:    len(answer),
		Guesses: []string{},
	}
	g.allowed = isAllowed
	return g, nil
}

// ApplyGuess validates and scores a guess, mutating the game state.
// Returns the clue, the new state, or an error.
//
// State transitions:
//   - All positions exact → Finished, Won.
//   - Else if the number of guesses reaches g.Rows → Finished (loss).
func (g *Game) ApplyGuess(guess string) (Clue, State, error) {
	if g.Finished {
		return nil, g.State(), ErrFinished
	}
	if len(guess) != g.Cols {
		return nil, g.State(), ErrGuessLength
	}
	if g.allowed != nil && !g.allowed(guess) {
		return nil, g.State(), ErrNotAllowed
	}

	clue := Compare(g.Answer, guess)
	g.Guesses = append(g.Guesses, guess)
	g.Clues = append(g.Clues, clue)

	if clue.Solved() {
		g.Finished, g.Won = true, true
	} else if len(g.Guesses) >= g.Rows {
		g.Finished = true
	}
	return clue, g.State(), nil
}

// State reports the current game state.
func (g *Game) State() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}
