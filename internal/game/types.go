// internal/game/types.go
//
// Core type definitions for clues and the local judge.
// Defines:
//   - Mark: per-position result of a guess (absent/present/exact).
//   - Clue: a guess-aligned sequence of marks, with its text and base-3 forms.
//   - Game: state for a single judged game against a hidden equation.

package game

import (
	"errors"
	"fmt"
	"strings"
)

// Mark represents the evaluation result for a single position of a guess.
// The numeric values double as base-3 digits in Clue.Code.
type Mark uint8

const (
	MarkAbsent  Mark = iota // symbol does not occur in the unmatched rest of the goal
	MarkPresent             // symbol occurs elsewhere in the goal
	MarkExact               // symbol is in the right position
)

// Byte returns the clue-line character for m: ' ', 'Y' or 'G'.
func (m Mark) Byte() byte {
	switch m {
	case MarkExact:
		return 'G'
	case MarkPresent:
		return 'Y'
	default:
		return ' '
	}
}

// Clue is positional feedback comparing a guess to a goal.
type Clue []Mark

var (
	ErrClueLength = errors.New("game: clue has the wrong length")
	ErrClueChar   = errors.New("game: clue character must be ' ', 'Y' or 'G'")
)

// ParseClue reads a clue line such as "G Y  GGG". Lower-case y/g are accepted.
func ParseClue(s string, length int) (Clue, error) {
	if len(s) != length {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrClueLength, len(s), length)
	}
	c := make(Clue, length)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ':
			c[i] = MarkAbsent
		case 'Y', 'y':
			c[i] = MarkPresent
		case 'G', 'g':
			c[i] = MarkExact
		default:
			return nil, fmt.Errorf("%w: %q at %d", ErrClueChar, s[i], i)
		}
	}
	return c, nil
}

// String renders the clue line form.
func (c Clue) String() string {
	var b strings.Builder
	b.Grow(len(c))
	for _, m := range c {
		b.WriteByte(m.Byte())
	}
	return b.String()
}

// Solved reports whether every position is exact.
func (c Clue) Solved() bool {
	for _, m := range c {
		if m != MarkExact {
			return false
		}
	}
	return true
}

// Code packs the clue into a base-3 integer, position 0 least significant.
func (c Clue) Code() uint32 {
	var code uint32
	for i := len(c) - 1; i >= 0; i-- {
		code = code*3 + uint32(c[i])
	}
	return code
}

// DecodeClue is the inverse of Clue.Code.
func DecodeClue(code uint32, length int) Clue {
	c := make(Clue, length)
	for i := range c {
		c[i] = Mark(code % 3)
		code /= 3
	}
	return c
}

// State is the coarse status of a judged game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Game holds the state of a single judged game.
type Game struct {
	Answer   string   // hidden goal equation
	Rows     int      // maximum number of guesses allowed
	Cols     int      // equation length
	Guesses  []string // guesses made so far
	Clues    []Clue   // clue per guess
	Finished bool     // true once the game is over (won or lost)
	Won      bool     // true if the game was finished with a win

	allowed func(string) bool
}
