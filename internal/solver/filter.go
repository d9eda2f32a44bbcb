// internal/solver/filter.go
//
// Candidate filtering against an observed (guess, clue) pair.
//
// A candidate survives when it could have produced exactly this clue. The checks run in
// a fixed order over a consumed-position mask shared with game.Compare's rules:
//   1. Exact:   candidate[i] == guess[i]; the position is consumed.
//   2. Present: candidate[i] != guess[i], and an unconsumed occurrence of guess[i]
//               exists elsewhere; the first one is consumed.
//   3. Absent:  candidate[i] != guess[i], and no unconsumed occurrence remains.
// Exact must run first, otherwise repeated symbols are miscounted.

package solver

import (
	"errors"
	"fmt"

	"github.com/robalobadob/nerdle/internal/game"
	"github.com/robalobadob/nerdle/internal/words"
)

var (
	ErrLengthMismatch = errors.New("solver: guess, clue and universe lengths differ")
	ErrNoCandidates   = errors.New("solver: no candidate matches every clue")
)

// Consistent reports whether word could have produced clue for guess.
// Both strings and the clue must have the same length.
func Consistent(word, guess string, clue game.Clue) bool {
	var used uint32
	for i, m := range clue {
		if m != game.MarkExact {
			continue
		}
		if word[i] != guess[i] {
			return false
		}
		used |= 1 << i
	}
	for i, m := range clue {
		if m != game.MarkPresent {
			continue
		}
		if word[i] == guess[i] {
			return false
		}
		j := game.FirstUnused(word, guess[i], used)
		if j < 0 {
			return false
		}
		used |= 1 << j
	}
	for i, m := range clue {
		if m != game.MarkAbsent {
			continue
		}
		if word[i] == guess[i] || game.FirstUnused(word, guess[i], used) >= 0 {
			return false
		}
	}
	return true
}

// Filter removes from set every candidate inconsistent with (guess, clue) and returns
// how many were removed. If nothing survives, the set is left empty and
// ErrNoCandidates is returned: the clues seen so far contradict each other.
func Filter(set *words.Set, guess string, clue game.Clue) (int, error) {
	n := set.Universe().Length()
	if len(guess) != n || len(clue) != n {
		return 0, fmt.Errorf("%w: guess %d, clue %d, universe %d", ErrLengthMismatch, len(guess), len(clue), n)
	}

	var drop []int
	set.Each(func(i int, w string) bool {
		if !Consistent(w, guess, clue) {
			drop = append(drop, i)
		}
		return true
	})
	for _, i := range drop {
		set.Remove(i)
	}
	filterRemoved.Add(float64(len(drop)))

	if set.Len() == 0 {
		return len(drop), ErrNoCandidates
	}
	return len(drop), nil
}
