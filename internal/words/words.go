// internal/words/words.go
//
// Equation universe and candidate ("word") sets.
//
// Responsibilities:
//   - Hold the immutable universe of valid equations of one length (sorted, deduplicated).
//   - Represent candidate sets as bitsets over universe indices so filtering is a bit clear
//     and cloning a session is a word copy.
//   - Build pre-supplied solution pools (Subset) that must be drawn from the universe.
//
// Constraints:
//   • Every equation in a universe has exactly Length() bytes.
//   • A Set never outlives or changes its universe; universes are never mutated.

package words

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

var (
	ErrWordLength  = errors.New("words: equation has the wrong length")
	ErrUnknownWord = errors.New("words: equation not in universe")
)

// Universe is the complete, immutable set of legal equations of one length.
type Universe struct {
	length int
	words  []string       // sorted
	index  map[string]int // word -> position in words
}

// NewUniverse builds a universe from list. Duplicates collapse; order is irrelevant.
// Returns ErrWordLength if any entry is not exactly length bytes long.
func NewUniverse(length int, list []string) (*Universe, error) {
	set := make(map[string]struct{}, len(list))
	for _, w := range list {
		if len(w) != length {
			return nil, fmt.Errorf("%w: %q is %d bytes, want %d", ErrWordLength, w, len(w), length)
		}
		set[w] = struct{}{}
	}
	sorted := make([]string, 0, len(set))
	for w := range set {
		sorted = append(sorted, w)
	}
	sort.Strings(sorted)

	u := &Universe{length: length, words: sorted, index: make(map[string]int, len(sorted))}
	for i, w := range sorted {
		u.index[w] = i
	}
	return u, nil
}

// Length is the byte length shared by every equation.
func (u *Universe) Length() int { return u.length }

// Len is the number of equations.
func (u *Universe) Len() int { return len(u.words) }

// Word returns the i-th equation in sorted order.
func (u *Universe) Word(i int) string { return u.words[i] }

// Words returns the sorted equations. Callers must not modify the slice.
func (u *Universe) Words() []string { return u.words }

// Index returns the position of w, if present.
func (u *Universe) Index(w string) (int, bool) {
	i, ok := u.index[w]
	return i, ok
}

// Contains reports whether w is a legal equation of this universe.
func (u *Universe) Contains(w string) bool {
	_, ok := u.index[w]
	return ok
}

// All returns a candidate set holding the entire universe.
func (u *Universe) All() *Set {
	b := bitset.New(uint(len(u.words)))
	for i := range u.words {
		b.Set(uint(i))
	}
	return &Set{u: u, bits: b}
}

// Subset returns a candidate set restricted to list (a known-solution pool).
func (u *Universe) Subset(list []string) (*Set, error) {
	b := bitset.New(uint(len(u.words)))
	for _, w := range list {
		i, ok := u.index[w]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWord, w)
		}
		b.Set(uint(i))
	}
	return &Set{u: u, bits: b}, nil
}

// Set is a mutable subset of a Universe. It is not safe for concurrent mutation;
// concurrent reads are fine.
type Set struct {
	u    *Universe
	bits *bitset.BitSet
}

// Universe returns the universe the set indexes into.
func (s *Set) Universe() *Universe { return s.u }

// Len is the number of equations still in the set.
func (s *Set) Len() int { return int(s.bits.Count()) }

// Contains reports whether w is still a member.
func (s *Set) Contains(w string) bool {
	i, ok := s.u.index[w]
	return ok && s.bits.Test(uint(i))
}

// Has reports whether universe index i is still a member.
func (s *Set) Has(i int) bool { return s.bits.Test(uint(i)) }

// Remove drops universe index i from the set. Returns false if it was absent.
func (s *Set) Remove(i int) bool {
	if !s.bits.Test(uint(i)) {
		return false
	}
	s.bits.Clear(uint(i))
	return true
}

// Each calls fn for every member in universe order until fn returns false.
func (s *Set) Each(fn func(i int, w string) bool) {
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		if !fn(int(i), s.u.words[i]) {
			return
		}
	}
}

// Indices returns the member indices in ascending order.
func (s *Set) Indices() []int {
	out := make([]int, 0, s.Len())
	s.Each(func(i int, _ string) bool {
		out = append(out, i)
		return true
	})
	return out
}

// Words returns the members in sorted order.
func (s *Set) Words() []string {
	out := make([]string, 0, s.Len())
	s.Each(func(_ int, w string) bool {
		out = append(out, w)
		return true
	})
	return out
}

// Clone returns an independent copy sharing the same universe.
func (s *Set) Clone() *Set {
	return &Set{u: s.u, bits: s.bits.Clone()}
}

// Equal reports whether both sets hold the same members of the same universe.
func (s *Set) Equal(o *Set) bool {
	return s.u == o.u && s.bits.Equal(o.bits)
}
