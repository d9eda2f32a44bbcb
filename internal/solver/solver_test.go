package solver

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/nerdle/internal/equation"
	"github.com/robalobadob/nerdle/internal/game"
	"github.com/robalobadob/nerdle/internal/words"
)

var (
	fiveOnce sync.Once
	five     *words.Universe
)

func universeFive(t *testing.T) *words.Universe {
	t.Helper()
	fiveOnce.Do(func() {
		u, err := equation.Enumerate(context.Background(), 5, equation.Options{Workers: 2})
		require.NoError(t, err)
		five = u
	})
	require.NotNil(t, five)
	return five
}

func allExact(n int) game.Clue {
	c := make(game.Clue, n)
	for i := range c {
		c[i] = game.MarkExact
	}
	return c
}

func TestFilterKeepsExactMatch(t *testing.T) {
	u, err := words.NewUniverse(8, []string{"48-32=16", "40-20=20"})
	require.NoError(t, err)
	set := u.All()

	removed, err := Filter(set, "48-32=16", allExact(8))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"48-32=16"}, set.Words())
}

func TestFilterIsIdempotent(t *testing.T) {
	u := universeFive(t)
	all := u.Words()
	for gi := 0; gi < len(all); gi += 11 {
		guess := all[gi]
		goal := all[(gi*7+3)%len(all)]
		clue := game.Compare(goal, guess)

		set := u.All()
		_, err := Filter(set, guess, clue)
		require.NoError(t, err)
		once := set.Clone()

		removed, err := Filter(set, guess, clue)
		require.NoError(t, err)
		assert.Zero(t, removed)
		assert.True(t, once.Equal(set))
	}
}

func TestFilterAgreesWithCompare(t *testing.T) {
	u := universeFive(t)
	all := u.Words()
	for gi := 0; gi < len(all); gi += 5 {
		for ti := 0; ti < len(all); ti += 9 {
			guess, goal := all[gi], all[ti]
			clue := game.Compare(goal, guess)

			set := u.All()
			_, err := Filter(set, guess, clue)
			require.NoError(t, err)

			var want []string
			for _, w := range all {
				if game.Pattern(w, guess) == clue.Code() {
					want = append(want, w)
				}
			}
			assert.Equal(t, want, set.Words(), "guess %s goal %s clue %q", guess, goal, clue.String())
			assert.True(t, set.Contains(goal))
		}
	}
}

func TestConsistentRejectsHiddenExact(t *testing.T) {
	// a Present elsewhere must not let an Absent position hide an exact match
	clue := game.Clue{game.MarkPresent, game.MarkAbsent}
	assert.False(t, Consistent("ac", "cc", clue))
	assert.Equal(t, " G", game.Compare("ac", "cc").String())
	assert.True(t, Consistent("ca", "ac", game.Clue{game.MarkPresent, game.MarkPresent}))
}

func TestFilterReportsInconsistentClues(t *testing.T) {
	u, err := words.NewUniverse(5, []string{"1+2=3", "2+1=3"})
	require.NoError(t, err)
	set := u.All()

	clue, err := game.ParseClue("     ", 5)
	require.NoError(t, err)
	_, err = Filter(set, "1+2=3", clue)
	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.Zero(t, set.Len())
}

func TestFilterRejectsLengthMismatch(t *testing.T) {
	u, err := words.NewUniverse(5, []string{"1+2=3"})
	require.NoError(t, err)
	_, err = Filter(u.All(), "48-32=16", allExact(8))
	assert.ErrorIs(t, err, ErrLengthMismatch)
	_, err = Filter(u.All(), "1+2=3", allExact(4))
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestEntropy(t *testing.T) {
	// groups {2,1,1} over 4: (2·ln2 + ln4 + ln4)/4 = 1.5·ln2
	assert.InDelta(t, 1.5*math.Ln2, Entropy([]int{1, 2, 1}, 4), 1e-12)
	assert.Zero(t, Entropy([]int{7}, 7))
	assert.InDelta(t, math.Log(5), Entropy([]int{1, 1, 1, 1, 1}, 5), 1e-12)
	assert.Zero(t, Entropy(nil, 0))

	a := Entropy([]int{3, 1, 2, 1}, 7)
	b := Entropy([]int{1, 2, 1, 3}, 7)
	assert.Equal(t, a, b, "group order must not change the score")
}

func TestScoreBetter(t *testing.T) {
	base := Score{Entropy: 1, Partitions: 3, index: 5}

	assert.True(t, Score{Entropy: 1.5, Partitions: 1, index: 9}.Better(base))
	assert.True(t, Score{Entropy: 1, Partitions: 4, index: 9}.Better(base))
	assert.True(t, Score{Entropy: 1, Partitions: 3, Candidate: true, index: 9}.Better(base))
	assert.False(t, base.Better(Score{Entropy: 1, Partitions: 3, Candidate: true, index: 1}))

	// exact ties: earlier non-candidate, later candidate
	assert.True(t, Score{Entropy: 1, Partitions: 3, index: 2}.Better(base))
	assert.False(t, Score{Entropy: 1, Partitions: 3, index: 8}.Better(base))
	c := Score{Entropy: 1, Partitions: 3, Candidate: true, index: 5}
	assert.True(t, Score{Entropy: 1, Partitions: 3, Candidate: true, index: 6}.Better(c))
	assert.False(t, Score{Entropy: 1, Partitions: 3, Candidate: true, index: 4}.Better(c))
}

// foldSelect is the sequential reference scan with the running-best update rules.
func foldSelect(u *words.Universe, set *words.Set) string {
	cands := set.Words()
	var (
		best       string
		bestE      = -1.0
		bestGroups int
	)
	for _, g := range u.Words() {
		groups := map[uint32]int{}
		for _, c := range cands {
			groups[game.Pattern(c, g)]++
		}
		sizes := make([]int, 0, len(groups))
		for _, n := range groups {
			sizes = append(sizes, n)
		}
		e := Entropy(sizes, len(cands))
		switch {
		case e > bestE:
		case e == bestE && len(groups) > bestGroups:
		case e == bestE && len(groups) == bestGroups && set.Contains(g):
		default:
			continue
		}
		best, bestE, bestGroups = g, e, len(groups)
	}
	return best
}

func TestSelectGuessMatchesSequentialScan(t *testing.T) {
	u := universeFive(t)
	all := u.Words()

	pools := [][]string{all}
	var half, few []string
	for i, w := range all {
		if i%2 == 0 {
			half = append(half, w)
		}
		if i%13 == 0 {
			few = append(few, w)
		}
	}
	pools = append(pools, half, few)

	for _, pool := range pools {
		set, err := u.Subset(pool)
		require.NoError(t, err)
		want := foldSelect(u, set)
		for _, workers := range []int{1, 3, 8} {
			got, err := SelectGuess(context.Background(), u, set, Options{Workers: workers})
			require.NoError(t, err)
			assert.Equal(t, want, got.Guess, "pool %d workers %d", len(pool), workers)
		}
	}
}

func TestSelectGuessIsStable(t *testing.T) {
	u := universeFive(t)
	set := u.All()
	a, err := SelectGuess(context.Background(), u, set, Options{Workers: 4})
	require.NoError(t, err)
	b, err := SelectGuess(context.Background(), u, set, Options{Workers: 4})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Greater(t, a.Entropy, 0.0)
	assert.Equal(t, u.Len(), set.Len(), "selection must not mutate the set")
}

func TestSelectGuessSingleCandidate(t *testing.T) {
	u := universeFive(t)
	set, err := u.Subset([]string{"1+2=3"})
	require.NoError(t, err)
	got, err := SelectGuess(context.Background(), u, set, Options{})
	require.NoError(t, err)
	assert.Equal(t, "1+2=3", got.Guess)
	assert.True(t, got.Candidate)
	assert.Zero(t, got.Entropy)
	assert.Equal(t, 1, got.Partitions)
}

func TestSelectGuessErrors(t *testing.T) {
	u := universeFive(t)
	empty, err := u.Subset(nil)
	require.NoError(t, err)
	_, err = SelectGuess(context.Background(), u, empty, Options{})
	assert.ErrorIs(t, err, ErrNoCandidates)

	other, err := words.NewUniverse(5, []string{"1+2=3"})
	require.NoError(t, err)
	_, err = SelectGuess(context.Background(), u, other.All(), Options{})
	assert.ErrorIs(t, err, ErrForeignSet)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = SelectGuess(ctx, u, u.All(), Options{Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelectGuessReportsProgress(t *testing.T) {
	u := universeFive(t)
	var (
		mu    sync.Mutex
		total int
	)
	_, err := SelectGuess(context.Background(), u, u.All(), Options{Workers: 3, Progress: func(n int) {
		mu.Lock()
		total += n
		mu.Unlock()
	}})
	require.NoError(t, err)
	assert.Equal(t, u.Len(), total)
}

func TestSessionSolvesEveryTarget(t *testing.T) {
	u := universeFive(t)
	all := u.Words()
	for ti := 0; ti < len(all); ti += 17 {
		target := all[ti]
		s, err := NewSession("t", u, nil, Options{Workers: 2})
		require.NoError(t, err)

		for round := 0; s.State() == StatePlaying; round++ {
			require.Less(t, round, 20, "target %s", target)
			score, err := s.Suggest(context.Background())
			require.NoError(t, err)
			_, err = s.Apply(score.Guess, game.Compare(target, score.Guess))
			require.NoError(t, err)
		}
		answer, ok := s.Solution()
		require.True(t, ok)
		assert.Equal(t, target, answer)
		assert.NotEmpty(t, s.Rounds())
	}
}

func TestSessionInconsistent(t *testing.T) {
	u, err := words.NewUniverse(5, []string{"1+2=3", "2+1=3", "3-1=2"})
	require.NoError(t, err)
	s, err := NewSession("x", u, nil, Options{Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Remaining())

	clue, err := game.ParseClue("GGGGY", 5)
	require.NoError(t, err)
	state, err := s.Apply("1+2=3", clue)
	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.Equal(t, StateInconsistent, state)

	_, err = s.Suggest(context.Background())
	assert.ErrorIs(t, err, ErrNoCandidates)
	_, ok := s.Solution()
	assert.False(t, ok)
}

func TestSessionPool(t *testing.T) {
	u, err := words.NewUniverse(5, []string{"1+2=3", "2+1=3", "3-1=2", "4-1=3"})
	require.NoError(t, err)
	pool, err := u.Subset([]string{"2+1=3", "4-1=3"})
	require.NoError(t, err)

	s, err := NewSession("p", u, pool, Options{Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"2+1=3", "4-1=3"}, s.Candidates(0))
	assert.Equal(t, []string{"2+1=3"}, s.Candidates(1))

	state, err := s.Apply("4-1=3", game.Compare("2+1=3", "4-1=3"))
	require.NoError(t, err)
	assert.Equal(t, StateSolved, state)
	answer, ok := s.Solution()
	require.True(t, ok)
	assert.Equal(t, "2+1=3", answer)
	assert.Equal(t, 2, pool.Len(), "caller's pool must not be mutated")

	other, err := words.NewUniverse(5, []string{"1+2=3"})
	require.NoError(t, err)
	_, err = NewSession("q", u, other.All(), Options{})
	assert.ErrorIs(t, err, ErrForeignSet)
}
