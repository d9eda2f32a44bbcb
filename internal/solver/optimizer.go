// internal/solver/optimizer.go
//
// Max-entropy guess selection.
//
// Every universe member is a legal guess (a non-solution can still split the candidates
// best). For each guess the candidates are partitioned by the clue they would produce;
// the guess is scored by the entropy of that partition, then by the number of groups,
// then by whether it could itself be the answer. The scan is a parallel map over
// universe chunks followed by a reduction with Score.Better, which is a total order, so
// the result does not depend on scheduling.

package solver

import (
	"context"
	"errors"
	"math"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/nerdle/internal/game"
	"github.com/robalobadob/nerdle/internal/words"
)

var ErrForeignSet = errors.New("solver: candidate set belongs to another universe")

// Score is the ranking record of one guess.
type Score struct {
	Guess      string  `json:"guess"`
	Entropy    float64 `json:"entropy"`    // nats
	Partitions int     `json:"partitions"` // distinct clues over the candidates
	Candidate  bool    `json:"candidate"`  // guess is still a possible answer
	index      int
}

// Better reports whether s ranks above o: higher entropy, then more partitions, then
// being a candidate. Remaining ties reproduce a left-to-right scan of the universe in
// which a later candidate replaces an equal earlier one and a non-candidate never does:
// among candidates the later index wins, among non-candidates the earlier.
func (s Score) Better(o Score) bool {
	if s.Entropy != o.Entropy {
		return s.Entropy > o.Entropy
	}
	if s.Partitions != o.Partitions {
		return s.Partitions > o.Partitions
	}
	if s.Candidate != o.Candidate {
		return s.Candidate
	}
	if s.Candidate {
		return s.index > o.index
	}
	return s.index < o.index
}

// Entropy returns Σ n_i·ln(N/n_i) / N for group sizes n_i summing to n.
// groups is sorted in place so equal partitions always sum in the same order.
func Entropy(groups []int, n int) float64 {
	if n == 0 {
		return 0
	}
	slices.Sort(groups)
	total := float64(n)
	var sum float64
	for _, g := range groups {
		if g > 0 {
			sum += float64(g) * math.Log(total/float64(g))
		}
	}
	return sum / total
}

// Options tunes SelectGuess.
type Options struct {
	// Workers bounds concurrent chunk scans; <= 0 means runtime.NumCPU().
	Workers int
	// Progress, if set, is called with the number of guesses scored since the last call.
	Progress func(n int)
}

// SelectGuess scans the whole universe and returns the best-ranked guess for set.
func SelectGuess(ctx context.Context, u *words.Universe, set *words.Set, opts Options) (Score, error) {
	if set.Universe() != u {
		return Score{}, ErrForeignSet
	}
	if set.Len() == 0 {
		return Score{}, ErrNoCandidates
	}
	start := time.Now()
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	cands := set.Words()
	codes := 1
	for i := 0; i < u.Length(); i++ {
		codes *= 3
	}

	var (
		mu   sync.Mutex
		best Score
		have bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	chunks := workers * 8
	if chunks > u.Len() {
		chunks = u.Len()
	}
	step := (u.Len() + chunks - 1) / chunks
	for from := 0; from < u.Len(); from += step {
		from, to := from, min(from+step, u.Len())
		g.Go(func() error {
			local, err := scoreRange(gctx, u, set, cands, codes, from, to, opts.Progress)
			if err != nil {
				return err
			}
			mu.Lock()
			if !have || local.Better(best) {
				best, have = local, true
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Score{}, err
	}

	took := time.Since(start)
	selectDuration.Observe(took.Seconds())
	log.Debug().Str("guess", best.Guess).Float64("entropy", best.Entropy).
		Int("partitions", best.Partitions).Bool("candidate", best.Candidate).
		Int("candidates", len(cands)).Dur("took", took).Msg("selected guess")
	return best, nil
}

// scoreRange scores universe indices [from, to) and returns the best of them.
func scoreRange(ctx context.Context, u *words.Universe, set *words.Set, cands []string,
	codes, from, to int, progress func(int)) (Score, error) {
	counts := make([]int32, codes)
	touched := make([]uint32, 0, min(codes, len(cands)))
	sizes := make([]int, 0, cap(touched))

	var best Score
	for gi := from; gi < to; gi++ {
		if err := ctx.Err(); err != nil {
			return Score{}, err
		}
		guess := u.Word(gi)
		touched = touched[:0]
		for _, c := range cands {
			code := game.Pattern(c, guess)
			if counts[code] == 0 {
				touched = append(touched, code)
			}
			counts[code]++
		}
		sizes = sizes[:0]
		for _, code := range touched {
			sizes = append(sizes, int(counts[code]))
			counts[code] = 0
		}

		s := Score{
			Guess:      guess,
			Entropy:    Entropy(sizes, len(cands)),
			Partitions: len(touched),
			Candidate:  set.Has(gi),
			index:      gi,
		}
		if gi == from || s.Better(best) {
			best = s
		}
		if progress != nil {
			progress(1)
		}
	}
	return best, nil
}
