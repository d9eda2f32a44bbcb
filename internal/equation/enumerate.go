// internal/equation/enumerate.go
//
// Exhaustive enumeration of the equation universe for one length.
//
// The equation is split by the digit width of its right-hand side. For widths 1, 2 and 3
// (values 0–9, 10–99, 100–999) the left-hand fragment is length-1-width symbols long;
// every fragment of that width is walked, pruned by the grammar, evaluated exactly, and
// kept when its value is a non-negative integer with exactly `width` digits.
//
// Each bucket's counter range is cut into chunks scanned concurrently; results are
// merged into one deduplicated Universe, so membership never depends on scheduling.

package equation

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/nerdle/internal/arith"
	"github.com/robalobadob/nerdle/internal/words"
)

const (
	MinLength = 3
	MaxLength = 12

	maxRHSWidth    = 3
	progressStride = 1 << 12
)

var ErrLength = errors.New("equation: unsupported length")

// Options tunes Enumerate.
type Options struct {
	// Workers bounds concurrent chunk scans; <= 0 means runtime.NumCPU().
	Workers int
	// Progress, if set, receives counter advances as they happen. It may be called
	// from several goroutines at once.
	Progress func(n int64)
}

// Enumerate builds the universe of valid equations of the given length.
func Enumerate(ctx context.Context, length int, opts Options) (*words.Universe, error) {
	if length < MinLength || length > MaxLength {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", ErrLength, length, MinLength, MaxLength)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu  sync.Mutex
		all []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for width := 1; width <= maxRHSWidth; width++ {
		lhs := length - 1 - width
		if lhs < 1 {
			continue
		}
		total := pow(lhs)
		chunks := uint64(workers * 4)
		if chunks > total {
			chunks = total
		}
		step := (total + chunks - 1) / chunks
		log.Debug().Int("length", length).Int("lhs", lhs).Int("rhsWidth", width).
			Uint64("space", total).Msg("scanning bucket")

		lo, hi := bounds(width)
		for from := uint64(0); from < total; from += step {
			to := from + step
			if to > total {
				to = total
			}
			w := newRangeWalker(lhs, from, to)
			g.Go(func() error {
				found, err := scan(gctx, w, lo, hi, opts.Progress)
				if err != nil {
					return err
				}
				mu.Lock()
				all = append(all, found...)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	u, err := words.NewUniverse(length, all)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("length", length).Int("equations", u.Len()).Msg("enumeration done")
	return u, nil
}

// scan walks one counter range and returns the equations whose value lies in [lo, hi].
func scan(ctx context.Context, w *Walker, lo, hi *big.Int, progress func(int64)) ([]string, error) {
	var (
		out      []string
		reported uint64
	)
	for {
		frag, ok := w.Next()
		if !ok {
			break
		}
		if adv := w.Advanced(); adv-reported >= progressStride {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if progress != nil {
				progress(int64(adv - reported))
			}
			reported = adv
		}
		if eq, ok := solve(frag, lo, hi); ok {
			out = append(out, eq)
		}
	}
	if progress != nil && w.Advanced() > reported {
		progress(int64(w.Advanced() - reported))
	}
	return out, nil
}

// solve evaluates frag and renders "frag=value" when the value is an integer in [lo, hi].
// Evaluation failures are an expected filter condition, not an error.
func solve(frag string, lo, hi *big.Int) (string, bool) {
	v, err := arith.Eval(frag)
	if err != nil || !v.IsInt() {
		return "", false
	}
	n := v.Num()
	if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
		return "", false
	}
	return frag + "=" + n.String(), true
}

// bounds returns the inclusive value range of a right-hand side with width digits.
func bounds(width int) (lo, hi *big.Int) {
	ten := big.NewInt(10)
	hi = new(big.Int).Exp(ten, big.NewInt(int64(width)), nil)
	hi.Sub(hi, big.NewInt(1))
	if width == 1 {
		return big.NewInt(0), hi
	}
	return new(big.Int).Exp(ten, big.NewInt(int64(width-1)), nil), hi
}

// SearchSpace is the number of raw counter values Enumerate walks for length; useful
// as a progress total.
func SearchSpace(length int) int64 {
	var n int64
	for width := 1; width <= maxRHSWidth; width++ {
		if lhs := length - 1 - width; lhs >= 1 {
			n += int64(pow(lhs))
		}
	}
	return n
}
