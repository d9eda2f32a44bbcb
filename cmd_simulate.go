package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/nerdle/internal/daily"
	"github.com/robalobadob/nerdle/internal/game"
	"github.com/robalobadob/nerdle/internal/solver"
)

// simulateRows bounds a self-play game; the optimizer needs far fewer in practice.
const simulateRows = 32

var (
	simulateTarget string
	simulateDaily  bool

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Let the optimizer solve a known equation against the local judge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cache, u, err := setup(ctx)
			if err != nil {
				return err
			}
			if cache != nil {
				defer cache.Close()
			}
			pool, err := loadPool(ctx, cache, u, poolName)
			if err != nil {
				return err
			}

			target := simulateTarget
			if simulateDaily {
				target = daily.Target(time.Now(), cfg.DailySalt, u, pool)
				log.Info().Str("date", daily.DateKey(time.Now())).Msg("daily target picked")
			}
			if !u.Contains(target) {
				return fmt.Errorf("%q is not a valid equation of length %d", target, u.Length())
			}

			sess, err := solver.NewSession("simulate", u, pool, solver.Options{Workers: cfg.Workers})
			if err != nil {
				return err
			}
			rounds, err := simulate(ctx, sess, target, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "solved %s in %d guesses\n", target, rounds)
			return nil
		},
	}
)

// simulate plays sess against a judge holding target and returns the number of
// guesses used.
func simulate(ctx context.Context, sess *solver.Session, target string, out io.Writer) (int, error) {
	u := sess.Universe()
	g, err := game.New(target, u.Contains)
	if err != nil {
		return 0, err
	}
	g.Rows = simulateRows

	for {
		score, err := sess.Suggest(ctx)
		if err != nil {
			return 0, err
		}
		clue, state, err := g.ApplyGuess(score.Guess)
		if err != nil {
			return 0, err
		}
		fmt.Fprintf(out, "%2d  %s  [%s]  entropy %.4f\n", len(g.Guesses), score.Guess, clue, score.Entropy)

		switch state {
		case game.StateWon:
			return len(g.Guesses), nil
		case game.StateLost:
			return 0, fmt.Errorf("not solved within %d guesses", g.Rows)
		}
		if _, err := sess.Apply(score.Guess, clue); err != nil {
			return 0, err
		}
	}
}
