package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/nerdle/internal/game"
	"github.com/robalobadob/nerdle/internal/solver"
)

var errInconsistent = errors.New("clues are inconsistent: no equation matches them all")

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Suggest guesses and read the game's clues from stdin",
	Long: `play prints a guess, then reads the clue for it as one line: one character per
position, 'G' for the right symbol in the right place, 'Y' for a symbol that occurs
elsewhere, and a space for an absent symbol. It stops once one equation remains.`,
	Args: cobra.NoArgs,
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
		sess, err := solver.NewSession("cli", u, pool, solver.Options{Workers: cfg.Workers})
		if err != nil {
			return err
		}
		return playLoop(ctx, sess, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// playLoop alternates suggestions and clue lines until the session is decided or
// input ends.
func playLoop(ctx context.Context, sess *solver.Session, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	length := sess.Universe().Length()

	for round := 1; sess.State() == solver.StatePlaying; round++ {
		score, err := sess.Suggest(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "guess %d: %s  (entropy %.4f, %d partitions, %d left)\n",
			round, score.Guess, score.Entropy, score.Partitions, sess.Remaining())

		var clue game.Clue
		for clue == nil {
			fmt.Fprint(out, "clue> ")
			if !sc.Scan() {
				fmt.Fprintln(out)
				return sc.Err()
			}
			// spaces are clue symbols, only the line ending is dropped
			line := strings.TrimRight(sc.Text(), "\r\n")
			if clue, err = game.ParseClue(line, length); err != nil {
				fmt.Fprintf(out, "invalid clue: %v\n", err)
				clue = nil
			}
		}

		if _, err := sess.Apply(score.Guess, clue); err != nil && !errors.Is(err, solver.ErrNoCandidates) {
			return err
		}
	}

	if answer, ok := sess.Solution(); ok {
		fmt.Fprintf(out, "solution: %s\n", answer)
		return nil
	}
	return errInconsistent
}
