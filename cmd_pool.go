package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/nerdle/internal/store"
	"github.com/robalobadob/nerdle/internal/words"
)

var errNoCache = errors.New("pools need the cache database (--db)")

var (
	poolCmd = &cobra.Command{
		Use:   "pool",
		Short: "Manage named known-solution pools",
	}

	poolImportCmd = &cobra.Command{
		Use:   "import NAME FILE",
		Short: "Store the equations listed in FILE (one per line) as pool NAME",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cache, u, err := setup(ctx)
			if err != nil {
				return err
			}
			if cache == nil {
				return errNoCache
			}
			defer cache.Close()

			list, err := words.ReadFile(args[1])
			if err != nil {
				return err
			}
			if err := cache.SavePool(ctx, args[0], u, list); err != nil {
				return fmt.Errorf("pool %q: %w", args[0], err)
			}
			log.Info().Str("pool", args[0]).Int("equations", len(list)).Msg("pool imported")
			return nil
		},
	}

	poolShowCmd = &cobra.Command{
		Use:   "show NAME",
		Short: "Print the equations of pool NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cache, u, err := setup(ctx)
			if err != nil {
				return err
			}
			if cache == nil {
				return errNoCache
			}
			defer cache.Close()

			set, err := cache.LoadPool(ctx, args[0], u)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("pool %q does not exist for length %d", args[0], u.Length())
			}
			if err != nil {
				return err
			}
			for _, eq := range set.Words() {
				fmt.Fprintln(cmd.OutOrStdout(), eq)
			}
			return nil
		},
	}
)
