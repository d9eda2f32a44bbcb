package main

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/nerdle/internal/httpserver"
	"github.com/robalobadob/nerdle/internal/store"
)

const sessionSweepInterval = 5 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the solver over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, u, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		var pools httpserver.PoolSource
		if cache != nil {
			defer cache.Close()
			pools = cache
		}

		// a session is unreachable once its token expires
		sessions := store.NewMemoryStore(cfg.JWTExpires)
		go sessions.Run(cmd.Context(), sessionSweepInterval)

		srv := httpserver.New(sessions, u, pools, cfg)
		log.Info().Str("port", cfg.Port).Int("length", u.Length()).Int("equations", u.Len()).Msg("starting nerdle server")
		return srv.Start(":" + cfg.Port)
	},
}
