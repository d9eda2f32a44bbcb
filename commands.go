package main

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/nerdle/internal/config"
)

// cfg starts from the environment (.env included); persistent flags override it.
var cfg = config.Load()

var (
	poolName string

	rootCmd = &cobra.Command{
		Use:   "nerdle",
		Short: "Optimal-guess engine for Nerdle, the arithmetic-equation guessing game",
		Long: `nerdle enumerates every valid equation of a given length, scores guesses by
the entropy of the clue partition they induce, and plays the game against a
human (play), against itself (simulate) or over HTTP (serve).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cfg.LogLevel)
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "zerolog level (debug, info, warn, error)")
	pf.IntVarP(&cfg.Length, "length", "n", cfg.Length, "equation length")
	pf.StringVar(&cfg.DBPath, "db", cfg.DBPath, `SQLite cache file ("" disables the cache)`)
	pf.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "concurrent scan workers")

	rootCmd.AddCommand(generateCmd, playCmd, simulateCmd, serveCmd, poolCmd)
	poolCmd.AddCommand(poolImportCmd, poolShowCmd)

	for _, c := range []*cobra.Command{playCmd, simulateCmd} {
		c.Flags().StringVar(&poolName, "pool", "", "start from a named solution pool instead of the whole universe")
	}

	generateCmd.Flags().StringVar(&generateFormat, "format", "text", "output format: text or go")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "output file (default stdout)")
	generateCmd.Flags().StringVar(&generatePkg, "package", "equations", "package name for --format go")
	generateCmd.Flags().StringVar(&generateVar, "var", "", "variable name for --format go (default Length<N>)")
	generateCmd.Flags().BoolVar(&generateFresh, "fresh", false, "ignore the cache and enumerate again")

	simulateCmd.Flags().StringVar(&simulateTarget, "target", "", "equation to solve")
	simulateCmd.Flags().BoolVar(&simulateDaily, "daily", false, "solve today's daily equation")
	simulateCmd.MarkFlagsMutuallyExclusive("target", "daily")
	simulateCmd.MarkFlagsOneRequired("target", "daily")

	serveCmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
}

// setupLogging applies the level and switches to the console writer on a terminal.
func setupLogging(level string) {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
