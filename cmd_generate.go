package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/nerdle/internal/words"
)

var (
	generateFormat string
	generateOut    string
	generatePkg    string
	generateVar    string
	generateFresh  bool

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Enumerate every valid equation of --length and write the table",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
)

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateFormat != "text" && generateFormat != "go" {
		return fmt.Errorf("unknown format %q (want text or go)", generateFormat)
	}
	ctx := cmd.Context()

	var (
		u   *words.Universe
		err error
	)
	if generateFresh {
		u, err = enumerate(ctx, cfg.Length)
	} else {
		cache, cerr := openCache()
		if cerr != nil {
			return fmt.Errorf("open cache: %w", cerr)
		}
		if cache != nil {
			defer cache.Close()
		}
		u, err = loadUniverse(ctx, cache, cfg.Length)
	}
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if generateOut != "" {
		f, err := os.Create(generateOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := writeUniverse(out, u, generateFormat, generatePkg, generateVar); err != nil {
		return err
	}
	log.Info().Int("equations", u.Len()).Str("format", generateFormat).Str("out", generateOut).Msg("table written")
	return nil
}

// writeUniverse renders u as plain lines or as a Go source table.
func writeUniverse(w io.Writer, u *words.Universe, format, pkg, name string) error {
	if format == "go" {
		if name == "" {
			name = fmt.Sprintf("Length%d", u.Length())
		}
		return words.WriteTable(w, pkg, name, u)
	}
	return words.WriteLines(w, u)
}
