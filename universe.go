package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/robalobadob/nerdle/internal/equation"
	"github.com/robalobadob/nerdle/internal/store"
	"github.com/robalobadob/nerdle/internal/words"
)

// openCache opens the SQLite cache, or returns nil when it is disabled.
func openCache() (*store.Cache, error) {
	if cfg.DBPath == "" {
		return nil, nil
	}
	return store.OpenCache(cfg.DBPath)
}

// loadUniverse returns the cached universe for length, enumerating (and caching) it
// when the cache has none. cache may be nil.
func loadUniverse(ctx context.Context, cache *store.Cache, length int) (*words.Universe, error) {
	if cache != nil {
		u, err := cache.LoadUniverse(ctx, length)
		if err == nil {
			log.Debug().Int("length", length).Int("equations", u.Len()).Msg("universe loaded from cache")
			return u, nil
		}
		if !errors.Is(err, store.ErrNotCached) {
			log.Warn().Err(err).Int("length", length).Msg("universe cache unreadable, enumerating")
		}
	}

	u, err := enumerate(ctx, length)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.SaveUniverse(ctx, u); err != nil {
			log.Warn().Err(err).Int("length", length).Msg("could not cache universe")
		}
	}
	return u, nil
}

// enumerate runs the enumerator with a progress bar on stderr.
func enumerate(ctx context.Context, length int) (*words.Universe, error) {
	bar := progressbar.NewOptions64(equation.SearchSpace(length),
		progressbar.OptionSetDescription(fmt.Sprintf("enumerating length %d", length)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetVisibility(isatty.IsTerminal(os.Stderr.Fd())),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	start := time.Now()
	u, err := equation.Enumerate(ctx, length, equation.Options{
		Workers:  cfg.Workers,
		Progress: func(n int64) { _ = bar.Add64(n) },
	})
	_ = bar.Finish()
	if err != nil {
		return nil, err
	}
	log.Info().Int("length", length).Int("equations", u.Len()).Dur("took", time.Since(start)).Msg("universe enumerated")
	return u, nil
}

// loadPool resolves --pool against the cache; an empty name means the whole universe.
func loadPool(ctx context.Context, cache *store.Cache, u *words.Universe, name string) (*words.Set, error) {
	if name == "" {
		return nil, nil
	}
	if cache == nil {
		return nil, fmt.Errorf("pool %q: no cache database configured", name)
	}
	return cache.LoadPool(ctx, name, u)
}

// setup opens the cache and loads the universe for cfg.Length. The caller closes the
// returned cache when non-nil.
func setup(ctx context.Context) (*store.Cache, *words.Universe, error) {
	cache, err := openCache()
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	u, err := loadUniverse(ctx, cache, cfg.Length)
	if err != nil {
		if cache != nil {
			_ = cache.Close()
		}
		return nil, nil, err
	}
	return cache, u, nil
}
