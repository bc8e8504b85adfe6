package main

import (
	"context"
	"fmt"
	"time"

	"github.com/vovakirdan/thrifty/internal/config"
	"github.com/vovakirdan/thrifty/internal/leaderboard"
	"github.com/vovakirdan/thrifty/internal/storage"
)

const redisPrefix = "thrifty"

// loadGameConfig reads the game config and applies the difficulty preset.
func loadGameConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return config.Config{}, err
	}
	config.ApplyPreset(&cfg, preset)
	logger.Debug("config loaded", "rounds", cfg.TotalRounds(), "difficulty", preset)
	return cfg, nil
}

// backends holds the persistence a command runs with. Either field may be
// nil when its store is unavailable.
type backends struct {
	store *storage.Store
	board *leaderboard.Service
	close func()
}

// openBackends opens the SQLite store for round history and picks the
// leaderboard backend: Redis when --redis is set, otherwise the same SQLite
// file with an in-process feed.
func openBackends(ctx context.Context) (*backends, error) {
	b := &backends{close: func() {}}
	var closers []func()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, playing without history", "path", flagDBPath, "err", err)
	} else {
		b.store = store
		closers = append(closers, func() { _ = store.Close() })
	}

	boardLog := logger.WithPrefix("leaderboard")
	switch {
	case flagRedis != "":
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		rdb, err := leaderboard.DialRedis(dialCtx, flagRedis)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, fmt.Errorf("leaderboard backend: %w", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		rs := leaderboard.NewRedisStore(rdb, redisPrefix, boardLog)
		b.board = leaderboard.NewService(rs, rs, boardLog)
		logger.Info("leaderboard on redis", "addr", flagRedis)
	case store != nil:
		b.board = leaderboard.NewService(store, leaderboard.NewLocalFeed(), boardLog)
	}

	b.close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return b, nil
}
