package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lox/mancala/internal/bot"
	"github.com/lox/mancala/internal/config"
	"github.com/lox/mancala/internal/engine"
)

// agentFactory builds bots of one kind from shared settings.
type agentFactory struct {
	kind     string
	settings config.Engine
	searcher bot.Searcher
	logger   zerolog.Logger
	in       io.Reader
	out      io.Writer
}

func (f agentFactory) build(seed int64) (bot.Bot, error) {
	return bot.New(f.kind, bot.Config{
		Seed:       seed,
		Logger:     f.logger,
		Searcher:   f.searcher,
		Engine:     f.settings.Preferred,
		Difficulty: f.settings.Difficulty,
		Timeout:    f.settings.Timeout,
		In:         f.in,
		Out:        f.out,
	})
}

func validateKinds(kinds ...string) error {
	for _, k := range kinds {
		if !slices.Contains(bot.Kinds(), strings.ToLower(k)) {
			return fmt.Errorf("unknown bot %q (want one of %s)", k, strings.Join(bot.Kinds(), ", "))
		}
	}
	return nil
}

func needsEngine(kinds ...string) bool {
	for _, k := range kinds {
		if strings.EqualFold(k, bot.KindEngine) {
			return true
		}
	}
	return false
}

// startEngine launches the configured engine executable. The caller closes it.
func startEngine(ctx context.Context, settings config.Engine, logger zerolog.Logger) (*engine.Client, error) {
	client, err := engine.Start(ctx, settings.ProcessConfig(),
		engine.WithLogger(logger),
		engine.WithGrace(settings.Grace))
	if err != nil {
		return nil, fmt.Errorf("start engine %q: %w", settings.Path, err)
	}
	return client, nil
}
