package match

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/mancala/internal/game"
	"github.com/lox/mancala/internal/randutil"
	"github.com/lox/mancala/internal/statistics"
)

// AgentFactory builds a fresh agent for one game of a series. Agents from the
// same factory may run concurrently, so shared resources must be safe for that.
type AgentFactory func(seed int64) (Agent, error)

// SeriesConfig describes a batch of games between two agents.
type SeriesConfig struct {
	Games       int
	Concurrency int // games in flight; defaults to GOMAXPROCS
	Seed        int64
	Rules       *game.Ruleset
	MaxTurns    int
	Retries     int
	Logger      zerolog.Logger
}

// SeriesResult holds the statistics from the first agent's point of view and
// every individual match result, in game order.
type SeriesResult struct {
	Names   [2]string
	Stats   *statistics.Statistics
	Matches []*Result
}

// RunSeries plays cfg.Games games. The first agent takes side 0 in even games
// and side 1 in odd ones; game i builds both agents from the i-th derived seed,
// so a series is reproducible game by game. The first error cancels the rest.
func RunSeries(ctx context.Context, cfg SeriesConfig, first, second AgentFactory) (*SeriesResult, error) {
	if cfg.Games <= 0 {
		return nil, fmt.Errorf("series needs at least one game, got %d", cfg.Games)
	}
	limit := cfg.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	maxTurns := cfg.MaxTurns
	if maxTurns == 0 {
		maxTurns = DefaultMaxTurns
	}
	logger := cfg.Logger.With().Str("component", "series").Logger()

	results := make([]*Result, cfg.Games)
	outcomes := make([]statistics.GameResult, cfg.Games)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i := range cfg.Games {
		eg.Go(func() error {
			seed := randutil.Derive(cfg.Seed, i)
			a, err := first(randutil.Derive(seed, 0))
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			b, err := second(randutil.Derive(seed, 1))
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}

			seat := i % 2
			seated := [2]Agent{a, b}
			if seat == 1 {
				seated = [2]Agent{b, a}
			}

			m := New(cfg.Rules, seated[0], seated[1],
				WithLogger(logger.Level(zerolog.WarnLevel)),
				WithMaxTurns(maxTurns),
				WithRetries(cfg.Retries))
			res, err := m.Play(egCtx)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, seed, err)
			}

			results[i] = res
			outcomes[i] = statistics.GameResult{
				Margin: res.Margin(seat),
				Seed:   seed,
				Seat:   seat,
				Turns:  len(res.Turns),
			}
			logger.Debug().
				Int("game", i+1).
				Int("seat", seat).
				Int("margin", outcomes[i].Margin).
				Msg("Game finished")
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sr := &SeriesResult{Stats: &statistics.Statistics{}, Matches: results}
	sr.Names[0] = results[0].Players[0]
	sr.Names[1] = results[0].Players[1]
	for _, o := range outcomes {
		sr.Stats.Add(o)
	}
	if err := sr.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	logger.Info().
		Int("games", sr.Stats.Games).
		Int("wins", sr.Stats.Wins).
		Int("losses", sr.Stats.Losses).
		Int("ties", sr.Stats.Ties).
		Float64("mean_margin", sr.Stats.Mean()).
		Msg("Series finished")
	return sr, nil
}
