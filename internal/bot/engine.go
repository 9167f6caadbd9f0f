package bot

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/mancala/internal/engine"
	"github.com/lox/mancala/internal/game"
)

// Searcher is the part of engine.Client the engine bot needs.
type Searcher interface {
	BestMove(ctx context.Context, g *game.Gamestate, preferred engine.EngineID, difficulty int, timeout time.Duration) (int, error)
}

var _ Searcher = (*engine.Client)(nil)

// Engine asks the external search process for its move.
type Engine struct {
	searcher   Searcher
	preferred  engine.EngineID
	difficulty int
	timeout    time.Duration
	logger     zerolog.Logger
}

func NewEngine(s Searcher, preferred engine.EngineID, difficulty int, timeout time.Duration, logger zerolog.Logger) *Engine {
	return &Engine{
		searcher:   s,
		preferred:  preferred,
		difficulty: difficulty,
		timeout:    timeout,
		logger:     logger.With().Str("component", "bot").Str("bot", KindEngine).Logger(),
	}
}

// Name includes the engine and difficulty, e.g. "engine:alpha-beta/6".
func (b *Engine) Name() string {
	id, _ := engine.SearchParams(b.difficulty, b.preferred)
	return KindEngine + ":" + id.String() + "/" + strconv.Itoa(b.difficulty)
}

func (b *Engine) ChooseMove(ctx context.Context, g *game.Gamestate) (int, error) {
	start := time.Now()
	rel, err := b.searcher.BestMove(ctx, g, b.preferred, b.difficulty, b.timeout)
	if err != nil {
		b.logger.Warn().Err(err).Str("position", g.WireString()).Msg("Engine search failed")
		return 0, err
	}
	b.logger.Debug().
		Str("position", g.WireString()).
		Int("move", rel).
		Dur("took", time.Since(start)).
		Msg("Engine chose move")
	return rel, nil
}
