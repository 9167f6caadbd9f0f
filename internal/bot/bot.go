// Package bot provides move selectors for Mancala games.
package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/mancala/internal/engine"
	"github.com/lox/mancala/internal/game"
)

// ErrNoMoves is returned when asked to move in a position with no legal move.
var ErrNoMoves = errors.New("bot: no legal moves")

// Bot chooses a move for the player to move in g. It returns a relative hole
// index and never mutates g.
type Bot interface {
	Name() string
	ChooseMove(ctx context.Context, g *game.Gamestate) (int, error)
}

// Kinds accepted by New.
const (
	KindRandom = "random"
	KindGreedy = "greedy"
	KindEngine = "engine"
	KindHuman  = "human"
)

// Kinds lists every kind New understands.
func Kinds() []string {
	return []string{KindRandom, KindGreedy, KindEngine, KindHuman}
}

// Config carries what the various bots need; each kind reads only its fields.
type Config struct {
	Seed   int64
	Logger zerolog.Logger

	// engine
	Searcher   Searcher
	Engine     engine.EngineID
	Difficulty int
	Timeout    time.Duration

	// human
	In  io.Reader
	Out io.Writer
}

// New builds a bot by kind name.
func New(kind string, cfg Config) (Bot, error) {
	switch strings.ToLower(kind) {
	case KindRandom:
		return NewRandom(cfg.Seed), nil
	case KindGreedy:
		return NewGreedy(cfg.Seed), nil
	case KindEngine:
		if cfg.Searcher == nil {
			return nil, fmt.Errorf("bot %q needs an engine client", kind)
		}
		return NewEngine(cfg.Searcher, cfg.Engine, cfg.Difficulty, cfg.Timeout, cfg.Logger), nil
	case KindHuman:
		if cfg.In == nil || cfg.Out == nil {
			return nil, fmt.Errorf("bot %q needs a terminal", kind)
		}
		return NewHuman(cfg.In, cfg.Out), nil
	default:
		return nil, fmt.Errorf("unknown bot %q (want one of %s)", kind, strings.Join(Kinds(), ", "))
	}
}
