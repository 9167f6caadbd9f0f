package bot

import (
	"context"
	"math/rand/v2"

	"github.com/lox/mancala/internal/game"
	"github.com/lox/mancala/internal/randutil"
)

// Random plays a uniformly random legal move.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rng: randutil.New(seed)}
}

func (r *Random) Name() string { return KindRandom }

func (r *Random) ChooseMove(_ context.Context, g *game.Gamestate) (int, error) {
	moves := g.LegalMoves()
	if len(moves) == 0 {
		return 0, ErrNoMoves
	}
	return moves[r.rng.IntN(len(moves))], nil
}
