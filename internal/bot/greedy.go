package bot

import (
	"context"
	"math/rand/v2"

	"github.com/lox/mancala/internal/game"
	"github.com/lox/mancala/internal/randutil"
)

// extraTurnBonus values keeping the move slightly above one seed of store lead.
const extraTurnBonus = 1

// Greedy looks one move ahead and plays the move that leaves the best store
// difference for the mover. An extra turn breaks near ties in its favour;
// remaining ties are broken at random.
type Greedy struct {
	rng *rand.Rand
}

func NewGreedy(seed int64) *Greedy {
	return &Greedy{rng: randutil.New(seed)}
}

func (b *Greedy) Name() string { return KindGreedy }

func (b *Greedy) ChooseMove(_ context.Context, g *game.Gamestate) (int, error) {
	moves := g.LegalMoves()
	if len(moves) == 0 {
		return 0, ErrNoMoves
	}

	var best []int
	bestScore := 0
	for _, rel := range moves {
		score, err := Evaluate(g, rel)
		if err != nil {
			return 0, err
		}
		switch {
		case best == nil || score > bestScore:
			best, bestScore = []int{rel}, score
		case score == bestScore:
			best = append(best, rel)
		}
	}
	return best[b.rng.IntN(len(best))], nil
}

// Evaluate plays rel on a copy of g and scores the result for the mover:
// store difference, plus a bonus when the mover moves again.
func Evaluate(g *game.Gamestate, rel int) (int, error) {
	me := g.CurrentPlayer()
	next := g.Clone()
	if err := next.PlayMove(rel); err != nil {
		return 0, err
	}

	board := next.Board()
	score := board.Store(me) - board.Store(1-me)
	if !next.GameOver() && next.CurrentPlayer() == me {
		score += extraTurnBonus
	}
	return score, nil
}
