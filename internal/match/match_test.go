package match

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/mancala/internal/bot"
	"github.com/lox/mancala/internal/engine"
	"github.com/lox/mancala/internal/game"
)

// scripted plays a fixed list of holes, failing first with any queued errors.
type scripted struct {
	name  string
	moves []int
	errs  []error
	asked int
}

func (s *scripted) Name() string { return s.name }

func (s *scripted) ChooseMove(context.Context, *game.Gamestate) (int, error) {
	s.asked++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return 0, err
	}
	if len(s.moves) == 0 {
		return 0, errors.New("script exhausted")
	}
	move := s.moves[0]
	s.moves = s.moves[1:]
	return move, nil
}

func endgame(t *testing.T) *game.Gamestate {
	t.Helper()
	b, err := game.BoardFromRows([]int{0, 0, 0, 0, 0, 1}, []int{2, 0, 0, 0, 0, 3}, 10, 5)
	require.NoError(t, err)
	g, err := game.NewGamestateFromPosition(game.DefaultRuleset(), b, 0)
	require.NoError(t, err)
	return g
}

func TestPlayFullGame(t *testing.T) {
	t.Parallel()

	m := New(nil, bot.NewRandom(1), bot.NewGreedy(2))
	assert.Len(t, m.ID(), 8)

	res, err := m.Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, m.ID(), res.ID)
	assert.Equal(t, [2]string{"random", "greedy"}, res.Players)
	assert.Equal(t, "4 4 4 4 4 4 0 4 4 4 4 4 4 0 0", res.Start)
	assert.Equal(t, 48, res.Scores[0]+res.Scores[1])
	assert.NotEmpty(t, res.Turns)
	assert.False(t, res.Finished.Before(res.Started))

	switch {
	case res.Scores[0] > res.Scores[1]:
		assert.Equal(t, game.Player0, res.Winner)
	case res.Scores[1] > res.Scores[0]:
		assert.Equal(t, game.Player1, res.Winner)
	default:
		assert.Equal(t, game.Tie, res.Winner)
	}

	for i, turn := range res.Turns {
		assert.Equal(t, i+1, turn.Number)
		if i > 0 {
			assert.Equal(t, res.Turns[i-1].After, turn.Before)
			assert.Equal(t, res.Turns[i-1].Next, turn.Player)
		}
	}
}

func TestPlayFromPosition(t *testing.T) {
	t.Parallel()

	var observed []Turn
	m := New(nil, &scripted{name: "a", moves: []int{5}}, &scripted{name: "b"},
		WithPosition(endgame(t)),
		WithFrames(true),
		WithID("fixed"),
		WithObserver(func(g *game.Gamestate, turn Turn) {
			assert.True(t, g.GameOver())
			observed = append(observed, turn)
		}))

	res, err := m.Play(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed", res.ID)
	assert.Equal(t, game.Player0, res.Winner)
	assert.Equal(t, [2]int{11, 10}, res.Scores)
	assert.Equal(t, 1, res.Margin(0))
	assert.Equal(t, -1, res.Margin(1))

	require.Len(t, res.Turns, 1)
	turn := res.Turns[0]
	assert.True(t, turn.ExtraTurn())
	assert.Equal(t, "0 0 0 0 0 0 11 0 0 0 0 0 0 10 0", turn.After)
	require.NotEmpty(t, turn.Frames)
	assert.Equal(t, "0 0 0 0 0 0 11 0 0 0 0 0 0 10", turn.Frames[len(turn.Frames)-1].WireString())
	assert.Equal(t, res.Turns, observed)
}

func TestPositionIsNotShared(t *testing.T) {
	t.Parallel()

	g := endgame(t)
	m := New(nil, &scripted{name: "a", moves: []int{5}}, &scripted{name: "b"}, WithPosition(g))
	_, err := m.Play(context.Background())
	require.NoError(t, err)
	assert.False(t, g.GameOver())
}

func TestRetries(t *testing.T) {
	t.Parallel()

	timeout := engine.ErrTimeout

	t.Run("recovers within budget", func(t *testing.T) {
		a := &scripted{name: "engine", moves: []int{5}, errs: []error{timeout, timeout}}
		m := New(nil, a, &scripted{name: "b"}, WithPosition(endgame(t)), WithRetries(2))
		_, err := m.Play(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, a.asked)
	})

	t.Run("gives up", func(t *testing.T) {
		a := &scripted{name: "engine", moves: []int{5}, errs: []error{timeout, timeout}}
		m := New(nil, a, &scripted{name: "b"}, WithPosition(endgame(t)), WithRetries(1))
		_, err := m.Play(context.Background())
		require.ErrorIs(t, err, engine.ErrTimeout)

		var aerr *AgentError
		require.True(t, errors.As(err, &aerr))
		assert.Equal(t, 0, aerr.Player)
		assert.Equal(t, "engine", aerr.Agent)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		a := &scripted{name: "engine", moves: []int{5}, errs: []error{engine.ErrSearchFailed}}
		m := New(nil, a, &scripted{name: "b"}, WithPosition(endgame(t)), WithRetries(5))
		_, err := m.Play(context.Background())
		assert.ErrorIs(t, err, engine.ErrSearchFailed)
		assert.Equal(t, 1, a.asked)
	})
}

func TestIllegalMove(t *testing.T) {
	t.Parallel()

	m := New(nil, &scripted{name: "a", moves: []int{0}}, &scripted{name: "b"}, WithPosition(endgame(t)))
	res, err := m.Play(context.Background())
	require.ErrorIs(t, err, game.ErrEmptyHole)
	assert.Empty(t, res.Turns)
}

func TestTurnLimit(t *testing.T) {
	t.Parallel()

	m := New(nil, bot.NewRandom(3), bot.NewRandom(4), WithMaxTurns(3))
	res, err := m.Play(context.Background())
	require.ErrorIs(t, err, ErrTurnLimit)
	assert.Len(t, res.Turns, 3)
}

func TestCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil, bot.NewRandom(1), bot.NewRandom(2)).Play(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
