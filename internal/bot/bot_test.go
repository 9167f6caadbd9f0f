package bot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/mancala/internal/engine"
	"github.com/lox/mancala/internal/game"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind    string
		cfg     Config
		name    string
		wantErr bool
	}{
		{kind: "random", name: "random"},
		{kind: "Greedy", name: "greedy"},
		{kind: "engine", cfg: Config{Searcher: &fakeSearcher{}, Engine: engine.AlphaBeta, Difficulty: 6}, name: "engine:alpha-beta/6"},
		{kind: "engine", wantErr: true},
		{kind: "human", cfg: Config{In: strings.NewReader(""), Out: io.Discard}, name: "human"},
		{kind: "human", wantErr: true},
		{kind: "oracle", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			b, err := New(tt.kind, tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, b.Name())
		})
	}
}

func TestRandom(t *testing.T) {
	t.Parallel()

	g := game.NewGamestate(nil)
	require.NoError(t, g.PlayMove(2)) // hole 2 is now empty and player 0 moves again

	a, b := NewRandom(11), NewRandom(11)
	seen := make(map[int]bool)
	for range 200 {
		ma, err := a.ChooseMove(context.Background(), g)
		require.NoError(t, err)
		mb, _ := b.ChooseMove(context.Background(), g)
		assert.Equal(t, ma, mb, "same seed must pick the same moves")
		assert.NotEqual(t, 2, ma)
		seen[ma] = true
	}
	assert.Len(t, seen, 5)
}

func TestNoMoves(t *testing.T) {
	t.Parallel()

	rules, err := game.NewRuleset(game.WithHolesPerSide(1))
	require.NoError(t, err)
	g, err := game.NewGamestateFromPosition(rules, game.EmptyBoard(1), 0)
	require.NoError(t, err)

	for _, b := range []Bot{NewRandom(1), NewGreedy(1)} {
		_, err := b.ChooseMove(context.Background(), g)
		assert.ErrorIs(t, err, ErrNoMoves, b.Name())
	}
}

func TestGreedy(t *testing.T) {
	t.Parallel()

	t.Run("prefers the capture", func(t *testing.T) {
		// hole 0 captures four seeds from absolute 11; hole 5 only reaches the store
		b, err := game.BoardFromRows([]int{1, 0, 0, 0, 0, 2}, []int{1, 0, 0, 0, 3, 0}, 0, 0)
		require.NoError(t, err)
		g, err := game.NewGamestateFromPosition(game.DefaultRuleset(), b, 0)
		require.NoError(t, err)

		move, err := NewGreedy(3).ChooseMove(context.Background(), g)
		require.NoError(t, err)
		assert.Equal(t, 0, move)
		assert.Equal(t, "1 0 0 0 0 2 0 1 0 0 0 3 0 0 0", g.WireString(), "lookahead must not touch the game")
	})

	t.Run("takes the extra turn from the opening", func(t *testing.T) {
		move, err := NewGreedy(3).ChooseMove(context.Background(), game.NewGamestate(nil))
		require.NoError(t, err)
		assert.Equal(t, 2, move)
	})

	t.Run("evaluate", func(t *testing.T) {
		g := game.NewGamestate(nil)
		score, err := Evaluate(g, 2)
		require.NoError(t, err)
		assert.Equal(t, 1+extraTurnBonus, score)

		score, err = Evaluate(g, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, score)

		_, err = Evaluate(g, 9)
		assert.ErrorIs(t, err, game.ErrMoveOutOfRange)
	})
}

type fakeSearcher struct {
	move  int
	err   error
	calls int
	got   struct {
		position   string
		preferred  engine.EngineID
		difficulty int
		timeout    time.Duration
	}
}

func (f *fakeSearcher) BestMove(_ context.Context, g *game.Gamestate, preferred engine.EngineID, difficulty int, timeout time.Duration) (int, error) {
	f.calls++
	f.got.position = g.WireString()
	f.got.preferred = preferred
	f.got.difficulty = difficulty
	f.got.timeout = timeout
	return f.move, f.err
}

func TestEngineBot(t *testing.T) {
	t.Parallel()

	fs := &fakeSearcher{move: 4}
	b := NewEngine(fs, engine.HeuristicAlphaBeta, 5, 3*time.Second, zerolog.Nop())

	g := game.NewGamestate(nil)
	move, err := b.ChooseMove(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, 4, move)
	assert.Equal(t, g.WireString(), fs.got.position)
	assert.Equal(t, engine.HeuristicAlphaBeta, fs.got.preferred)
	assert.Equal(t, 5, fs.got.difficulty)
	assert.Equal(t, 3*time.Second, fs.got.timeout)

	fs.err = &engine.SearchFailedError{Command: "search 5 10", Reply: "-1"}
	_, err = b.ChooseMove(context.Background(), g)
	assert.ErrorIs(t, err, engine.ErrSearchFailed)

	assert.Equal(t, "engine:beta-alpha/-2", NewEngine(fs, engine.AlphaBeta, -2, 0, zerolog.Nop()).Name())
}

func TestHuman(t *testing.T) {
	t.Parallel()

	g := game.NewGamestate(nil)
	require.NoError(t, g.PlayMove(2))

	t.Run("reprompts until legal", func(t *testing.T) {
		var out bytes.Buffer
		h := NewHuman(strings.NewReader("seven\n9\n3\n 4 \n"), &out)
		move, err := h.ChooseMove(context.Background(), g)
		require.NoError(t, err)
		assert.Equal(t, 3, move)
		assert.Contains(t, out.String(), "Enter a number between 1 and 6.")
		assert.Contains(t, out.String(), "Hole 3 is empty.")
		assert.Equal(t, 4, strings.Count(out.String(), "choose a hole"))
	})

	t.Run("quit", func(t *testing.T) {
		h := NewHuman(strings.NewReader("q\n"), io.Discard)
		_, err := h.ChooseMove(context.Background(), g)
		assert.ErrorIs(t, err, ErrQuit)
	})

	t.Run("end of input", func(t *testing.T) {
		h := NewHuman(strings.NewReader(""), io.Discard)
		_, err := h.ChooseMove(context.Background(), g)
		assert.True(t, errors.Is(err, io.EOF))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		h := NewHuman(strings.NewReader("1\n"), io.Discard)
		_, err := h.ChooseMove(ctx, g)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
