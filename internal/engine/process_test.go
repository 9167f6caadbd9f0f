package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/mancala/internal/game"
)

const (
	helperEnv     = "MANCALA_HELPER_ENGINE"
	helperModeEnv = "MANCALA_HELPER_MODE"
)

// TestHelperEngine is not a real test: it is the engine executable used by the
// process tests, re-executed from the test binary.
func TestHelperEngine(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		t.Skip("helper process")
	}
	if os.Getenv(helperModeEnv) == "reply-and-exit" {
		// answer the first command and exit without waiting for the client to read it
		bufio.NewScanner(os.Stdin).Scan()
		fmt.Println(2)
		os.Exit(0)
	}
	fakeEngine(os.Stdin, os.Stdout, os.Stderr)
	os.Exit(0)
}

// fakeEngine answers searches with the lowest legal hole of the pushed position.
func fakeEngine(in io.Reader, out, diag io.Writer) {
	fmt.Fprintln(diag, "fake engine ready")

	var g *game.Gamestate
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		cmd, args, _ := strings.Cut(scanner.Text(), " ")
		switch cmd {
		case "board":
			board, player, err := game.ParsePosition(args)
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			rules, err := game.NewRuleset(game.WithHolesPerSide(board.HolesPerSide()))
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			g, _ = game.NewGamestateFromPosition(rules, board, player)
		case "search":
			moves := []int(nil)
			if g != nil {
				moves = g.LegalMoves()
			}
			if len(moves) == 0 {
				fmt.Fprintln(out, -1)
				continue
			}
			fmt.Fprintln(out, g.Rules().RelativeToAbsolute(moves[0], g.CurrentPlayer()))
		case "quit":
			return
		}
	}
}

func helperConfig() ProcessConfig {
	return ProcessConfig{
		Command: os.Args[0],
		Args:    []string{"-test.run=^TestHelperEngine$"},
		Env:     map[string]string{helperEnv: "1"},
	}
}

func TestStartHelperEngine(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := Start(ctx, helperConfig(), WithGrace(50*time.Millisecond), WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.Process())
	assert.True(t, c.Process().IsAlive())
	assert.Len(t, c.Process().ID, 8)

	g := game.NewGamestate(nil)
	require.NoError(t, g.PlayMove(0))

	move, err := c.BestMove(ctx, g, AlphaBeta, 3, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, move)

	t.Run("no legal move", func(t *testing.T) {
		_, err := c.BestMove(ctx, emptyPosition(t), AlphaBeta, 3, 10*time.Second)
		assert.ErrorIs(t, err, ErrSearchFailed)
	})

	require.NoError(t, c.Close())
	_ = c.Process().Wait()
	assert.False(t, c.Process().IsAlive())
}

func TestReplyBeforeExit(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := helperConfig()
	cfg.Env[helperModeEnv] = "reply-and-exit"

	for i := range 5 {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			c, err := Start(ctx, cfg, WithLogger(zerolog.Nop()))
			require.NoError(t, err)
			defer c.Close()

			move, err := c.Search(ctx, AlphaBeta, 3, 5*time.Second)
			require.NoError(t, err)
			assert.Equal(t, 2, move)
			assert.NoError(t, c.Process().Wait())
		})
	}
}

// emptyPosition returns a one-hole game with no seeds left to sow.
func emptyPosition(t *testing.T) *game.Gamestate {
	t.Helper()
	rules, err := game.NewRuleset(game.WithHolesPerSide(1))
	require.NoError(t, err)
	g, err := game.NewGamestateFromPosition(rules, game.EmptyBoard(1), 1)
	require.NoError(t, err)
	return g
}

func TestProcessStartErrors(t *testing.T) {
	t.Parallel()

	t.Run("no command", func(t *testing.T) {
		p := NewProcess(context.Background(), ProcessConfig{}, zerolog.Nop())
		assert.Error(t, p.Start())
	})

	t.Run("missing executable", func(t *testing.T) {
		_, err := Start(context.Background(), ProcessConfig{Command: "/nonexistent/mancala-engine"})
		assert.Error(t, err)
	})

	t.Run("stop before start", func(t *testing.T) {
		p := NewProcess(context.Background(), helperConfig(), zerolog.Nop())
		assert.NoError(t, p.Stop())
	})
}
