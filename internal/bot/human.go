package bot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lox/mancala/internal/game"
)

// ErrQuit is returned when the player asks to leave the game.
var ErrQuit = errors.New("bot: player quit")

// Human reads moves from a terminal. Holes are numbered from 1 for the player,
// left to right from their own side of the board.
type Human struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{in: bufio.NewScanner(in), out: out}
}

func (h *Human) Name() string { return KindHuman }

// ChooseMove prompts until it reads a legal hole, the player quits or input ends.
func (h *Human) ChooseMove(ctx context.Context, g *game.Gamestate) (int, error) {
	mask := g.ValidMask()
	n := len(mask)
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprintf(h.out, "Player %d, choose a hole (1-%d, q to quit): ", g.CurrentPlayer(), n)
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return 0, fmt.Errorf("read move: %w", err)
			}
			return 0, fmt.Errorf("read move: %w", io.EOF)
		}

		input := strings.ToLower(strings.TrimSpace(h.in.Text()))
		if input == "q" || input == "quit" {
			return 0, ErrQuit
		}
		hole, err := strconv.Atoi(input)
		switch {
		case err != nil || hole < 1 || hole > n:
			fmt.Fprintf(h.out, "Enter a number between 1 and %d.\n", n)
		case !mask[hole-1]:
			fmt.Fprintf(h.out, "Hole %d is empty.\n", hole)
		default:
			return hole - 1, nil
		}
	}
}
