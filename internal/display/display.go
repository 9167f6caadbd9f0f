// Package display renders Mancala boards for terminals.
//
// A board is drawn from one player's side: that player's holes run left to
// right along the bottom towards their store on the right, and the opponent's
// row runs along the top in reverse so each hole sits below its opposite.
//
//	Player 1
//	     [ 4] [ 4] [ 4] [ 4] [ 4] [ 4]
//	[ 0]                               [ 0]
//	     [ 4] [ 4] [ 4] [ 4] [ 4] [ 4]
//	       1    2    3    4    5    6
//	Player 0
package display

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/mancala/internal/game"
)

// emptyMark stands in for the count of an empty hole.
const emptyMark = "."

// Renderer draws boards and game status lines.
type Renderer struct {
	styles styles
	names  [2]string
}

type Option func(*Renderer)

// WithRenderer binds styles to r instead of standard output's renderer.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(d *Renderer) { d.styles = newStyles(r) }
}

// WithNames labels the two sides.
func WithNames(side0, side1 string) Option {
	return func(d *Renderer) { d.names = [2]string{side0, side1} }
}

func New(opts ...Option) *Renderer {
	d := &Renderer{
		styles: newStyles(lipgloss.NewRenderer(os.Stdout)),
		names:  [2]string{"Player 0", "Player 1"},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Board draws b as seen by facing.
func (d *Renderer) Board(b *game.Board, facing int) string {
	if facing != 1 {
		facing = 0
	}
	opponent := 1 - facing
	n := b.HolesPerSide()
	width := max(2, len(strconv.Itoa(b.Total())))

	cell := func(count int, style lipgloss.Style) string {
		return "[" + style.Render(fmt.Sprintf("%*d", width, count)) + "]"
	}
	hole := func(count int) string {
		if count == 0 {
			return "[" + d.styles.empty.Render(fmt.Sprintf("%*s", width, emptyMark)) + "]"
		}
		return cell(count, d.styles.hole)
	}

	own := b.Holes(facing)
	theirs := b.Holes(opponent)

	top := make([]string, n)
	bottom := make([]string, n)
	index := make([]string, n)
	for i := range n {
		top[i] = hole(theirs[n-1-i])
		bottom[i] = hole(own[i])
		index[i] = " " + d.styles.index.Render(fmt.Sprintf("%*d", width, i+1)) + " "
	}

	cellWidth := width + 2
	rowWidth := n*cellWidth + n - 1
	indent := strings.Repeat(" ", cellWidth+1)

	lines := []string{
		d.styles.header.Render(d.names[opponent]),
		indent + strings.Join(top, " "),
		cell(b.Store(opponent), d.styles.store) + strings.Repeat(" ", rowWidth+2) + cell(b.Store(facing), d.styles.store),
		indent + strings.Join(bottom, " "),
		strings.TrimRight(indent+strings.Join(index, " "), " "),
		d.styles.header.Render(d.names[facing]),
	}
	return strings.Join(lines, "\n")
}

// Status describes whose turn it is or how the game ended.
func (d *Renderer) Status(g *game.Gamestate) string {
	result, over := g.Result()
	if !over {
		return d.styles.turn.Render(d.names[g.CurrentPlayer()] + " to move")
	}
	s0, _ := g.Score(0)
	s1, _ := g.Score(1)
	var text string
	switch result {
	case game.Tie:
		text = fmt.Sprintf("Game over: tie %d-%d", s0, s1)
	default:
		winner := int(result)
		text = fmt.Sprintf("Game over: %s wins %d-%d", d.names[winner], max(s0, s1), min(s0, s1))
	}
	return d.styles.result.Render(text)
}

// Position draws the board from facing followed by the status line.
func (d *Renderer) Position(g *game.Gamestate, facing int) string {
	return d.Board(g.Board(), facing) + "\n" + d.Status(g)
}

// Moves lists the legal moves as 1-based hole numbers.
func (d *Renderer) Moves(g *game.Gamestate) string {
	moves := g.LegalMoves()
	if len(moves) == 0 {
		return "No legal moves"
	}
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = strconv.Itoa(m + 1)
	}
	return "Legal moves: " + strings.Join(parts, " ")
}
