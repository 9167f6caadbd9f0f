package record

import (
	"errors"
	"fmt"

	"github.com/lox/mancala/internal/game"
)

var ErrMismatch = errors.New("record: replay does not match record")

// MismatchError points at the first move whose replayed outcome differs from
// the record. Move 0 refers to the final result.
type MismatchError struct {
	Move  int
	Field string
	Want  string
	Got   string
}

func (e *MismatchError) Error() string {
	if e.Move == 0 {
		return fmt.Sprintf("final %s: recorded %q, replayed %q", e.Field, e.Want, e.Got)
	}
	return fmt.Sprintf("move %d %s: recorded %q, replayed %q", e.Move, e.Field, e.Want, e.Got)
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// Step is one replayed move.
type Step struct {
	Move   Move
	Board  *game.Board   // board after the move
	Frames []*game.Board // intermediate boards, when requested
}

// Replay plays every recorded move from the recorded start and checks the
// mover, each resulting position and the final scores. With frames set each
// step carries the intermediate boards of its move.
func Replay(rec *GameRecord, frames bool) (*game.Gamestate, []Step, error) {
	rules, err := rec.Rules.Ruleset()
	if err != nil {
		return nil, nil, err
	}
	board, player, err := game.ParsePosition(rec.Start)
	if err != nil {
		return nil, nil, fmt.Errorf("start position: %w", err)
	}
	g, err := game.NewGamestateFromPosition(rules, board, player)
	if err != nil {
		return nil, nil, fmt.Errorf("start position: %w", err)
	}

	steps := make([]Step, 0, len(rec.Moves))
	for _, mv := range rec.Moves {
		if g.CurrentPlayer() != mv.Player {
			return g, steps, &MismatchError{Move: mv.Number, Field: "player", Want: fmt.Sprint(mv.Player), Got: fmt.Sprint(g.CurrentPlayer())}
		}
		var stack game.BoardStack
		var opts []game.MoveOption
		if frames {
			opts = append(opts, game.WithRecorder(&stack))
		}
		if err := g.PlayMove(mv.Hole, opts...); err != nil {
			return g, steps, fmt.Errorf("move %d: %w", mv.Number, err)
		}
		if got := g.WireString(); got != mv.Position {
			return g, steps, &MismatchError{Move: mv.Number, Field: "position", Want: mv.Position, Got: got}
		}
		steps = append(steps, Step{Move: mv, Board: g.Board(), Frames: stack.Boards})
	}

	result, ok := g.Result()
	if !ok {
		return g, steps, &MismatchError{Field: "result", Want: rec.Result, Got: "unfinished"}
	}
	if result.String() != rec.Result {
		return g, steps, &MismatchError{Field: "result", Want: rec.Result, Got: result.String()}
	}
	for side := range 2 {
		score, _ := g.Score(side)
		if score != rec.Scores[side] {
			return g, steps, &MismatchError{
				Field: fmt.Sprintf("score %d", side),
				Want:  fmt.Sprint(rec.Scores[side]),
				Got:   fmt.Sprint(score),
			}
		}
	}
	return g, steps, nil
}
