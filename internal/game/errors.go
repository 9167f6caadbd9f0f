package game

import (
	"errors"
	"fmt"
)

// Validation errors: the caller asked for an illegal move. The board is untouched.
var (
	ErrMoveOutOfRange = errors.New("game: move out of range")
	ErrEmptyHole      = errors.New("game: hole is empty")
)

// ErrGameOver is returned for any move requested after the game reached a terminal state.
var ErrGameOver = errors.New("game: game is over")

// Construction and addressing errors.
var (
	ErrInvalidRuleset  = errors.New("game: invalid ruleset")
	ErrIndexOutOfRange = errors.New("game: index out of range")
	ErrNegativeCount   = errors.New("game: negative seed count")
	ErrMalformedBoard  = errors.New("game: malformed board")
	ErrInvalidPlayer   = errors.New("game: invalid player")
)

// MoveError describes a rejected move.
type MoveError struct {
	Hole   int // relative hole index as supplied by the caller
	Player int
	Err    error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("player %d hole %d: %v", e.Player, e.Hole, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a move validation failure (out of range or empty hole).
func IsValidation(err error) bool {
	return errors.Is(err, ErrMoveOutOfRange) || errors.Is(err, ErrEmptyHole)
}

// RulesetError reports the offending ruleset field.
type RulesetError struct {
	Field string
	Value int
}

func (e *RulesetError) Error() string {
	return fmt.Sprintf("%v: %s=%d", ErrInvalidRuleset, e.Field, e.Value)
}

func (e *RulesetError) Unwrap() error { return ErrInvalidRuleset }
