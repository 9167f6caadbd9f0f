// Package engine talks to an external Mancala search process over its
// line-based text protocol.
//
// The process reads commands on stdin and answers on stdout:
//
//	board <counts...> <player>   push a position; silence means it parsed
//	search <engine_id> <depth>   reply with an absolute hole index or -1
//
// Client owns one such process (or any reader/writer pair speaking the same
// protocol) and turns replies into typed errors.
package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// EngineID selects the search algorithm used by the external process.
type EngineID int

const (
	Human EngineID = iota
	Random
	Minimax
	AlphaBeta
	ThreadedAlphaBeta
	HeuristicAlphaBeta
	BetaAlpha
)

// DefaultDifficulty is the search depth used when none is configured.
const DefaultDifficulty = 6

var engineNames = map[EngineID]string{
	Human:              "human",
	Random:             "random",
	Minimax:            "minimax",
	AlphaBeta:          "alpha-beta",
	ThreadedAlphaBeta:  "threaded-alpha-beta",
	HeuristicAlphaBeta: "heuristic-alpha-beta",
	BetaAlpha:          "beta-alpha",
}

// aliases accepted by ParseEngineID in addition to the canonical names.
var engineAliases = map[string]EngineID{
	"min_max":            Minimax,
	"alpha_beta":         AlphaBeta,
	"ab":                 AlphaBeta,
	"simple_threaded_ab": ThreadedAlphaBeta,
	"threaded":           ThreadedAlphaBeta,
	"heuristic_ab":       HeuristicAlphaBeta,
	"heuristic":          HeuristicAlphaBeta,
	"beta_alpha":         BetaAlpha,
}

func (id EngineID) String() string {
	if name, ok := engineNames[id]; ok {
		return name
	}
	return fmt.Sprintf("EngineID(%d)", int(id))
}

// Valid reports whether id is one the protocol defines.
func (id EngineID) Valid() bool {
	_, ok := engineNames[id]
	return ok
}

// ParseEngineID resolves an engine by name, alias or protocol number.
func ParseEngineID(s string) (EngineID, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for id, n := range engineNames {
		if n == name {
			return id, nil
		}
	}
	if id, ok := engineAliases[name]; ok {
		return id, nil
	}
	if n, err := strconv.Atoi(name); err == nil && EngineID(n).Valid() {
		return EngineID(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEngine, s)
}

// UnmarshalText lets EngineID be used directly in config structs.
func (id *EngineID) UnmarshalText(text []byte) error {
	parsed, err := ParseEngineID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id EngineID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// SearchParams maps a difficulty onto the engine and depth sent with a search
// command. Zero plays randomly and a negative difficulty plays the reversed
// beta-alpha search; otherwise preferred searches twice the difficulty in plies.
func SearchParams(difficulty int, preferred EngineID) (EngineID, int) {
	switch {
	case difficulty == 0:
		return Random, 0
	case difficulty < 0:
		return BetaAlpha, -difficulty * 2
	default:
		return preferred, difficulty * 2
	}
}
