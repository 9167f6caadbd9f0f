package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Result is the outcome of a finished game.
type Result int

const (
	Player0 Result = iota
	Player1
	Tie
)

func (r Result) String() string {
	switch r {
	case Player0:
		return "player 0"
	case Player1:
		return "player 1"
	case Tie:
		return "tie"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// maxSegments bounds the number of relay segments in one move. Relay sowing
// can cycle on some boards; past the bound the move ends as a plain sowing.
const maxSegments = 10000

// outcome tags how a sowing segment resolved.
type outcome int

const (
	continueSamePlayer outcome = iota
	capture
	relay
	swapPlayer
)

type segment struct {
	kind outcome
	next int // mover's relative hole to sow next when kind == relay
}

// Gamestate is a single game: the board, whose turn it is and, once the game
// is over, the result and scores. It is not safe for concurrent use.
type Gamestate struct {
	rules   *Ruleset
	board   *Board
	current int
	over    bool
	result  Result
	score   [2]int
}

// NewGamestate starts a game from the initial position. A nil ruleset selects
// the default variant.
func NewGamestate(rules *Ruleset) *Gamestate {
	if rules == nil {
		rules = DefaultRuleset()
	}
	return &Gamestate{rules: rules, board: NewBoard(rules)}
}

// NewGamestateFromPosition starts a game from an arbitrary board. The board is
// copied; its row length must match the ruleset.
func NewGamestateFromPosition(rules *Ruleset, board *Board, player int) (*Gamestate, error) {
	if rules == nil {
		rules = DefaultRuleset()
	}
	if board == nil || board.HolesPerSide() != rules.HolesPerSide() {
		return nil, fmt.Errorf("%w: board does not match %d holes per side", ErrMalformedBoard, rules.HolesPerSide())
	}
	if player != 0 && player != 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	return &Gamestate{rules: rules, board: board.Snapshot(), current: player}, nil
}

// ParsePosition decodes a wire position ("<counts...> <player>").
func ParsePosition(s string) (*Board, int, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexByte(s, ' ')
	if i < 0 {
		return nil, 0, fmt.Errorf("%w: missing player", ErrMalformedBoard)
	}
	player, err := strconv.Atoi(s[i+1:])
	if err != nil || (player != 0 && player != 1) {
		return nil, 0, fmt.Errorf("%w: player %q", ErrInvalidPlayer, s[i+1:])
	}
	board, err := ParseBoard(s[:i])
	if err != nil {
		return nil, 0, err
	}
	return board, player, nil
}

func (g *Gamestate) Rules() *Ruleset { return g.rules }
func (g *Gamestate) CurrentPlayer() int { return g.current }
func (g *Gamestate) GameOver() bool { return g.over }
func (g *Gamestate) HolesPerSide() int { return g.rules.HolesPerSide() }
func (g *Gamestate) Board() *Board { return g.board.Snapshot() }
func (g *Gamestate) WireString() string { return g.String() }
func (g *Gamestate) Holes(side int) []int { return g.board.Holes(side) }

// Result returns the outcome; ok is false while the game is in progress.
func (g *Gamestate) Result() (r Result, ok bool) {
	return g.result, g.over
}

// Score returns side's final score; ok is false while the game is in progress
// or when side is neither 0 nor 1.
func (g *Gamestate) Score(side int) (score int, ok bool) {
	if !g.over || (side != 0 && side != 1) {
		return 0, false
	}
	return g.score[side], true
}

// ValidMask reports, per relative hole, whether the current player may play it.
func (g *Gamestate) ValidMask() []bool {
	mask := make([]bool, g.rules.HolesPerSide())
	if g.over {
		return mask
	}
	for rel := range mask {
		mask[rel] = g.board.counts[g.rules.RelativeToAbsolute(rel, g.current)] > 0
	}
	return mask
}

// LegalMoves lists the relative holes the current player may play.
func (g *Gamestate) LegalMoves() []int {
	var moves []int
	for rel, ok := range g.ValidMask() {
		if ok {
			moves = append(moves, rel)
		}
	}
	return moves
}

// Clone returns an independent copy of the game.
func (g *Gamestate) Clone() *Gamestate {
	c := *g
	c.board = g.board.Snapshot()
	return &c
}

// String renders the wire position: the board followed by the player to move.
func (g *Gamestate) String() string {
	return g.board.WireString() + " " + strconv.Itoa(g.current)
}

// PlayMove plays the current player's hole rel and resolves captures, relay
// sowing and extra laps as the ruleset dictates. On error the game is unchanged.
// A relay landing on hole h continues from the mover's own hole with the same
// relative index as h; if that hole is empty the move ends and the turn passes.
// A finished game rejects every in-range hole with ErrGameOver.
func (g *Gamestate) PlayMove(rel int, opts ...MoveOption) error {
	if rel < 0 || rel >= g.rules.HolesPerSide() {
		return &MoveError{Hole: rel, Player: g.current, Err: ErrMoveOutOfRange}
	}
	if g.over {
		return &MoveError{Hole: rel, Player: g.current, Err: ErrGameOver}
	}
	src := g.rules.RelativeToAbsolute(rel, g.current)
	if g.board.counts[src] == 0 {
		return &MoveError{Hole: rel, Player: g.current, Err: ErrEmptyHole}
	}

	cfg := &moveConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.record(g.board)

	for n := 1; ; n++ {
		last, firstCycle := g.sow(src, cfg)
		seg := g.land(last, firstCycle)
		if seg.kind == relay && n < maxSegments {
			src = g.rules.RelativeToAbsolute(seg.next, g.current)
			if g.board.counts[src] > 0 {
				continue
			}
			seg.kind = swapPlayer
		}
		switch seg.kind {
		case continueSamePlayer:
		case capture:
			cfg.record(g.board)
			g.current = 1 - g.current
		default:
			g.current = 1 - g.current
		}
		break
	}

	g.checkTerminal(cfg)
	return nil
}

// sow empties src and distributes its seeds, returning the last index visited
// and whether the path stayed short of the mover's store.
func (g *Gamestate) sow(src int, cfg *moveConfig) (last int, firstCycle bool) {
	own := g.rules.StoreIndex(g.current)
	opp := g.rules.StoreIndex(1 - g.current)
	total := len(g.board.counts)

	seeds := g.board.counts[src]
	g.board.counts[src] = 0
	cfg.record(g.board)

	firstCycle = true
	h := src
	for seeds > 0 {
		h = (h + 1) % total
		if h == own {
			firstCycle = false
		}
		if h == opp {
			continue
		}
		g.board.counts[h]++
		seeds--
		cfg.record(g.board)
	}
	return h, firstCycle
}

// land decides what the final seed of a segment triggers. Captures are applied
// here; turn changes are left to the caller.
func (g *Gamestate) land(h int, firstCycle bool) segment {
	r := g.rules
	if h == r.StoreIndex(g.current) {
		if r.AllowMultipleLaps() {
			return segment{kind: continueSamePlayer}
		}
		return segment{kind: swapPlayer}
	}

	switch count := g.board.counts[h]; {
	case count == 1:
		if r.AllowCaptures() && (!r.CaptureOnOneCycle() || firstCycle) && g.tryCapture(h) {
			return segment{kind: capture}
		}
	case count > 1:
		if r.DoRelaySowing() {
			return segment{kind: relay, next: r.AbsoluteToRelative(h)}
		}
	}
	return segment{kind: swapPlayer}
}

// tryCapture takes the seeds mirrored from h into the mover's store. Only a
// landing on the mover's own row facing a non-empty hole captures.
func (g *Gamestate) tryCapture(h int) bool {
	if !g.rules.IsPlayersHole(h, g.current) {
		return false
	}
	opposite := g.rules.Opposite(h)
	seeds := g.board.counts[opposite]
	if seeds == 0 {
		return false
	}
	g.board.counts[opposite] = 0
	if g.rules.CaptureBoth() {
		seeds += g.board.counts[h]
		g.board.counts[h] = 0
	}
	g.board.counts[g.rules.StoreIndex(g.current)] += seeds
	return true
}

// checkTerminal ends the game once either row is empty, sweeping every
// remaining seed into its owner's store.
func (g *Gamestate) checkTerminal(cfg *moveConfig) {
	if g.board.rowSum(0) != 0 && g.board.rowSum(1) != 0 {
		return
	}
	for side := range 2 {
		store := g.rules.StoreIndex(side)
		for rel := range g.rules.HolesPerSide() {
			abs := g.rules.RelativeToAbsolute(rel, side)
			g.board.counts[store] += g.board.counts[abs]
			g.board.counts[abs] = 0
		}
		g.score[side] = g.board.counts[store]
	}
	g.over = true
	switch {
	case g.score[0] > g.score[1]:
		g.result = Player0
	case g.score[1] > g.score[0]:
		g.result = Player1
	default:
		g.result = Tie
	}
	cfg.record(g.board)
}
