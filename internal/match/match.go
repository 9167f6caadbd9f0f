// Package match plays Mancala games between two agents.
package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lox/mancala/internal/engine"
	"github.com/lox/mancala/internal/game"
)

// DefaultMaxTurns guards against variants that never finish, such as relay
// sowing boards that cycle.
const DefaultMaxTurns = 1000

// ErrTurnLimit is returned when a game does not finish within the turn limit.
var ErrTurnLimit = errors.New("match: turn limit reached")

// Agent picks moves for whichever side it is seated on.
type Agent interface {
	Name() string
	ChooseMove(ctx context.Context, g *game.Gamestate) (int, error)
}

// AgentError reports the agent that failed to produce a playable move.
type AgentError struct {
	Player int
	Agent  string
	Err    error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("player %d (%s): %v", e.Player, e.Agent, e.Err)
}

func (e *AgentError) Unwrap() error { return e.Err }

// Turn is one move of a match.
type Turn struct {
	Number int
	Player int
	Hole   int
	Next   int    // player to move afterwards
	Before string // wire position before the move
	After  string
	Frames []*game.Board // intermediate boards, when frames are recorded
}

// ExtraTurn reports whether the mover kept the turn.
func (t Turn) ExtraTurn() bool { return t.Next == t.Player }

// Result is a finished match.
type Result struct {
	ID       string
	Rules    *game.Ruleset
	Players  [2]string
	Start    string // wire position the match started from
	Turns    []Turn
	Winner   game.Result
	Scores   [2]int
	Started  time.Time
	Finished time.Time
}

// Margin returns side's score minus the opponent's.
func (r *Result) Margin(side int) int {
	return r.Scores[side] - r.Scores[1-side]
}

// Observer is called after every move with the live game. It must not mutate g.
type Observer func(g *game.Gamestate, turn Turn)

// Match runs one game. It is not reusable.
type Match struct {
	id       string
	rules    *game.Ruleset
	agents   [2]Agent
	start    *game.Gamestate
	logger   zerolog.Logger
	maxTurns int
	retries  int
	frames   bool
	observer Observer
}

// Option configures a Match.
type Option func(*Match)

func WithLogger(logger zerolog.Logger) Option {
	return func(m *Match) { m.logger = logger }
}

// WithMaxTurns caps the number of moves; zero or less disables the cap.
func WithMaxTurns(n int) Option {
	return func(m *Match) { m.maxTurns = n }
}

// WithRetries re-asks an agent up to n more times when its engine times out.
func WithRetries(n int) Option {
	return func(m *Match) { m.retries = n }
}

// WithFrames records every intermediate board of every move.
func WithFrames(on bool) Option {
	return func(m *Match) { m.frames = on }
}

// WithPosition starts from g instead of the initial position. g is cloned.
func WithPosition(g *game.Gamestate) Option {
	return func(m *Match) { m.start = g.Clone() }
}

func WithObserver(fn Observer) Option {
	return func(m *Match) { m.observer = fn }
}

// WithID overrides the generated match ID.
func WithID(id string) Option {
	return func(m *Match) { m.id = id }
}

// New seats first on side 0 and second on side 1. A nil ruleset selects the default.
func New(rules *game.Ruleset, first, second Agent, opts ...Option) *Match {
	if rules == nil {
		rules = game.DefaultRuleset()
	}
	m := &Match{
		id:       uuid.NewString()[:8],
		rules:    rules,
		agents:   [2]Agent{first, second},
		logger:   zerolog.Nop(),
		maxTurns: DefaultMaxTurns,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.start == nil {
		m.start = game.NewGamestate(rules)
	} else {
		m.rules = m.start.Rules()
	}
	m.logger = m.logger.With().Str("component", "match").Str("match_id", m.id).Logger()
	return m
}

func (m *Match) ID() string { return m.id }

// Play runs the game to completion.
func (m *Match) Play(ctx context.Context) (*Result, error) {
	g := m.start
	res := &Result{
		ID:      m.id,
		Rules:   m.rules,
		Players: [2]string{m.agents[0].Name(), m.agents[1].Name()},
		Start:   g.WireString(),
		Started: time.Now(),
	}
	m.logger.Info().
		Str("player0", res.Players[0]).
		Str("player1", res.Players[1]).
		Str("rules", m.rules.String()).
		Msg("Match started")

	for !g.GameOver() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if m.maxTurns > 0 && len(res.Turns) >= m.maxTurns {
			return res, fmt.Errorf("%w: %d moves without a result", ErrTurnLimit, len(res.Turns))
		}

		player := g.CurrentPlayer()
		agent := m.agents[player]
		hole, err := m.choose(ctx, agent, g)
		if err != nil {
			return res, &AgentError{Player: player, Agent: agent.Name(), Err: err}
		}

		turn := Turn{Number: len(res.Turns) + 1, Player: player, Hole: hole, Before: g.WireString()}
		var opts []game.MoveOption
		var stack game.BoardStack
		if m.frames {
			opts = append(opts, game.WithRecorder(&stack))
		}
		if err := g.PlayMove(hole, opts...); err != nil {
			return res, &AgentError{Player: player, Agent: agent.Name(), Err: err}
		}
		turn.After = g.WireString()
		turn.Next = g.CurrentPlayer()
		turn.Frames = stack.Boards
		res.Turns = append(res.Turns, turn)

		m.logger.Debug().
			Int("turn", turn.Number).
			Int("player", player).
			Int("hole", hole).
			Str("position", turn.After).
			Msg("Move played")
		if m.observer != nil {
			m.observer(g, turn)
		}
	}

	res.Winner, _ = g.Result()
	res.Scores[0], _ = g.Score(0)
	res.Scores[1], _ = g.Score(1)
	res.Finished = time.Now()

	m.logger.Info().
		Str("winner", res.Winner.String()).
		Int("score0", res.Scores[0]).
		Int("score1", res.Scores[1]).
		Int("turns", len(res.Turns)).
		Dur("duration", res.Finished.Sub(res.Started)).
		Msg("Match finished")
	return res, nil
}

func (m *Match) choose(ctx context.Context, agent Agent, g *game.Gamestate) (int, error) {
	for attempt := 0; ; attempt++ {
		hole, err := agent.ChooseMove(ctx, g)
		if err == nil {
			return hole, nil
		}
		if !errors.Is(err, engine.ErrTimeout) || attempt >= m.retries || ctx.Err() != nil {
			return 0, err
		}
		m.logger.Warn().Err(err).Int("attempt", attempt+1).Str("agent", agent.Name()).Msg("Retrying move")
	}
}
