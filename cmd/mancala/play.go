package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lox/mancala/cmd/mancala/shared"
	"github.com/lox/mancala/internal/bot"
	"github.com/lox/mancala/internal/display"
	"github.com/lox/mancala/internal/game"
	"github.com/lox/mancala/internal/match"
	"github.com/lox/mancala/internal/randutil"
	"github.com/lox/mancala/internal/record"
)

type PlayCmd struct {
	Player0  string `name:"player0" default:"human" help:"Bot on side 0 (human, random, greedy, engine)"`
	Player1  string `name:"player1" default:"engine" help:"Bot on side 1 (human, random, greedy, engine)"`
	Ruleset  string `short:"r" help:"Ruleset name from the config file (default: first declared)"`
	Position string `help:"Start from a wire position instead of the initial board"`
	Record   string `type:"path" help:"Write a TOML game record to this file when the game ends"`
	Frames   bool   `help:"Print every intermediate board of each move"`
	MaxTurns int    `default:"1000" help:"Abandon the game after this many moves (0 = no limit)"`
}

func (c *PlayCmd) Run(globals *Globals) error {
	logger := globals.logger()
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	if err := validateKinds(c.Player0, c.Player1); err != nil {
		return err
	}

	rules, err := cfg.Ruleset(c.Ruleset)
	if err != nil {
		return err
	}
	var start *game.Gamestate
	if c.Position != "" {
		if start, err = parsePosition(cfg, c.Ruleset, c.Position); err != nil {
			return err
		}
		rules = start.Rules()
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	factory := agentFactory{settings: cfg.Engine, logger: logger, in: os.Stdin, out: os.Stdout}
	if needsEngine(c.Player0, c.Player1) {
		client, err := startEngine(ctx, cfg.Engine, logger)
		if err != nil {
			return err
		}
		defer client.Close()
		factory.searcher = client
	}

	var agents [2]bot.Bot
	for side, kind := range [2]string{c.Player0, c.Player1} {
		// One reader per terminal, or the two would steal each other's buffered input.
		if side == 1 && strings.EqualFold(kind, bot.KindHuman) && strings.EqualFold(c.Player0, bot.KindHuman) {
			agents[1] = agents[0]
			continue
		}
		factory.kind = kind
		if agents[side], err = factory.build(randutil.Derive(cfg.Seed, side)); err != nil {
			return err
		}
	}

	names := [2]string{seatName(0, agents[0]), seatName(1, agents[1])}
	view := display.New(display.WithNames(names[0], names[1]))
	facing := func(mover int) int {
		human0 := strings.EqualFold(c.Player0, bot.KindHuman)
		human1 := strings.EqualFold(c.Player1, bot.KindHuman)
		switch {
		case human0 && !human1:
			return 0
		case human1 && !human0:
			return 1
		}
		return mover
	}

	opts := []match.Option{
		match.WithLogger(logger),
		match.WithMaxTurns(c.MaxTurns),
		match.WithFrames(c.Frames),
		match.WithObserver(func(g *game.Gamestate, turn match.Turn) {
			fmt.Printf("\n%s plays hole %d\n", names[turn.Player], turn.Hole+1)
			side := facing(g.CurrentPlayer())
			for i, frame := range turn.Frames {
				fmt.Printf("-- frame %d/%d --\n%s\n", i+1, len(turn.Frames), view.Board(frame, side))
			}
			fmt.Println(view.Position(g, side))
		}),
	}
	if start == nil {
		start = game.NewGamestate(rules)
	}
	opts = append(opts, match.WithPosition(start))
	fmt.Println(view.Position(start, facing(start.CurrentPlayer())))

	m := match.New(rules, agents[0], agents[1], opts...)
	res, err := m.Play(ctx)
	if errors.Is(err, bot.ErrQuit) {
		fmt.Println("Game abandoned.")
		return nil
	}
	if err != nil {
		return err
	}

	if c.Record != "" {
		if err := record.Save(c.Record, record.FromResult(res)); err != nil {
			return fmt.Errorf("save record: %w", err)
		}
		logger.Info().Str("path", c.Record).Str("match_id", res.ID).Msg("Game record saved")
	}
	return nil
}

func seatName(side int, b bot.Bot) string {
	return fmt.Sprintf("%s (side %d)", b.Name(), side)
}
