package main

import (
	"fmt"

	"github.com/lox/mancala/internal/config"
	"github.com/lox/mancala/internal/display"
	"github.com/lox/mancala/internal/game"
)

type PositionCmd struct {
	Wire    string `arg:"" help:"Wire position: every hole and store count followed by the player to move"`
	Ruleset string `short:"r" help:"Ruleset whose capture and sowing rules apply (default: first declared)"`
	Facing  int    `default:"-1" help:"Side to draw the board from (default: the player to move)"`
	Move    []int  `short:"m" help:"Play these 1-based holes in order before rendering"`
}

func (c *PositionCmd) Run(globals *Globals) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	g, err := parsePosition(cfg, c.Ruleset, c.Wire)
	if err != nil {
		return err
	}

	for _, hole := range c.Move {
		if err := g.PlayMove(hole - 1); err != nil {
			return fmt.Errorf("hole %d: %w", hole, err)
		}
	}

	facing := c.Facing
	if facing < 0 {
		facing = g.CurrentPlayer()
	}
	view := display.New()
	fmt.Println(view.Position(g, facing))
	fmt.Println(view.Moves(g))
	fmt.Println(g.WireString())
	return nil
}

// parsePosition decodes wire under the named ruleset, taking the row length
// from the position itself.
func parsePosition(cfg *config.Config, name, wire string) (*game.Gamestate, error) {
	board, player, err := game.ParsePosition(wire)
	if err != nil {
		return nil, err
	}

	variant := config.DefaultRuleset()
	if name != "" || len(cfg.Rulesets) > 0 {
		found := false
		for _, r := range cfg.Rulesets {
			if r.Name == name || name == "" {
				variant, found = r, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownRuleset, name)
		}
	}
	variant.HolesPerSide = board.HolesPerSide()

	rules, err := variant.Build()
	if err != nil {
		return nil, err
	}
	return game.NewGamestateFromPosition(rules, board, player)
}
