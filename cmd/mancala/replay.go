package main

import (
	"fmt"

	"github.com/lox/mancala/internal/display"
	"github.com/lox/mancala/internal/record"
)

type ReplayCmd struct {
	File   string `arg:"" type:"existingfile" help:"TOML game record written by play --record"`
	Frames bool   `help:"Print every intermediate board of each move"`
	Facing int    `default:"0" help:"Side to draw the board from"`
	Quiet  bool   `short:"q" help:"Only verify the record"`
}

func (c *ReplayCmd) Run(globals *Globals) error {
	logger := globals.logger()
	rec, err := record.Load(c.File)
	if err != nil {
		return err
	}

	g, steps, err := record.Replay(rec, c.Frames && !c.Quiet)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}

	if !c.Quiet {
		view := display.New(display.WithNames(rec.Players[0], rec.Players[1]))
		for _, step := range steps {
			fmt.Printf("\nMove %d: %s plays hole %d\n", step.Move.Number, rec.Players[step.Move.Player], step.Move.Hole+1)
			for i, frame := range step.Frames {
				fmt.Printf("-- frame %d/%d --\n%s\n", i+1, len(step.Frames), view.Board(frame, c.Facing))
			}
			fmt.Println(view.Board(step.Board, c.Facing))
		}
		fmt.Println(view.Status(g))
	}

	logger.Info().
		Str("match_id", rec.ID).
		Int("moves", len(rec.Moves)).
		Str("result", rec.Result).
		Msg("Record verified")
	return nil
}
