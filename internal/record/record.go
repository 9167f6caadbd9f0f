// Package record stores finished games as TOML documents and replays them
// through the rule engine.
package record

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lox/mancala/internal/game"
	"github.com/lox/mancala/internal/match"
)

// Variant identifies the document format.
const Variant = "mancala/1"

var ErrUnsupportedVariant = errors.New("record: unsupported variant")

// Rules mirrors game.Ruleset with TOML keys.
type Rules struct {
	HolesPerSide      int  `toml:"holes_per_side"`
	SeedsPerHole      int  `toml:"seeds_per_hole"`
	AllowCaptures     bool `toml:"allow_captures"`
	CaptureBoth       bool `toml:"capture_both"`
	CaptureOnOneCycle bool `toml:"capture_on_one_cycle"`
	RelaySowing       bool `toml:"relay_sowing"`
	MultipleLaps      bool `toml:"multiple_laps"`
}

func RulesFrom(r *game.Ruleset) Rules {
	return Rules{
		HolesPerSide:      r.HolesPerSide(),
		SeedsPerHole:      r.SeedsPerHole(),
		AllowCaptures:     r.AllowCaptures(),
		CaptureBoth:       r.CaptureBoth(),
		CaptureOnOneCycle: r.CaptureOnOneCycle(),
		RelaySowing:       r.DoRelaySowing(),
		MultipleLaps:      r.AllowMultipleLaps(),
	}
}

// Ruleset builds the variant the record was played under.
func (r Rules) Ruleset() (*game.Ruleset, error) {
	return game.NewRuleset(
		game.WithHolesPerSide(r.HolesPerSide),
		game.WithSeedsPerHole(r.SeedsPerHole),
		game.WithCaptures(r.AllowCaptures),
		game.WithCaptureBoth(r.CaptureBoth),
		game.WithCaptureOnOneCycle(r.CaptureOnOneCycle),
		game.WithRelaySowing(r.RelaySowing),
		game.WithMultipleLaps(r.MultipleLaps),
	)
}

// Move is one recorded turn. Position is the wire position after the move.
type Move struct {
	Number   int    `toml:"number"`
	Player   int    `toml:"player"`
	Hole     int    `toml:"hole"`
	Position string `toml:"position"`
}

// GameRecord is a finished game.
type GameRecord struct {
	Variant    string    `toml:"variant"`
	ID         string    `toml:"id"`
	Players    []string  `toml:"players"`
	Start      string    `toml:"start"`
	Scores     []int     `toml:"scores"`
	Result     string    `toml:"result"`
	Winner     string    `toml:"winner,omitempty"`
	Played     time.Time `toml:"played"`
	DurationMS int64     `toml:"duration_ms"`
	Rules      Rules     `toml:"rules"`
	Moves      []Move    `toml:"moves"`
}

// FromResult converts a finished match into a record.
func FromResult(res *match.Result) *GameRecord {
	rec := &GameRecord{
		Variant:    Variant,
		ID:         res.ID,
		Players:    []string{res.Players[0], res.Players[1]},
		Start:      res.Start,
		Scores:     []int{res.Scores[0], res.Scores[1]},
		Result:     res.Winner.String(),
		Played:     res.Started.UTC().Truncate(time.Second),
		DurationMS: res.Finished.Sub(res.Started).Milliseconds(),
		Rules:      RulesFrom(res.Rules),
		Moves:      make([]Move, 0, len(res.Turns)),
	}
	if res.Winner != game.Tie {
		rec.Winner = res.Players[res.Winner]
	}
	for _, t := range res.Turns {
		rec.Moves = append(rec.Moves, Move{
			Number:   t.Number,
			Player:   t.Player,
			Hole:     t.Hole,
			Position: t.After,
		})
	}
	return rec
}

// Encode writes rec as TOML.
func Encode(w io.Writer, rec *GameRecord) error {
	if rec == nil {
		return fmt.Errorf("record: game record is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(rec)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(rec *GameRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a TOML record. Unknown keys are rejected so typos surface.
func Decode(r io.Reader) (*GameRecord, error) {
	var rec GameRecord
	md, err := toml.NewDecoder(r).Decode(&rec)
	if err != nil {
		return nil, fmt.Errorf("record: decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("record: unknown key %q", undecoded[0].String())
	}
	if rec.Variant != Variant {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVariant, rec.Variant)
	}
	if len(rec.Players) != 2 || len(rec.Scores) != 2 {
		return nil, fmt.Errorf("record: expected two players and two scores")
	}
	return &rec, nil
}
