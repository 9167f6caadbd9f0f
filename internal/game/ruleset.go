package game

import (
	"fmt"
	"strings"
)

// Default variant parameters.
const (
	DefaultHolesPerSide = 6
	DefaultSeedsPerHole = 4
)

// Ruleset describes a Mancala variant. It is immutable once built and may be
// shared by any number of games.
type Ruleset struct {
	holesPerSide      int
	seedsPerHole      int
	allowCaptures     bool
	captureBoth       bool
	captureOnOneCycle bool
	doRelaySowing     bool
	allowMultipleLaps bool
}

// RulesetOption configures a Ruleset during creation.
type RulesetOption func(*Ruleset)

// WithHolesPerSide sets the number of holes on each side of the board.
func WithHolesPerSide(n int) RulesetOption {
	return func(r *Ruleset) { r.holesPerSide = n }
}

// WithSeedsPerHole sets the number of seeds each hole starts with.
func WithSeedsPerHole(n int) RulesetOption {
	return func(r *Ruleset) { r.seedsPerHole = n }
}

// WithCaptures enables or disables captures.
func WithCaptures(on bool) RulesetOption {
	return func(r *Ruleset) { r.allowCaptures = on }
}

// WithCaptureBoth makes a capture also take the landing seed.
func WithCaptureBoth(on bool) RulesetOption {
	return func(r *Ruleset) { r.captureBoth = on }
}

// WithCaptureOnOneCycle restricts captures to sowings that did not pass the mover's store.
func WithCaptureOnOneCycle(on bool) RulesetOption {
	return func(r *Ruleset) { r.captureOnOneCycle = on }
}

// WithRelaySowing continues sowing from an occupied landing hole.
func WithRelaySowing(on bool) RulesetOption {
	return func(r *Ruleset) { r.doRelaySowing = on }
}

// WithMultipleLaps grants another move when the last seed lands in the mover's store.
func WithMultipleLaps(on bool) RulesetOption {
	return func(r *Ruleset) { r.allowMultipleLaps = on }
}

// NewRuleset builds a ruleset starting from the default variant.
//
// Example:
//
//	rules, err := game.NewRuleset(
//	    game.WithHolesPerSide(4),
//	    game.WithRelaySowing(true),
//	    game.WithCaptures(false))
func NewRuleset(opts ...RulesetOption) (*Ruleset, error) {
	r := &Ruleset{
		holesPerSide:      DefaultHolesPerSide,
		seedsPerHole:      DefaultSeedsPerHole,
		allowCaptures:     true,
		captureBoth:       true,
		captureOnOneCycle: false,
		doRelaySowing:     false,
		allowMultipleLaps: true,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.holesPerSide <= 0 {
		return nil, &RulesetError{Field: "holes_per_side", Value: r.holesPerSide}
	}
	if r.seedsPerHole < 0 {
		return nil, &RulesetError{Field: "seeds_per_hole", Value: r.seedsPerHole}
	}
	return r, nil
}

// DefaultRuleset returns the standard six-hole, four-seed variant.
func DefaultRuleset() *Ruleset {
	r, _ := NewRuleset()
	return r
}

func (r *Ruleset) HolesPerSide() int { return r.holesPerSide }
func (r *Ruleset) SeedsPerHole() int { return r.seedsPerHole }
func (r *Ruleset) AllowCaptures() bool { return r.allowCaptures }
func (r *Ruleset) CaptureBoth() bool { return r.captureBoth }
func (r *Ruleset) CaptureOnOneCycle() bool { return r.captureOnOneCycle }
func (r *Ruleset) DoRelaySowing() bool { return r.doRelaySowing }
func (r *Ruleset) AllowMultipleLaps() bool { return r.allowMultipleLaps }

// TotalHoles is the size of the absolute index space, stores included.
func (r *Ruleset) TotalHoles() int { return 2 * (r.holesPerSide + 1) }

// TotalSeeds is the number of seeds on a board set up from the initial position.
func (r *Ruleset) TotalSeeds() int { return 2 * r.holesPerSide * r.seedsPerHole }

// StoreIndex returns the absolute index of side's store.
func (r *Ruleset) StoreIndex(side int) int {
	if side == 1 {
		return r.TotalHoles() - 1
	}
	return r.holesPerSide
}

// RelativeToAbsolute maps a hole index seen by player onto the absolute index space.
func (r *Ruleset) RelativeToAbsolute(rel, player int) int {
	if player == 1 {
		return rel + r.holesPerSide + 1
	}
	return rel
}

// AbsoluteToRelative maps an absolute index back to the owning side's relative index.
func (r *Ruleset) AbsoluteToRelative(abs int) int {
	return abs % (r.holesPerSide + 1)
}

// IsPlayersHole reports whether abs is one of player's holes. Stores never are.
func (r *Ruleset) IsPlayersHole(abs, player int) bool {
	lo := r.RelativeToAbsolute(0, player)
	return abs >= lo && abs < lo+r.holesPerSide
}

// Opposite returns the hole mirrored across the board from abs.
func (r *Ruleset) Opposite(abs int) int {
	return 2*r.StoreIndex(0) - abs
}

// String summarises the variant, e.g. "6x4 captures=both laps".
func (r *Ruleset) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dx%d", r.holesPerSide, r.seedsPerHole)
	if r.allowCaptures {
		b.WriteString(" captures")
		if r.captureBoth {
			b.WriteString("=both")
		}
		if r.captureOnOneCycle {
			b.WriteString(" one-cycle")
		}
	}
	if r.doRelaySowing {
		b.WriteString(" relay")
	}
	if r.allowMultipleLaps {
		b.WriteString(" laps")
	}
	return b.String()
}
