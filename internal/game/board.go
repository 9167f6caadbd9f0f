package game

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Board holds the seed counts of both rows and both stores. Counts are addressed
// by absolute index: side 0 holes, side 0 store, side 1 holes, side 1 store.
type Board struct {
	holesPerSide int
	counts       []int
}

// NewBoard returns the initial position for rules.
func NewBoard(rules *Ruleset) *Board {
	b := EmptyBoard(rules.HolesPerSide())
	for side := range 2 {
		for rel := range rules.HolesPerSide() {
			b.counts[rules.RelativeToAbsolute(rel, side)] = rules.SeedsPerHole()
		}
	}
	return b
}

// EmptyBoard returns a board with holesPerSide holes per row and no seeds.
func EmptyBoard(holesPerSide int) *Board {
	return &Board{
		holesPerSide: holesPerSide,
		counts:       make([]int, 2*(holesPerSide+1)),
	}
}

// BoardFromRows builds a board from explicit rows and stores. Both rows must
// have the same non-zero length and every count must be non-negative.
func BoardFromRows(side0, side1 []int, store0, store1 int) (*Board, error) {
	if len(side0) == 0 || len(side0) != len(side1) {
		return nil, fmt.Errorf("%w: rows of length %d and %d", ErrMalformedBoard, len(side0), len(side1))
	}
	n := len(side0)
	counts := make([]int, 0, 2*(n+1))
	counts = append(counts, side0...)
	counts = append(counts, store0)
	counts = append(counts, side1...)
	counts = append(counts, store1)
	for i, c := range counts {
		if c < 0 {
			return nil, fmt.Errorf("%w at index %d", ErrNegativeCount, i)
		}
	}
	return &Board{holesPerSide: n, counts: counts}, nil
}

// HolesPerSide returns the row length.
func (b *Board) HolesPerSide() int { return b.holesPerSide }

// Len returns the number of addressable positions, stores included.
func (b *Board) Len() int { return len(b.counts) }

// Get returns the count at an absolute index.
func (b *Board) Get(abs int) (int, error) {
	if abs < 0 || abs >= len(b.counts) {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, abs, len(b.counts))
	}
	return b.counts[abs], nil
}

// Set stores count at an absolute index.
func (b *Board) Set(abs, count int) error {
	if abs < 0 || abs >= len(b.counts) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, abs, len(b.counts))
	}
	if count < 0 {
		return fmt.Errorf("%w: %d at index %d", ErrNegativeCount, count, abs)
	}
	b.counts[abs] = count
	return nil
}

// Holes returns a copy of side's row, ordered by relative index, or nil when
// side is neither 0 nor 1.
func (b *Board) Holes(side int) []int {
	if side != 0 && side != 1 {
		return nil
	}
	start := 0
	if side == 1 {
		start = b.holesPerSide + 1
	}
	return slices.Clone(b.counts[start : start+b.holesPerSide])
}

// Store returns side's store count, or 0 when side is neither 0 nor 1.
func (b *Board) Store(side int) int {
	if side != 0 && side != 1 {
		return 0
	}
	return b.counts[b.storeIndex(side)]
}

// Total returns the number of seeds on the board, stores included.
func (b *Board) Total() int {
	total := 0
	for _, c := range b.counts {
		total += c
	}
	return total
}

// Snapshot returns an independent deep copy.
func (b *Board) Snapshot() *Board {
	return &Board{holesPerSide: b.holesPerSide, counts: slices.Clone(b.counts)}
}

// Equal reports whether both boards have the same shape and counts.
func (b *Board) Equal(other *Board) bool {
	if other == nil {
		return false
	}
	return b.holesPerSide == other.holesPerSide && slices.Equal(b.counts, other.counts)
}

// WireString renders the counts in absolute order separated by single spaces.
// This is the board half of the position sent to the external engine.
func (b *Board) WireString() string {
	var sb strings.Builder
	for i, c := range b.counts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(c))
	}
	return sb.String()
}

// String implements fmt.Stringer.
func (b *Board) String() string { return b.WireString() }

// ParseBoard decodes the output of WireString.
func ParseBoard(s string) (*Board, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 || len(fields)%2 != 0 {
		return nil, fmt.Errorf("%w: %d counts", ErrMalformedBoard, len(fields))
	}
	counts := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: count %d: %v", ErrMalformedBoard, i, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("%w at index %d", ErrNegativeCount, i)
		}
		counts[i] = v
	}
	return &Board{holesPerSide: len(counts)/2 - 1, counts: counts}, nil
}

func (b *Board) storeIndex(side int) int {
	if side == 1 {
		return len(b.counts) - 1
	}
	return b.holesPerSide
}

func (b *Board) rowSum(side int) int {
	start := 0
	if side == 1 {
		start = b.holesPerSide + 1
	}
	sum := 0
	for _, c := range b.counts[start : start+b.holesPerSide] {
		sum += c
	}
	return sum
}
