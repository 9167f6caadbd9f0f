package statistics

import (
	"fmt"
	"math"
	"sort"
)

// GameResult is one finished game seen from the first agent of a series.
type GameResult struct {
	Margin int   // first agent's final score minus the second agent's
	Seed   int64 // seed the game's bots were built from (for replay)
	Seat   int   // side the first agent played (0 moves first)
	Turns  int   // moves played, extra laps counted separately
}

// SeatStats tracks results for one side of the board.
type SeatStats struct {
	Games   int
	Wins    int
	SumDiff float64
}

// Statistics aggregates a series of games.
type Statistics struct {
	Games    int
	SumDiff  float64
	SumDiff2 float64   // sum of squares for variance
	Values   []float64 // every margin, for median and percentiles

	Wins   int
	Losses int
	Ties   int

	SumTurns int
	MaxTurns int

	SeatResults [2]SeatStats
}

// Add incorporates one game.
func (s *Statistics) Add(result GameResult) {
	m := float64(result.Margin)
	s.Games++
	s.SumDiff += m
	s.SumDiff2 += m * m
	s.Values = append(s.Values, m)

	switch {
	case result.Margin > 0:
		s.Wins++
	case result.Margin < 0:
		s.Losses++
	default:
		s.Ties++
	}

	s.SumTurns += result.Turns
	if result.Turns > s.MaxTurns {
		s.MaxTurns = result.Turns
	}

	if result.Seat == 0 || result.Seat == 1 {
		seat := &s.SeatResults[result.Seat]
		seat.Games++
		seat.SumDiff += m
		if result.Margin > 0 {
			seat.Wins++
		}
	}
}

// Mean returns the average margin per game.
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumDiff / float64(s.Games)
}

// Variance returns the sample variance of the margins.
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumDiff2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean margin.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// WinRate counts ties as half a win.
func (s *Statistics) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return (float64(s.Wins) + 0.5*float64(s.Ties)) / float64(s.Games)
}

// AverageTurns returns the mean game length.
func (s *Statistics) AverageTurns() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.SumTurns) / float64(s.Games)
}

func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the margin at p (0.0 to 1.0), interpolating between ranks.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SeatMean returns the average margin when the first agent sat on seat.
func (s *Statistics) SeatMean(seat int) float64 {
	if seat < 0 || seat > 1 {
		return 0
	}
	ss := s.SeatResults[seat]
	if ss.Games == 0 {
		return 0
	}
	return ss.SumDiff / float64(ss.Games)
}

// Validate checks the counters agree with each other.
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if len(s.Values) != s.Games {
		return fmt.Errorf("values length (%d) does not match games count (%d)", len(s.Values), s.Games)
	}
	if s.Wins+s.Losses+s.Ties != s.Games {
		return fmt.Errorf("outcomes (%d wins, %d losses, %d ties) do not add up to %d games",
			s.Wins, s.Losses, s.Ties, s.Games)
	}
	if seated := s.SeatResults[0].Games + s.SeatResults[1].Games; seated != s.Games {
		return fmt.Errorf("seat games total (%d) does not match games count (%d)", seated, s.Games)
	}
	seatDiff := s.SeatResults[0].SumDiff + s.SeatResults[1].SumDiff
	if math.Abs(seatDiff-s.SumDiff) > 1e-6 {
		return fmt.Errorf("seat margins (%.2f) do not match total margin (%.2f)", seatDiff, s.SumDiff)
	}
	return nil
}
