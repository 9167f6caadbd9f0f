package game

// Recorder observes a move while it is resolved. Each call receives a snapshot
// the recorder may keep; it is never the live board.
type Recorder interface {
	RecordBoard(b *Board)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(b *Board)

func (f RecorderFunc) RecordBoard(b *Board) { f(b) }

// BoardStack collects every snapshot it is handed, in order. It is typically
// used to animate or replay a move.
type BoardStack struct {
	Boards []*Board
}

func (s *BoardStack) RecordBoard(b *Board) { s.Boards = append(s.Boards, b) }

// Len returns the number of recorded frames.
func (s *BoardStack) Len() int { return len(s.Boards) }

// Last returns the most recent frame, or nil when empty.
func (s *BoardStack) Last() *Board {
	if len(s.Boards) == 0 {
		return nil
	}
	return s.Boards[len(s.Boards)-1]
}

// MoveOption configures a single PlayMove call.
type MoveOption func(*moveConfig)

type moveConfig struct {
	recorder Recorder
}

// WithRecorder attaches an observer to one move.
func WithRecorder(r Recorder) MoveOption {
	return func(c *moveConfig) { c.recorder = r }
}

func (c *moveConfig) record(b *Board) {
	if c.recorder != nil {
		c.recorder.RecordBoard(b.Snapshot())
	}
}
