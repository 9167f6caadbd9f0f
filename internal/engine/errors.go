package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocol means the engine said something it should not have: output
	// after a board push, or a search reply that is not an integer.
	ErrProtocol = errors.New("engine: protocol error")
	// ErrTimeout means no reply arrived in time, including when the engine's
	// output stream has closed.
	ErrTimeout = errors.New("engine: timed out")
	// ErrSearchFailed means the engine answered -1, usually for a terminal position.
	ErrSearchFailed  = errors.New("engine: search failed")
	ErrUnknownEngine = errors.New("engine: unknown engine")
	// ErrIllegalReply means the engine chose a hole the mover cannot play.
	ErrIllegalReply = errors.New("engine: illegal move in reply")
	ErrClosed       = errors.New("engine: client closed")
)

// ProtocolError carries the command and the offending line.
type ProtocolError struct {
	Command string
	Line    string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%v: %q answered with %q", ErrProtocol, e.Command, e.Line)
}

func (e *ProtocolError) Unwrap() error { return ErrProtocol }

// SearchFailedError reports a search the engine gave up on.
type SearchFailedError struct {
	Command string
	Reply   string
}

func (e *SearchFailedError) Error() string {
	return fmt.Sprintf("%v: %q answered with %q", ErrSearchFailed, e.Command, e.Reply)
}

func (e *SearchFailedError) Unwrap() error { return ErrSearchFailed }

// IllegalReplyError reports an absolute index outside the mover's playable holes.
type IllegalReplyError struct {
	Index  int
	Player int
}

func (e *IllegalReplyError) Error() string {
	return fmt.Sprintf("%v: index %d for player %d", ErrIllegalReply, e.Index, e.Player)
}

func (e *IllegalReplyError) Unwrap() error { return ErrIllegalReply }
