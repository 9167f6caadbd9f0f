package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/mancala/internal/game"
)

// Defaults for request timing.
const (
	DefaultGrace   = 500 * time.Millisecond
	DefaultTimeout = 5 * time.Second
	queueSize      = 64
)

// Client sends protocol commands and waits for replies. A background reader
// moves every output line onto a bounded queue so each request can give up
// after its timeout instead of blocking on a read. Requests are serialised; a
// Client may be shared between goroutines.
type Client struct {
	clock  quartz.Clock
	logger zerolog.Logger
	grace  time.Duration

	mu     sync.Mutex
	w      *bufio.Writer
	lines  chan string
	proc   *Process
	closer io.Closer
	closed atomic.Bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClock replaces the wall clock, typically with quartz.NewMock in tests.
func WithClock(clock quartz.Clock) ClientOption {
	return func(c *Client) { c.clock = clock }
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithGrace sets how long a board push waits for an unwanted reply.
func WithGrace(d time.Duration) ClientOption {
	return func(c *Client) { c.grace = d }
}

func newClient(opts ...ClientOption) *Client {
	c := &Client{
		clock:  quartz.NewReal(),
		logger: zerolog.Nop(),
		grace:  DefaultGrace,
		lines:  make(chan string, queueSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "engine").Logger()
	return c
}

// NewClient speaks the protocol over r and w and starts the background reader.
// If w is an io.Closer it is closed by Close.
func NewClient(r io.Reader, w io.Writer, opts ...ClientOption) *Client {
	c := newClient(opts...)
	c.attach(r, w)
	return c
}

// Start launches the engine executable and returns a client connected to it.
func Start(ctx context.Context, cfg ProcessConfig, opts ...ClientOption) (*Client, error) {
	c := newClient(opts...)
	p := NewProcess(ctx, cfg, c.logger)
	if err := p.Start(); err != nil {
		return nil, err
	}
	c.proc = p
	c.attach(p.Stdout(), p.Stdin())
	return c, nil
}

func (c *Client) attach(r io.Reader, w io.Writer) {
	c.w = bufio.NewWriter(w)
	if closer, ok := w.(io.Closer); ok {
		c.closer = closer
	}
	go c.read(r)
}

// read feeds the queue until the stream ends, then closes it. Read errors are
// only ever observed by requests as a closed queue.
func (c *Client) read(r io.Reader) {
	defer close(c.lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		c.lines <- scanner.Text()
	}
	if err := scanner.Err(); err != nil && !c.closed.Load() {
		c.logger.Debug().Err(err).Msg("Engine output stream ended")
	}
}

// Process returns the managed engine process, or nil for a client built with NewClient.
func (c *Client) Process() *Process { return c.proc }

// Close stops the engine. Requests made afterwards fail with ErrClosed.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	if c.proc != nil {
		return c.proc.Stop()
	}
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

type waitResult int

const (
	gotLine waitResult = iota
	expired
	streamClosed
)

// roundTrip writes one command and waits up to d for a line. The timer is armed
// before the command is written so a reply can never race it.
func (c *Client) roundTrip(ctx context.Context, cmd string, d time.Duration) (string, waitResult, error) {
	if c.closed.Load() {
		return "", 0, ErrClosed
	}
	c.drain()

	fired := make(chan struct{})
	timer := c.clock.AfterFunc(d, func() { close(fired) })
	defer timer.Stop()

	c.logger.Debug().Str("command", cmd).Msg("Sending engine command")
	if _, err := c.w.WriteString(cmd + "\n"); err != nil {
		return "", 0, fmt.Errorf("write %q: %w", cmd, err)
	}
	if err := c.w.Flush(); err != nil {
		return "", 0, fmt.Errorf("write %q: %w", cmd, err)
	}

	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", streamClosed, nil
		}
		return line, gotLine, nil
	case <-fired:
		return "", expired, nil
	case <-ctx.Done():
		return "", 0, ctx.Err()
	}
}

// drain discards lines left over from an earlier request, such as a reply
// that arrived after its search timed out.
func (c *Client) drain() {
	for {
		select {
		case line, ok := <-c.lines:
			if !ok {
				return
			}
			c.logger.Warn().Str("line", line).Msg("Discarding unsolicited engine output")
		default:
			return
		}
	}
}

// PushBoard sends g's position. The engine acknowledges by staying silent for
// the grace period; any line it prints in that window is a parse error.
func (c *Client) PushBoard(ctx context.Context, g *game.Gamestate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pushBoard(ctx, g)
}

func (c *Client) pushBoard(ctx context.Context, g *game.Gamestate) error {
	cmd := "board " + g.WireString()
	line, res, err := c.roundTrip(ctx, cmd, c.grace)
	if err != nil {
		return err
	}
	if res == gotLine {
		return &ProtocolError{Command: cmd, Line: line}
	}
	return nil
}

// Search asks for a move for the last pushed position and returns the
// absolute hole index the engine chose.
func (c *Client) Search(ctx context.Context, id EngineID, depth int, timeout time.Duration) (int, error) {
	if !id.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownEngine, int(id))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search(ctx, id, depth, timeout)
}

func (c *Client) search(ctx context.Context, id EngineID, depth int, timeout time.Duration) (int, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cmd := fmt.Sprintf("search %d %d", int(id), depth)
	line, res, err := c.roundTrip(ctx, cmd, timeout)
	if err != nil {
		return 0, err
	}
	switch res {
	case expired:
		return 0, fmt.Errorf("%w: no reply to %q within %s", ErrTimeout, cmd, timeout)
	case streamClosed:
		return 0, fmt.Errorf("%w: output closed before %q was answered", ErrTimeout, cmd)
	}

	reply := strings.TrimSpace(line)
	move, err := strconv.Atoi(reply)
	if err != nil || move < -1 {
		return 0, &ProtocolError{Command: cmd, Line: line}
	}
	if move == -1 {
		return 0, &SearchFailedError{Command: cmd, Reply: reply}
	}
	c.logger.Debug().Str("command", cmd).Int("move", move).Msg("Engine replied")
	return move, nil
}

// BestMove pushes g, searches with the given difficulty (see SearchParams) and
// returns the chosen move as a relative hole index for the player to move.
// Nothing is played; the reply is checked against g's legal moves.
func (c *Client) BestMove(ctx context.Context, g *game.Gamestate, preferred EngineID, difficulty int, timeout time.Duration) (int, error) {
	id, depth := SearchParams(difficulty, preferred)
	if !id.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownEngine, int(id))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.pushBoard(ctx, g); err != nil {
		return 0, err
	}
	abs, err := c.search(ctx, id, depth, timeout)
	if err != nil {
		return 0, err
	}

	rules := g.Rules()
	player := g.CurrentPlayer()
	if !rules.IsPlayersHole(abs, player) {
		return 0, &IllegalReplyError{Index: abs, Player: player}
	}
	rel := rules.AbsoluteToRelative(abs)
	if !g.ValidMask()[rel] {
		return 0, &IllegalReplyError{Index: abs, Player: player}
	}
	return rel, nil
}
