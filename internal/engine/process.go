package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProcessConfig describes how to launch the engine executable.
type ProcessConfig struct {
	Command string
	Args    []string
	Env     map[string]string
}

// Process is a running engine executable. Its stdout is exposed for the
// protocol client; stderr is logged.
type Process struct {
	ID      string
	Command string
	Args    []string
	Env     map[string]string

	cmd       *exec.Cmd
	ctx       context.Context
	cancel    context.CancelFunc
	logger    zerolog.Logger
	stdin     io.WriteCloser
	stdout    io.ReadCloser
	startTime time.Time
	mu        sync.RWMutex
	done      chan struct{}
	exitErr   error
}

// NewProcess prepares a process; nothing runs until Start.
func NewProcess(ctx context.Context, cfg ProcessConfig, logger zerolog.Logger) *Process {
	procCtx, cancel := context.WithCancel(ctx)
	id := uuid.NewString()[:8]

	return &Process{
		ID:      id,
		Command: cfg.Command,
		Args:    cfg.Args,
		Env:     cfg.Env,
		ctx:     procCtx,
		cancel:  cancel,
		logger:  logger.With().Str("process_id", id).Logger(),
		done:    make(chan struct{}),
	}
}

// Start launches the executable with piped stdin and stdout.
func (p *Process) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		return fmt.Errorf("process already started")
	}
	if p.Command == "" {
		return fmt.Errorf("no engine command configured")
	}

	p.cmd = exec.CommandContext(p.ctx, p.Command, p.Args...)
	p.cmd.Env = os.Environ()
	for k, v := range p.Env {
		p.cmd.Env = append(p.cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	stdin, err := p.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stderr, err := p.cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	// Wait closes pipes it created, which can discard a reply the engine wrote
	// just before exiting. The read end of this one stays open until drained.
	stdout, stdoutW, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	p.cmd.Stdout = stdoutW

	err = p.cmd.Start()
	_ = stdoutW.Close()
	if err != nil {
		_ = stdout.Close()
		return fmt.Errorf("failed to start engine: %w", err)
	}
	p.stdin = stdin
	p.stdout = drainCloser{stdout}

	p.startTime = time.Now()
	p.logger.Info().
		Str("command", p.Command).
		Strs("args", p.Args).
		Int("pid", p.cmd.Process.Pid).
		Msg("Engine started")

	go p.logStderr(stderr)
	go p.monitor()

	return nil
}

// Stdin returns the engine's command stream. Nil before Start.
func (p *Process) Stdin() io.WriteCloser {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stdin
}

// Stdout returns the engine's reply stream. Nil before Start. It is readable
// until EOF even after the engine has exited.
func (p *Process) Stdout() io.Reader {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stdout
}

// Stop closes stdin, interrupts the engine and kills it if it has not exited
// within a second.
func (p *Process) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.cancel()
	defer func() {
		if p.stdout != nil {
			_ = p.stdout.Close()
		}
	}()

	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}

	select {
	case <-p.done:
		return nil
	default:
	}

	// Most engines exit on EOF.
	_ = p.stdin.Close()
	select {
	case <-p.done:
		return nil
	case <-time.After(100 * time.Millisecond):
	}

	if err := p.cmd.Process.Signal(os.Interrupt); err != nil {
		select {
		case <-p.done:
			return nil
		default:
			if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				return fmt.Errorf("failed to stop engine: %w", err)
			}
		}
	}

	select {
	case <-p.done:
		return nil
	case <-time.After(1 * time.Second):
		p.logger.Debug().Msg("Force killing engine")
		if err := p.cmd.Process.Kill(); err != nil {
			select {
			case <-p.done:
				return nil
			default:
				if errors.Is(err, os.ErrProcessDone) {
					return nil
				}
				return fmt.Errorf("failed to kill engine: %w", err)
			}
		}
		<-p.done
	}

	return nil
}

// Wait waits for the process to exit.
func (p *Process) Wait() error {
	<-p.done
	return p.exitErr
}

// IsAlive returns true if the process is still running.
func (p *Process) IsAlive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *Process) monitor() {
	defer close(p.done)

	// exitErr is published by close(done); Stop holds mu while waiting on done.
	err := p.cmd.Wait()
	p.exitErr = err

	dur := time.Since(p.startTime)
	if err == nil {
		p.logger.Info().Dur("duration", dur).Msg("Engine exited")
		return
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && strings.HasPrefix(exitErr.String(), "signal: ") {
		p.logger.Info().Dur("duration", dur).Str("signal", exitErr.String()).Msg("Engine terminated by signal")
		return
	}
	p.logger.Error().Err(err).Dur("duration", dur).Msg("Engine exited with error")
}

func (p *Process) logStderr(pipe io.Reader) {
	scanner := bufio.NewScanner(pipe)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			p.logger.Info().Str("stream", "stderr").Msg(line)
		}
	}

	if err := scanner.Err(); err != nil {
		select {
		case <-p.done:
		default:
			if !errors.Is(err, os.ErrClosed) {
				p.logger.Error().Err(err).Str("stream", "stderr").Msg("Error reading engine output")
			}
		}
	}
}

// drainCloser releases the read end of the stdout pipe once it reports EOF or
// an error.
type drainCloser struct{ *os.File }

func (d drainCloser) Read(b []byte) (int, error) {
	n, err := d.File.Read(b)
	if err != nil {
		_ = d.File.Close()
	}
	return n, err
}
