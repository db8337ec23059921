package botrt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// SubprocessConfig describes an external bot program.
type SubprocessConfig struct {
	Name     string
	Protocol string // declared payload protocol version, may be empty
	Command  string
	Args     []string
}

// SubprocessBot runs a bot as a child process speaking newline-delimited
// JSON: one payload line in on stdin, one response line back on stdout per
// decision. The process is killed when the bot is stopped; a hung or dead
// process surfaces as an Act error or an invoker timeout, never as a stuck
// match loop.
type SubprocessBot struct {
	cfg    SubprocessConfig
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	lines  chan string
	reqs   chan subprocessRequest
	done   chan struct{}
	cancel context.CancelFunc
	group  *errgroup.Group
	logger *log.Logger
}

type subprocessRequest struct {
	payload []byte
	reply   chan subprocessReply
}

type subprocessReply struct {
	data []byte
	err  error
}

// StartSubprocess launches the bot program and starts its I/O pumps.
func StartSubprocess(ctx context.Context, cfg SubprocessConfig, logger *log.Logger) (*SubprocessBot, error) {
	if _, err := ResolveProtocol(cfg.Protocol); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start %s: %w", cfg.Command, err)
	}

	b := &SubprocessBot{
		cfg:    cfg,
		cmd:    cmd,
		stdin:  stdin,
		lines:  make(chan string, 4),
		reqs:   make(chan subprocessRequest),
		done:   make(chan struct{}),
		cancel: cancel,
		logger: logger.WithPrefix("subprocess").With("bot", cfg.Name),
	}

	group, gctx := errgroup.WithContext(ctx)
	b.group = group

	group.Go(func() error {
		defer close(b.lines)
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64<<10), MaxStateBytes)
		for scanner.Scan() {
			select {
			case b.lines <- scanner.Text():
			case <-gctx.Done():
				return nil
			}
		}
		return scanner.Err()
	})

	group.Go(func() error {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			b.logger.Debug("bot stderr", "line", scanner.Text())
		}
		return nil
	})

	go b.pump(gctx)

	go func() {
		err := group.Wait()
		if werr := cmd.Wait(); werr != nil && err == nil {
			err = werr
		}
		if err != nil && ctx.Err() == nil {
			b.logger.Warn("bot process ended", "error", err)
		}
		close(b.done)
	}()

	b.logger.Info("bot process started", "command", cfg.Command, "pid", cmd.Process.Pid)
	return b, nil
}

// Name implements Bot.
func (b *SubprocessBot) Name() string { return b.cfg.Name }

// Protocol implements Bot.
func (b *SubprocessBot) Protocol() string { return b.cfg.Protocol }

// Act implements Bot: write one payload line, read one response line.
// Decisions are serialized through a single pump so a reply is paired with
// the request that is actually waiting for it.
func (b *SubprocessBot) Act(payload []byte) ([]byte, error) {
	req := subprocessRequest{payload: payload, reply: make(chan subprocessReply, 1)}
	select {
	case b.reqs <- req:
	case <-b.done:
		return nil, errors.New("bot process exited")
	}
	select {
	case r := <-req.reply:
		return r.data, r.err
	case <-b.done:
		return nil, errors.New("bot process exited")
	}
}

func (b *SubprocessBot) pump(ctx context.Context) {
	for {
		select {
		case req := <-b.reqs:
			// Drop any reply left over from a decision the invoker
			// abandoned at its timeout.
			for drained := false; !drained; {
				select {
				case <-b.lines:
				default:
					drained = true
				}
			}
			if _, err := b.stdin.Write(append(req.payload, '\n')); err != nil {
				req.reply <- subprocessReply{err: fmt.Errorf("write to bot: %w", err)}
				continue
			}
			select {
			case line, ok := <-b.lines:
				if !ok {
					req.reply <- subprocessReply{err: errors.New("bot process closed stdout")}
					return
				}
				req.reply <- subprocessReply{data: []byte(line)}
			case <-ctx.Done():
				req.reply <- subprocessReply{err: ctx.Err()}
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Stop kills the bot process and reaps its pumps.
func (b *SubprocessBot) Stop() {
	b.cancel()
	_ = b.stdin.Close()
	<-b.done
	b.logger.Info("bot process stopped")
}
