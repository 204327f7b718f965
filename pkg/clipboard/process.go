package clipboard

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"urlcopier/pkg/logger"
	"urlcopier/pkg/messaging"
)

const helperStopTimeout = 2 * time.Second

// ProcessSurface talks to a helper child process with one JSON envelope per
// line: copy-data requests in, copy-data-result replies out.
type ProcessSurface struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	mu sync.Mutex
}

// ProcessLauncher starts path with args as the helper.
func ProcessLauncher(path string, args ...string) Launcher {
	return func(ctx context.Context) (Surface, error) {
		return StartProcess(ctx, path, args...)
	}
}

// StartProcess starts the helper. The child outlives ctx; it is stopped by
// Close.
func StartProcess(ctx context.Context, path string, args ...string) (*ProcessSurface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(path, args...)
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = helperSysProcAttr()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open helper stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open helper stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start clipboard helper: %w", err)
	}

	logger.Debug().Int("pid", cmd.Process.Pid).Msg("Clipboard helper started")
	return newProcessSurface(cmd, stdin, stdout), nil
}

func newProcessSurface(cmd *exec.Cmd, stdin io.WriteCloser, stdout io.Reader) *ProcessSurface {
	return &ProcessSurface{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
	}
}

func (p *ProcessSurface) Write(ctx context.Context, text string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	line, err := messaging.EncodeMessage(messaging.CopyData{Data: text})
	if err != nil {
		return false, err
	}
	if _, err := p.stdin.Write(append(line, '\n')); err != nil {
		return false, fmt.Errorf("failed to send to clipboard helper: %w", err)
	}

	type result struct {
		line []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		b, err := p.stdout.ReadBytes('\n')
		ch <- result{b, err}
	}()

	var res result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	if res.err != nil {
		return false, fmt.Errorf("clipboard helper did not reply: %w", res.err)
	}

	reply, err := messaging.DecodeReply(res.line)
	if err != nil {
		return false, err
	}
	switch r := reply.(type) {
	case messaging.CopyDataReply:
		return r.Success, nil
	case messaging.ErrorReply:
		return false, fmt.Errorf("clipboard helper: %s", r.Message)
	default:
		return false, fmt.Errorf("unexpected reply %q from clipboard helper", reply.ReplyType())
	}
}

// Close ends the helper by closing its input, killing it if it does not
// exit promptly.
func (p *ProcessSurface) Close() error {
	err := p.stdin.Close()
	if p.cmd == nil || p.cmd.Process == nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- p.cmd.Wait() }()

	select {
	case werr := <-done:
		if err == nil {
			err = werr
		}
	case <-time.After(helperStopTimeout):
		logger.Warn().Int("pid", p.cmd.Process.Pid).Msg("Clipboard helper did not exit, killing it")
		_ = p.cmd.Process.Kill()
		<-done
	}
	return err
}
