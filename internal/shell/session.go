package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/favlauncher/internal/logger"
)

// ErrClosed is returned when sending to an exited session.
var ErrClosed = errors.New("shell session has exited")

// Session is a long-lived interactive shell fed line by line on stdin.
// It offers no completion signal: Send returns once the line is written.
type Session struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	mu     sync.Mutex
	done   chan struct{}
	exitMu sync.Mutex
	exit   error
}

// Options configure a new session.
type Options struct {
	Shell string   // ex: "/bin/sh"
	Dir   string   // working directory, the workspace root
	Env   []string // extra KEY=VALUE pairs appended to the process env
}

// Start launches the shell. Output lines are logged under the "terminal" name.
func Start(opts Options, log logger.Logger) (*Session, error) {
	if opts.Shell == "" {
		opts.Shell = "/bin/sh"
	}

	// not bound to a request context: a session outlives the macro run that created it
	cmd := exec.Command(opts.Shell)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(cmd.Environ(), opts.Env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("shell stdin: %w", err)
	}
	out, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		return nil, fmt.Errorf("start shell %s: %w", opts.Shell, err)
	}

	s := &Session{cmd: cmd, stdin: stdin, done: make(chan struct{})}

	go pipeLines(out, log, cmd.Process.Pid)
	go func() {
		err := cmd.Wait()
		_ = pw.Close()
		s.exitMu.Lock()
		s.exit = err
		s.exitMu.Unlock()
		close(s.done)
		log.Debug("shell session exited", logger.Int("pid", cmd.Process.Pid))
	}()

	log.Info("shell session started",
		logger.String("shell", opts.Shell),
		logger.Int("pid", cmd.Process.Pid))
	return s, nil
}

func pipeLines(r io.Reader, log logger.Logger, pid int) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		log.Info("terminal", logger.Int("pid", pid), logger.String("line", sc.Text()))
	}
	// keep draining after an oversized line so the shell never blocks on output
	_, _ = io.Copy(io.Discard, r)
}

// Send writes one line to the shell.
func (s *Session) Send(text string) error {
	if !s.Alive() {
		if err := s.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrClosed, err)
		}
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line := strings.TrimRight(text, "\r\n") + "\n"
	if _, err := io.WriteString(s.stdin, line); err != nil {
		return fmt.Errorf("send to shell: %w", err)
	}
	return nil
}

// Alive reports whether the shell process is still running.
func (s *Session) Alive() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Done is closed when the process exits.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err returns the exit error once the process has exited.
func (s *Session) Err() error {
	s.exitMu.Lock()
	defer s.exitMu.Unlock()
	return s.exit
}

// Close ends the session by closing stdin, which makes the shell exit.
func (s *Session) Close() error {
	s.mu.Lock()
	err := s.stdin.Close()
	s.mu.Unlock()

	<-s.done
	if err != nil && !errors.Is(err, io.ErrClosedPipe) {
		return err
	}
	return nil
}
