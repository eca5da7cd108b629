package shell

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/favlauncher/internal/logger"
)

func TestSessionRunsLinesInOrder(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh available")
	}
	dir := t.TempDir()

	s, err := Start(Options{Shell: "/bin/sh", Dir: dir}, logger.New("error", false))
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if !s.Alive() {
		t.Fatal("session should be alive after start")
	}
	if err := s.Send("echo one > out.txt"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if err := s.Send("echo two >> out.txt"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "one\ntwo\n" {
		t.Errorf("output = %q", data)
	}
	if s.Alive() {
		t.Error("session should be dead after close")
	}
	if err := s.Send("echo three"); !errors.Is(err, ErrClosed) {
		t.Errorf("Send() after exit = %v, want ErrClosed", err)
	}
}

func TestSessionDetectsExit(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh available")
	}

	s, err := Start(Options{Shell: "/bin/sh", Dir: t.TempDir()}, logger.New("error", false))
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Send("exit 3"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("shell did not exit")
	}
	if s.Alive() {
		t.Error("Alive() should be false after exit")
	}
	if s.Err() == nil {
		t.Error("Err() should hold the exit status")
	}
	err = s.Send("echo late")
	if !errors.Is(err, ErrClosed) || !strings.Contains(err.Error(), "exit status 3") {
		t.Errorf("Send() after exit = %v, want ErrClosed with the exit status", err)
	}
}
