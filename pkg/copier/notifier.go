package copier

import (
	"fmt"
	"io"
	"os"
	"sync"

	"urlcopier/pkg/logger"

	"github.com/fatih/color"
)

type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notifier shows short user-facing notices.
type Notifier interface {
	Notify(level Level, message string)
}

// ConsoleNotifier prints notices to a terminal and logs them.
type ConsoleNotifier struct {
	Out io.Writer
	// Quiet suppresses informational notices.
	Quiet bool
}

func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{Out: os.Stderr}
}

func (n *ConsoleNotifier) Notify(level Level, message string) {
	switch level {
	case LevelError:
		logger.Warn().Msg(message)
		color.New(color.FgRed, color.Bold).Fprint(n.Out, "✗ ")
		fmt.Fprintln(n.Out, message)
	default:
		logger.Debug().Msg(message)
		if n.Quiet {
			return
		}
		color.New(color.FgGreen).Fprint(n.Out, "✓ ")
		fmt.Fprintln(n.Out, message)
	}
}

// Notice is one recorded notification.
type Notice struct {
	Level   Level
	Message string
}

// RecordingNotifier keeps notices in memory.
type RecordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *RecordingNotifier) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Level: level, Message: message})
}

func (r *RecordingNotifier) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}
