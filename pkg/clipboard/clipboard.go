// Package clipboard writes text to the system clipboard through a surface
// that is created on first use and shared by every later request of the
// process. The default surface is a helper child process that owns the
// clipboard on the copier's behalf; a local surface writes in-process.
package clipboard

import (
	"context"
	"fmt"
	"os"
	"sync"

	"urlcopier/pkg/logger"
)

// Helper modes accepted by LauncherFor.
const (
	HelperProcess = "process"
	HelperLocal   = "local"
)

// HelperCommand is the hidden subcommand that runs the helper side.
const HelperCommand = "__clipboard-helper"

// Surface performs clipboard writes. ok is false when the surface ran but
// could not write.
type Surface interface {
	Write(ctx context.Context, text string) (ok bool, err error)
	Close() error
}

// Launcher creates a Surface.
type Launcher func(ctx context.Context) (Surface, error)

// creation is a surface start in flight. done is closed once surface and
// err are final.
type creation struct {
	done    chan struct{}
	surface Surface
	err     error
}

// Sink mediates every clipboard write of the process through one Surface.
type Sink struct {
	launch Launcher

	mu      sync.Mutex
	surface Surface
	pending *creation
}

func NewSink(launch Launcher) *Sink {
	return &Sink{launch: launch}
}

// Write copies text, creating the surface if none exists. A failed write is
// reported to the caller and never retried.
func (s *Sink) Write(ctx context.Context, text string) (bool, error) {
	surface, err := s.ensure(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to start clipboard surface: %w", err)
	}

	ok, err := surface.Write(ctx, text)
	if err != nil {
		// The next request starts a fresh surface.
		s.discard(surface)
		return false, err
	}
	return ok, nil
}

// ensure returns the live surface, joins a creation already in flight, or
// starts exactly one creation. The pending slot is cleared when the creation
// completes, whatever its outcome.
func (s *Sink) ensure(ctx context.Context) (Surface, error) {
	s.mu.Lock()
	if s.surface != nil {
		surface := s.surface
		s.mu.Unlock()
		return surface, nil
	}
	if c := s.pending; c != nil {
		s.mu.Unlock()
		select {
		case <-c.done:
			return c.surface, c.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c := &creation{done: make(chan struct{})}
	s.pending = c
	s.mu.Unlock()

	logger.Debug().Msg("Creating clipboard surface")
	surface, err := s.launch(ctx)

	s.mu.Lock()
	if err == nil {
		s.surface = surface
	}
	s.pending = nil
	c.surface, c.err = surface, err
	close(c.done)
	s.mu.Unlock()

	if err != nil {
		logger.Warn().Err(err).Msg("Clipboard surface creation failed")
	}
	return surface, err
}

func (s *Sink) discard(surface Surface) {
	s.mu.Lock()
	if s.surface == surface {
		s.surface = nil
	}
	s.mu.Unlock()

	if err := surface.Close(); err != nil {
		logger.Debug().Err(err).Msg("Closing discarded clipboard surface")
	}
}

// Close shuts down the surface, if one was created.
func (s *Sink) Close() error {
	s.mu.Lock()
	surface := s.surface
	s.surface = nil
	s.mu.Unlock()

	if surface == nil {
		return nil
	}
	return surface.Close()
}

// LauncherFor maps a configured helper mode to a Launcher.
func LauncherFor(mode string) (Launcher, error) {
	switch mode {
	case "", HelperProcess:
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate executable for clipboard helper: %w", err)
		}
		return ProcessLauncher(exe, HelperCommand), nil
	case HelperLocal:
		return LocalLauncher, nil
	default:
		return nil, fmt.Errorf("unknown clipboard helper %q (expected %q or %q)", mode, HelperProcess, HelperLocal)
	}
}
