// Package progress shows a terminal spinner while the browser is slow to
// answer.
package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"urlcopier/pkg/models"
	"urlcopier/pkg/tabs"
)

// DefaultDelay keeps fast captures from flashing a spinner.
const DefaultDelay = 300 * time.Millisecond

// Spinner represents a progress spinner
type Spinner struct {
	mu         sync.Mutex
	writer     io.Writer
	frames     []string
	frameIndex int
	message    string
	delay      time.Duration
	interval   time.Duration
	running    bool
	drawn      bool
	stopChan   chan struct{}
	wg         sync.WaitGroup
}

// NewSpinner creates a spinner on w that appears only after delay.
func NewSpinner(w io.Writer, message string, delay time.Duration) *Spinner {
	return &Spinner{
		writer:   w,
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		message:  message,
		delay:    delay,
		interval: 100 * time.Millisecond,
	}
}

// Start starts the spinner animation
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.drawn = false
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.animate()
}

// Stop stops the animation and clears the line if anything was drawn.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn {
		fmt.Fprint(s.writer, "\r\033[K")
	}
}

func (s *Spinner) animate() {
	defer s.wg.Done()

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			return
		}
		frame := s.frames[s.frameIndex%len(s.frames)]
		s.frameIndex++
		s.drawn = true
		fmt.Fprintf(s.writer, "\r%s %s", frame, s.message)
		s.mu.Unlock()

		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
		}
	}
}

// WithSpinner runs fn with a spinner on w.
func WithSpinner(w io.Writer, message string, delay time.Duration, fn func() error) error {
	spinner := NewSpinner(w, message, delay)
	spinner.Start()
	err := fn()
	spinner.Stop()
	return err
}

// Source shows a spinner while the wrapped source is queried.
type Source struct {
	inner  tabs.Source
	writer io.Writer
	delay  time.Duration
}

var _ tabs.Source = (*Source)(nil)

func NewSource(inner tabs.Source, w io.Writer, delay time.Duration) *Source {
	return &Source{inner: inner, writer: w, delay: delay}
}

func (s *Source) Active(ctx context.Context) (models.CaptureRecord, bool, error) {
	var (
		rec models.CaptureRecord
		ok  bool
	)
	err := WithSpinner(s.writer, "Reading the active tab...", s.delay, func() error {
		var err error
		rec, ok, err = s.inner.Active(ctx)
		return err
	})
	return rec, ok, err
}

func (s *Source) All(ctx context.Context) ([]models.CaptureRecord, error) {
	var records []models.CaptureRecord
	err := WithSpinner(s.writer, "Reading tabs...", s.delay, func() error {
		var err error
		records, err = s.inner.All(ctx)
		return err
	})
	return records, err
}
