package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerRunning
	SpinnerStopped
)

// SpinnerFrames is the animation used by Spinner, in bubbles' format.
var SpinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// Spinner animates a single status line while a blocking step runs. Stop
// erases the line; the caller prints the outcome afterwards.
type Spinner struct {
	mu           sync.Mutex
	w            io.Writer
	label        string
	state        SpinnerState
	startTime    time.Time
	stopChan     chan struct{}
	doneChan     chan struct{}
	lastRendered string
	model        spinner.Model
}

// NewSpinner creates a spinner that draws to w.
func NewSpinner(w io.Writer, label string) *Spinner {
	return &Spinner{
		w:     w,
		label: label,
		state: SpinnerPending,
		model: spinner.New(
			spinner.WithSpinner(SpinnerFrames),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorSecondary)),
		),
	}
}

// Start begins the animation. Calling Start twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.state == SpinnerRunning {
		s.mu.Unlock()
		return
	}
	s.state = SpinnerRunning
	s.startTime = time.Now()
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.render()
	s.mu.Unlock()

	go s.animate()
}

// Stop halts the animation and clears the line. It returns how long the
// spinner ran.
func (s *Spinner) Stop() time.Duration {
	s.mu.Lock()
	if s.state != SpinnerRunning {
		s.mu.Unlock()
		return 0
	}
	s.state = SpinnerStopped
	close(s.stopChan)
	s.mu.Unlock()

	<-s.doneChan

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	return time.Since(s.startTime)
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Label returns the spinner's label.
func (s *Spinner) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(SpinnerFrames.FPS)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-s.stopChan:
			return
		case t := <-ticker.C:
			s.mu.Lock()
			// the returned tick command is dropped; the ticker drives frames
			s.model, _ = s.model.Update(spinner.TickMsg{Time: t, ID: s.model.ID()})
			s.render()
			s.mu.Unlock()
		}
	}
}

// render draws the current frame. Callers hold s.mu.
func (s *Spinner) render() {
	s.clear()
	line := fmt.Sprintf("%s %s...", s.model.View(), s.label)
	fmt.Fprint(s.w, line)
	s.lastRendered = line
}

// clear erases the last drawn frame. Callers hold s.mu.
func (s *Spinner) clear() {
	if s.lastRendered == "" {
		return
	}
	width := lipgloss.Width(s.lastRendered)
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", width)+"\r")
	s.lastRendered = ""
}
