// Package spinner renders a one-line terminal progress indicator.
package spinner

import (
	"fmt"
	"io"
	"sync"
)

// Spinner struct holds the spinner state
type Spinner struct {
	mu     sync.Mutex
	w      io.Writer
	frames []string
	index  int
}

// New creates a spinner writing to w, using a braille arrow sequence.
func New(w io.Writer) *Spinner {
	return &Spinner{
		w: w,
		frames: []string{
			"⣀⣀ ",
			"⣄⣀ ",
			"⣤⣀ ",
			"⣦⣄ ",
			"⣶⣤ ",
			"⣿⣦ ",
			"⣿⣷ ",
			"⣿⣿ ",
			"⣿⣿ ",
			"⣷⣿ ",
			"⣦⣿ ",
			"⣤⣷ ",
			"⣄⣦ ",
			"⣀⣤ ",
			"⣀⣄ ",
			"⣀⣀ ",
		},
	}
}

// Update advances the spinner to the next frame and prints it followed by status.
func (s *Spinner) Update(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Hide cursor, then overwrite the current line
	_, _ = fmt.Fprintf(s.w, "\033[?25l\r\033[K%s%s", s.frames[s.index], status)

	s.index++
	if s.index >= len(s.frames) {
		s.index = 0
	}
}

// Cleanup clears the spinner line and shows the cursor
func (s *Spinner) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprint(s.w, "\r\033[K\033[?25h")
}
