package shell

import (
	"io"
	"sync"
)

// Terminal serializes writes from the probe loop and the shell onto one
// writer so their lines never interleave.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminal wraps w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w.Write(p)
}
