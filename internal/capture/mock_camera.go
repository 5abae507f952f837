package capture

import (
	"errors"
	"io"
	"sync"

	"gocv.io/x/gocv"
)

// errNoFrames is returned by a MockCamera created without frames.
var errNoFrames = errors.New("mock camera has no frames")

// MockCamera replays a fixed list of frames. Without looping, reading past the last
// frame returns io.EOF, like the end of a recording.
type MockCamera struct {
	frames []*gocv.Mat
	loop   bool

	mu      sync.Mutex
	open    bool
	next    int
	opens   int
	openErr error
}

// NewMockCamera creates a camera over frames. The caller keeps ownership of the frames;
// every read returns a clone.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{frames: frames, loop: loop}
}

// FailOpen makes every following Open return err. A nil err lets Open succeed again.
func (c *MockCamera) FailOpen(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openErr = err
}

// Open rewinds to the first frame.
func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.opens++
	if c.openErr != nil {
		return c.openErr
	}
	c.open = true
	c.next = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case !c.open:
		return nil, ErrCameraNotOpen
	case len(c.frames) == 0:
		return nil, errNoFrames
	case c.next == len(c.frames) && !c.loop:
		return nil, io.EOF
	case c.next == len(c.frames):
		c.next = 0
	}

	frame := c.frames[c.next].Clone()
	c.next++
	return &frame, nil
}

func (c *MockCamera) FPS() int { return DefaultFPS }

// Opens returns how many times Open was called, failed calls included.
func (c *MockCamera) Opens() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens
}
