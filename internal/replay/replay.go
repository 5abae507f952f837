// Package replay plays back recorded hand landmarks from a JSON-lines file.
//
// Each line holds one frame: a JSON object keyed by joint name, or null when no hand was in view.
// Blank lines and lines starting with # are ignored.
//
//	{"wrist":{"x":0.5,"y":0.9,"c":0.95},"thumbTip":{"x":0.4,"y":0.6,"c":0.9}}
//	null
package replay

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ayusman/rochambeau/internal/hand"
)

// ErrNotOpen is returned when reading from a source that is not open.
var ErrNotOpen = errors.New("replay source is not open")

const maxLine = 1 << 20

// Options control playback.
type Options struct {
	// FPS paces Grab to this many frames per second. Zero replays as fast as frames are read.
	FPS int
	// Loop restarts from the first frame instead of returning io.EOF.
	Loop bool
}

// Source replays a recording. It implements the frame source the app pumps from.
type Source struct {
	path string
	opts Options

	mu      sync.Mutex
	file    *os.File
	scanner *bufio.Scanner
	line    int
	frame   hand.LandmarkFrame
	bad     error
	grabbed bool
	next    time.Time
	sleep   func(time.Duration)
}

// New creates a source for the recording at path. The file is opened by Open.
func New(path string, opts Options) *Source {
	return &Source{
		path:  path,
		opts:  opts,
		sleep: time.Sleep,
	}
}

// Open opens the recording and rewinds to its first frame.
func (s *Source) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		return nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open recording: %w", err)
	}
	s.file = f
	s.rewind()
	log.Info().Str("path", s.path).Int("fps", s.opts.FPS).Bool("loop", s.opts.Loop).Msg("replay opened")
	return nil
}

// Close closes the recording.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.scanner = nil
	return err
}

// Grab advances to the next frame. A line that does not parse still counts as a frame;
// Retrieve reports the parse error for it.
func (s *Source) Grab() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return ErrNotOpen
	}

	line, err := s.nextLine()
	if errors.Is(err, io.EOF) && s.opts.Loop && s.line > 0 {
		if _, serr := s.file.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("rewind recording: %w", serr)
		}
		s.rewind()
		line, err = s.nextLine()
	}
	if err != nil {
		return err
	}
	s.pace()

	s.grabbed = true
	s.frame, s.bad = nil, nil
	if err := json.Unmarshal(line, &s.frame); err != nil {
		s.frame = nil
		s.bad = fmt.Errorf("%s:%d: %w", s.path, s.line, err)
	}
	return nil
}

// Retrieve returns the landmarks of the last grabbed frame, or nil for a frame without a hand.
func (s *Source) Retrieve() (hand.LandmarkFrame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.grabbed {
		return nil, ErrNotOpen
	}
	if s.bad != nil {
		return nil, s.bad
	}
	return s.frame.Clone(), nil
}

func (s *Source) rewind() {
	s.scanner = bufio.NewScanner(s.file)
	s.scanner.Buffer(make([]byte, 0, 4096), maxLine)
	s.line = 0
	s.grabbed = false
}

// nextLine returns the next line holding a frame.
func (s *Source) nextLine() ([]byte, error) {
	for s.scanner.Scan() {
		s.line++
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		return line, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	return nil, io.EOF
}

func (s *Source) pace() {
	if s.opts.FPS <= 0 {
		return
	}
	interval := time.Second / time.Duration(s.opts.FPS)
	now := time.Now()
	if wait := s.next.Sub(now); wait > 0 {
		s.sleep(wait)
		now = s.next
	}
	s.next = now.Add(interval)
}
