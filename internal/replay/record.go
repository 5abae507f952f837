package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ayusman/rochambeau/internal/hand"
)

// Writer writes frames in the format Source reads.
type Writer struct {
	mu  sync.Mutex
	buf *bufio.Writer
}

// NewWriter creates a writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{buf: bufio.NewWriter(w)}
}

// Write appends one frame. A nil frame is written as null.
func (w *Writer) Write(frame hand.LandmarkFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.buf.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Flush writes any buffered frames to the underlying writer.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Flush()
}

// frameSource matches the source contract of the app package.
type frameSource interface {
	Open() error
	Close() error
	Grab() error
	Retrieve() (hand.LandmarkFrame, error)
}

// Recorder passes frames through from a source and writes every retrieved frame.
// Frames the pipeline skips are not recorded, so a recording replays at the classified rate.
type Recorder struct {
	frameSource
	out *Writer
}

// Record wraps src so its retrieved frames are written to out.
func Record(src frameSource, out *Writer) *Recorder {
	return &Recorder{frameSource: src, out: out}
}

// Retrieve returns the source's frame after writing it. A failed write is logged, not returned.
func (r *Recorder) Retrieve() (hand.LandmarkFrame, error) {
	frame, err := r.frameSource.Retrieve()
	if err != nil {
		return nil, err
	}
	if werr := r.out.Write(frame); werr != nil {
		log.Warn().Err(werr).Msg("failed to record frame")
	}
	return frame, nil
}

// Close flushes the recording and closes the source.
func (r *Recorder) Close() error {
	ferr := r.out.Flush()
	if err := r.frameSource.Close(); err != nil {
		return err
	}
	return ferr
}
