package capture

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"github.com/ayusman/rochambeau/internal/detector"
	"github.com/ayusman/rochambeau/internal/hand"
)

// ErrNoFrame is returned by Retrieve before any frame has been grabbed.
var ErrNoFrame = errors.New("no frame grabbed")

// CameraSource reads frames from a camera and runs hand detection on the ones the pipeline retrieves.
// With a motion detector, frames without motion reuse the previous landmarks instead of running
// detection again. Only the first detected hand is reported.
type CameraSource struct {
	camera   Camera
	detector detector.Detector
	motion   *MotionDetector

	mu      sync.Mutex
	frame   *gocv.Mat
	moving  bool
	last    hand.LandmarkFrame
	hasLast bool
}

// NewCameraSource creates a source. motion may be nil to run detection on every retrieved frame.
func NewCameraSource(camera Camera, det detector.Detector, motion *MotionDetector) *CameraSource {
	return &CameraSource{
		camera:   camera,
		detector: det,
		motion:   motion,
	}
}

// Open opens the camera.
func (s *CameraSource) Open() error {
	if err := s.camera.Open(); err != nil {
		return err
	}
	log.Info().Int("fps", s.camera.FPS()).Bool("motion_gate", s.motion != nil).Msg("camera opened")
	return nil
}

// Close releases the current frame, the camera and the detector.
// The detector restarts on demand if the source is opened again.
func (s *CameraSource) Close() error {
	s.mu.Lock()
	s.releaseFrame()
	s.hasLast = false
	s.last = nil
	s.mu.Unlock()

	if s.motion != nil {
		s.motion.Reset()
	}

	var errs []error
	if err := s.camera.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close camera: %w", err))
	}
	if err := s.detector.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close detector: %w", err))
	}
	return errors.Join(errs...)
}

// Grab reads the next frame from the camera and runs the motion gate on it.
func (s *CameraSource) Grab() error {
	frame, err := s.camera.ReadFrame()
	if err != nil {
		return err
	}

	moving := true
	if s.motion != nil {
		moving, _ = s.motion.Detect(frame)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseFrame()
	s.frame = frame
	// Motion since the last retrieval counts, even if the throttle skipped that frame.
	s.moving = s.moving || moving
	return nil
}

// Retrieve returns the landmarks of the first hand in the last grabbed frame, or nil when there is none.
func (s *CameraSource) Retrieve() (hand.LandmarkFrame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frame == nil {
		return nil, ErrNoFrame
	}
	if s.motion != nil && !s.moving && s.hasLast {
		return s.last.Clone(), nil
	}

	hands, err := s.detector.Detect(s.frame)
	if err != nil {
		return nil, fmt.Errorf("detect hands: %w", err)
	}
	s.moving = false
	s.hasLast = true
	s.last = nil
	if len(hands) > 0 {
		s.last = hands[0].Landmarks
	}
	return s.last.Clone(), nil
}

func (s *CameraSource) releaseFrame() {
	if s.frame != nil {
		s.frame.Close()
		s.frame = nil
	}
}
