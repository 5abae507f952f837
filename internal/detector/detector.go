// Package detector finds hands in camera frames and reports their landmarks.
package detector

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/rochambeau/internal/hand"
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hands, most confident first.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]Hand, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Hand is one detected hand.
type Hand struct {
	Landmarks  hand.LandmarkFrame `json:"landmarks"`
	Handedness string             `json:"handedness"` // "Left" or "Right"
	Score      float64            `json:"score"`
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// IdleTimeout stops the detection service after this long without frames. Zero keeps it running.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
// A game only ever looks at one hand.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		IdleTimeout:     30 * time.Second,
	}
}
