package detector

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/rochambeau/internal/hand"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []Hand
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []Hand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// RockHand returns a right hand making a fist.
func RockHand() Hand {
	return Hand{Landmarks: hand.RockFrame(), Handedness: "Right", Score: 0.95}
}

// PaperHand returns a right hand with every finger extended.
func PaperHand() Hand {
	return Hand{Landmarks: hand.PaperFrame(), Handedness: "Right", Score: 0.95}
}

// ScissorsHand returns a right hand with the index and middle fingers extended.
func ScissorsHand() Hand {
	return Hand{Landmarks: hand.ScissorsFrame(), Handedness: "Right", Score: 0.95}
}
