package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	// blurKernel is the Gaussian kernel applied before differencing to suppress sensor noise.
	blurKernel = 21
	// diffLevel is the per-pixel intensity change that counts as changed.
	diffLevel = 25
)

// MotionDetector compares consecutive frames and reports whether enough of the picture changed
// to make another hand detection worthwhile. A still hand keeps its last landmarks.
type MotionDetector struct {
	mu        sync.Mutex
	threshold float64
	baseline  gocv.Mat
	primed    bool
}

// NewMotionDetector creates a detector that reports motion when more than threshold percent
// of the pixels changed since the previous frame.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		baseline:  gocv.NewMat(),
	}
}

// Threshold returns the percentage of changed pixels above which a frame counts as moving.
func (m *MotionDetector) Threshold() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}

// Detect reports whether frame moved relative to the previous one, with the changed percentage.
// The first frame after creation or Reset only becomes the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	smooth := smoothGray(frame)
	defer smooth.Close()

	if !m.primed {
		smooth.CopyTo(&m.baseline)
		m.primed = true
		return false, 0
	}

	changed := changedPercent(smooth, m.baseline)
	smooth.CopyTo(&m.baseline)
	return changed > m.threshold, changed
}

// Reset drops the baseline so the next frame starts a new comparison.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
}

// Close releases the baseline frame. The detector stays usable and re-primes on the next frame.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
}

func (m *MotionDetector) clear() {
	if !m.baseline.Empty() {
		m.baseline.Close()
		m.baseline = gocv.NewMat()
	}
	m.primed = false
}

// smoothGray returns a blurred grayscale copy of frame. The caller closes it.
func smoothGray(frame *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	out := gocv.NewMat()
	gocv.GaussianBlur(gray, &out, image.Point{X: blurKernel, Y: blurKernel}, 0, 0, gocv.BorderDefault)
	return out
}

func changedPercent(cur, prev gocv.Mat) float64 {
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(cur, prev, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, diffLevel, 255, gocv.ThresholdBinary)

	total := mask.Rows() * mask.Cols()
	if total == 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total) * 100
}
