// Package capture reads camera frames with GoCV (OpenCV) and turns them into hand landmarks.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default capture settings.
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when reading from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrEmptyFrame is returned when the device delivers no image data.
	ErrEmptyFrame = errors.New("captured frame is empty")
)

// Camera delivers raw frames. The caller closes every returned Mat.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	FPS() int
}

// DeviceOptions select the capture device and the format requested from it.
// Zero values fall back to the defaults.
type DeviceOptions struct {
	ID     int
	FPS    int
	Width  int
	Height int
}

func (o DeviceOptions) withDefaults() DeviceOptions {
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// Device is a Camera backed by an OpenCV video capture device.
type Device struct {
	opts DeviceOptions

	mu      sync.Mutex
	capture *gocv.VideoCapture
}

// NewDevice creates a closed device.
func NewDevice(opts DeviceOptions) *Device {
	return &Device{opts: opts.withDefaults()}
}

// Open starts capturing. The device may not honour the requested size or rate.
func (d *Device) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture != nil {
		return nil
	}

	vc, err := gocv.OpenVideoCapture(d.opts.ID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", d.opts.ID, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return fmt.Errorf("open camera %d: device not available", d.opts.ID)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(d.opts.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(d.opts.Height))
	vc.Set(gocv.VideoCaptureFPS, float64(d.opts.FPS))

	d.capture = vc
	return nil
}

// Close stops capturing. Closing a closed device is a no-op.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture == nil {
		return nil
	}
	err := d.capture.Close()
	d.capture = nil
	return err
}

// ReadFrame blocks until the device delivers the next frame.
func (d *Device) ReadFrame() (*gocv.Mat, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := d.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("read camera %d: %w", d.opts.ID, ErrEmptyFrame)
	}
	return &mat, nil
}

// FPS returns the requested frame rate.
func (d *Device) FPS() int {
	return d.opts.FPS
}

// Options returns the effective options.
func (d *Device) Options() DeviceOptions {
	return d.opts
}

// IsOpen reports whether the device is capturing.
func (d *Device) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.capture != nil
}
