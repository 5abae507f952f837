package capture

import (
	"errors"
	"testing"
)

var _ Camera = (*Device)(nil)

func TestNewDevice_Defaults(t *testing.T) {
	tests := []struct {
		name string
		opts DeviceOptions
		want DeviceOptions
	}{
		{
			name: "zero value",
			opts: DeviceOptions{},
			want: DeviceOptions{FPS: DefaultFPS, Width: DefaultWidth, Height: DefaultHeight},
		},
		{
			name: "explicit",
			opts: DeviceOptions{ID: 2, FPS: 15, Width: 1280, Height: 720},
			want: DeviceOptions{ID: 2, FPS: 15, Width: 1280, Height: 720},
		},
		{
			name: "negative values fall back",
			opts: DeviceOptions{ID: 1, FPS: -5, Width: -1, Height: 0},
			want: DeviceOptions{ID: 1, FPS: DefaultFPS, Width: DefaultWidth, Height: DefaultHeight},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDevice(tt.opts)
			if got := d.Options(); got != tt.want {
				t.Errorf("Options() = %+v, want %+v", got, tt.want)
			}
			if d.FPS() != tt.want.FPS {
				t.Errorf("FPS() = %d, want %d", d.FPS(), tt.want.FPS)
			}
			if d.IsOpen() {
				t.Error("new device should be closed")
			}
		})
	}
}

func TestDevice_ReadFrame_NotOpened(t *testing.T) {
	d := NewDevice(DeviceOptions{})

	if _, err := d.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestDevice_Close_NotOpened(t *testing.T) {
	d := NewDevice(DeviceOptions{})

	if err := d.Close(); err != nil {
		t.Errorf("Close() on a closed device = %v, want nil", err)
	}
}

func TestDevice_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	d := NewDevice(DeviceOptions{})
	if err := d.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}
	if !d.IsOpen() {
		t.Error("IsOpen() = false after Open()")
	}
	// A second Open keeps the running capture.
	if err := d.Open(); err != nil {
		t.Errorf("second Open() = %v", err)
	}

	mat, err := d.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() error = %v", err)
	} else {
		if mat.Cols() != DefaultWidth || mat.Rows() != DefaultHeight {
			t.Logf("frame is %dx%d; the device ignored the requested size", mat.Cols(), mat.Rows())
		}
		mat.Close()
	}

	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if d.IsOpen() {
		t.Error("IsOpen() = true after Close()")
	}
}
