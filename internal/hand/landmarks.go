// Package hand describes the hand landmarks reported by a detector for a single video frame.
package hand

import (
	"fmt"
	"maps"

	"gonum.org/v1/gonum/spatial/r2"
)

// Joint identifies one of the 21 hand landmarks.
// The numeric values follow the MediaPipe landmark order.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
type Joint int

const (
	Wrist Joint = iota
	ThumbCMC
	ThumbMCP
	ThumbIP
	ThumbTip
	IndexMCP
	IndexPIP
	IndexDIP
	IndexTip
	MiddleMCP
	MiddlePIP
	MiddleDIP
	MiddleTip
	RingMCP
	RingPIP
	RingDIP
	RingTip
	LittleMCP
	LittlePIP
	LittleDIP
	LittleTip

	// NumJoints is the number of joints in a complete hand.
	NumJoints = 21
)

var jointNames = [NumJoints]string{
	"wrist",
	"thumbCMC", "thumbMCP", "thumbIP", "thumbTip",
	"indexMCP", "indexPIP", "indexDIP", "indexTip",
	"middleMCP", "middlePIP", "middleDIP", "middleTip",
	"ringMCP", "ringPIP", "ringDIP", "ringTip",
	"littleMCP", "littlePIP", "littleDIP", "littleTip",
}

// Joints returns every joint in landmark order.
func Joints() []Joint {
	joints := make([]Joint, NumJoints)
	for i := range joints {
		joints[i] = Joint(i)
	}
	return joints
}

// Valid reports whether j is one of the 21 known joints.
func (j Joint) Valid() bool {
	return j >= Wrist && j <= LittleTip
}

func (j Joint) String() string {
	if !j.Valid() {
		return fmt.Sprintf("joint(%d)", int(j))
	}
	return jointNames[j]
}

// MarshalText lets joints be used as JSON object keys.
func (j Joint) MarshalText() ([]byte, error) {
	if !j.Valid() {
		return nil, fmt.Errorf("invalid joint %d", int(j))
	}
	return []byte(jointNames[j]), nil
}

// UnmarshalText parses a joint from its lowerCamel name.
func (j *Joint) UnmarshalText(text []byte) error {
	name := string(text)
	for i, n := range jointNames {
		if n == name {
			*j = Joint(i)
			return nil
		}
	}
	return fmt.Errorf("unknown joint %q", name)
}

// Point is a position in normalized image space, both axes in [0,1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec converts the point to a gonum vector.
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(a.Vec(), b.Vec()))
}

// Observation is a detected joint position with the detector's confidence in [0,1].
type Observation struct {
	Point
	Confidence float64 `json:"c"`
}

// LandmarkFrame holds the joints detected in one processed video frame.
// Joints the detector did not report are absent from the map.
// A nil frame means no hand was in view.
type LandmarkFrame map[Joint]Observation

// Clone returns a copy of the frame. Cloning a nil frame returns nil.
func (f LandmarkFrame) Clone() LandmarkFrame {
	return maps.Clone(f)
}

// Confident reports whether joint j is present with a confidence strictly above threshold.
func (f LandmarkFrame) Confident(j Joint, threshold float64) (Observation, bool) {
	obs, ok := f[j]
	if !ok || obs.Confidence <= threshold {
		return Observation{}, false
	}
	return obs, true
}
