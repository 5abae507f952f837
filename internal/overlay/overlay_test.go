package overlay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/rochambeau/internal/gesture"
	"github.com/ayusman/rochambeau/internal/hand"
)

func TestBuild_FullHand(t *testing.T) {
	o := Build(hand.PaperFrame(), gesture.Paper, gesture.StrictThresholds())
	require.NotNil(t, o)

	assert.Len(t, o.Joints, hand.NumJoints)
	assert.Len(t, o.Segments, len(Bones))
	assert.Equal(t, "#00ff00", o.Color)
	assert.Equal(t, [5]bool{true, true, true, true, true}, o.Extended)

	assert.InDelta(t, 0.34, o.Bounds.Min.X, 1e-9)
	assert.InDelta(t, 0.28, o.Bounds.Min.Y, 1e-9)
	assert.InDelta(t, 0.75, o.Bounds.Max.X, 1e-9)
	assert.InDelta(t, 0.80, o.Bounds.Max.Y, 1e-9)

	w, h := o.Bounds.Size()
	assert.InDelta(t, 0.41, w, 1e-9)
	assert.InDelta(t, 0.52, h, 1e-9)
}

func TestBuild_SkipsLowConfidenceJoints(t *testing.T) {
	frame := hand.RockFrame().
		WithConfidence(hand.IndexDIP, 0.5).
		WithConfidence(hand.LittleTip, 0.2)

	o := Build(frame, gesture.None, gesture.LooseThresholds())
	require.NotNil(t, o)

	assert.NotContains(t, o.Joints, hand.IndexDIP)
	assert.NotContains(t, o.Joints, hand.LittleTip)
	assert.Len(t, o.Joints, hand.NumJoints-2)
	// IndexPIP-IndexDIP, IndexDIP-IndexTip and LittleDIP-LittleTip drop out.
	assert.Len(t, o.Segments, len(Bones)-3)
	assert.Equal(t, "#808080", o.Color)
}

func TestBuild_Empty(t *testing.T) {
	assert.Nil(t, Build(nil, gesture.Rock, gesture.StrictThresholds()))

	dim := hand.LandmarkFrame{hand.Wrist: {Point: hand.Point{X: 0.5, Y: 0.5}, Confidence: 0.4}}
	assert.Nil(t, Build(dim, gesture.None, gesture.StrictThresholds()))
}

func TestBuild_SingleJoint(t *testing.T) {
	frame := hand.LandmarkFrame{hand.Wrist: {Point: hand.Point{X: 0.2, Y: 0.3}, Confidence: 0.9}}
	o := Build(frame, gesture.None, gesture.StrictThresholds())
	require.NotNil(t, o)

	assert.Empty(t, o.Segments)
	assert.Equal(t, Box{Min: hand.Point{X: 0.2, Y: 0.3}, Max: hand.Point{X: 0.2, Y: 0.3}}, o.Bounds)
}

func TestBuild_BoundsOfVerticalLine(t *testing.T) {
	frame := hand.LandmarkFrame{
		hand.Wrist:     {Point: hand.Point{X: 0.4, Y: 0.9}, Confidence: 0.9},
		hand.MiddleMCP: {Point: hand.Point{X: 0.4, Y: 0.6}, Confidence: 0.9},
		hand.MiddleTip: {Point: hand.Point{X: 0.4, Y: 0.2}, Confidence: 0.9},
	}
	o := Build(frame, gesture.None, gesture.StrictThresholds())
	require.NotNil(t, o)

	assert.Equal(t, Box{Min: hand.Point{X: 0.4, Y: 0.2}, Max: hand.Point{X: 0.4, Y: 0.9}}, o.Bounds)
	w, h := o.Bounds.Size()
	assert.Zero(t, w)
	assert.InDelta(t, 0.7, h, 1e-9)
}

func TestColorFor(t *testing.T) {
	tests := []struct {
		g    gesture.Gesture
		want string
	}{
		{gesture.Rock, "#ff0000"},
		{gesture.Paper, "#00ff00"},
		{gesture.Scissors, "#0000ff"},
		{gesture.None, "#808080"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Hex(ColorFor(tt.g)), "gesture %s", tt.g)
	}
}

func TestOverlay_JSON(t *testing.T) {
	o := Build(hand.ScissorsFrame(), gesture.Scissors, gesture.StrictThresholds())
	data, err := json.Marshal(o)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	joints, ok := decoded["joints"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, joints, "indexTip")
	assert.Equal(t, "#0000ff", decoded["color"])
}
