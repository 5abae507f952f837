// Package overlay computes the hand skeleton drawn over the camera preview.
package overlay

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/rochambeau/internal/gesture"
	"github.com/ayusman/rochambeau/internal/hand"
)

// MinConfidence is the confidence a joint needs to be drawn.
const MinConfidence = 0.5

// Bone connects two joints.
type Bone [2]hand.Joint

// Bones is the hand skeleton: each finger chained from the wrist to its tip.
var Bones = [20]Bone{
	{hand.Wrist, hand.ThumbCMC}, {hand.ThumbCMC, hand.ThumbMCP}, {hand.ThumbMCP, hand.ThumbIP}, {hand.ThumbIP, hand.ThumbTip},
	{hand.Wrist, hand.IndexMCP}, {hand.IndexMCP, hand.IndexPIP}, {hand.IndexPIP, hand.IndexDIP}, {hand.IndexDIP, hand.IndexTip},
	{hand.Wrist, hand.MiddleMCP}, {hand.MiddleMCP, hand.MiddlePIP}, {hand.MiddlePIP, hand.MiddleDIP}, {hand.MiddleDIP, hand.MiddleTip},
	{hand.Wrist, hand.RingMCP}, {hand.RingMCP, hand.RingPIP}, {hand.RingPIP, hand.RingDIP}, {hand.RingDIP, hand.RingTip},
	{hand.Wrist, hand.LittleMCP}, {hand.LittleMCP, hand.LittlePIP}, {hand.LittlePIP, hand.LittleDIP}, {hand.LittleDIP, hand.LittleTip},
}

// Palette used for joints and bones.
var (
	Gray  = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	Red   = color.RGBA{R: 0xff, A: 0xff}
	Green = color.RGBA{G: 0xff, A: 0xff}
	Blue  = color.RGBA{B: 0xff, A: 0xff}
)

// ColorFor returns the drawing colour for a gesture.
func ColorFor(g gesture.Gesture) color.RGBA {
	switch g {
	case gesture.Rock:
		return Red
	case gesture.Paper:
		return Green
	case gesture.Scissors:
		return Blue
	default:
		return Gray
	}
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Segment is a bone between two drawn joints.
type Segment struct {
	From hand.Point `json:"from"`
	To   hand.Point `json:"to"`
}

// Box is an axis-aligned rectangle in normalized image space.
type Box struct {
	Min hand.Point `json:"min"`
	Max hand.Point `json:"max"`
}

// Overlay is what a display sink draws for one frame.
type Overlay struct {
	Joints   map[hand.Joint]hand.Point `json:"joints"`
	Segments []Segment                 `json:"segments"`
	Bounds   Box                       `json:"bounds"`
	Color    string                    `json:"color"`
	// Extended flags fingers in thumb-to-little order.
	Extended [5]bool `json:"extended"`
}

// Build returns the overlay for frame, coloured for g.
// It returns nil when the frame has no hand or no joint is confident enough to draw.
func Build(frame hand.LandmarkFrame, g gesture.Gesture, t gesture.Thresholds) *Overlay {
	if frame == nil {
		return nil
	}

	o := &Overlay{
		Joints:   make(map[hand.Joint]hand.Point),
		Color:    Hex(ColorFor(g)),
		Extended: gesture.Extended(frame, t),
	}

	var bounds r2.Box
	for _, j := range hand.Joints() {
		obs, ok := frame.Confident(j, MinConfidence)
		if !ok {
			continue
		}
		o.Joints[j] = obs.Point
		bounds = extend(bounds, obs.Vec(), len(o.Joints) == 1)
	}
	if len(o.Joints) == 0 {
		return nil
	}

	for _, b := range Bones {
		from, okFrom := o.Joints[b[0]]
		to, okTo := o.Joints[b[1]]
		if okFrom && okTo {
			o.Segments = append(o.Segments, Segment{From: from, To: to})
		}
	}

	o.Bounds = Box{
		Min: hand.Point{X: bounds.Min.X, Y: bounds.Min.Y},
		Max: hand.Point{X: bounds.Max.X, Y: bounds.Max.Y},
	}
	return o
}

// extend grows b to cover v. Union is not usable here: it treats a zero-area box as
// empty, and a single joint or a vertical line of joints is exactly that.
func extend(b r2.Box, v r2.Vec, first bool) r2.Box {
	if first {
		return r2.Box{Min: v, Max: v}
	}
	return r2.Box{
		Min: r2.Box{Min: b.Min, Max: v}.Canon().Min,
		Max: r2.Box{Min: b.Max, Max: v}.Canon().Max,
	}
}

func (b Box) box() r2.Box {
	return r2.Box{Min: b.Min.Vec(), Max: b.Max.Vec()}
}

// Size returns the width and height of the box.
func (b Box) Size() (w, h float64) {
	d := b.box().Size()
	return d.X, d.Y
}
