package gesture

import (
	"github.com/rs/zerolog/log"

	"github.com/ayusman/rochambeau/internal/hand"
)

// fingertips in thumb-to-little order; the extended flags below use the same order.
var fingertips = [5]hand.Joint{
	hand.ThumbTip,
	hand.IndexTip,
	hand.MiddleTip,
	hand.RingTip,
	hand.LittleTip,
}

const (
	thumb = iota
	index
	middle
	ring
	little
)

// Thresholds configure the classifier.
// A required joint passes only when its confidence is strictly greater than its entry in Confidence.
// Joints without an entry use Default.
type Thresholds struct {
	Confidence map[hand.Joint]float64
	Default    float64
	// Distance is the wrist-to-tip distance, in normalized image space, above which a finger counts as extended.
	Distance float64
}

// StrictThresholds requires 0.7 on the wrist and middle tip, 0.5 on the other tips,
// and an extension distance of 0.18.
func StrictThresholds() Thresholds {
	return Thresholds{
		Confidence: map[hand.Joint]float64{
			hand.Wrist:     0.7,
			hand.ThumbTip:  0.5,
			hand.IndexTip:  0.5,
			hand.MiddleTip: 0.7,
			hand.RingTip:   0.5,
			hand.LittleTip: 0.5,
		},
		Default:  0.5,
		Distance: 0.18,
	}
}

// LooseThresholds requires 0.3 on every joint and an extension distance of 0.2.
func LooseThresholds() Thresholds {
	return UniformThresholds(0.3, 0.2)
}

// UniformThresholds applies one confidence threshold to every required joint.
func UniformThresholds(confidence, distance float64) Thresholds {
	return Thresholds{Default: confidence, Distance: distance}
}

// For returns the confidence threshold for joint j.
func (t Thresholds) For(j hand.Joint) float64 {
	if c, ok := t.Confidence[j]; ok {
		return c
	}
	return t.Default
}

// Classify labels a single frame.
// It returns None unless the wrist and all five fingertips are confidently observed,
// so a partial hand never produces a guess.
func Classify(frame hand.LandmarkFrame, t Thresholds) Gesture {
	if frame == nil {
		return None
	}

	wrist, ok := frame.Confident(hand.Wrist, t.For(hand.Wrist))
	if !ok {
		log.Debug().Msg("classify: wrist missing or below threshold")
		return None
	}

	var extended [5]bool
	count := 0
	for i, tip := range fingertips {
		obs, ok := frame.Confident(tip, t.For(tip))
		if !ok {
			log.Debug().Stringer("joint", tip).Msg("classify: fingertip missing or below threshold")
			return None
		}
		if hand.Distance(wrist.Point, obs.Point) > t.Distance {
			extended[i] = true
			count++
		}
	}

	switch {
	case count == 0:
		return Rock
	case count == len(fingertips):
		return Paper
	case count == 2 && extended[index] && extended[middle]:
		return Scissors
	default:
		return None
	}
}

// Extended reports, in thumb-to-little order, which fingers of a frame count as extended.
// Fingers whose tip is not confidently observed report false.
func Extended(frame hand.LandmarkFrame, t Thresholds) [5]bool {
	var out [5]bool
	wrist, ok := frame.Confident(hand.Wrist, t.For(hand.Wrist))
	if !ok {
		return out
	}
	for i, tip := range fingertips {
		if obs, ok := frame.Confident(tip, t.For(tip)); ok {
			out[i] = hand.Distance(wrist.Point, obs.Point) > t.Distance
		}
	}
	return out
}
