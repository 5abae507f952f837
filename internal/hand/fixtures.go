package hand

// Preset frames for tests, the mock detector and replay files.
// Coordinates are for a right hand, palm facing the camera, wrist near the bottom of the image.
// Extended fingertips sit more than 0.3 from the wrist and curled ones less than 0.12,
// so the presets classify the same way under every shipped threshold preset.

// RockFrame returns a closed fist: every fingertip is curled back towards the palm.
func RockFrame() LandmarkFrame {
	return withConfidence(0.9, map[Joint]Point{
		Wrist:    {0.50, 0.80},
		ThumbCMC: {0.55, 0.76}, ThumbMCP: {0.58, 0.73}, ThumbIP: {0.58, 0.71}, ThumbTip: {0.56, 0.72},
		IndexMCP: {0.55, 0.68}, IndexPIP: {0.55, 0.66}, IndexDIP: {0.53, 0.68}, IndexTip: {0.52, 0.70},
		MiddleMCP: {0.50, 0.66}, MiddlePIP: {0.50, 0.64}, MiddleDIP: {0.49, 0.67}, MiddleTip: {0.48, 0.69},
		RingMCP: {0.46, 0.68}, RingPIP: {0.46, 0.66}, RingDIP: {0.45, 0.69}, RingTip: {0.45, 0.71},
		LittleMCP: {0.42, 0.70}, LittlePIP: {0.42, 0.68}, LittleDIP: {0.42, 0.71}, LittleTip: {0.42, 0.73},
	})
}

// PaperFrame returns an open palm: every finger, thumb included, is extended.
func PaperFrame() LandmarkFrame {
	return withConfidence(0.9, map[Joint]Point{
		Wrist:    {0.50, 0.80},
		ThumbCMC: {0.55, 0.75}, ThumbMCP: {0.62, 0.70}, ThumbIP: {0.68, 0.65}, ThumbTip: {0.75, 0.60},
		IndexMCP: {0.55, 0.68}, IndexPIP: {0.57, 0.55}, IndexDIP: {0.58, 0.45}, IndexTip: {0.58, 0.35},
		MiddleMCP: {0.50, 0.66}, MiddlePIP: {0.50, 0.52}, MiddleDIP: {0.50, 0.40}, MiddleTip: {0.50, 0.28},
		RingMCP: {0.45, 0.68}, RingPIP: {0.43, 0.55}, RingDIP: {0.42, 0.45}, RingTip: {0.42, 0.35},
		LittleMCP: {0.40, 0.70}, LittlePIP: {0.37, 0.60}, LittleDIP: {0.35, 0.50}, LittleTip: {0.34, 0.42},
	})
}

// ScissorsFrame returns index and middle fingers extended with the rest curled.
func ScissorsFrame() LandmarkFrame {
	f := RockFrame()
	paper := PaperFrame()
	for _, j := range []Joint{IndexPIP, IndexDIP, IndexTip, MiddlePIP, MiddleDIP, MiddleTip} {
		f[j] = paper[j]
	}
	return f
}

// WithConfidence returns a copy of f with joint j's confidence replaced.
func (f LandmarkFrame) WithConfidence(j Joint, c float64) LandmarkFrame {
	out := f.Clone()
	if obs, ok := out[j]; ok {
		obs.Confidence = c
		out[j] = obs
	}
	return out
}

// Without returns a copy of f with the given joints removed.
func (f LandmarkFrame) Without(joints ...Joint) LandmarkFrame {
	out := f.Clone()
	for _, j := range joints {
		delete(out, j)
	}
	return out
}

func withConfidence(c float64, points map[Joint]Point) LandmarkFrame {
	f := make(LandmarkFrame, len(points))
	for j, p := range points {
		f[j] = Observation{Point: p, Confidence: c}
	}
	return f
}
