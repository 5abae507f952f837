package detector

import (
	"encoding/json"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ayusman/rochambeau/internal/hand"
)

// MediaPipeDetector implements Detector with the MediaPipe Hands Python service.
type MediaPipeDetector struct {
	maxHands int
	svc      *service
}

// NewMediaPipeDetector fails when the service script cannot be found.
// The Python process is started on the first detection.
func NewMediaPipeDetector(cfg Config) (*MediaPipeDetector, error) {
	svc, err := newService(cfg)
	if err != nil {
		return nil, err
	}
	return &MediaPipeDetector{maxHands: cfg.MaxHands, svc: svc}, nil
}

// Detect sends the frame as JPEG and returns at most MaxHands hands, best first.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	line, err := d.svc.exchange(buf.GetBytes())
	if err != nil {
		return nil, err
	}
	return decodeHands(line, d.maxHands)
}

// Close stops the Python process. The next Detect starts it again.
func (d *MediaPipeDetector) Close() error {
	return d.svc.close()
}

type serviceReply struct {
	Hands []jsonHand `json:"hands"`
	Error string     `json:"error,omitempty"`
}

type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	// Older service versions omit visibility.
	Visibility *float64 `json:"visibility,omitempty"`
}

// decodeHands parses one reply line. maxHands <= 0 keeps every hand.
func decodeHands(line []byte, maxHands int) ([]Hand, error) {
	var reply serviceReply
	if err := json.Unmarshal(line, &reply); err != nil {
		return nil, fmt.Errorf("parse reply: %w", err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("mediapipe service: %s", reply.Error)
	}

	hands := reply.Hands
	if maxHands > 0 && len(hands) > maxHands {
		hands = hands[:maxHands]
	}
	out := make([]Hand, 0, len(hands))
	for _, h := range hands {
		out = append(out, h.toHand())
	}
	return out, nil
}

// toHand uses each point's visibility as its confidence, or the hand score without one.
// Points beyond the 21 joints are ignored.
func (h jsonHand) toHand() Hand {
	out := Hand{
		Landmarks:  make(hand.LandmarkFrame, hand.NumJoints),
		Handedness: h.Handedness,
		Score:      h.Score,
	}
	for i, p := range h.Points {
		if i >= hand.NumJoints {
			break
		}
		conf := h.Score
		if p.Visibility != nil {
			conf = *p.Visibility
		}
		out.Landmarks[hand.Joint(i)] = hand.Observation{
			Point:      hand.Point{X: p.X, Y: p.Y},
			Confidence: conf,
		}
	}
	return out
}
