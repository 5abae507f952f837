package app

import (
	"fmt"

	"github.com/ayusman/rochambeau/internal/game"
	"github.com/ayusman/rochambeau/internal/gesture"
	"github.com/ayusman/rochambeau/internal/overlay"
	"github.com/ayusman/rochambeau/internal/score"
)

// SourceState describes the frame source as seen by display sinks.
type SourceState string

const (
	SourceStopped     SourceState = "stopped"
	SourceRunning     SourceState = "running"
	SourceSuspended   SourceState = "suspended"
	SourceUnavailable SourceState = "unavailable"
	SourceEnded       SourceState = "ended"
)

// Notice kinds.
const (
	NoticeNoGesture         = "no_gesture"
	NoticeDeviceUnavailable = "device_unavailable"
)

// Notice is a dismissable message for the player.
type Notice struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

var (
	noGestureNotice = Notice{
		Kind:    NoticeNoGesture,
		Title:   "No Gesture Detected",
		Message: "Please perform a gesture before pressing Play Game.",
	}
	deviceUnavailableNotice = Notice{
		Kind:    NoticeDeviceUnavailable,
		Title:   "Camera Unavailable",
		Message: "Unable to access the camera. Please ensure it is not being used by another application.",
	}
)

// OutcomeEvent announces a resolved round.
type OutcomeEvent struct {
	RoundID  string          `json:"round_id"`
	Outcome  gesture.Outcome `json:"outcome"`
	Player   gesture.Gesture `json:"player"`
	Computer gesture.Gesture `json:"computer"`
	Result   string          `json:"result"`
	Detail   string          `json:"detail"`
}

// View is everything a display sink renders.
type View struct {
	GestureLabel  string           `json:"gesture_label"`
	Gesture       gesture.Gesture  `json:"gesture"`
	Confirmed     bool             `json:"confirmed"`
	ComputerLabel string           `json:"computer_label"`
	StreakText    string           `json:"streak_text"`
	HighScoreText string           `json:"high_score_text"`
	Streak        score.Streak     `json:"streak"`
	State         game.State       `json:"state"`
	Mode          string           `json:"mode"`
	Outcome       *OutcomeEvent    `json:"outcome,omitempty"`
	Notice        *Notice          `json:"notice,omitempty"`
	Source        SourceState      `json:"source"`
	Overlay       *overlay.Overlay `json:"overlay,omitempty"`
	FrameSeq      uint64           `json:"frame_seq"`
}

// Sink receives every published view. Publish must not block.
type Sink interface {
	Publish(View)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(View)

// Publish implements Sink.
func (f SinkFunc) Publish(v View) {
	f(v)
}

func gestureLabel(g gesture.Gesture) string {
	return "Gesture: " + g.String()
}

func computerLabel(r game.Round, s game.State) string {
	if s != game.Resolved {
		return "CPU Gesture: Hidden"
	}
	return "CPU Gesture: " + r.Computer.String()
}

func streakText(s score.Streak) string {
	return fmt.Sprintf("Current Streak: %d", s.Current)
}

func highScoreText(s score.Streak) string {
	return fmt.Sprintf("High Score: %d", s.High)
}

func outcomeEvent(r game.Round) *OutcomeEvent {
	return &OutcomeEvent{
		RoundID:  r.ID.String(),
		Outcome:  r.Outcome,
		Player:   r.Player,
		Computer: r.Computer,
		Result:   r.Outcome.Message(),
		Detail:   "CPU chose " + r.Computer.String(),
	}
}
