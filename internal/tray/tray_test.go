package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/rochambeau/internal/app"
	"github.com/ayusman/rochambeau/internal/game"
)

func TestMenuFor(t *testing.T) {
	tests := []struct {
		name string
		view app.View
		want menu
	}{
		{
			name: "idle continuous",
			view: app.View{
				GestureLabel:  "Gesture: None",
				ComputerLabel: "CPU Gesture: Hidden",
				StreakText:    "Current Streak: 0",
				HighScoreText: "High Score: 2",
				State:         game.Idle,
				Mode:          "continuous",
				Source:        app.SourceRunning,
			},
			want: menu{
				gesture:  "Gesture: None",
				computer: "CPU Gesture: Hidden",
				streak:   "Current Streak: 0",
				high:     "High Score: 2",
				pause:    "Pause Camera",
				canPlay:  true,
			},
		},
		{
			name: "awaiting gesture",
			view: app.View{State: game.AwaitingPlayerGesture, Mode: "continuous"},
			want: menu{pause: "Pause Camera"},
		},
		{
			name: "resolved",
			view: app.View{
				State:   game.Resolved,
				Mode:    "continuous",
				Outcome: &app.OutcomeEvent{Result: "You win!", Detail: "CPU chose Scissors"},
			},
			want: menu{result: "You win! CPU chose Scissors", pause: "Pause Camera", canAcknowledge: true},
		},
		{
			name: "immediate can always play",
			view: app.View{State: game.Resolved, Mode: "immediate"},
			want: menu{pause: "Pause Camera", canPlay: true, canAcknowledge: true},
		},
		{
			name: "notice wins over outcome",
			view: app.View{
				Mode:    "immediate",
				Notice:  &app.Notice{Title: "No Gesture Detected"},
				Outcome: &app.OutcomeEvent{Result: "Draw!"},
			},
			want: menu{result: "No Gesture Detected", pause: "Pause Camera", canPlay: true, canAcknowledge: true},
		},
		{
			name: "suspended",
			view: app.View{Mode: "continuous", Source: app.SourceSuspended},
			want: menu{pause: "Resume Camera", suspended: true, canPlay: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, menuFor(tt.view))
		})
	}
}

func TestTray_PublishKeepsNewest(t *testing.T) {
	tr := New()
	for i := 1; i <= 3; i++ {
		tr.Publish(app.View{FrameSeq: uint64(i)})
	}

	v := <-tr.views
	assert.Equal(t, uint64(3), v.FrameSeq)
	assert.Empty(t, tr.views)
}

func TestTray_PauseCallback(t *testing.T) {
	tr := New()
	var got []bool
	tr.OnSuspend(func(s bool) { got = append(got, s) })

	tr.handlePause()
	tr.suspended = true
	tr.handlePause()

	assert.Equal(t, []bool{true, false}, got)
}
