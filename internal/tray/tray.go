// Package tray shows the game in the system tray: the live gesture, the computer's
// choice and the streaks, with menu items to play, dismiss a result and pause the camera.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/rochambeau/internal/app"
	"github.com/ayusman/rochambeau/internal/game"
)

// Tray is a display sink backed by the system tray.
type Tray struct {
	mu            sync.RWMutex
	onPlay        func()
	onAcknowledge func()
	onSuspend     func(suspend bool)
	onQuit        func()
	suspended     bool

	views chan app.View
	done  chan struct{}

	menuGesture  *systray.MenuItem
	menuComputer *systray.MenuItem
	menuStreak   *systray.MenuItem
	menuHigh     *systray.MenuItem
	menuResult   *systray.MenuItem
	menuPlay     *systray.MenuItem
	menuOK       *systray.MenuItem
	menuPause    *systray.MenuItem
}

// New creates a Tray. Register it with the app as a sink and call Run on the main goroutine.
func New() *Tray {
	return &Tray{
		views: make(chan app.View, 1),
		done:  make(chan struct{}),
	}
}

// OnPlay sets the callback for the Play Game item.
func (t *Tray) OnPlay(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPlay = fn
}

// OnAcknowledge sets the callback for the OK item.
func (t *Tray) OnAcknowledge(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onAcknowledge = fn
}

// OnSuspend sets the callback for the pause item. It receives true to suspend the camera
// and false to resume it.
func (t *Tray) OnSuspend(fn func(suspend bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSuspend = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray, which makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// Publish implements app.Sink. Only the newest pending view is kept.
func (t *Tray) Publish(v app.View) {
	for {
		select {
		case t.views <- v:
			return
		default:
		}
		select {
		case <-t.views:
		default:
		}
	}
}

func (t *Tray) onReady() {
	systray.SetTitle("RPS")
	systray.SetTooltip("Rock Paper Scissors")

	t.menuGesture = disabledItem("Gesture: None")
	t.menuComputer = disabledItem("CPU Gesture: Hidden")
	t.menuResult = disabledItem("")
	t.menuResult.Hide()
	systray.AddSeparator()

	t.menuStreak = disabledItem("Current Streak: 0")
	t.menuHigh = disabledItem("High Score: 0")
	systray.AddSeparator()

	t.menuPlay = systray.AddMenuItem("Play Game", "Start a round")
	t.menuOK = systray.AddMenuItem("OK", "Dismiss the result")
	t.menuOK.Disable()
	t.menuPause = systray.AddMenuItem("Pause Camera", "Stop or restart gesture detection")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Rock Paper Scissors")

	go t.render()
	go func() {
		for {
			select {
			case <-t.menuPlay.ClickedCh:
				t.call(func() func() { return t.onPlay })
			case <-t.menuOK.ClickedCh:
				t.call(func() func() { return t.onAcknowledge })
			case <-t.menuPause.ClickedCh:
				t.handlePause()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			case <-t.done:
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	close(t.done)
}

func disabledItem(title string) *systray.MenuItem {
	item := systray.AddMenuItem(title, "")
	item.Disable()
	return item
}

func (t *Tray) render() {
	for {
		select {
		case v := <-t.views:
			t.apply(menuFor(v))
		case <-t.done:
			return
		}
	}
}

func (t *Tray) apply(m menu) {
	t.mu.Lock()
	t.suspended = m.suspended
	t.mu.Unlock()

	t.menuGesture.SetTitle(m.gesture)
	t.menuComputer.SetTitle(m.computer)
	t.menuStreak.SetTitle(m.streak)
	t.menuHigh.SetTitle(m.high)
	if m.result == "" {
		t.menuResult.Hide()
	} else {
		t.menuResult.SetTitle(m.result)
		t.menuResult.Show()
	}
	setEnabled(t.menuPlay, m.canPlay)
	setEnabled(t.menuOK, m.canAcknowledge)
	t.menuPause.SetTitle(m.pause)
}

func setEnabled(item *systray.MenuItem, enabled bool) {
	if enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}

// call runs the callback returned by get outside the lock.
func (t *Tray) call(get func() func()) {
	t.mu.RLock()
	fn := get()
	t.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (t *Tray) handlePause() {
	t.mu.RLock()
	callback := t.onSuspend
	suspend := !t.suspended
	t.mu.RUnlock()

	if callback != nil {
		callback(suspend)
	}
}

func (t *Tray) handleQuit() {
	t.call(func() func() { return t.onQuit })
	systray.Quit()
}

// menu holds the text and state of every menu item for one view.
type menu struct {
	gesture        string
	computer       string
	streak         string
	high           string
	result         string
	pause          string
	canPlay        bool
	canAcknowledge bool
	suspended      bool
}

func menuFor(v app.View) menu {
	m := menu{
		gesture:  v.GestureLabel,
		computer: v.ComputerLabel,
		streak:   v.StreakText,
		high:     v.HighScoreText,
		pause:    "Pause Camera",
	}

	switch {
	case v.Notice != nil:
		m.result = v.Notice.Title
	case v.Outcome != nil:
		m.result = v.Outcome.Result + " " + v.Outcome.Detail
	}

	if v.Source == app.SourceSuspended {
		m.suspended = true
		m.pause = "Resume Camera"
	}

	m.canAcknowledge = v.State == game.Resolved || v.Notice != nil
	if v.Mode == game.ModeImmediate.String() {
		m.canPlay = true
	} else {
		m.canPlay = v.State == game.Idle
	}
	return m
}
