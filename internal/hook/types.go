// Package hook runs external executables when something happens in the game,
// such as a round being resolved. Each hook lives in its own directory with a hook.json manifest
// and receives one JSON event on stdin per run.
package hook

import (
	"encoding/json"
	"slices"
)

// Event types.
const (
	EventRoundResolved     = "round_resolved"
	EventNoGesture         = "no_gesture"
	EventCameraUnavailable = "camera_unavailable"
)

// Manifest describes a hook's metadata and the events it wants.
// A hook with no Events receives every event.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []string        `json:"events,omitempty"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Event is written to a hook's stdin.
type Event struct {
	Type      string          `json:"type"`
	RoundID   string          `json:"round_id,omitempty"`
	Player    string          `json:"player,omitempty"`
	Computer  string          `json:"computer,omitempty"`
	Outcome   string          `json:"outcome,omitempty"`
	Streak    int             `json:"streak"`
	HighScore int             `json:"high_score"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Response is what a hook prints on stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Wants reports whether the hook subscribes to events of type t.
func (h *Hook) Wants(t string) bool {
	return len(h.Manifest.Events) == 0 || slices.Contains(h.Manifest.Events, t)
}
