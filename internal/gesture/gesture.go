// Package gesture turns hand landmarks into rock-paper-scissors gestures and decides rounds.
package gesture

import (
	"fmt"
	"strings"
)

// Gesture is a rock-paper-scissors hand shape.
// The zero value None means the gesture could not be determined.
type Gesture int

const (
	// None is an undetermined gesture.
	None Gesture = iota
	Rock
	Paper
	Scissors
)

// All lists the three playable gestures.
var All = [3]Gesture{Rock, Paper, Scissors}

// Valid reports whether g is Rock, Paper or Scissors.
func (g Gesture) Valid() bool {
	return g == Rock || g == Paper || g == Scissors
}

func (g Gesture) String() string {
	switch g {
	case None:
		return "None"
	case Rock:
		return "Rock"
	case Paper:
		return "Paper"
	case Scissors:
		return "Scissors"
	default:
		return fmt.Sprintf("Gesture(%d)", int(g))
	}
}

// Parse converts a case-insensitive gesture name.
// "none" and the empty string parse to None.
func Parse(s string) (Gesture, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "rock":
		return Rock, nil
	case "paper":
		return Paper, nil
	case "scissors":
		return Scissors, nil
	default:
		return None, fmt.Errorf("unknown gesture %q", s)
	}
}

// MarshalText encodes the gesture by name.
func (g Gesture) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a gesture name.
func (g *Gesture) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
