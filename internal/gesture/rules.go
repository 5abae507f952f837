package gesture

import (
	"errors"
	"fmt"
)

// ErrUndetermined is returned when a round is decided with an undetermined gesture.
var ErrUndetermined = errors.New("gesture is undetermined")

// Outcome is the result of a round from the player's point of view.
type Outcome int

const (
	Draw Outcome = iota
	Win
	Lose
)

func (o Outcome) String() string {
	switch o {
	case Draw:
		return "draw"
	case Win:
		return "win"
	case Lose:
		return "lose"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Message is the result line shown to the player.
func (o Outcome) Message() string {
	switch o {
	case Win:
		return "You win!"
	case Lose:
		return "You lose!"
	default:
		return "Draw!"
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes "win", "lose" or "draw".
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "draw":
		*o = Draw
	case "win":
		*o = Win
	case "lose":
		*o = Lose
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

// outcomes is indexed [player-1][computer-1] in Rock, Paper, Scissors order.
// Rock beats Scissors, Scissors beats Paper, Paper beats Rock.
var outcomes = [3][3]Outcome{
	{Draw, Lose, Win},
	{Win, Draw, Lose},
	{Lose, Win, Draw},
}

// Decide returns the player's outcome against the computer's choice.
// Both gestures must be concrete.
func Decide(player, computer Gesture) (Outcome, error) {
	if !player.Valid() || !computer.Valid() {
		return Draw, fmt.Errorf("decide %v vs %v: %w", player, computer, ErrUndetermined)
	}
	return outcomes[player-1][computer-1], nil
}

// Beats reports whether a defeats b.
func Beats(a, b Gesture) bool {
	o, err := Decide(a, b)
	return err == nil && o == Win
}
