package game

import (
	"math/rand/v2"
	"sync"

	"github.com/ayusman/rochambeau/internal/gesture"
)

// Chooser picks the computer's gesture for a round.
type Chooser interface {
	Choose() gesture.Gesture
}

// RandomChooser draws uniformly from Rock, Paper and Scissors.
// Draws are independent, so the same gesture can repeat.
type RandomChooser struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomChooser creates a chooser seeded with seed. A zero seed picks a random one.
func NewRandomChooser(seed uint64) *RandomChooser {
	c := &RandomChooser{}
	c.Reseed(seed)
	return c
}

// Reseed restarts the sequence from seed. A zero seed picks a random one.
func (c *RandomChooser) Reseed(seed uint64) {
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	c.mu.Lock()
	c.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	c.mu.Unlock()
}

// Choose implements Chooser.
func (c *RandomChooser) Choose() gesture.Gesture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gesture.All[c.rng.IntN(len(gesture.All))]
}

// SequenceChooser replays a fixed list of gestures, cycling when it runs out.
type SequenceChooser struct {
	mu   sync.Mutex
	seq  []gesture.Gesture
	next int
}

// NewSequenceChooser creates a chooser that returns seq in order.
// An empty sequence always chooses Rock.
func NewSequenceChooser(seq ...gesture.Gesture) *SequenceChooser {
	return &SequenceChooser{seq: seq}
}

// Choose implements Chooser.
func (c *SequenceChooser) Choose() gesture.Gesture {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.seq) == 0 {
		return gesture.Rock
	}
	g := c.seq[c.next%len(c.seq)]
	c.next++
	return g
}
