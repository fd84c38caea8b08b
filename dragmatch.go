package main

import "math/rand"

// Drag minigame playfield.
const (
	dragAreaWidth  = 800
	dragAreaHeight = 600
	dragPairCount  = 5
)

// dragMatch tracks the key/lock matching minigame for one round: the
// remaining key and lock positions, and a monotonic score. The location
// lists empty out as pairs are matched; Round.reset clears them so the next
// round generates fresh positions.
type dragMatch struct {
	keys  [][2]float64
	locks [][2]float64
	score int
}

// load generates the key and lock positions, once. Further calls are no-ops
// until the round resets.
func (d *dragMatch) load() bool {
	if len(d.keys) != 0 {
		return false
	}

	for i := 0; i < dragPairCount; i++ {
		d.keys = append(d.keys, [2]float64{rand.Float64() * dragAreaWidth, rand.Float64() * dragAreaHeight})
		d.locks = append(d.locks, [2]float64{rand.Float64() * dragAreaWidth, rand.Float64() * dragAreaHeight})
	}

	return true
}

// match records a key/lock pairing: the score always advances, and the pair
// whose lock sits at exactly the reported position is removed from both
// lists. An unknown lock position removes nothing.
func (d *dragMatch) match(lock Coordinate) int {
	d.score++

	for i := range d.locks {
		if d.locks[i][0] == lock.X && d.locks[i][1] == lock.Y {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			d.locks = append(d.locks[:i], d.locks[i+1:]...)
			break
		}
	}

	return d.score
}

// done reports whether every pair has been matched away.
func (d *dragMatch) done() bool {
	return d.score > 0 && len(d.keys) == 0
}

func (d *dragMatch) reset() {
	d.keys = nil
	d.locks = nil
	d.score = 0
}
