package main

import "testing"

func TestDragLoadGeneratesOnce(t *testing.T) {
	var d dragMatch

	if !d.load() {
		t.Fatal("first load should generate locations")
	}
	if len(d.keys) != dragPairCount || len(d.locks) != dragPairCount {
		t.Fatalf("expected %d keys and locks, got %d/%d", dragPairCount, len(d.keys), len(d.locks))
	}

	for _, loc := range append(append([][2]float64{}, d.keys...), d.locks...) {
		if loc[0] < 0 || loc[0] >= dragAreaWidth || loc[1] < 0 || loc[1] >= dragAreaHeight {
			t.Fatalf("location %v outside playfield", loc)
		}
	}

	before := append([][2]float64(nil), d.keys...)
	if d.load() {
		t.Fatal("second load in the same round should be a no-op")
	}
	for i := range before {
		if d.keys[i] != before[i] {
			t.Fatal("second load changed the locations")
		}
	}
}

func TestDragLoadRegeneratesAfterReset(t *testing.T) {
	var d dragMatch

	d.load()
	d.reset()

	if len(d.keys) != 0 || len(d.locks) != 0 || d.score != 0 {
		t.Fatal("reset should clear locations and score")
	}
	if !d.load() {
		t.Fatal("load after reset should generate fresh locations")
	}
}

func TestDragMatchRemovesPairAndScores(t *testing.T) {
	var d dragMatch
	d.load()

	target := d.locks[2]
	score := d.match(Coordinate{X: target[0], Y: target[1]})

	if score != 1 {
		t.Fatalf("expected score 1, got %d", score)
	}
	if len(d.keys) != dragPairCount-1 || len(d.locks) != dragPairCount-1 {
		t.Fatalf("expected one pair removed, have %d/%d", len(d.keys), len(d.locks))
	}
	for _, loc := range d.locks {
		if loc == target {
			t.Fatal("matched lock still present")
		}
	}
}

func TestDragMatchUnknownLockScoresWithoutRemoval(t *testing.T) {
	var d dragMatch
	d.load()

	score := d.match(Coordinate{X: -1, Y: -1})

	if score != 1 {
		t.Fatalf("expected score 1, got %d", score)
	}
	if len(d.keys) != dragPairCount || len(d.locks) != dragPairCount {
		t.Fatal("no pair should be removed for an unknown lock")
	}
}

func TestDragDone(t *testing.T) {
	var d dragMatch
	d.load()

	if d.done() {
		t.Fatal("fresh minigame should not be done")
	}

	for len(d.locks) > 0 {
		d.match(Coordinate{X: d.locks[0][0], Y: d.locks[0][1]})
	}

	if !d.done() {
		t.Fatal("all pairs matched, should be done")
	}
}
