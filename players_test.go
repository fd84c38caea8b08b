package main

import (
	"fmt"
	"testing"
)

func TestRegistryAddIsUniquePerID(t *testing.T) {
	reg := newRegistry()

	for i := 0; i < 50; i++ {
		reg.add(fmt.Sprintf("player-%d", i%10))
	}

	if reg.count() != 10 {
		t.Fatalf("expected 10 players, got %d", reg.count())
	}

	first := reg.add("player-0")
	second := reg.add("player-0")
	if first != second {
		t.Fatal("re-adding an id should return the existing player")
	}
}

func TestRegistrySpawnInsideLivingRoom(t *testing.T) {
	reg := newRegistry()

	for i := 0; i < 100; i++ {
		p := reg.add(fmt.Sprintf("player-%d", i))

		if p.X < spawnMinX || p.X >= spawnMaxX {
			t.Fatalf("spawn x out of bounds: %v", p.X)
		}
		if p.Y < spawnMinY || p.Y >= spawnMaxY {
			t.Fatalf("spawn y out of bounds: %v", p.Y)
		}
		if p.Width != playerWidth || p.Height != playerHeight {
			t.Fatalf("unexpected dimensions: %dx%d", p.Width, p.Height)
		}
		if p.Room != "lobby" {
			t.Fatalf("unexpected room: %q", p.Room)
		}
		if p.Username != "Anonymous"+p.ID {
			t.Fatalf("unexpected default username: %q", p.Username)
		}
		if len(p.Colour) != 8 || p.Colour[:2] != "0x" {
			t.Fatalf("unexpected colour format: %q", p.Colour)
		}
	}
}

func TestRegistryAssignImpostorOnlyOnce(t *testing.T) {
	reg := newRegistry()
	reg.add("a")
	reg.add("b")

	if !reg.assignImpostor("a") {
		t.Fatal("first assignment should succeed")
	}
	if reg.assignImpostor("b") {
		t.Fatal("second assignment should fail while a holds the role")
	}
	if reg.assignImpostor("a") {
		t.Fatal("re-assignment to the holder should fail too")
	}

	impostors := 0
	for _, p := range reg.snapshot() {
		if p.Impostor {
			impostors++
		}
	}
	if impostors != 1 {
		t.Fatalf("expected exactly one impostor, got %d", impostors)
	}

	reg.clearImpostor()
	if !reg.assignImpostor("b") {
		t.Fatal("assignment after clearing should succeed")
	}
}

func TestRegistryAssignImpostorUnknownID(t *testing.T) {
	reg := newRegistry()
	reg.add("a")

	if reg.assignImpostor("ghost") {
		t.Fatal("assignment to an unknown id should fail")
	}
	if !reg.assignImpostor("a") {
		t.Fatal("the failed attempt should not consume the role")
	}
}

func TestRegistryRemove(t *testing.T) {
	reg := newRegistry()
	reg.add("a")
	reg.add("b")
	reg.remove("a")

	if reg.get("a") != nil {
		t.Fatal("removed player still present")
	}
	if _, ok := reg.snapshot()["a"]; ok {
		t.Fatal("removed player still in snapshot")
	}
	if reg.count() != 1 {
		t.Fatalf("expected 1 player, got %d", reg.count())
	}
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	reg := newRegistry()
	reg.add("a")

	snap := reg.snapshot()
	snap["a"].X = -1

	if reg.get("a").X == -1 {
		t.Fatal("mutating a snapshot should not touch the registry")
	}
}

func TestRegistrySetPositionTrustsCaller(t *testing.T) {
	reg := newRegistry()
	reg.add("a")

	reg.setPosition("a", 99999, -42)
	p := reg.get("a")
	if p.X != 99999 || p.Y != -42 {
		t.Fatalf("position not overwritten: %v,%v", p.X, p.Y)
	}

	// Unknown ids are a no-op, not a panic.
	reg.setPosition("ghost", 1, 1)
	reg.setUsername("ghost", "boo")
}
