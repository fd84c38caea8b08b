package main

import "testing"

func TestEnsurePortalsIdempotent(t *testing.T) {
	store := newObjectStore()

	store.ensurePortals()
	a := store.get("button_a")
	b := store.get("button_b")

	if a == nil || b == nil {
		t.Fatal("portals missing after ensurePortals")
	}
	if a.LinkedTo != "button_b" || b.LinkedTo != "button_a" {
		t.Fatalf("portals not linked to each other: %q / %q", a.LinkedTo, b.LinkedTo)
	}
	if store.count() != 2 {
		t.Fatalf("expected 2 objects, got %d", store.count())
	}

	// A reconnect must not recreate or move them.
	a.X = 999
	store.ensurePortals()
	if store.get("button_a").X != 999 {
		t.Fatal("ensurePortals replaced an existing portal")
	}
	if store.count() != 2 {
		t.Fatalf("expected 2 objects after second call, got %d", store.count())
	}
}

func TestObjectStoreRemove(t *testing.T) {
	store := newObjectStore()
	store.upsert(&WorldObject{ID: "clue_bone1"})

	if !store.remove("clue_bone1") {
		t.Fatal("removing an existing object should report true")
	}
	if store.remove("clue_bone1") {
		t.Fatal("removing a missing object should report false")
	}
	if store.count() != 0 {
		t.Fatalf("expected empty store, got %d objects", store.count())
	}
}

func TestObjectStoreSnapshotIsACopy(t *testing.T) {
	store := newObjectStore()
	store.ensurePortals()

	snap := store.snapshot()
	snap["button_a"].X = -1

	if store.get("button_a").X == -1 {
		t.Fatal("mutating a snapshot should not touch the store")
	}
}
