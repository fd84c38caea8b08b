package main

// WorldObject is a shared interactive object: a portal, a clue, or a
// minigame piece. LinkedTo pairs portals with their destination.
type WorldObject struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Image    string  `json:"image"`
	LinkedTo string  `json:"linkedTo,omitempty"`
}

// ObjectStore holds the shared world objects of one session, keyed by id.
// Like the player registry it is a pure state holder.
type ObjectStore struct {
	objects map[string]*WorldObject
}

func newObjectStore() *ObjectStore {
	return &ObjectStore{
		objects: make(map[string]*WorldObject),
	}
}

func (s *ObjectStore) upsert(obj *WorldObject) {
	s.objects[obj.ID] = obj
}

func (s *ObjectStore) remove(id string) bool {
	if _, ok := s.objects[id]; !ok {
		return false
	}
	delete(s.objects, id)

	return true
}

func (s *ObjectStore) get(id string) *WorldObject {
	return s.objects[id]
}

func (s *ObjectStore) count() int {
	return len(s.objects)
}

func (s *ObjectStore) snapshot() map[string]*WorldObject {
	snap := make(map[string]*WorldObject, len(s.objects))
	for id, obj := range s.objects {
		clone := *obj
		snap[id] = &clone
	}

	return snap
}

// ensurePortals creates the two permanently linked portal buttons. They are
// created at most once per session and never removed, so reconnecting
// players cannot respawn them.
func (s *ObjectStore) ensurePortals() {
	if _, ok := s.objects["button_a"]; ok {
		return
	}

	s.upsert(&WorldObject{
		ID:       "button_a",
		X:        141,
		Y:        345,
		Width:    36,
		Height:   36,
		Image:    "button_a",
		LinkedTo: "button_b",
	})
	s.upsert(&WorldObject{
		ID:       "button_b",
		X:        2069,
		Y:        1740,
		Width:    36,
		Height:   36,
		Image:    "button_b",
		LinkedTo: "button_a",
	})
}
