package main

import (
	"fmt"
	"math/rand"
)

// Spawn box for new players, covering the living room.
const (
	spawnMinX = 48
	spawnMaxX = 816
	spawnMinY = 1452
	spawnMaxY = 1788

	playerWidth  = 40
	playerHeight = 40
)

// Player holds the data we store server-side for one connection.
type Player struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Colour   string  `json:"colour"`
	Room     string  `json:"room"`
	Username string  `json:"username"`
	Impostor bool    `json:"impostor"`
}

// Registry is a pure state holder for the players of one session. It never
// broadcasts; callers decide what to emit after each mutation.
type Registry struct {
	players map[string]*Player
}

func newRegistry() *Registry {
	return &Registry{
		players: make(map[string]*Player),
	}
}

// add creates a player at a random spot in the living room, with a random
// sprite tint drawn from the full 24-bit colour space. Adding an id twice
// returns the existing entry unchanged.
func (reg *Registry) add(id string) *Player {
	if p, ok := reg.players[id]; ok {
		return p
	}

	p := &Player{
		ID:       id,
		X:        float64(spawnMinX + rand.Intn(spawnMaxX-spawnMinX)),
		Y:        float64(spawnMinY + rand.Intn(spawnMaxY-spawnMinY)),
		Width:    playerWidth,
		Height:   playerHeight,
		Colour:   fmt.Sprintf("0x%06x", rand.Intn(0x1000000)),
		Room:     "lobby",
		Username: "Anonymous" + id,
	}
	reg.players[id] = p

	return p
}

func (reg *Registry) get(id string) *Player {
	return reg.players[id]
}

// setPosition trusts the client; positions are overwritten unconditionally.
func (reg *Registry) setPosition(id string, x, y float64) {
	if p, ok := reg.players[id]; ok {
		p.X = x
		p.Y = y
	}
}

func (reg *Registry) setUsername(id, name string) {
	if p, ok := reg.players[id]; ok {
		p.Username = name
	}
}

func (reg *Registry) remove(id string) {
	delete(reg.players, id)
}

// assignImpostor tags the given player as the round's impostor. It refuses
// when any player already holds the role, or the id is unknown.
func (reg *Registry) assignImpostor(id string) bool {
	for _, p := range reg.players {
		if p.Impostor {
			return false
		}
	}

	p, ok := reg.players[id]
	if !ok {
		return false
	}
	p.Impostor = true

	return true
}

// clearImpostor removes the role from whoever holds it, making room for the
// next round's assignment.
func (reg *Registry) clearImpostor() {
	for _, p := range reg.players {
		p.Impostor = false
	}
}

// snapshot copies the player table for emitting to clients. The values are
// copies, so later mutations don't race with JSON encoding in write pumps.
func (reg *Registry) snapshot() map[string]*Player {
	snap := make(map[string]*Player, len(reg.players))
	for id, p := range reg.players {
		clone := *p
		snap[id] = &clone
	}

	return snap
}

func (reg *Registry) count() int {
	return len(reg.players)
}
