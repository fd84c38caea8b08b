package main

import (
	"math/rand"
	"strings"
)

// clueSpawn describes one clue to place: its store key, sprite, and the
// rectangular room bounds its position is drawn from.
type clueSpawn struct {
	id                     string
	image                  string
	minX, maxX, minY, maxY float64
}

// Two clues per room across four rooms. The original table keyed both
// poison clues "clue_poison1", so the bathroom one silently replaced the
// bedroom one and only seven objects survived; the corrected table below is
// the default, and --legacy-clues restores the collision.
var clueTable = []clueSpawn{
	// lounge
	{id: "clue_bone1", image: "clue_bone", minX: 48, maxX: 816, minY: 1452, maxY: 1788},
	{id: "clue_knife1", image: "clue_knife", minX: 48, maxX: 816, minY: 1652, maxY: 1788},
	// kitchen
	{id: "clue_bone2", image: "clue_bone", minX: 1296, maxX: 2018, minY: 1523, maxY: 1788},
	{id: "clue_knife2", image: "clue_knife", minX: 1296, maxX: 2018, minY: 1523, maxY: 1788},
	// bedroom
	{id: "clue_book1", image: "clue_book", minX: 1296, maxX: 1776, minY: 425, maxY: 636},
	{id: "clue_poison1", image: "clue_poison", minX: 1296, maxX: 1776, minY: 425, maxY: 636},
	// bathroom
	{id: "clue_poison2", image: "clue_poison", minX: 48, maxX: 799, minY: 460, maxY: 636},
	{id: "clue_book2", image: "clue_book", minX: 48, maxX: 799, minY: 460, maxY: 636},
}

const (
	clueWidth  = 32
	clueHeight = 32
)

// generateClues populates the store with one batch of collectible clues.
// Callers gate this on the round's started flag, so it runs at most once
// per round.
func generateClues(store *ObjectStore, legacy bool) {
	for _, spawn := range clueTable {
		id := spawn.id
		if legacy && id == "clue_poison2" {
			id = "clue_poison1"
		}

		store.upsert(&WorldObject{
			ID:     id,
			X:      randomBetween(spawn.minX, spawn.maxX),
			Y:      randomBetween(spawn.minY, spawn.maxY),
			Width:  clueWidth,
			Height: clueHeight,
			Image:  spawn.image,
		})
	}
}

func randomBetween(min, max float64) float64 {
	return float64(int(rand.Float64()*(max-min)) + int(min))
}

func isClue(id string) bool {
	return strings.HasPrefix(id, "clue_")
}
