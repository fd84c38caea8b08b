package main

import (
	"errors"
	"math"
)

// Coordinate is an x,y pair. Minigame locations travel as [2]float64 on the
// wire, so the client can index into them directly.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Messages coming from clients
type ClientMessage struct {
	Type      string      `json:"type"`                // discriminator, one of the msg* constants
	Username  string      `json:"username,omitempty"`  // change_username
	X         *float64    `json:"x,omitempty"`         // playerMovement
	Y         *float64    `json:"y,omitempty"`         // playerMovement
	Message   string      `json:"message,omitempty"`   // newMessage
	Clue      string      `json:"clue,omitempty"`      // clueCollected
	Player    string      `json:"player,omitempty"`    // impostorGenerated
	Location  *Coordinate `json:"location,omitempty"`  // cursorMovement
	Scene     string      `json:"scene,omitempty"`     // sceneChanged
	Key       *Coordinate `json:"key,omitempty"`       // keyMoved / keyLockMatched
	Lock      *Coordinate `json:"lock,omitempty"`      // keyLockMatched
	Original  *Coordinate `json:"original,omitempty"`  // keyMoved
	Vote      string      `json:"vote,omitempty"`      // sendVote
}

const (
	msgChangeUsername    = "change_username"
	msgPlayerMovement    = "playerMovement"
	msgGameStarted       = "gameStarted"
	msgNewMessage        = "newMessage"
	msgClueCollected     = "clueCollected"
	msgImpostorGenerated = "impostorGenerated"
	msgCursorMovement    = "cursorMovement"
	msgSceneChanged      = "sceneChanged"
	msgDragLoaded        = "dragLoaded"
	msgKeyMoved          = "keyMoved"
	msgKeyLockMatched    = "keyLockMatched"
	msgFinishedDrag      = "finishedDrag"
	msgFinishedCollect   = "finishedCollect"
	msgVotingStart       = "votingStart"
	msgSendVote          = "sendVote"
	msgVotingFinished    = "votingFinished"
	msgResultSceneLoaded = "resultSceneLoaded"
)

var errBadPayload = errors.New("malformed payload")

func finite(f *float64) bool {
	return f != nil && !math.IsNaN(*f) && !math.IsInf(*f, 0)
}

func finiteCoord(c *Coordinate) bool {
	return c != nil &&
		!math.IsNaN(c.X) && !math.IsInf(c.X, 0) &&
		!math.IsNaN(c.Y) && !math.IsInf(c.Y, 0)
}

// validate rejects messages whose required fields are missing or out of
// range before they reach the session. Unknown types are rejected too, so
// the session only ever sees the catalogue above.
func (m *ClientMessage) validate() error {
	switch m.Type {
	case msgChangeUsername:
		if m.Username == "" {
			return errBadPayload
		}
	case msgPlayerMovement:
		if !finite(m.X) || !finite(m.Y) {
			return errBadPayload
		}
	case msgNewMessage:
		if m.Message == "" {
			return errBadPayload
		}
	case msgClueCollected:
		if m.Clue == "" {
			return errBadPayload
		}
	case msgImpostorGenerated:
		if m.Player == "" {
			return errBadPayload
		}
	case msgCursorMovement:
		if !finiteCoord(m.Location) {
			return errBadPayload
		}
	case msgSceneChanged:
		if m.Scene == "" {
			return errBadPayload
		}
	case msgKeyMoved:
		if !finiteCoord(m.Key) || !finiteCoord(m.Original) {
			return errBadPayload
		}
	case msgKeyLockMatched:
		if !finiteCoord(m.Key) || !finiteCoord(m.Lock) {
			return errBadPayload
		}
	case msgSendVote:
		if m.Vote == "" {
			return errBadPayload
		}
	case msgGameStarted, msgDragLoaded, msgFinishedDrag, msgFinishedCollect,
		msgVotingStart, msgVotingFinished, msgResultSceneLoaded:
		// no payload
	default:
		return errBadPayload
	}

	return nil
}

// Messages sent to clients. Every broadcast is a full, typed value; the
// client replaces its copy of whatever the message carries.

type CurrentPlayersMessage struct {
	Type    string             `json:"type"` // "currentPlayers"
	Players map[string]*Player `json:"players"`
}

type NewPlayerMessage struct {
	Type   string  `json:"type"` // "newPlayer"
	Player *Player `json:"player"`
}

type PlayerMovedMessage struct {
	Type   string  `json:"type"` // "playerMoved"
	Player *Player `json:"player"`
}

type DrawObjectsMessage struct {
	Type    string                  `json:"type"` // "drawObjects"
	Objects map[string]*WorldObject `json:"objects"`
}

// SendStateMessage is the periodic full resync of the object store.
type SendStateMessage struct {
	Type    string                  `json:"type"` // "sendState"
	Objects map[string]*WorldObject `json:"objects"`
}

type UsernameChangedMessage struct {
	Type     string `json:"type"` // "usernameChanged"
	ID       string `json:"id"`
	Username string `json:"username"`
}

type UpdateCluesMessage struct {
	Type string `json:"type"` // "updateClues"
	Clue string `json:"clue"`
}

type RolesUpdateMessage struct {
	Type     string `json:"type"` // "rolesUpdate"
	Impostor string `json:"impostor"`
}

type CursorMovedMessage struct {
	Type     string     `json:"type"` // "cursorMoved"
	Player   *Player    `json:"player"`
	Location Coordinate `json:"location"`
}

type SceneChangeMessage struct {
	Type  string `json:"type"` // "sceneChange"
	Scene string `json:"scene"`
}

type DragLocationsMessage struct {
	Type  string       `json:"type"` // "dragMinigameLocations"
	Keys  [][2]float64 `json:"keys"`
	Locks [][2]float64 `json:"locks"`
}

type KeyMovementMessage struct {
	Type     string     `json:"type"` // "keyMovement"
	Key      Coordinate `json:"key"`
	Original Coordinate `json:"original"`
}

type KeyLockMatchMessage struct {
	Type  string     `json:"type"` // "keyLockMatch"
	Key   Coordinate `json:"key"`
	Lock  Coordinate `json:"lock"`
	Score int        `json:"score"`
}

type VotingDataMessage struct {
	Type    string             `json:"type"` // "votingData"
	Players map[string]*Player `json:"players"`
}

type VoteResultMessage struct {
	Type   string  `json:"type"` // "voteResult"
	Result *Player `json:"result"`
}

type NewChatMessage struct {
	Type    string `json:"type"` // "newMessage"
	Message string `json:"message"`
}

type DisconnectMessage struct {
	Type string `json:"type"` // "disconnect"
	ID   string `json:"id"`
}
