// Suspect game session server
//
// Players connect to a shared house, wander between rooms, and collect
// clues while one of them is secretly the impostor. A round runs from the
// lobby through the drag-match minigame, clue collection, and discussion,
// into a vote; voting out the impostor wins the round.
//
// Features:
// - WebSockets per game ID: /game/:gameid and /game/:gameid/ws
// - Authoritative in-memory state: players, world objects, round progress
// - Full object-store resync pushed to every client 30 times per second
// - Event broadcasts for joins, movement, chat, clues, roles, and scenes
// - Two permanent linked portal buttons created once per session
// - Randomized clue placement per room when a round starts
// - Drag-match minigame with server-held key/lock locations and score
// - Plurality voting with last-vote tie-break and win/lose resolution
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"crypto/rand"
	_ "embed"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// statePeriod is the cadence of the full object-store resync. The protocol
// is resync-based rather than delta-based: any broadcast a client misses is
// healed by the next tick.
const statePeriod = time.Second / 30

type Client struct {
	conn *websocket.Conn
	send chan any
	id   string
}

type event struct {
	client *Client
	msg    ClientMessage
}

// Session is the authority for one game's shared state. All mutations pass
// through the run loop, one event at a time, so handlers never interleave;
// the mutex only covers the fields the reaper reads from outside.
type Session struct {
	id       string
	clients  map[*Client]bool
	registry *Registry
	objects  *ObjectStore
	round    *Round

	register chan *Client
	unreg    chan *Client
	events   chan event
	done     chan struct{}

	mu         sync.RWMutex
	lastActive time.Time
}

func newSession(gameID string) *Session {
	return &Session{
		id:         gameID,
		clients:    make(map[*Client]bool),
		registry:   newRegistry(),
		objects:    newObjectStore(),
		round:      newRound(),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		events:     make(chan event, 64),
		done:       make(chan struct{}),
		lastActive: time.Now(),
	}
}

func (s *Session) run(cfg *Config) {
	ticker := time.NewTicker(statePeriod)
	defer ticker.Stop()

	for {
		select {
		case c := <-s.register:
			s.safely(func() { s.handleRegister(cfg, c) })

		case c := <-s.unreg:
			s.safely(func() { s.handleUnregister(cfg, c) })

		case ev := <-s.events:
			s.safely(func() { s.handleEvent(cfg, ev.client, ev.msg) })

		case <-ticker.C:
			s.mu.Lock()
			s.broadcastLocked(SendStateMessage{
				Type:    "sendState",
				Objects: s.objects.snapshot(),
			})
			s.mu.Unlock()

		case <-s.done:
			return
		}
	}
}

// safely isolates one client's event: a panic in a handler is logged and
// dropped instead of taking down the loop shared by every connection.
func (s *Session) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			errorf("GAMES: recovered handler panic in %s: %v", s.id, r)
		}
	}()

	fn()
}

func (s *Session) handleRegister(cfg *Config, c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()

	s.objects.ensurePortals()
	player := s.registry.add(c.id)
	s.clients[c] = true

	// The newcomer paints the object layer first, then the player layer.
	s.sendLocked(c, DrawObjectsMessage{
		Type:    "drawObjects",
		Objects: s.objects.snapshot(),
	})
	s.sendLocked(c, CurrentPlayersMessage{
		Type:    "currentPlayers",
		Players: s.registry.snapshot(),
	})

	clone := *player
	s.broadcastOthersLocked(c, NewPlayerMessage{
		Type:   "newPlayer",
		Player: &clone,
	})

	logf(cfg, "GAMES: Player %s connected to %s", c.id, s.id)
}

func (s *Session) handleUnregister(cfg *Config, c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()

	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}

	// The registry entry outlives an eviction, so clean it up here either
	// way and tell the survivors.
	if s.registry.get(c.id) != nil {
		s.registry.remove(c.id)
		s.broadcastLocked(DisconnectMessage{
			Type: "disconnect",
			ID:   c.id,
		})
	}

	logf(cfg, "GAMES: Player %s disconnected from %s", c.id, s.id)
}

func (s *Session) handleEvent(cfg *Config, c *Client, msg ClientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()

	player := s.registry.get(c.id)
	if player == nil {
		return
	}

	switch msg.Type {
	case msgChangeUsername:
		s.registry.setUsername(c.id, msg.Username)
		s.broadcastLocked(UsernameChangedMessage{
			Type:     "usernameChanged",
			ID:       c.id,
			Username: msg.Username,
		})

	case msgPlayerMovement:
		s.registry.setPosition(c.id, *msg.X, *msg.Y)
		clone := *player
		s.broadcastOthersLocked(c, PlayerMovedMessage{
			Type:   "playerMoved",
			Player: &clone,
		})

	case msgGameStarted:
		if !s.round.start() {
			return
		}
		generateClues(s.objects, cfg.legacyClues)
		s.broadcastLocked(DrawObjectsMessage{
			Type:    "drawObjects",
			Objects: s.objects.snapshot(),
		})
		logf(cfg, "GAMES: Round started in %s", s.id)

	case msgNewMessage:
		s.broadcastLocked(NewChatMessage{
			Type:    "newMessage",
			Message: player.Username + ": " + msg.Message,
		})

	case msgClueCollected:
		if !isClue(msg.Clue) || !s.objects.remove(msg.Clue) {
			return
		}
		s.broadcastLocked(UpdateCluesMessage{
			Type: "updateClues",
			Clue: msg.Clue,
		})

	case msgImpostorGenerated:
		if !s.registry.assignImpostor(msg.Player) {
			return
		}
		s.broadcastLocked(RolesUpdateMessage{
			Type:     "rolesUpdate",
			Impostor: msg.Player,
		})

	case msgCursorMovement:
		clone := *player
		s.broadcastLocked(CursorMovedMessage{
			Type:     "cursorMoved",
			Player:   &clone,
			Location: *msg.Location,
		})

	case msgSceneChanged:
		s.broadcastLocked(SceneChangeMessage{
			Type:  "sceneChange",
			Scene: msg.Scene,
		})
		logf(cfg, "GAMES: Scene changed to %q in %s", msg.Scene, s.id)

	case msgDragLoaded:
		if !s.round.drag.load() {
			return
		}
		s.broadcastLocked(DragLocationsMessage{
			Type:  "dragMinigameLocations",
			Keys:  append([][2]float64(nil), s.round.drag.keys...),
			Locks: append([][2]float64(nil), s.round.drag.locks...),
		})

	case msgKeyMoved:
		s.broadcastLocked(KeyMovementMessage{
			Type:     "keyMovement",
			Key:      *msg.Key,
			Original: *msg.Original,
		})

	case msgKeyLockMatched:
		score := s.round.drag.match(*msg.Lock)
		s.broadcastLocked(KeyLockMatchMessage{
			Type:  "keyLockMatch",
			Key:   *msg.Key,
			Lock:  *msg.Lock,
			Score: score,
		})

	case msgFinishedDrag:
		if !s.round.advance(phaseDrag, phaseCollect) {
			return
		}
		s.broadcastLocked(SceneChangeMessage{
			Type:  "sceneChange",
			Scene: "collect",
		})

	case msgFinishedCollect:
		if !s.round.advance(phaseCollect, phaseDiscussion) {
			return
		}
		s.broadcastLocked(SceneChangeMessage{
			Type:  "sceneChange",
			Scene: "discussion",
		})

	case msgVotingStart:
		s.round.advance(phaseDiscussion, phaseVoting)
		s.sendLocked(c, VotingDataMessage{
			Type:    "votingData",
			Players: s.registry.snapshot(),
		})

	case msgSendVote:
		// The sender's connection is the voter; a vote for an id that is
		// not a live player is dropped.
		if s.registry.get(msg.Vote) == nil {
			return
		}
		s.round.ballot.cast(c.id, msg.Vote)

	case msgVotingFinished:
		if s.round.ballot.count() == 0 {
			return
		}
		result, outcome := resolveVotes(&s.round.ballot, s.registry)
		s.round.result = result

		s.broadcastLocked(SceneChangeMessage{
			Type:  "sceneChange",
			Scene: outcome,
		})

		s.registry.clearImpostor()
		s.round.reset()
		logf(cfg, "GAMES: Vote resolved to %q in %s", outcome, s.id)

	case msgResultSceneLoaded:
		s.broadcastLocked(VoteResultMessage{
			Type:   "voteResult",
			Result: s.round.result,
		})
	}
}

// sendLocked queues a message for one client, evicting it when its send
// buffer is full. Assumes s.mu is held.
func (s *Session) sendLocked(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(s.clients, c)
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

func (s *Session) broadcastLocked(msg any) {
	for client := range s.clients {
		s.sendLocked(client, msg)
	}
}

func (s *Session) broadcastOthersLocked(sender *Client, msg any) {
	for client := range s.clients {
		if client == sender {
			continue
		}
		s.sendLocked(client, msg)
	}
}

// closeAll disconnects all clients of this session (used by reaper).
func (s *Session) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(s.clients, c)
	}

	close(s.done)
}

// SessionManager holds a set of sessions keyed by game ID, so each
// /game/:gameid is its own isolated world.
type SessionManager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
}

func newSessionManager(idleTimeout time.Duration) *SessionManager {
	sm := &SessionManager{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
	}
	if idleTimeout > 0 {
		go sm.reaperLoop()
	}
	return sm
}

func (sm *SessionManager) getSession(cfg *Config, gameID string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if session, ok := sm.sessions[gameID]; ok {
		return session
	}

	session := newSession(gameID)
	sm.sessions[gameID] = session
	go session.run(cfg)
	return session
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (sm *SessionManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		sm.mu.Lock()
		_, exists := sm.sessions[id]
		sm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes sessions that have been idle longer than
// idleTimeout.
func (sm *SessionManager) reaperLoop() {
	ticker := time.NewTicker(sm.idleTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-sm.idleTimeout)

		sm.mu.Lock()
		for id, session := range sm.sessions {
			session.mu.RLock()
			last := session.lastActive
			session.mu.RUnlock()

			if last.Before(cutoff) {
				delete(sm.sessions, id)
				go session.closeAll()
			}
		}
		sm.mu.Unlock()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocket handler that picks the session based on :gameid. Every
// connection gets a fresh ephemeral player id; there is no identity beyond
// the connection.
func serveWSForManager(cfg *Config, sm *SessionManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		session := sm.getSession(cfg, gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			errorf("GAMES: upgrade error: %v", err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 64),
			id:   uuid.NewString(),
		}

		select {
		case session.register <- client:
		case <-session.done:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(session)
	}
}

func (c *Client) readPump(s *Session) {
	defer func() {
		select {
		case s.unreg <- c:
		case <-s.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		// Malformed or out-of-protocol messages die at the boundary.
		if err := msg.validate(); err != nil {
			continue
		}

		select {
		case s.events <- event{client: c, msg: msg}:
		case <-s.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID := ps.ByName("gameid")
	if gameID == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /game/:gameid/qr; strip trailing "/qr" to get the game URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

//go:embed suspect/index.html
var indexHTML []byte

func getIndexHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(indexHTML)
	}
}

// redirectNewGame handles GET /game by generating a new random game ID
// (with server-side collision detection) and redirecting to /game/:gameid.
func redirectNewGame(cfg *Config, path string, sm *SessionManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := sm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerSuspectGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerSuspectGame(cfg *Config, path string, mux *httprouter.Router, errs chan<- error) {
	sm := newSessionManager(cfg.sessionTimeout)

	// Root path → redirect to new random game
	mux.GET(path, redirectNewGame(cfg, path, sm))

	// Per-game client view (HTML)
	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg))

	// Shared assets (no gameid in route)
	mux.GET(cfg.prefix+"/assets/suspect/app.css", serveAssets(cfg, errs))
	mux.GET(cfg.prefix+"/assets/suspect/app.js", serveAssets(cfg, errs))

	// Per-game websocket
	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, sm))

	// Per-game QR code
	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler)
}
