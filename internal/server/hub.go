package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/untapfree/untap-server-go/internal/auth"
	"github.com/untapfree/untap-server-go/internal/game/actions"
	"github.com/untapfree/untap-server-go/internal/match"
	"github.com/untapfree/untap-server-go/internal/session"
	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second

// Hub is the room broadcaster: it tracks which connections are subscribed
// to which match and fans out every accepted write to all of them. It also
// owns the message dispatch for client envelopes.
type Hub struct {
	logger      *zap.Logger
	matches     *match.Service
	verifier    auth.Authenticator
	sessions    *session.Manager
	defaultLife int

	mu          sync.RWMutex
	subscribers map[string]map[*client]bool
}

// NewHub creates the hub. defaultLife is the initial life total used when a
// create envelope does not specify one.
func NewHub(matches *match.Service, verifier auth.Authenticator, sessions *session.Manager, defaultLife int, logger *zap.Logger) *Hub {
	return &Hub{
		logger:      logger,
		matches:     matches,
		verifier:    verifier,
		sessions:    sessions,
		defaultLife: defaultLife,
		subscribers: make(map[string]map[*client]bool),
	}
}

func (h *Hub) handleMessage(c *client, data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "invalid message"}))
		return
	}

	switch msg.Type {
	case msgLogin:
		h.handleLogin(c, &msg)
	case msgPing:
		h.sessions.UpdateActivity(c.session())
		c.enqueue(mustMarshal(pongPayload{Type: "pong"}))
	case msgCreate:
		h.handleCreate(c, &msg)
	case msgJoin:
		h.handleJoin(c, &msg)
	case msgLeave:
		h.handleLeave(c, &msg)
	case msgStart:
		h.handleStart(c, &msg)
	case msgRestart:
		h.handleRestart(c, &msg)
	case msgSubmit:
		h.handleSubmit(c, &msg)
	default:
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "unknown message type"}))
	}
}

func (h *Hub) handleLogin(c *client, msg *clientMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := h.verifier.Verify(ctx, msg.Username, msg.Password); err != nil {
		h.logger.Warn("login failed", zap.String("username", msg.Username))
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "invalid credentials"}))
		return
	}

	sessionID := msg.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	} else {
		h.sessions.RemoveSession(sessionID)
	}
	sess := h.sessions.CreateSession(sessionID, c.conn.RemoteAddr().String())
	sess.SetUserID(msg.Username)
	c.setUser(msg.Username, sess.ID)

	h.logger.Info("user connected",
		zap.String("username", msg.Username),
		zap.String("session_id", sess.ID),
	)

	c.enqueue(mustMarshal(loginOK{Type: "login_ok", SessionID: sess.ID, UserID: msg.Username}))
}

// handleCreate registers a new lobby match for the requested seats. The
// creator must hold one of the seats.
func (h *Hub) handleCreate(c *client, msg *clientMessage) {
	userID := c.user()
	if userID == "" {
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "not authenticated"}))
		return
	}
	if len(msg.Seats) == 0 {
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "seats are required"}))
		return
	}
	seated := false
	for _, seat := range msg.Seats {
		if seat.UserID == userID {
			seated = true
			break
		}
	}
	if !seated {
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "creator must hold a seat"}))
		return
	}

	life := msg.InitialLife
	if life <= 0 {
		life = h.defaultLife
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	m, err := h.matches.Create(ctx, life, msg.Seats)
	if err != nil {
		h.logger.Error("match create failed", zap.String("user", userID), zap.Error(err))
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "could not create the match"}))
		return
	}

	c.enqueue(mustMarshal(matchPayload{Type: "match", Match: m}))
}

// handleJoin subscribes a seated participant to a match and delivers the
// current snapshot (or a lobby status) to that connection only.
func (h *Hub) handleJoin(c *client, msg *clientMessage) {
	userID := c.user()
	if userID == "" {
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "not authenticated"}))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	m, err := h.matches.Get(ctx, msg.MatchID)
	if err != nil {
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "match not found"}))
		return
	}
	if m.SeatOf(userID) == nil {
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "not a participant of this match"}))
		return
	}

	h.subscribe(msg.MatchID, c)
	c.markJoined(msg.MatchID)

	snapshot, err := h.matches.Snapshot(ctx, msg.MatchID)
	switch {
	case err == nil:
		c.enqueue(mustMarshal(statePayload{Type: "state", MatchID: msg.MatchID, State: snapshot}))
	case errors.Is(err, match.ErrNotFound):
		c.enqueue(mustMarshal(statusPayload{Type: "status", MatchID: msg.MatchID, Status: "lobby"}))
		h.notifyLobby(msg.MatchID, c)
	default:
		h.logger.Error("snapshot load failed", zap.String("match_id", msg.MatchID), zap.Error(err))
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "failed to load match state"}))
	}

	h.logger.Info("player joined match",
		zap.String("match_id", msg.MatchID),
		zap.String("user", userID),
	)
}

func (h *Hub) handleLeave(c *client, msg *clientMessage) {
	h.unsubscribe(msg.MatchID, c)
	c.markLeft(msg.MatchID)
	h.notifyLobby(msg.MatchID, c)
}

func (h *Hub) handleStart(c *client, msg *clientMessage) {
	h.startOrRestart(c, msg, false)
}

func (h *Hub) handleRestart(c *client, msg *clientMessage) {
	h.startOrRestart(c, msg, true)
}

func (h *Hub) startOrRestart(c *client, msg *clientMessage, restart bool) {
	userID := c.user()
	if userID == "" {
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "not authenticated"}))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	m, err := h.matches.Get(ctx, msg.MatchID)
	if err != nil {
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "match not found"}))
		return
	}
	if m.SeatOf(userID) == nil {
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "not a participant of this match"}))
		return
	}

	var snapshot *statePayload
	if restart {
		gs, err := h.matches.Restart(ctx, msg.MatchID)
		if err != nil {
			c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "could not restart the match"}))
			return
		}
		snapshot = &statePayload{Type: "state", MatchID: msg.MatchID, State: gs}
	} else {
		gs, err := h.matches.Start(ctx, msg.MatchID)
		if err != nil {
			c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "could not start the match"}))
			return
		}
		snapshot = &statePayload{Type: "state", MatchID: msg.MatchID, State: gs}
	}

	h.broadcast(msg.MatchID, mustMarshal(snapshot))
}

// handleSubmit runs one action through the concurrency gate. Success is
// broadcast to every subscriber; a version conflict goes back to the
// sender alone, carrying the authoritative snapshot.
func (h *Hub) handleSubmit(c *client, msg *clientMessage) {
	userID := c.user()
	if userID == "" {
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "not authenticated"}))
		return
	}
	if msg.Action == nil {
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "action is required"}))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	action := actions.Decode(*msg.Action)
	gs, err := h.matches.Submit(ctx, msg.MatchID, msg.ExpectedVersion, action, userID)
	switch {
	case err == nil:
		envelope := action.Envelope()
		h.broadcast(msg.MatchID, mustMarshal(statePayload{
			Type:       "state",
			MatchID:    msg.MatchID,
			State:      gs,
			LastAction: &envelope,
		}))
	case errors.Is(err, match.ErrOutOfSync):
		c.enqueue(mustMarshal(outOfSyncPayload{
			Type:    "out_of_sync",
			Code:    "OUT_OF_SYNC",
			MatchID: msg.MatchID,
			State:   gs,
		}))
	case errors.Is(err, match.ErrNotFound):
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "match not started"}))
	default:
		h.logger.Error("submit failed",
			zap.String("match_id", msg.MatchID),
			zap.String("user", userID),
			zap.Error(err),
		)
		c.enqueue(mustMarshal(errorPayload{Type: "error", Message: "internal error"}))
	}
}

func (h *Hub) subscribe(matchID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.subscribers[matchID]
	if !ok {
		subs = make(map[*client]bool)
		h.subscribers[matchID] = subs
	}
	subs[c] = true
}

func (h *Hub) unsubscribe(matchID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.subscribers[matchID]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.subscribers, matchID)
		}
	}
}

// broadcast delivers a payload to every connection subscribed to a match.
func (h *Hub) broadcast(matchID string, payload []byte) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.subscribers[matchID]))
	for c := range h.subscribers[matchID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.enqueue(payload)
	}
}

// notifyLobby pings the other subscribers that lobby membership changed.
// Pre-start joins and leaves get this lighter signal instead of a
// snapshot.
func (h *Hub) notifyLobby(matchID string, origin *client) {
	payload := mustMarshal(lobbyPayload{Type: "lobby", MatchID: matchID})

	h.mu.RLock()
	clients := make([]*client, 0, len(h.subscribers[matchID]))
	for c := range h.subscribers[matchID] {
		if c != origin {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.enqueue(payload)
	}
}

// disconnect removes a connection from every match it joined.
func (h *Hub) disconnect(c *client) {
	for _, matchID := range c.joinedMatches() {
		h.unsubscribe(matchID, c)
		c.markLeft(matchID)
		h.notifyLobby(matchID, c)
	}
	if sessionID := c.session(); sessionID != "" {
		h.sessions.UpdateActivity(sessionID)
	}
}
