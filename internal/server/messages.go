package server

import (
	"encoding/json"

	"github.com/untapfree/untap-server-go/internal/game/actions"
	"github.com/untapfree/untap-server-go/internal/game/state"
	"github.com/untapfree/untap-server-go/internal/match"
)

// clientMessage is the envelope for everything a client sends. Fields
// beyond Type are populated per message kind.
type clientMessage struct {
	Type string `json:"type"`

	// login
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	// session resume
	SessionID string `json:"sessionId,omitempty"`

	// create
	InitialLife int          `json:"initialLife,omitempty"`
	Seats       []match.Seat `json:"seats,omitempty"`

	// join / leave / start / restart / submit
	MatchID string `json:"matchId,omitempty"`

	// submit
	ExpectedVersion int64             `json:"expectedVersion,omitempty"`
	Action          *actions.Envelope `json:"action,omitempty"`
}

const (
	msgLogin   = "login"
	msgCreate  = "create"
	msgJoin    = "join"
	msgLeave   = "leave"
	msgStart   = "start"
	msgRestart = "restart"
	msgSubmit  = "submit"
	msgPing    = "ping"
)

// Server-to-client payloads.

type loginOK struct {
	Type      string `json:"type"` // "login_ok"
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

type matchPayload struct {
	Type  string       `json:"type"` // "match"
	Match *match.Match `json:"match"`
}

type statePayload struct {
	Type       string            `json:"type"` // "state"
	MatchID    string            `json:"matchId"`
	State      *state.GameState  `json:"state"`
	LastAction *actions.Envelope `json:"lastAction,omitempty"`
}

type outOfSyncPayload struct {
	Type    string           `json:"type"` // "out_of_sync"
	Code    string           `json:"code"` // always "OUT_OF_SYNC"
	MatchID string           `json:"matchId"`
	State   *state.GameState `json:"state"`
}

type statusPayload struct {
	Type    string `json:"type"` // "status"
	MatchID string `json:"matchId"`
	Status  string `json:"status"` // "lobby" or "active"
}

type lobbyPayload struct {
	Type    string `json:"type"` // "lobby"
	MatchID string `json:"matchId"`
}

type errorPayload struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

type pongPayload struct {
	Type string `json:"type"` // "pong"
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// All outbound payload types marshal cleanly; an error here is a
		// programming bug, not a runtime condition.
		panic(err)
	}
	return data
}
