// Package match owns the write path for shared table state: match records,
// the append-only event log, and the optimistic concurrency gate every
// action must pass through.
package match

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/untapfree/untap-server-go/internal/game/state"
)

// Status is the lifecycle state of a match record.
type Status string

const (
	StatusLobby    Status = "LOBBY"
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
)

var (
	// ErrOutOfSync means the submitted expected version no longer matches
	// the persisted snapshot. The caller receives the authoritative
	// current snapshot alongside this error.
	ErrOutOfSync = errors.New("match: expected version out of sync")
	// ErrNotFound means the match or its snapshot does not exist.
	ErrNotFound = errors.New("match: not found")
	// ErrNotStartable means the match is not in a state the initializer
	// may run against.
	ErrNotStartable = errors.New("match: not startable")
)

// Seat binds a participant to a position at the table.
type Seat struct {
	Number    int    `json:"number"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	DeckID    string `json:"deckId,omitempty"`
}

// Match is the durable match record. The snapshot itself is stored
// separately and versioned.
type Match struct {
	ID          string    `json:"id"`
	Status      Status    `json:"status"`
	InitialLife int       `json:"initialLife"`
	Seats       []Seat    `json:"seats"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SeatOf resolves the seat bound to a user, or nil.
func (m *Match) SeatOf(userID string) *Seat {
	for i := range m.Seats {
		if m.Seats[i].UserID == userID {
			return &m.Seats[i]
		}
	}
	return nil
}

// Event is one immutable record of the per-match audit log, mirroring the
// exact order of accepted writes.
type Event struct {
	ID      int64           `json:"id"`
	MatchID string          `json:"matchId"`
	Actor   string          `json:"actor"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Version int64           `json:"version"`
	At      time.Time       `json:"at"`
}

// Store is the persistence contract the gate relies on. SaveSnapshot must
// be a true compare-and-swap: the snapshot write and the event append
// succeed together only if the stored version still equals expected, and
// roll back together otherwise. An implementation without transactional
// CAS must serialize writers per match itself.
type Store interface {
	CreateMatch(ctx context.Context, m *Match) error
	GetMatch(ctx context.Context, id string) (*Match, error)
	SetStatus(ctx context.Context, id string, status Status) error

	// LoadSnapshot returns the current persisted snapshot, or ErrNotFound.
	LoadSnapshot(ctx context.Context, matchID string) (*state.GameState, error)

	// SaveSnapshot persists next and appends event iff the stored version
	// equals expected. expected == 0 additionally requires that no
	// snapshot exists yet. Returns ErrOutOfSync on version mismatch.
	SaveSnapshot(ctx context.Context, matchID string, expected int64, next *state.GameState, event Event) error

	// InitializeMatch atomically writes the opening snapshot, appends the
	// start event, and moves the match to ACTIVE.
	InitializeMatch(ctx context.Context, matchID string, snapshot *state.GameState, event Event) error

	// Events returns the match's event log in append order.
	Events(ctx context.Context, matchID string) ([]Event, error)
}
