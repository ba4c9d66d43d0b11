package repository

import (
	"context"
	"sync"

	"github.com/untapfree/untap-server-go/internal/game/state"
	"github.com/untapfree/untap-server-go/internal/match"
)

// MemoryStore implements match.Store entirely in process. Postgres gives
// the gate its compare-and-swap through a transaction; here a single mutex
// provides the equivalent per-store mutual exclusion, so two writers can
// never both observe the same version and both succeed.
type MemoryStore struct {
	mu        sync.Mutex
	matches   map[string]*match.Match
	snapshots map[string]*state.GameState
	events    map[string][]match.Event
	nextEvent int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		matches:   make(map[string]*match.Match),
		snapshots: make(map[string]*state.GameState),
		events:    make(map[string][]match.Event),
	}
}

func (s *MemoryStore) CreateMatch(ctx context.Context, m *match.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *m
	copied.Seats = append([]match.Seat{}, m.Seats...)
	s.matches[m.ID] = &copied
	return nil
}

func (s *MemoryStore) GetMatch(ctx context.Context, id string) (*match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, match.ErrNotFound
	}
	copied := *m
	copied.Seats = append([]match.Seat{}, m.Seats...)
	return &copied, nil
}

func (s *MemoryStore) SetStatus(ctx context.Context, id string, status match.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return match.ErrNotFound
	}
	m.Status = status
	return nil
}

func (s *MemoryStore) LoadSnapshot(ctx context.Context, matchID string) (*state.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.snapshots[matchID]
	if !ok {
		return nil, match.ErrNotFound
	}
	return gs.Clone(), nil
}

func (s *MemoryStore) SaveSnapshot(ctx context.Context, matchID string, expected int64, next *state.GameState, event match.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.snapshots[matchID]
	if expected == 0 {
		if exists {
			return match.ErrOutOfSync
		}
	} else {
		if !exists || current.Version != expected {
			return match.ErrOutOfSync
		}
	}

	s.snapshots[matchID] = next.Clone()
	s.appendEventLocked(matchID, event)
	return nil
}

func (s *MemoryStore) InitializeMatch(ctx context.Context, matchID string, snapshot *state.GameState, event match.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[matchID]
	if !ok {
		return match.ErrNotFound
	}
	if m.Status != match.StatusLobby {
		return match.ErrNotStartable
	}
	if _, exists := s.snapshots[matchID]; exists {
		return match.ErrNotStartable
	}

	m.Status = match.StatusActive
	s.snapshots[matchID] = snapshot.Clone()
	s.appendEventLocked(matchID, event)
	return nil
}

func (s *MemoryStore) Events(ctx context.Context, matchID string) ([]match.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]match.Event{}, s.events[matchID]...), nil
}

func (s *MemoryStore) appendEventLocked(matchID string, event match.Event) {
	s.nextEvent++
	event.ID = s.nextEvent
	s.events[matchID] = append(s.events[matchID], event)
}
