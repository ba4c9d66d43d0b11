package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/untapfree/untap-server-go/internal/catalog"
	"github.com/untapfree/untap-server-go/internal/game/actions"
	"github.com/untapfree/untap-server-go/internal/game/deal"
	"github.com/untapfree/untap-server-go/internal/game/reduce"
	"github.com/untapfree/untap-server-go/internal/game/state"
	"go.uber.org/zap"
)

// Service is the concurrency gate: the single component allowed to persist
// snapshots. Every accepted write advances the version by exactly one and
// appends exactly one event record, atomically.
type Service struct {
	store   Store
	catalog catalog.Store
	logger  *zap.Logger
}

// NewService creates the match service.
func NewService(store Store, catalogStore catalog.Store, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalogStore,
		logger:  logger,
	}
}

// Create registers a new match record in the lobby state.
func (s *Service) Create(ctx context.Context, initialLife int, seats []Seat) (*Match, error) {
	m := &Match{
		ID:          uuid.NewString(),
		Status:      StatusLobby,
		InitialLife: initialLife,
		Seats:       seats,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateMatch(ctx, m); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	s.logger.Info("match created",
		zap.String("match_id", m.ID),
		zap.Int("seats", len(seats)),
		zap.Int("initial_life", initialLife),
	)
	return m, nil
}

// Get returns the match record.
func (s *Service) Get(ctx context.Context, matchID string) (*Match, error) {
	return s.store.GetMatch(ctx, matchID)
}

// Snapshot returns the current persisted snapshot, or ErrNotFound if the
// match has not started.
func (s *Service) Snapshot(ctx context.Context, matchID string) (*state.GameState, error) {
	return s.store.LoadSnapshot(ctx, matchID)
}

// Submit is the sole action write path. The expected version must match
// the persisted snapshot or the caller gets the authoritative current
// snapshot back with ErrOutOfSync and nothing is written. A matching
// version runs the reducer and persists snapshot plus event atomically.
//
// Note that the version advances even when the action reduced to a no-op;
// see DESIGN.md.
func (s *Service) Submit(ctx context.Context, matchID string, expectedVersion int64, action actions.Action, userID string) (*state.GameState, error) {
	current, err := s.store.LoadSnapshot(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %s: %w", matchID, err)
	}
	if current.Version != expectedVersion {
		return current, ErrOutOfSync
	}

	next := reduce.Apply(current, action, userID)
	next.Version = expectedVersion + 1

	event := Event{
		MatchID: matchID,
		Actor:   userID,
		Kind:    string(action.Kind),
		Payload: action.Raw,
		Version: next.Version,
		At:      time.Now().UTC(),
	}

	if err := s.store.SaveSnapshot(ctx, matchID, expectedVersion, next, event); err != nil {
		if errors.Is(err, ErrOutOfSync) {
			// Another writer won the race after our load. Hand back
			// whatever is authoritative now.
			if latest, loadErr := s.store.LoadSnapshot(ctx, matchID); loadErr == nil {
				return latest, ErrOutOfSync
			}
			return current, ErrOutOfSync
		}
		return nil, fmt.Errorf("save snapshot for %s: %w", matchID, err)
	}

	s.logger.Debug("action applied",
		zap.String("match_id", matchID),
		zap.String("actor", userID),
		zap.String("kind", string(action.Kind)),
		zap.Int64("version", next.Version),
	)

	return next, nil
}

// Start runs the match initializer: builds snapshot v1 from the currently
// selected decks and atomically persists it while moving the match to
// ACTIVE. Nothing is written when a precondition fails.
func (s *Service) Start(ctx context.Context, matchID string) (*state.GameState, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != StatusLobby {
		return nil, fmt.Errorf("%w: match %s is %s", ErrNotStartable, matchID, m.Status)
	}

	gs, err := s.buildOpening(ctx, m, 0)
	if err != nil {
		return nil, err
	}

	event := Event{
		MatchID: matchID,
		Actor:   "system",
		Kind:    "MATCH_START",
		Version: gs.Version,
		At:      time.Now().UTC(),
	}
	if err := s.store.InitializeMatch(ctx, matchID, gs, event); err != nil {
		return nil, fmt.Errorf("initialize match %s: %w", matchID, err)
	}

	s.logger.Info("match started",
		zap.String("match_id", matchID),
		zap.Int("players", len(gs.Players)),
	)

	return gs, nil
}

// Restart rebuilds the opening state from the decks as currently selected
// and swaps it in, continuing the version sequence from the prior
// snapshot rather than resetting it.
func (s *Service) Restart(ctx context.Context, matchID string) (*state.GameState, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != StatusActive {
		return nil, fmt.Errorf("%w: match %s is %s", ErrNotStartable, matchID, m.Status)
	}

	current, err := s.store.LoadSnapshot(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %s: %w", matchID, err)
	}

	gs, err := s.buildOpening(ctx, m, current.Version)
	if err != nil {
		return nil, err
	}
	gs.AppendChat("System", "The match was restarted.")

	event := Event{
		MatchID: matchID,
		Actor:   "system",
		Kind:    "MATCH_RESTART",
		Version: gs.Version,
		At:      time.Now().UTC(),
	}
	if err := s.store.SaveSnapshot(ctx, matchID, current.Version, gs, event); err != nil {
		return nil, fmt.Errorf("restart match %s: %w", matchID, err)
	}

	s.logger.Info("match restarted",
		zap.String("match_id", matchID),
		zap.Int64("version", gs.Version),
	)

	return gs, nil
}

func (s *Service) buildOpening(ctx context.Context, m *Match, fromVersion int64) (*state.GameState, error) {
	participants := make([]deal.Participant, 0, len(m.Seats))
	for _, seat := range m.Seats {
		if seat.UserID == "" {
			continue
		}
		participants = append(participants, deal.Participant{
			Seat:      seat.Number,
			UserID:    seat.UserID,
			Name:      seat.Name,
			AvatarURL: seat.AvatarURL,
			DeckID:    seat.DeckID,
		})
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: no seated participants", ErrNotStartable)
	}

	gs, err := deal.BuildOpeningState(ctx, s.catalog, participants, m.InitialLife, fromVersion)
	if err != nil {
		if errors.Is(err, deal.ErrNoParticipants) {
			return nil, fmt.Errorf("%w: %v", ErrNotStartable, err)
		}
		return nil, err
	}
	return gs, nil
}

// Events exposes the append-only audit log for a match.
func (s *Service) Events(ctx context.Context, matchID string) ([]Event, error) {
	return s.store.Events(ctx, matchID)
}
