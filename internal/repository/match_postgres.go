package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/untapfree/untap-server-go/internal/game/state"
	"github.com/untapfree/untap-server-go/internal/match"
)

// MatchRepository implements match.Store on postgres. The version
// compare-and-swap and the event append run inside one transaction, so a
// losing writer observes ErrOutOfSync and leaves no trace.
type MatchRepository struct {
	db *DB
}

// NewMatchRepository creates a match repository on the shared pool.
func NewMatchRepository(db *DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) CreateMatch(ctx context.Context, m *match.Match) error {
	seats, err := json.Marshal(m.Seats)
	if err != nil {
		return fmt.Errorf("marshal seats: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO matches (id, status, initial_life, seats, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, string(m.Status), m.InitialLife, seats, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (r *MatchRepository) GetMatch(ctx context.Context, id string) (*match.Match, error) {
	var m match.Match
	var status string
	var seats []byte
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, status, initial_life, seats, created_at
		FROM matches WHERE id = $1`, id).
		Scan(&m.ID, &status, &m.InitialLife, &seats, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, match.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query match: %w", err)
	}
	m.Status = match.Status(status)
	if err := json.Unmarshal(seats, &m.Seats); err != nil {
		return nil, fmt.Errorf("unmarshal seats: %w", err)
	}
	return &m, nil
}

func (r *MatchRepository) SetStatus(ctx context.Context, id string, status match.Status) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE matches SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update match status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return match.ErrNotFound
	}
	return nil
}

func (r *MatchRepository) LoadSnapshot(ctx context.Context, matchID string) (*state.GameState, error) {
	var raw []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT snapshot FROM match_snapshots WHERE match_id = $1`, matchID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, match.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	var gs state.GameState
	if err := json.Unmarshal(raw, &gs); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &gs, nil
}

func (r *MatchRepository) SaveSnapshot(ctx context.Context, matchID string, expected int64, next *state.GameState, event match.Event) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if expected == 0 {
		tag, err := tx.Exec(ctx, `
			INSERT INTO match_snapshots (match_id, version, snapshot)
			VALUES ($1, $2, $3)
			ON CONFLICT (match_id) DO NOTHING`,
			matchID, next.Version, raw)
		if err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return match.ErrOutOfSync
		}
	} else {
		tag, err := tx.Exec(ctx, `
			UPDATE match_snapshots
			SET version = $3, snapshot = $4
			WHERE match_id = $1 AND version = $2`,
			matchID, expected, next.Version, raw)
		if err != nil {
			return fmt.Errorf("update snapshot: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return match.ErrOutOfSync
		}
	}

	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *MatchRepository) InitializeMatch(ctx context.Context, matchID string, snapshot *state.GameState, event match.Event) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE matches SET status = $2 WHERE id = $1 AND status = $3`,
		matchID, string(match.StatusActive), string(match.StatusLobby))
	if err != nil {
		return fmt.Errorf("activate match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return match.ErrNotStartable
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO match_snapshots (match_id, version, snapshot)
		VALUES ($1, $2, $3)`,
		matchID, snapshot.Version, raw); err != nil {
		return fmt.Errorf("insert opening snapshot: %w", err)
	}

	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *MatchRepository) Events(ctx context.Context, matchID string) ([]match.Event, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, match_id, actor, kind, COALESCE(payload, 'null'), version, at
		FROM match_events
		WHERE match_id = $1
		ORDER BY id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []match.Event
	for rows.Next() {
		var e match.Event
		var payload []byte
		if err := rows.Scan(&e.ID, &e.MatchID, &e.Actor, &e.Kind, &payload, &e.Version, &e.At); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if string(payload) != "null" {
			e.Payload = payload
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return events, nil
}

func insertEvent(ctx context.Context, tx pgx.Tx, event match.Event) error {
	var payload any
	if len(event.Payload) > 0 {
		payload = []byte(event.Payload)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO match_events (match_id, actor, kind, payload, version, at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.MatchID, event.Actor, event.Kind, payload, event.Version, event.At); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}
