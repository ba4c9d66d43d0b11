package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore reads decks and custom cards from the shared database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps a pgx pool as a catalog Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) DeckEntries(ctx context.Context, deckID string) ([]DeckEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT COALESCE(card_ref, ''), COALESCE(custom_ref, ''), quantity, board
		FROM deck_entries
		WHERE deck_id = $1
		ORDER BY position`, deckID)
	if err != nil {
		return nil, fmt.Errorf("query deck entries: %w", err)
	}
	defer rows.Close()

	var entries []DeckEntry
	for rows.Next() {
		var entry DeckEntry
		var board string
		if err := rows.Scan(&entry.CardRef, &entry.CustomRef, &entry.Quantity, &board); err != nil {
			return nil, fmt.Errorf("scan deck entry: %w", err)
		}
		entry.Board = Board(board)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read deck entries: %w", err)
	}
	if entries == nil {
		return nil, ErrNotFound
	}
	return entries, nil
}

func (s *PostgresStore) CustomCard(ctx context.Context, ref string) (CardInfo, error) {
	var info CardInfo
	err := s.pool.QueryRow(ctx, `
		SELECT name, COALESCE(type_line, ''), COALESCE(power, ''), COALESCE(toughness, ''),
		       COALESCE(mana_cost, ''), COALESCE(rules_text, ''), COALESCE(image_url, '')
		FROM custom_cards
		WHERE id = $1`, ref).Scan(
		&info.Name, &info.TypeLine, &info.Power, &info.Toughness,
		&info.ManaCost, &info.RulesText, &info.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return CardInfo{}, ErrNotFound
	}
	if err != nil {
		return CardInfo{}, fmt.Errorf("query custom card: %w", err)
	}
	return info, nil
}
