// Package catalog is the read-only view of the deck and card store. The
// table server consumes it at match initialization time only; it never
// writes through this interface.
package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a deck or custom card does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Board partitions deck entries.
type Board string

const (
	BoardMain      Board = "main"
	BoardSide      Board = "side"
	BoardCommander Board = "commander"
)

// DeckEntry is one line of a deck list: a reference to either an external
// catalog card or a user's custom card, with a quantity and board.
type DeckEntry struct {
	CardRef   string
	CustomRef string
	Quantity  int
	Board     Board
}

// CardInfo carries the display fields of a custom card.
type CardInfo struct {
	Name      string
	TypeLine  string
	Power     string
	Toughness string
	ManaCost  string
	RulesText string
	ImageURL  string
}

// Store is the read-only catalog contract.
type Store interface {
	// DeckEntries returns the ordered entries of a deck.
	DeckEntries(ctx context.Context, deckID string) ([]DeckEntry, error)
	// CustomCard resolves a custom-card reference to its display fields.
	CustomCard(ctx context.Context, ref string) (CardInfo, error)
}
