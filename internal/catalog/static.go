package catalog

import "context"

// StaticStore is an in-memory Store for tests and standalone mode.
type StaticStore struct {
	Decks map[string][]DeckEntry
	Cards map[string]CardInfo
}

// NewStaticStore returns an empty static store.
func NewStaticStore() *StaticStore {
	return &StaticStore{
		Decks: make(map[string][]DeckEntry),
		Cards: make(map[string]CardInfo),
	}
}

func (s *StaticStore) DeckEntries(ctx context.Context, deckID string) ([]DeckEntry, error) {
	entries, ok := s.Decks[deckID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]DeckEntry{}, entries...), nil
}

func (s *StaticStore) CustomCard(ctx context.Context, ref string) (CardInfo, error) {
	info, ok := s.Cards[ref]
	if !ok {
		return CardInfo{}, ErrNotFound
	}
	return info, nil
}
