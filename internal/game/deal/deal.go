// Package deal builds the opening snapshot of a match: deck expansion into
// object instances, the opening shuffle, and the first draw.
package deal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/untapfree/untap-server-go/internal/catalog"
	"github.com/untapfree/untap-server-go/internal/game/state"
)

// ErrNoParticipants is returned when a match has nobody seated.
var ErrNoParticipants = errors.New("deal: match has no seated participants")

// OpeningHandSize is the number of cards drawn at match start, library
// permitting.
const OpeningHandSize = 7

// Participant describes one seat going into a match. DeckID may be empty;
// that seat starts with no cards.
type Participant struct {
	Seat      int
	UserID    string
	Name      string
	AvatarURL string
	DeckID    string
}

// BuildOpeningState produces the first snapshot of a match (or of a
// restart). fromVersion is the prior snapshot's version, zero for a fresh
// match; the result carries fromVersion+1 so a restart keeps the version
// sequence moving forward. All catalog lookups happen here, before
// anything is persisted; a failed lookup aborts with no partial state.
func BuildOpeningState(ctx context.Context, store catalog.Store, participants []Participant, initialLife int, fromVersion int64) (*state.GameState, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	seats := make([]int, 0, len(participants))
	for _, p := range participants {
		seats = append(seats, p.Seat)
	}

	gs := state.New(initialLife, seats)
	gs.Version = fromVersion + 1

	for _, p := range participants {
		gs.Players[p.Seat] = &state.PlayerState{
			Seat:      p.Seat,
			UserID:    p.UserID,
			Name:      p.Name,
			AvatarURL: p.AvatarURL,
			Life:      initialLife,
		}

		if p.DeckID == "" {
			continue
		}
		if err := dealSeat(ctx, store, gs, p.Seat, p.DeckID); err != nil {
			return nil, err
		}
	}

	return gs, nil
}

// dealSeat expands one deck into fresh object instances, shuffles the
// library and draws the opening hand.
func dealSeat(ctx context.Context, store catalog.Store, gs *state.GameState, seat int, deckID string) error {
	entries, err := store.DeckEntries(ctx, deckID)
	if err != nil {
		return fmt.Errorf("load deck %s: %w", deckID, err)
	}

	for _, entry := range entries {
		zone := boardZone(entry.Board)
		for i := 0; i < entry.Quantity; i++ {
			obj, err := instantiate(ctx, store, entry, seat, zone)
			if err != nil {
				return err
			}
			gs.Objects[obj.ID] = obj
			gs.AppendToZone(seat, zone, obj.ID)
		}
	}

	lib := gs.ZoneList(seat, state.ZoneLibrary)
	state.ShuffleIDs(lib)
	gs.SetZoneList(seat, state.ZoneLibrary, lib)

	opening := OpeningHandSize
	if opening > len(lib) {
		opening = len(lib)
	}
	for i := 0; i < opening; i++ {
		id := gs.ZoneList(seat, state.ZoneLibrary)[0]
		gs.RemoveFromZone(id)
		gs.Objects[id].Zone = state.ZoneHand
		gs.AppendToZone(seat, state.ZoneHand, id)
	}

	return nil
}

func instantiate(ctx context.Context, store catalog.Store, entry catalog.DeckEntry, seat int, zone state.Zone) (*state.GameObject, error) {
	obj := &state.GameObject{
		ID:             uuid.NewString(),
		CardRef:        entry.CardRef,
		CustomRef:      entry.CustomRef,
		OwnerSeat:      seat,
		ControllerSeat: seat,
		Zone:           zone,
		FaceState:      state.FaceNormal,
	}

	// Custom cards have no external catalog entry for clients to resolve,
	// so their display fields ride along in the snapshot.
	if entry.CustomRef != "" {
		info, err := store.CustomCard(ctx, entry.CustomRef)
		if err != nil {
			return nil, fmt.Errorf("resolve custom card %s: %w", entry.CustomRef, err)
		}
		obj.Name = info.Name
		obj.TypeLine = info.TypeLine
		obj.Power = info.Power
		obj.Toughness = info.Toughness
		obj.ManaCost = info.ManaCost
		obj.RulesText = info.RulesText
		obj.ImageURL = info.ImageURL
	}

	return obj, nil
}

func boardZone(board catalog.Board) state.Zone {
	switch board {
	case catalog.BoardCommander:
		return state.ZoneCommand
	case catalog.BoardSide:
		return state.ZoneSideboard
	default:
		return state.ZoneLibrary
	}
}
