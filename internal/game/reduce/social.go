package reduce

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/untapfree/untap-server-go/internal/game/actions"
	"github.com/untapfree/untap-server-go/internal/game/state"
)

// The peek actions change nothing beyond the log. Their whole purpose is to
// warn the table that a player is looking at hidden information.

func applyPeekLibrary(gs *state.GameState, actor *state.PlayerState, p *actions.PeekLibrary) {
	if gs.Players[p.Seat] == nil {
		return
	}
	whose := "their"
	if p.Seat != actor.Seat {
		whose = seatName(gs, p.Seat) + "'s"
	}
	gs.AppendChat(actor.Name, fmt.Sprintf("%s is looking at %s library.", actor.Name, whose))
}

func applyPeekZone(gs *state.GameState, actor *state.PlayerState, p *actions.PeekZone) {
	if gs.Players[p.Seat] == nil || !p.Zone.Valid() {
		return
	}
	whose := "their"
	if p.Seat != actor.Seat {
		whose = seatName(gs, p.Seat) + "'s"
	}
	gs.AppendChat(actor.Name, fmt.Sprintf("%s is looking at %s %s.", actor.Name, whose, p.Zone))
}

func applyRollDice(gs *state.GameState, actor *state.PlayerState, p *actions.RollDice) {
	if p.Sides < 1 {
		return
	}
	gs.AppendChat(actor.Name, fmt.Sprintf("%s rolled a %d on a d%d.", actor.Name, p.Result, p.Sides))
}

// Arrows are visual annotations; they never get chat lines.

func applyCreateArrow(gs *state.GameState, actor *state.PlayerState, p *actions.CreateArrow) {
	if gs.Object(p.From) == nil || gs.Object(p.To) == nil || p.From == p.To {
		return
	}
	gs.Arrows = append(gs.Arrows, state.Arrow{
		ID:          uuid.NewString(),
		From:        p.From,
		To:          p.To,
		CreatorSeat: actor.Seat,
	})
}

func applyDeleteArrow(gs *state.GameState, actor *state.PlayerState, p *actions.DeleteArrow) {
	for i, arrow := range gs.Arrows {
		if arrow.ID == p.ArrowID {
			if arrow.CreatorSeat != actor.Seat {
				return
			}
			gs.Arrows = append(gs.Arrows[:i], gs.Arrows[i+1:]...)
			return
		}
	}
}

func applyClearArrows(gs *state.GameState, actor *state.PlayerState, p *actions.ClearArrows) {
	if p.Seat != actor.Seat {
		return
	}
	kept := gs.Arrows[:0]
	for _, arrow := range gs.Arrows {
		if arrow.CreatorSeat != actor.Seat {
			kept = append(kept, arrow)
		}
	}
	gs.Arrows = kept
}
