package reduce

import (
	"fmt"

	"github.com/untapfree/untap-server-go/internal/game/actions"
	"github.com/untapfree/untap-server-go/internal/game/state"
)

// drawCards moves up to n ids from the front of a seat's library to the
// back of its hand, updating each object's zone. Returns how many actually
// moved.
func drawCards(gs *state.GameState, seat, n int) int {
	if n < 0 {
		n = 0
	}
	if lib := gs.ZoneList(seat, state.ZoneLibrary); n > len(lib) {
		n = len(lib)
	}
	for i := 0; i < n; i++ {
		id := gs.ZoneList(seat, state.ZoneLibrary)[0]
		gs.RemoveFromZone(id)
		obj := gs.Object(id)
		obj.Zone = state.ZoneHand
		gs.AppendToZone(seat, state.ZoneHand, id)
	}
	return n
}

func applyDraw(gs *state.GameState, actor *state.PlayerState, p *actions.Draw) {
	if p.Seat != actor.Seat || p.N < 1 {
		return
	}
	drawn := drawCards(gs, actor.Seat, p.N)
	if drawn == 0 {
		return
	}
	gs.AppendChat(actor.Name, fmt.Sprintf("%s drew %s.", actor.Name, plural(drawn, "card")))
}

func applyKeepHand(gs *state.GameState, actor *state.PlayerState, p *actions.KeepHand) {
	if p.Seat != actor.Seat || actor.OpeningHandKept {
		return
	}
	actor.OpeningHandKept = true
	gs.AppendChat(actor.Name, fmt.Sprintf("%s kept their opening hand.", actor.Name))
}

func applyMulligan(gs *state.GameState, actor *state.PlayerState, p *actions.Mulligan) {
	if p.Seat != actor.Seat || actor.OpeningHandKept {
		return
	}

	hand := append([]string{}, gs.ZoneList(actor.Seat, state.ZoneHand)...)
	for _, id := range hand {
		gs.RemoveFromZone(id)
		obj := gs.Object(id)
		obj.Zone = state.ZoneLibrary
		gs.AppendToZone(actor.Seat, state.ZoneLibrary, id)
	}

	lib := gs.ZoneList(actor.Seat, state.ZoneLibrary)
	state.ShuffleIDs(lib)
	gs.SetZoneList(actor.Seat, state.ZoneLibrary, lib)

	n := p.N
	if n < 1 {
		n = 1
	}
	if n > 7 {
		n = 7
	}
	drawCards(gs, actor.Seat, n)

	gs.AppendChat(actor.Name, fmt.Sprintf("%s mulliganed to %s.", actor.Name, plural(n, "card")))
}

func applyShuffle(gs *state.GameState, actor *state.PlayerState, p *actions.Shuffle) {
	if p.Seat != actor.Seat {
		return
	}
	lib := gs.ZoneList(actor.Seat, state.ZoneLibrary)
	state.ShuffleIDs(lib)
	gs.SetZoneList(actor.Seat, state.ZoneLibrary, lib)
	gs.AppendChat(actor.Name, fmt.Sprintf("%s shuffled their library.", actor.Name))
}

// untapBattlefield clears tapped on every object in the seat's battlefield
// list. Returns how many were tapped.
func untapBattlefield(gs *state.GameState, seat int) int {
	untapped := 0
	for _, id := range gs.ZoneList(seat, state.ZoneBattlefield) {
		obj := gs.Object(id)
		if obj != nil && obj.Tapped {
			obj.Tapped = false
			untapped++
		}
	}
	return untapped
}

func applyUntapAll(gs *state.GameState, actor *state.PlayerState, p *actions.UntapAll) {
	if p.Seat != actor.Seat {
		return
	}
	untapBattlefield(gs, actor.Seat)
	gs.AppendChat(actor.Name, fmt.Sprintf("%s untapped all their permanents.", actor.Name))
}

// applyStartTurn is the UNTAP_ALL + DRAW 1 composite, logged as a single
// event.
func applyStartTurn(gs *state.GameState, actor *state.PlayerState, p *actions.StartTurn) {
	if p.Seat != actor.Seat {
		return
	}
	untapBattlefield(gs, actor.Seat)
	drawCards(gs, actor.Seat, 1)
	gs.AppendChat(actor.Name, fmt.Sprintf("%s untapped and drew for turn.", actor.Name))
}
