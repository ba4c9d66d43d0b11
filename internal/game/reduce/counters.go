package reduce

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/untapfree/untap-server-go/internal/game/actions"
	"github.com/untapfree/untap-server-go/internal/game/state"
)

func applyLifeSet(gs *state.GameState, actor *state.PlayerState, p *actions.LifeSet) {
	if p.Seat != actor.Seat {
		return
	}
	if p.Value == nil && p.Delta == nil {
		return
	}
	if p.Value != nil {
		actor.Life = *p.Value
	}
	if p.Delta != nil {
		actor.Life += *p.Delta
	}
	gs.AppendChat(actor.Name, fmt.Sprintf("%s's life total is now %d.", actor.Name, actor.Life))
}

const maxTokensPerAction = 20

func applyCreateTokens(gs *state.GameState, actor *state.PlayerState, p *actions.CreateTokens) {
	if p.Seat != actor.Seat {
		return
	}
	zone := p.Zone
	if zone == "" {
		zone = state.ZoneBattlefield
	}
	if !zone.Valid() || zone == state.ZoneTradeOffer {
		return
	}
	qty := p.Quantity
	if qty < 1 {
		qty = 1
	}
	if qty > maxTokensPerAction {
		qty = maxTokensPerAction
	}

	for i := 0; i < qty; i++ {
		obj := &state.GameObject{
			ID:             uuid.NewString(),
			Name:           p.Token.Name,
			TypeLine:       p.Token.TypeLine,
			Power:          p.Token.Power,
			Toughness:      p.Token.Toughness,
			ImageURL:       p.Token.ImageURL,
			OwnerSeat:      actor.Seat,
			ControllerSeat: actor.Seat,
			Zone:           zone,
			FaceState:      state.FaceNormal,
		}
		gs.Objects[obj.ID] = obj
		gs.AppendToZone(actor.Seat, zone, obj.ID)
	}

	name := p.Token.Name
	if name == "" {
		name = "token"
	}
	gs.AppendChat(actor.Name, fmt.Sprintf("%s created %s.", actor.Name, plural(qty, name)))
}

// applyPlayerCounter adjusts a player-level counter, pruning the entry when
// it falls to zero or below. The pruning applies to every counter type,
// commander tax included; see DESIGN.md.
func applyPlayerCounter(gs *state.GameState, actor *state.PlayerState, p *actions.PlayerCounter) {
	if p.Seat != actor.Seat || p.Type == "" || p.Delta == 0 {
		return
	}
	if actor.Counters == nil {
		actor.Counters = make(map[string]int)
	}
	value := actor.Counters[p.Type] + p.Delta
	if value <= 0 {
		delete(actor.Counters, p.Type)
		value = 0
	} else {
		actor.Counters[p.Type] = value
	}
	gs.AppendChat(actor.Name, fmt.Sprintf("%s set %s counters to %d.", actor.Name, p.Type, value))
}

// applyCommanderDamage records cumulative damage from a source seat,
// floored at zero, and mirrors the same delta onto the receiving seat's
// life. A negative delta (a misclick correction) lowers the record and
// gives the life back.
func applyCommanderDamage(gs *state.GameState, actor *state.PlayerState, p *actions.CommanderDamage) {
	if p.Seat != actor.Seat || p.Delta == 0 {
		return
	}
	if gs.Players[p.SourceSeat] == nil {
		return
	}
	if actor.CommanderDamage == nil {
		actor.CommanderDamage = make(map[int]int)
	}
	total := actor.CommanderDamage[p.SourceSeat] + p.Delta
	if total < 0 {
		total = 0
	}
	if total == 0 {
		delete(actor.CommanderDamage, p.SourceSeat)
	} else {
		actor.CommanderDamage[p.SourceSeat] = total
	}
	actor.Life -= p.Delta

	gs.AppendChat(actor.Name, fmt.Sprintf("%s has taken %d commander damage from %s.",
		actor.Name, total, seatName(gs, p.SourceSeat)))
}

// applyCounters adjusts an object-level counter. The entry is removed at
// exactly zero; a negative total is kept.
func applyCounters(gs *state.GameState, actor *state.PlayerState, p *actions.Counters) {
	obj := gs.Object(p.ObjectID)
	if obj == nil || obj.ControllerSeat != actor.Seat {
		return
	}
	if p.Type == "" || p.Delta == 0 {
		return
	}
	if obj.Counters == nil {
		obj.Counters = make(map[string]int)
	}
	value := obj.Counters[p.Type] + p.Delta
	if value == 0 {
		delete(obj.Counters, p.Type)
	} else {
		obj.Counters[p.Type] = value
	}
	gs.AppendChat(actor.Name, fmt.Sprintf("%s set %s counters on %s to %d.",
		actor.Name, p.Type, displayName(obj), value))
}
