package reduce

import (
	"fmt"

	"github.com/untapfree/untap-server-go/internal/game/actions"
	"github.com/untapfree/untap-server-go/internal/game/state"
)

func applyTradeInit(gs *state.GameState, actor *state.PlayerState, p *actions.TradeInit) {
	if gs.Trade != nil {
		return
	}
	if p.TargetSeat == actor.Seat || gs.Players[p.TargetSeat] == nil {
		return
	}
	gs.Trade = &state.TradeSession{
		InitiatorSeat: actor.Seat,
		TargetSeat:    p.TargetSeat,
	}
	gs.AppendChat(actor.Name, fmt.Sprintf("%s started a trade with %s.",
		actor.Name, seatName(gs, p.TargetSeat)))
}

// applyTradeCancel returns every staged card to its recorded origin zone
// (hand when unknown) and deletes the session.
func applyTradeCancel(gs *state.GameState, actor *state.PlayerState) {
	trade := gs.Trade
	if trade == nil || !trade.Party(actor.Seat) {
		return
	}
	for _, seat := range []int{trade.InitiatorSeat, trade.TargetSeat} {
		staged := append([]string{}, gs.ZoneList(seat, state.ZoneTradeOffer)...)
		for _, id := range staged {
			obj := gs.Object(id)
			origin := obj.TradeOriginZone
			if origin == "" || !origin.Valid() || origin == state.ZoneTradeOffer {
				origin = state.ZoneHand
			}
			gs.RemoveFromZone(id)
			obj.Zone = origin
			obj.TradeOriginZone = ""
			gs.AppendToZone(seat, origin, id)
		}
	}
	gs.Trade = nil
	gs.AppendChat(actor.Name, fmt.Sprintf("%s cancelled the trade.", actor.Name))
}

func applyTradeLock(gs *state.GameState, actor *state.PlayerState) {
	trade := gs.Trade
	if trade == nil || !trade.Party(actor.Seat) {
		return
	}
	if actor.Seat == trade.InitiatorSeat {
		if trade.InitiatorLocked {
			return
		}
		trade.InitiatorLocked = true
	} else {
		if trade.TargetLocked {
			return
		}
		trade.TargetLocked = true
	}
	gs.AppendChat(actor.Name, fmt.Sprintf("%s locked in their trade offer.", actor.Name))
}

// applyTradeConfirm records a confirmation; once both sides have locked and
// confirmed, the staged cards swap into the opposite party's hand and the
// session is deleted. Confirming before both locks is a silent no-op with
// no session mutation.
func applyTradeConfirm(gs *state.GameState, actor *state.PlayerState) {
	trade := gs.Trade
	if trade == nil || !trade.Party(actor.Seat) {
		return
	}
	if !trade.InitiatorLocked || !trade.TargetLocked {
		return
	}
	if actor.Seat == trade.InitiatorSeat {
		if trade.InitiatorConfirmed {
			return
		}
		trade.InitiatorConfirmed = true
	} else {
		if trade.TargetConfirmed {
			return
		}
		trade.TargetConfirmed = true
	}

	if !trade.InitiatorConfirmed || !trade.TargetConfirmed {
		gs.AppendChat(actor.Name, fmt.Sprintf("%s confirmed the trade.", actor.Name))
		return
	}

	deliverStagedCards(gs, trade.InitiatorSeat, trade.TargetSeat)
	deliverStagedCards(gs, trade.TargetSeat, trade.InitiatorSeat)
	gs.Trade = nil

	gs.AppendChat(actor.Name, fmt.Sprintf("%s and %s completed a trade.",
		seatName(gs, trade.InitiatorSeat), seatName(gs, trade.TargetSeat)))
}

// deliverStagedCards hands everything in from's trade offer to to's hand,
// reassigning control.
func deliverStagedCards(gs *state.GameState, from, to int) {
	staged := append([]string{}, gs.ZoneList(from, state.ZoneTradeOffer)...)
	for _, id := range staged {
		obj := gs.Object(id)
		gs.RemoveFromZone(id)
		obj.Zone = state.ZoneHand
		obj.ControllerSeat = to
		obj.TradeOriginZone = ""
		gs.AppendToZone(to, state.ZoneHand, id)
	}
}

func applyRevealStart(gs *state.GameState, actor *state.PlayerState, p *actions.RevealStart) {
	if gs.Reveal != nil {
		return
	}
	targets, all := normalizeRevealTargets(gs, actor.Seat, p.Targets, p.All)
	if !all && len(targets) == 0 {
		return
	}
	gs.Reveal = &state.RevealSession{
		Kind:        state.RevealHand,
		SourceSeat:  actor.Seat,
		All:         all,
		TargetSeats: targets,
		Highlighted: make(map[string]bool),
	}
	gs.AppendChat(actor.Name, fmt.Sprintf("%s revealed their hand to %s.",
		actor.Name, revealAudience(gs, targets, all)))
}

func applyRevealLibraryStart(gs *state.GameState, actor *state.PlayerState, p *actions.RevealLibraryStart) {
	if gs.Reveal != nil {
		return
	}
	targets, all := normalizeRevealTargets(gs, actor.Seat, p.Targets, p.All)
	if !all && len(targets) == 0 {
		return
	}
	gs.Reveal = &state.RevealSession{
		Kind:        state.RevealLibrary,
		SourceSeat:  actor.Seat,
		All:         all,
		TargetSeats: targets,
		RevealedIDs: append([]string{}, gs.ZoneList(actor.Seat, state.ZoneLibrary)...),
	}
	gs.AppendChat(actor.Name, fmt.Sprintf("%s revealed their library to %s.",
		actor.Name, revealAudience(gs, targets, all)))
}

func applyRevealClose(gs *state.GameState, actor *state.PlayerState) {
	if gs.Reveal == nil || gs.Reveal.SourceSeat != actor.Seat {
		return
	}
	gs.Reveal = nil
	gs.AppendChat(actor.Name, fmt.Sprintf("%s ended the reveal.", actor.Name))
}

// applyRevealToggleCard toggles a highlight on a card in the source's hand.
// Allowed for the source or any included target seat; hand reveals only.
// Highlights are cosmetic, so no chat line.
func applyRevealToggleCard(gs *state.GameState, actor *state.PlayerState, p *actions.RevealToggleCard) {
	reveal := gs.Reveal
	if reveal == nil || reveal.Kind != state.RevealHand {
		return
	}
	if actor.Seat != reveal.SourceSeat && !reveal.Includes(actor.Seat) {
		return
	}
	inHand := false
	for _, id := range gs.ZoneList(reveal.SourceSeat, state.ZoneHand) {
		if id == p.ObjectID {
			inHand = true
			break
		}
	}
	if !inHand {
		return
	}
	if reveal.Highlighted == nil {
		reveal.Highlighted = make(map[string]bool)
	}
	if reveal.Highlighted[p.ObjectID] {
		delete(reveal.Highlighted, p.ObjectID)
	} else {
		reveal.Highlighted[p.ObjectID] = true
	}
}

// normalizeRevealTargets filters the requested target seats down to seated
// players other than the source. An explicit all flag wins over the list.
func normalizeRevealTargets(gs *state.GameState, source int, requested []int, all bool) ([]int, bool) {
	if all {
		return nil, true
	}
	targets := make([]int, 0, len(requested))
	for _, seat := range requested {
		if seat == source || gs.Players[seat] == nil {
			continue
		}
		targets = append(targets, seat)
	}
	return targets, false
}

func revealAudience(gs *state.GameState, targets []int, all bool) string {
	if all {
		return "everyone"
	}
	names := ""
	for i, seat := range targets {
		if i > 0 {
			names += ", "
		}
		names += seatName(gs, seat)
	}
	return names
}
