package reduce

import (
	"fmt"

	"github.com/untapfree/untap-server-go/internal/game/actions"
	"github.com/untapfree/untap-server-go/internal/game/state"
)

// applyMove is the general zone-transfer primitive. Relocation detaches the
// object, and when it leaves the battlefield it force-detaches everything
// attached to it. Crossing the trade-offer boundary resets the active
// trade's agreement flags.
func applyMove(gs *state.GameState, actor *state.PlayerState, p *actions.Move) {
	obj := gs.Object(p.ObjectID)
	if obj == nil || obj.ControllerSeat != actor.Seat {
		return
	}
	if !p.ToZone.Valid() {
		return
	}
	// Reject a move computed against a stale view of the object.
	if p.FromZone != "" && p.FromZone != obj.Zone {
		return
	}

	toSeat := obj.ControllerSeat
	if p.ToSeat != nil {
		if gs.Players[*p.ToSeat] == nil {
			return
		}
		toSeat = *p.ToSeat
	}

	if p.ToZone == state.ZoneTradeOffer {
		// Cards may only be staged while a trade is open and only by one
		// of its parties.
		if gs.Trade == nil || !gs.Trade.Party(actor.Seat) {
			return
		}
	}

	fromZone := obj.Zone
	gs.RemoveFromZone(obj.ID)

	// Relocation breaks the object's own attachment links.
	obj.Equip = nil
	obj.Enchant = nil

	// Leaving the battlefield strands anything attached to this object.
	if fromZone == state.ZoneBattlefield && p.ToZone != state.ZoneBattlefield {
		forceDetachFrom(gs, obj.ID)
	}

	if fromZone == state.ZoneTradeOffer || p.ToZone == state.ZoneTradeOffer {
		if gs.Trade != nil {
			gs.Trade.ResetFlags()
		}
	}
	if p.ToZone == state.ZoneTradeOffer {
		obj.TradeOriginZone = fromZone
	} else {
		obj.TradeOriginZone = ""
	}

	if p.FaceState != nil && (*p.FaceState == state.FaceNormal || *p.FaceState == state.FaceDown) {
		obj.FaceState = *p.FaceState
	}

	obj.Zone = p.ToZone
	obj.ControllerSeat = toSeat

	switch {
	case p.Index != nil:
		gs.InsertIntoZone(toSeat, p.ToZone, obj.ID, *p.Index)
	case p.Position == "top" && p.ToZone == state.ZoneLibrary:
		gs.PrependToZone(toSeat, p.ToZone, obj.ID)
	default:
		gs.AppendToZone(toSeat, p.ToZone, obj.ID)
	}

	pruneLibraryReveal(gs, obj.ID, fromZone)

	gs.AppendChat(actor.Name, fmt.Sprintf("%s moved %s from %s to %s.",
		actor.Name, displayName(obj), fromZone, p.ToZone))
}

// forceDetachFrom clears the attach links of every object attached to
// targetID. The detached objects stay where they are; only the links go.
func forceDetachFrom(gs *state.GameState, targetID string) {
	for _, other := range gs.Objects {
		if other.Equip != nil && other.Equip.To == targetID {
			other.Equip = nil
		}
		if other.Enchant != nil && other.Enchant.To == targetID {
			other.Enchant = nil
		}
	}
}

// pruneLibraryReveal drops an id from the frozen reveal list once the card
// has left the revealing seat's library.
func pruneLibraryReveal(gs *state.GameState, id string, fromZone state.Zone) {
	if gs.Reveal == nil || gs.Reveal.Kind != state.RevealLibrary || fromZone != state.ZoneLibrary {
		return
	}
	for i, revealed := range gs.Reveal.RevealedIDs {
		if revealed == id {
			gs.Reveal.RevealedIDs = append(gs.Reveal.RevealedIDs[:i], gs.Reveal.RevealedIDs[i+1:]...)
			return
		}
	}
}

func applyToggleFace(gs *state.GameState, actor *state.PlayerState, p *actions.ToggleFace) {
	obj := gs.Object(p.ObjectID)
	if obj == nil || obj.ControllerSeat != actor.Seat {
		return
	}
	if obj.FaceState == state.FaceDown {
		obj.FaceState = state.FaceNormal
		gs.AppendChat(actor.Name, fmt.Sprintf("%s turned %s face up.", actor.Name, displayName(obj)))
	} else {
		name := displayName(obj)
		obj.FaceState = state.FaceDown
		gs.AppendChat(actor.Name, fmt.Sprintf("%s turned %s face down.", actor.Name, name))
	}
}

func applyTap(gs *state.GameState, actor *state.PlayerState, p *actions.Tap) {
	obj := gs.Object(p.ObjectID)
	if obj == nil || obj.ControllerSeat != actor.Seat {
		return
	}
	if p.Value != nil {
		if obj.Tapped == *p.Value {
			return
		}
		obj.Tapped = *p.Value
	} else {
		obj.Tapped = !obj.Tapped
	}
	verb := "untapped"
	if obj.Tapped {
		verb = "tapped"
	}
	gs.AppendChat(actor.Name, fmt.Sprintf("%s %s %s.", actor.Name, verb, displayName(obj)))
}

// applyAttach handles EQUIP_ATTACH and ENCHANT_ATTACH. The attaching object
// records its current (seat, zone, index) as the origin, moves next to the
// target on the battlefield, and carries the link.
func applyAttach(gs *state.GameState, actor *state.PlayerState, kind actions.Kind, p *actions.Attach) {
	src := gs.Object(p.SourceID)
	target := gs.Object(p.TargetID)
	if src == nil || target == nil || src.ID == target.ID {
		return
	}
	if src.ControllerSeat != actor.Seat || target.ControllerSeat != actor.Seat {
		return
	}
	if target.Zone != state.ZoneBattlefield {
		return
	}
	// A staged card leaves the trade offer only through MOVE, which resets
	// the agreement flags; attach must not smuggle it out past a lock.
	if src.Zone == state.ZoneTradeOffer {
		return
	}

	originSeat, originZone, originIndex, ok := gs.Locate(src.ID)
	if !ok {
		return
	}

	// Any prior link is cleared before the new one is set.
	src.Equip = nil
	src.Enchant = nil

	gs.RemoveFromZone(src.ID)
	src.Zone = state.ZoneBattlefield
	src.ControllerSeat = target.ControllerSeat
	gs.AppendToZone(target.ControllerSeat, state.ZoneBattlefield, src.ID)

	link := &state.Attachment{
		To:          target.ID,
		OriginSeat:  originSeat,
		OriginZone:  originZone,
		OriginIndex: originIndex,
	}
	if kind == actions.KindEquipAttach {
		src.Equip = link
	} else {
		src.Enchant = link
	}

	gs.AppendChat(actor.Name, fmt.Sprintf("%s attached %s to %s.",
		actor.Name, displayName(src), displayName(target)))
}

// applyDetach handles EQUIP_DETACH and ENCHANT_DETACH, restoring the object
// to its recorded origin position. The index is clamped if the origin list
// has since shrunk.
func applyDetach(gs *state.GameState, actor *state.PlayerState, kind actions.Kind, p *actions.Detach) {
	src := gs.Object(p.SourceID)
	if src == nil || src.ControllerSeat != actor.Seat {
		return
	}

	var link *state.Attachment
	if kind == actions.KindEquipDetach {
		link = src.Equip
	} else {
		link = src.Enchant
	}
	if link == nil {
		return
	}

	originZone := link.OriginZone
	originIndex := link.OriginIndex
	// Never restore into the trade offer; that would bypass the agreement
	// flags. Fall back to the hand, as a cancelled trade does.
	if originZone == state.ZoneTradeOffer {
		originZone = state.ZoneHand
		originIndex = -1
	}

	gs.RemoveFromZone(src.ID)
	src.Zone = originZone
	src.ControllerSeat = link.OriginSeat
	gs.InsertIntoZone(link.OriginSeat, originZone, src.ID, originIndex)

	if kind == actions.KindEquipDetach {
		src.Equip = nil
	} else {
		src.Enchant = nil
	}

	gs.AppendChat(actor.Name, fmt.Sprintf("%s detached %s.", actor.Name, displayName(src)))
}
