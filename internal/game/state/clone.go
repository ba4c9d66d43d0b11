package state

import "encoding/json"

// Clone returns a deep copy of the snapshot. The reducer always works on a
// clone so a previously broadcast snapshot is never mutated underneath a
// reader still holding it.
func (gs *GameState) Clone() *GameState {
	out := &GameState{
		Version:     gs.Version,
		InitialLife: gs.InitialLife,
		Players:     make(map[int]*PlayerState, len(gs.Players)),
		Objects:     make(map[string]*GameObject, len(gs.Objects)),
		ZoneIndex:   make(map[int]map[Zone][]string, len(gs.ZoneIndex)),
		Chat:        make([]ChatEntry, len(gs.Chat)),
	}

	for seat, p := range gs.Players {
		out.Players[seat] = p.clone()
	}
	for id, obj := range gs.Objects {
		out.Objects[id] = obj.clone()
	}
	for seat, zones := range gs.ZoneIndex {
		zc := make(map[Zone][]string, len(zones))
		for zone, list := range zones {
			zc[zone] = append([]string{}, list...)
		}
		out.ZoneIndex[seat] = zc
	}
	if gs.BattlefieldLayout != nil {
		out.BattlefieldLayout = make(map[int]json.RawMessage, len(gs.BattlefieldLayout))
		for seat, raw := range gs.BattlefieldLayout {
			out.BattlefieldLayout[seat] = append(json.RawMessage{}, raw...)
		}
	}
	copy(out.Chat, gs.Chat)

	if gs.Trade != nil {
		trade := *gs.Trade
		out.Trade = &trade
	}
	if gs.Reveal != nil {
		reveal := *gs.Reveal
		reveal.TargetSeats = append([]int{}, gs.Reveal.TargetSeats...)
		if gs.Reveal.Highlighted != nil {
			reveal.Highlighted = make(map[string]bool, len(gs.Reveal.Highlighted))
			for id, v := range gs.Reveal.Highlighted {
				reveal.Highlighted[id] = v
			}
		}
		reveal.RevealedIDs = append([]string{}, gs.Reveal.RevealedIDs...)
		out.Reveal = &reveal
	}
	if gs.Arrows != nil {
		out.Arrows = append([]Arrow{}, gs.Arrows...)
	}

	return out
}

func (p *PlayerState) clone() *PlayerState {
	out := *p
	if p.Counters != nil {
		out.Counters = make(map[string]int, len(p.Counters))
		for k, v := range p.Counters {
			out.Counters[k] = v
		}
	}
	if p.CommanderDamage != nil {
		out.CommanderDamage = make(map[int]int, len(p.CommanderDamage))
		for k, v := range p.CommanderDamage {
			out.CommanderDamage[k] = v
		}
	}
	return &out
}

func (o *GameObject) clone() *GameObject {
	out := *o
	if o.Counters != nil {
		out.Counters = make(map[string]int, len(o.Counters))
		for k, v := range o.Counters {
			out.Counters[k] = v
		}
	}
	if o.Equip != nil {
		equip := *o.Equip
		out.Equip = &equip
	}
	if o.Enchant != nil {
		enchant := *o.Enchant
		out.Enchant = &enchant
	}
	return &out
}
