package state

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Checksum computes a deterministic SHA-256 digest of the snapshot,
// independent of map iteration order. Chat timestamps are excluded so two
// logically identical snapshots hash identically. Used to guard against
// divergent state across clone/persist round trips.
func (gs *GameState) Checksum() string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("STATE:%d|%d\n", gs.Version, gs.InitialLife))

	for _, seat := range gs.Seats() {
		p := gs.Players[seat]
		buf.WriteString(fmt.Sprintf("PLAYER:%d|%s|%s|%d|%t\n",
			p.Seat, p.UserID, p.Name, p.Life, p.OpeningHandKept))
		writeIntMap(&buf, "  COUNTER", p.Counters)
		if len(p.CommanderDamage) > 0 {
			seats := make([]int, 0, len(p.CommanderDamage))
			for s := range p.CommanderDamage {
				seats = append(seats, s)
			}
			sort.Ints(seats)
			for _, s := range seats {
				buf.WriteString(fmt.Sprintf("  CMDDMG:%d=%d\n", s, p.CommanderDamage[s]))
			}
		}
	}

	ids := make([]string, 0, len(gs.Objects))
	for id := range gs.Objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		o := gs.Objects[id]
		buf.WriteString(fmt.Sprintf("OBJECT:%s|%s|%s|%d|%d|%s|%s|%t|%s\n",
			o.ID, o.CardRef, o.Name, o.OwnerSeat, o.ControllerSeat,
			o.Zone, o.FaceState, o.Tapped, o.TradeOriginZone))
		writeIntMap(&buf, "  COUNTER", o.Counters)
		writeAttachment(&buf, "  EQUIP", o.Equip)
		writeAttachment(&buf, "  ENCHANT", o.Enchant)
	}

	seats := make([]int, 0, len(gs.ZoneIndex))
	for seat := range gs.ZoneIndex {
		seats = append(seats, seat)
	}
	sort.Ints(seats)
	for _, seat := range seats {
		for _, zone := range Zones {
			list := gs.ZoneIndex[seat][zone]
			if len(list) == 0 {
				continue
			}
			buf.WriteString(fmt.Sprintf("ZONE:%d|%s:%s\n", seat, zone, strings.Join(list, ",")))
		}
	}

	for _, entry := range gs.Chat {
		buf.WriteString(fmt.Sprintf("CHAT:%s|%s\n", entry.Author, entry.Text))
	}

	if gs.Trade != nil {
		buf.WriteString(fmt.Sprintf("TRADE:%d|%d|%t|%t|%t|%t\n",
			gs.Trade.InitiatorSeat, gs.Trade.TargetSeat,
			gs.Trade.InitiatorLocked, gs.Trade.TargetLocked,
			gs.Trade.InitiatorConfirmed, gs.Trade.TargetConfirmed))
	}
	if gs.Reveal != nil {
		buf.WriteString(fmt.Sprintf("REVEAL:%s|%d|%t|%v|%s\n",
			gs.Reveal.Kind, gs.Reveal.SourceSeat, gs.Reveal.All,
			gs.Reveal.TargetSeats, strings.Join(gs.Reveal.RevealedIDs, ",")))
		writeBoolMap(&buf, "  HIGHLIGHT", gs.Reveal.Highlighted)
	}
	for _, arrow := range gs.Arrows {
		buf.WriteString(fmt.Sprintf("ARROW:%s|%s|%s|%d\n", arrow.ID, arrow.From, arrow.To, arrow.CreatorSeat))
	}

	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

func writeIntMap(buf *bytes.Buffer, prefix string, m map[string]int) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteString(fmt.Sprintf("%s:%s=%d\n", prefix, k, m[k]))
	}
}

func writeBoolMap(buf *bytes.Buffer, prefix string, m map[string]bool) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteString(fmt.Sprintf("%s:%s=%t\n", prefix, k, m[k]))
	}
}

func writeAttachment(buf *bytes.Buffer, prefix string, a *Attachment) {
	if a == nil {
		return
	}
	buf.WriteString(fmt.Sprintf("%s:%s|%d|%s|%d\n", prefix, a.To, a.OriginSeat, a.OriginZone, a.OriginIndex))
}
