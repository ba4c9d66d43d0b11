package state

import "fmt"

// Locate finds the (seat, zone, index) position of an object id in the zone
// index. Returns ok=false when the id is in no list.
func (gs *GameState) Locate(id string) (seat int, zone Zone, index int, ok bool) {
	for s, zones := range gs.ZoneIndex {
		for z, list := range zones {
			for i, candidate := range list {
				if candidate == id {
					return s, z, i, true
				}
			}
		}
	}
	return 0, "", 0, false
}

// ZoneList returns the ordered id list for (seat, zone). The returned slice
// is the live list; callers that mutate must reassign via SetZoneList.
func (gs *GameState) ZoneList(seat int, zone Zone) []string {
	zones, ok := gs.ZoneIndex[seat]
	if !ok {
		return nil
	}
	return zones[zone]
}

// SetZoneList replaces the ordered id list for (seat, zone).
func (gs *GameState) SetZoneList(seat int, zone Zone, list []string) {
	gs.EnsureSeat(seat)
	gs.ZoneIndex[seat][zone] = list
}

// RemoveFromZone removes the id from whichever list currently holds it.
// Returns the position it was removed from, or ok=false if it was not
// indexed anywhere.
func (gs *GameState) RemoveFromZone(id string) (seat int, zone Zone, index int, ok bool) {
	seat, zone, index, ok = gs.Locate(id)
	if !ok {
		return 0, "", 0, false
	}
	list := gs.ZoneIndex[seat][zone]
	gs.ZoneIndex[seat][zone] = append(list[:index], list[index+1:]...)
	return seat, zone, index, true
}

// InsertIntoZone inserts the id into (seat, zone) at index, clamped to the
// list bounds. A negative index appends.
func (gs *GameState) InsertIntoZone(seat int, zone Zone, id string, index int) {
	gs.EnsureSeat(seat)
	list := gs.ZoneIndex[seat][zone]
	if index < 0 || index > len(list) {
		index = len(list)
	}
	list = append(list, "")
	copy(list[index+1:], list[index:])
	list[index] = id
	gs.ZoneIndex[seat][zone] = list
}

// PrependToZone inserts the id at the front of (seat, zone).
func (gs *GameState) PrependToZone(seat int, zone Zone, id string) {
	gs.InsertIntoZone(seat, zone, id, 0)
}

// AppendToZone inserts the id at the back of (seat, zone).
func (gs *GameState) AppendToZone(seat int, zone Zone, id string) {
	gs.InsertIntoZone(seat, zone, id, -1)
}

// CheckZoneIndex verifies the structural invariant between the zone index
// and object fields: every object id appears in exactly one list, and that
// list's seat and zone match the object's own controller and zone.
func (gs *GameState) CheckZoneIndex() error {
	seen := make(map[string]struct{}, len(gs.Objects))
	for seat, zones := range gs.ZoneIndex {
		for zone, list := range zones {
			for _, id := range list {
				if _, dup := seen[id]; dup {
					return fmt.Errorf("object %s indexed in more than one zone list", id)
				}
				seen[id] = struct{}{}
				obj := gs.Objects[id]
				if obj == nil {
					return fmt.Errorf("zone list (%d,%s) references unknown object %s", seat, zone, id)
				}
				if obj.ControllerSeat != seat || obj.Zone != zone {
					return fmt.Errorf("object %s indexed at (%d,%s) but carries (%d,%s)",
						id, seat, zone, obj.ControllerSeat, obj.Zone)
				}
			}
		}
	}
	for id := range gs.Objects {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("object %s missing from every zone list", id)
		}
	}
	return nil
}
