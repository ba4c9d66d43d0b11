package state

import (
	"encoding/json"
	"time"
)

// Zone names a logical pile of ordered objects belonging to a seat.
type Zone string

const (
	ZoneLibrary     Zone = "LIBRARY"
	ZoneHand        Zone = "HAND"
	ZoneBattlefield Zone = "BATTLEFIELD"
	ZoneGraveyard   Zone = "GRAVEYARD"
	ZoneExile       Zone = "EXILE"
	ZoneCommand     Zone = "COMMAND"
	ZoneSideboard   Zone = "SIDEBOARD"
	ZoneTradeOffer  Zone = "TRADE_OFFER"
)

// Zones lists every zone in a stable order.
var Zones = []Zone{
	ZoneLibrary,
	ZoneHand,
	ZoneBattlefield,
	ZoneGraveyard,
	ZoneExile,
	ZoneCommand,
	ZoneSideboard,
	ZoneTradeOffer,
}

// Valid reports whether z is one of the known zones.
func (z Zone) Valid() bool {
	for _, known := range Zones {
		if z == known {
			return true
		}
	}
	return false
}

// FaceState is the visibility of an object's face.
type FaceState string

const (
	FaceNormal FaceState = "NORMAL"
	FaceDown   FaceState = "FACEDOWN"
)

// MaxSeats bounds the number of participants at one table.
const MaxSeats = 4

// Attachment records an attach link plus the origin position of the
// attaching object, captured at attach time so a detach can restore it.
type Attachment struct {
	To          string `json:"to"`
	OriginSeat  int    `json:"originSeat"`
	OriginZone  Zone   `json:"originZone"`
	OriginIndex int    `json:"originIndex"`
}

// GameObject is the authoritative record for a single card or token.
// CardRef points at the external catalog; an empty CardRef means the object
// was created ad hoc (a token) and the display fields below are all it has.
type GameObject struct {
	ID        string `json:"id"`
	CardRef   string `json:"cardRef,omitempty"`
	CustomRef string `json:"customRef,omitempty"`

	Name      string `json:"name,omitempty"`
	TypeLine  string `json:"typeLine,omitempty"`
	Power     string `json:"power,omitempty"`
	Toughness string `json:"toughness,omitempty"`
	ManaCost  string `json:"manaCost,omitempty"`
	RulesText string `json:"rulesText,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`

	OwnerSeat      int       `json:"owner_seat"`
	ControllerSeat int       `json:"controller_seat"`
	Zone           Zone      `json:"zone"`
	FaceState      FaceState `json:"face_state"`
	Tapped         bool      `json:"tapped"`

	Counters map[string]int `json:"counters,omitempty"`
	Note     string         `json:"note,omitempty"`

	Equip   *Attachment `json:"equip,omitempty"`
	Enchant *Attachment `json:"enchant,omitempty"`

	// TradeOriginZone is set while the object sits in TRADE_OFFER so a
	// cancelled trade can put it back where it came from.
	TradeOriginZone Zone `json:"trade_origin_zone,omitempty"`
}

// PlayerState is the per-seat slice of the snapshot.
type PlayerState struct {
	Seat      int    `json:"seat"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`

	Life            int            `json:"life"`
	Counters        map[string]int `json:"counters,omitempty"`
	CommanderDamage map[int]int    `json:"commanderDamageReceived,omitempty"`
	OpeningHandKept bool           `json:"openingHandKept"`
}

// ChatEntry is one append-only line of the table log.
type ChatEntry struct {
	At     time.Time `json:"at"`
	Author string    `json:"author"`
	Text   string    `json:"text"`
}

// TradeSession is the embedded two-party exchange protocol. Both sides must
// lock before either may confirm; both confirms execute the swap.
type TradeSession struct {
	InitiatorSeat      int  `json:"initiatorSeat"`
	TargetSeat         int  `json:"targetSeat"`
	InitiatorLocked    bool `json:"initiatorLocked"`
	TargetLocked       bool `json:"targetLocked"`
	InitiatorConfirmed bool `json:"initiatorConfirmed"`
	TargetConfirmed    bool `json:"targetConfirmed"`
}

// ResetFlags clears all lock and confirm flags. Any card entering or
// leaving the trade offer forces both sides to re-agree.
func (t *TradeSession) ResetFlags() {
	t.InitiatorLocked = false
	t.TargetLocked = false
	t.InitiatorConfirmed = false
	t.TargetConfirmed = false
}

// Party reports whether seat is one of the two trade parties.
func (t *TradeSession) Party(seat int) bool {
	return seat == t.InitiatorSeat || seat == t.TargetSeat
}

// RevealKind distinguishes a hand reveal from a library reveal.
type RevealKind string

const (
	RevealHand    RevealKind = "HAND"
	RevealLibrary RevealKind = "LIBRARY"
)

// RevealSession is the embedded broadcast disclosure protocol. For library
// reveals RevealedIDs is frozen at start time and only ever shrinks, when a
// revealed card leaves the library.
type RevealSession struct {
	Kind        RevealKind      `json:"kind"`
	SourceSeat  int             `json:"sourceSeat"`
	All         bool            `json:"all"`
	TargetSeats []int           `json:"targetSeats,omitempty"`
	Highlighted map[string]bool `json:"highlighted,omitempty"`
	RevealedIDs []string        `json:"revealedIds,omitempty"`
}

// Includes reports whether seat is covered by the reveal's target set.
func (r *RevealSession) Includes(seat int) bool {
	if r.All {
		return true
	}
	for _, s := range r.TargetSeats {
		if s == seat {
			return true
		}
	}
	return false
}

// Arrow is a purely annotative edge between two objects, owned by the seat
// that drew it.
type Arrow struct {
	ID          string `json:"id"`
	From        string `json:"from"`
	To          string `json:"to"`
	CreatorSeat int    `json:"creatorSeat"`
}

// GameState is the complete shared state of one match: the unit of
// persistence, versioning, and broadcast. It is treated as immutable once
// published; the reducer works on a deep clone.
type GameState struct {
	Version     int64 `json:"version"`
	InitialLife int   `json:"initialLife"`

	Players map[int]*PlayerState   `json:"players"`
	Objects map[string]*GameObject `json:"objects"`

	// ZoneIndex holds the explicit per-seat, per-zone ordering of object
	// ids. Membership here must always agree with the object's own
	// zone/controller fields.
	ZoneIndex map[int]map[Zone][]string `json:"zoneIndex"`

	BattlefieldLayout map[int]json.RawMessage `json:"battlefieldLayout,omitempty"`

	Chat []ChatEntry `json:"chat"`

	Trade  *TradeSession  `json:"trade,omitempty"`
	Reveal *RevealSession `json:"reveal,omitempty"`
	Arrows []Arrow        `json:"arrows,omitempty"`
}

// New returns an empty snapshot at version 0 with zone lists allocated for
// the given seats.
func New(initialLife int, seats []int) *GameState {
	gs := &GameState{
		Version:     0,
		InitialLife: initialLife,
		Players:     make(map[int]*PlayerState),
		Objects:     make(map[string]*GameObject),
		ZoneIndex:   make(map[int]map[Zone][]string),
		Chat:        []ChatEntry{},
	}
	for _, seat := range seats {
		gs.EnsureSeat(seat)
	}
	return gs
}

// EnsureSeat allocates the zone lists for a seat if missing.
func (gs *GameState) EnsureSeat(seat int) {
	if _, ok := gs.ZoneIndex[seat]; ok {
		return
	}
	zones := make(map[Zone][]string, len(Zones))
	for _, z := range Zones {
		zones[z] = []string{}
	}
	gs.ZoneIndex[seat] = zones
}

// SeatOf resolves the seat bound to a user id. Returns 0, false when the
// user is not seated at this table.
func (gs *GameState) SeatOf(userID string) (int, bool) {
	for seat, p := range gs.Players {
		if p.UserID == userID {
			return seat, true
		}
	}
	return 0, false
}

// Player returns the player at seat, or nil.
func (gs *GameState) Player(seat int) *PlayerState {
	return gs.Players[seat]
}

// Object returns the object with the given id, or nil.
func (gs *GameState) Object(id string) *GameObject {
	return gs.Objects[id]
}

// AppendChat adds one attributed line to the table log.
func (gs *GameState) AppendChat(author, text string) {
	gs.Chat = append(gs.Chat, ChatEntry{At: time.Now().UTC(), Author: author, Text: text})
}

// Seats returns the seat numbers present in the snapshot in ascending order.
func (gs *GameState) Seats() []int {
	seats := make([]int, 0, len(gs.Players))
	for seat := range gs.Players {
		seats = append(seats, seat)
	}
	for i := 1; i < len(seats); i++ {
		for j := i; j > 0 && seats[j-1] > seats[j]; j-- {
			seats[j-1], seats[j] = seats[j], seats[j-1]
		}
	}
	return seats
}
