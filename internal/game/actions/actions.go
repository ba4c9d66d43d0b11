// Package actions defines the closed set of table mutations a client may
// submit. Each kind carries its own payload struct; the envelope arrives as
// JSON and is decoded into the matching type. A payload that fails to
// decode yields a nil-payload action, which the reducer treats as a no-op
// rather than an error, so one garbled client cannot halt the match.
package actions

import (
	"encoding/json"

	"github.com/untapfree/untap-server-go/internal/game/state"
)

// Kind discriminates the action union.
type Kind string

const (
	KindDraw            Kind = "DRAW"
	KindKeepHand        Kind = "KEEP_HAND"
	KindMulligan        Kind = "MULLIGAN"
	KindMove            Kind = "MOVE"
	KindToggleFace      Kind = "TOGGLE_FACE"
	KindTap             Kind = "TAP"
	KindEquipAttach     Kind = "EQUIP_ATTACH"
	KindEquipDetach     Kind = "EQUIP_DETACH"
	KindEnchantAttach   Kind = "ENCHANT_ATTACH"
	KindEnchantDetach   Kind = "ENCHANT_DETACH"
	KindShuffle         Kind = "SHUFFLE"
	KindLifeSet         Kind = "LIFE_SET"
	KindCreateTokens    Kind = "CREATE_TOKENS"
	KindPlayerCounter   Kind = "PLAYER_COUNTER"
	KindCommanderDamage Kind = "COMMANDER_DAMAGE"
	KindCounters        Kind = "COUNTERS"
	KindUntapAll        Kind = "UNTAP_ALL"
	KindStartTurn       Kind = "START_TURN"
	KindPeekLibrary     Kind = "PEEK_LIBRARY"
	KindPeekZone        Kind = "PEEK_ZONE"
	KindTradeInit       Kind = "TRADE_INIT"
	KindTradeCancel     Kind = "TRADE_CANCEL"
	KindTradeLock       Kind = "TRADE_LOCK"
	KindTradeConfirm    Kind = "TRADE_CONFIRM"
	KindRevealStart     Kind = "REVEAL_START"
	KindRevealLibStart  Kind = "REVEAL_LIBRARY_START"
	KindRevealClose     Kind = "REVEAL_CLOSE"
	KindRevealToggle    Kind = "REVEAL_TOGGLE_CARD"
	KindThinking        Kind = "THINKING"
	KindRollDice        Kind = "ROLL_DICE"
	KindCreateArrow     Kind = "CREATE_ARROW"
	KindDeleteArrow     Kind = "DELETE_ARROW"
	KindClearArrows     Kind = "CLEAR_ARROWS"
)

// Action is one decoded mutation request. Payload is a pointer to the
// payload struct for the kind, or nil when the kind is unknown or the
// payload failed to decode. Raw preserves the original payload bytes for
// the event log.
type Action struct {
	Kind    Kind
	Payload any
	Raw     json.RawMessage
}

// Envelope is the wire form of an action.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Envelope converts back to the wire form, for broadcast and event logging.
func (a Action) Envelope() Envelope {
	return Envelope{Type: string(a.Kind), Payload: a.Raw}
}

// Payload structs, one per kind.

type Draw struct {
	Seat int `json:"seat"`
	N    int `json:"n"`
}

type KeepHand struct {
	Seat int `json:"seat"`
}

type Mulligan struct {
	Seat int `json:"seat"`
	N    int `json:"n"`
}

type Move struct {
	ObjectID  string           `json:"objectId"`
	FromZone  state.Zone       `json:"fromZone"`
	ToZone    state.Zone       `json:"toZone"`
	ToSeat    *int             `json:"toOwner,omitempty"`
	Position  string           `json:"position,omitempty"`
	Index     *int             `json:"index,omitempty"`
	FaceState *state.FaceState `json:"faceState,omitempty"`
}

type ToggleFace struct {
	ObjectID string `json:"objectId"`
}

type Tap struct {
	ObjectID string `json:"objectId"`
	Value    *bool  `json:"value,omitempty"`
}

type Attach struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
}

type Detach struct {
	SourceID string `json:"sourceId"`
}

type Shuffle struct {
	Seat int `json:"seat"`
}

type LifeSet struct {
	Seat  int  `json:"seat"`
	Value *int `json:"value,omitempty"`
	Delta *int `json:"delta,omitempty"`
}

// TokenSpec carries the display fields of an ad hoc object.
type TokenSpec struct {
	Name      string `json:"name"`
	TypeLine  string `json:"typeLine,omitempty"`
	Power     string `json:"power,omitempty"`
	Toughness string `json:"toughness,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

type CreateTokens struct {
	Seat     int        `json:"seat"`
	Zone     state.Zone `json:"zone,omitempty"`
	Token    TokenSpec  `json:"token"`
	Quantity int        `json:"quantity,omitempty"`
}

type PlayerCounter struct {
	Seat  int    `json:"seat"`
	Type  string `json:"type"`
	Delta int    `json:"delta"`
}

type CommanderDamage struct {
	Seat       int `json:"seat"`
	SourceSeat int `json:"sourceSeat"`
	Delta      int `json:"delta"`
}

type Counters struct {
	ObjectID string `json:"objectId"`
	Type     string `json:"type"`
	Delta    int    `json:"delta"`
}

type UntapAll struct {
	Seat int `json:"seat"`
}

type StartTurn struct {
	Seat int `json:"seat"`
}

type PeekLibrary struct {
	Seat int `json:"seat"`
}

type PeekZone struct {
	Seat int        `json:"seat"`
	Zone state.Zone `json:"zone"`
}

type TradeInit struct {
	TargetSeat int `json:"targetSeat"`
}

type TradeCancel struct{}

type TradeLock struct{}

type TradeConfirm struct{}

type RevealStart struct {
	Targets []int `json:"targets,omitempty"`
	All     bool  `json:"all,omitempty"`
}

type RevealLibraryStart struct {
	Targets []int `json:"targets,omitempty"`
	All     bool  `json:"all,omitempty"`
}

type RevealClose struct{}

type RevealToggleCard struct {
	ObjectID string `json:"objectId"`
}

type Thinking struct{}

type RollDice struct {
	Sides  int `json:"sides"`
	Result int `json:"result"`
}

type CreateArrow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type DeleteArrow struct {
	ArrowID string `json:"arrowId"`
}

type ClearArrows struct {
	Seat int `json:"seat"`
}

// Decode turns a wire envelope into a typed action. Unknown kinds and
// malformed payloads produce a nil Payload; callers must not treat that as
// an error.
func Decode(env Envelope) Action {
	a := Action{Kind: Kind(env.Type), Raw: env.Payload}
	a.Payload = decodePayload(a.Kind, env.Payload)
	return a
}

func decodePayload(kind Kind, raw json.RawMessage) any {
	var target any
	switch kind {
	case KindDraw:
		target = &Draw{}
	case KindKeepHand:
		target = &KeepHand{}
	case KindMulligan:
		target = &Mulligan{}
	case KindMove:
		target = &Move{}
	case KindToggleFace:
		target = &ToggleFace{}
	case KindTap:
		target = &Tap{}
	case KindEquipAttach, KindEnchantAttach:
		target = &Attach{}
	case KindEquipDetach, KindEnchantDetach:
		target = &Detach{}
	case KindShuffle:
		target = &Shuffle{}
	case KindLifeSet:
		target = &LifeSet{}
	case KindCreateTokens:
		target = &CreateTokens{}
	case KindPlayerCounter:
		target = &PlayerCounter{}
	case KindCommanderDamage:
		target = &CommanderDamage{}
	case KindCounters:
		target = &Counters{}
	case KindUntapAll:
		target = &UntapAll{}
	case KindStartTurn:
		target = &StartTurn{}
	case KindPeekLibrary:
		target = &PeekLibrary{}
	case KindPeekZone:
		target = &PeekZone{}
	case KindTradeInit:
		target = &TradeInit{}
	case KindTradeCancel:
		target = &TradeCancel{}
	case KindTradeLock:
		target = &TradeLock{}
	case KindTradeConfirm:
		target = &TradeConfirm{}
	case KindRevealStart:
		target = &RevealStart{}
	case KindRevealLibStart:
		target = &RevealLibraryStart{}
	case KindRevealClose:
		target = &RevealClose{}
	case KindRevealToggle:
		target = &RevealToggleCard{}
	case KindThinking:
		target = &Thinking{}
	case KindRollDice:
		target = &RollDice{}
	case KindCreateArrow:
		target = &CreateArrow{}
	case KindDeleteArrow:
		target = &DeleteArrow{}
	case KindClearArrows:
		target = &ClearArrows{}
	default:
		return nil
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, target); err != nil {
			return nil
		}
	}
	return target
}
