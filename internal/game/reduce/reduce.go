// Package reduce implements the action reducer: a pure transform from one
// snapshot plus one action to the next snapshot. The input snapshot is
// never mutated; Apply always returns a deep clone, changed or not.
//
// Authorization and payload guards fail silently. A client acting on a seat
// it does not own, or sending a malformed payload, gets back an unchanged
// clone with no chat line appended. That policy keeps a desynced or hostile
// client from corrupting the shared table or spamming the log.
package reduce

import (
	"fmt"

	"github.com/untapfree/untap-server-go/internal/game/actions"
	"github.com/untapfree/untap-server-go/internal/game/state"
)

// Apply computes the successor snapshot for one action submitted by the
// given user. The version field is not touched here; the concurrency gate
// owns version assignment.
func Apply(gs *state.GameState, action actions.Action, actingUserID string) *state.GameState {
	next := gs.Clone()

	seat, ok := next.SeatOf(actingUserID)
	if !ok {
		return next
	}
	actor := next.Players[seat]
	if actor == nil {
		return next
	}

	switch p := action.Payload.(type) {
	case *actions.Draw:
		applyDraw(next, actor, p)
	case *actions.KeepHand:
		applyKeepHand(next, actor, p)
	case *actions.Mulligan:
		applyMulligan(next, actor, p)
	case *actions.Move:
		applyMove(next, actor, p)
	case *actions.ToggleFace:
		applyToggleFace(next, actor, p)
	case *actions.Tap:
		applyTap(next, actor, p)
	case *actions.Attach:
		applyAttach(next, actor, action.Kind, p)
	case *actions.Detach:
		applyDetach(next, actor, action.Kind, p)
	case *actions.Shuffle:
		applyShuffle(next, actor, p)
	case *actions.LifeSet:
		applyLifeSet(next, actor, p)
	case *actions.CreateTokens:
		applyCreateTokens(next, actor, p)
	case *actions.PlayerCounter:
		applyPlayerCounter(next, actor, p)
	case *actions.CommanderDamage:
		applyCommanderDamage(next, actor, p)
	case *actions.Counters:
		applyCounters(next, actor, p)
	case *actions.UntapAll:
		applyUntapAll(next, actor, p)
	case *actions.StartTurn:
		applyStartTurn(next, actor, p)
	case *actions.PeekLibrary:
		applyPeekLibrary(next, actor, p)
	case *actions.PeekZone:
		applyPeekZone(next, actor, p)
	case *actions.TradeInit:
		applyTradeInit(next, actor, p)
	case *actions.TradeCancel:
		applyTradeCancel(next, actor)
	case *actions.TradeLock:
		applyTradeLock(next, actor)
	case *actions.TradeConfirm:
		applyTradeConfirm(next, actor)
	case *actions.RevealStart:
		applyRevealStart(next, actor, p)
	case *actions.RevealLibraryStart:
		applyRevealLibraryStart(next, actor, p)
	case *actions.RevealClose:
		applyRevealClose(next, actor)
	case *actions.RevealToggleCard:
		applyRevealToggleCard(next, actor, p)
	case *actions.Thinking:
		next.AppendChat(actor.Name, fmt.Sprintf("%s is thinking...", actor.Name))
	case *actions.RollDice:
		applyRollDice(next, actor, p)
	case *actions.CreateArrow:
		applyCreateArrow(next, actor, p)
	case *actions.DeleteArrow:
		applyDeleteArrow(next, actor, p)
	case *actions.ClearArrows:
		applyClearArrows(next, actor, p)
	default:
		// Unknown kind or undecodable payload: the unchanged clone is
		// still returned and still consumes a version upstream.
	}

	return next
}

// displayName returns the name to use for an object in chat lines. A
// face-down card is never named, so hidden information does not leak
// through the log.
func displayName(obj *state.GameObject) string {
	if obj.FaceState == state.FaceDown {
		return "a face-down card"
	}
	if obj.Name != "" {
		return obj.Name
	}
	return "a card"
}

// seatName returns the display name for a seat, for chat attribution of
// actions that reference another player.
func seatName(gs *state.GameState, seat int) string {
	if p := gs.Players[seat]; p != nil {
		return p.Name
	}
	return fmt.Sprintf("seat %d", seat)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
