package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/untapfree/untap-server-go/internal/game/actions"
	"github.com/untapfree/untap-server-go/internal/game/state"
)

func TestPeekLibraryLogsOnly(t *testing.T) {
	gs := newTable()
	stockLibrary(gs, 2, 3)
	checksumWithoutChat := gs.Checksum()

	next := Apply(gs, act(actions.KindPeekLibrary, &actions.PeekLibrary{Seat: 2}), "alice")

	assert.NotEqual(t, checksumWithoutChat, next.Checksum())
	assert.Contains(t, lastChat(t, next).Text, "Bob's library")
	// The only difference is the chat line.
	next.Chat = nil
	gs.Chat = nil
	assert.Equal(t, gs.Checksum(), next.Checksum())
}

func TestPeekOwnLibraryWording(t *testing.T) {
	gs := newTable()

	next := Apply(gs, act(actions.KindPeekLibrary, &actions.PeekLibrary{Seat: 1}), "alice")

	assert.Contains(t, lastChat(t, next).Text, "their library")
}

func TestPeekZoneValidation(t *testing.T) {
	gs := newTable()
	before := gs.Checksum()

	next := Apply(gs, act(actions.KindPeekZone, &actions.PeekZone{Seat: 9, Zone: state.ZoneGraveyard}), "alice")
	assert.Equal(t, before, next.Checksum())

	next = Apply(gs, act(actions.KindPeekZone, &actions.PeekZone{Seat: 2, Zone: state.Zone("STACK")}), "alice")
	assert.Equal(t, before, next.Checksum())

	next = Apply(gs, act(actions.KindPeekZone, &actions.PeekZone{Seat: 2, Zone: state.ZoneGraveyard}), "alice")
	assert.Contains(t, lastChat(t, next).Text, "GRAVEYARD")
}

func TestThinkingLogsLine(t *testing.T) {
	gs := newTable()

	next := Apply(gs, act(actions.KindThinking, &actions.Thinking{}), "bob")

	assert.Contains(t, lastChat(t, next).Text, "Bob is thinking")
}

func TestRollDice(t *testing.T) {
	gs := newTable()

	next := Apply(gs, act(actions.KindRollDice, &actions.RollDice{Sides: 20, Result: 17}), "alice")
	assert.Contains(t, lastChat(t, next).Text, "rolled a 17 on a d20")

	before := gs.Checksum()
	next = Apply(gs, act(actions.KindRollDice, &actions.RollDice{Sides: 0, Result: 1}), "alice")
	assert.Equal(t, before, next.Checksum())
}

func TestArrowLifecycle(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneBattlefield)
	addCard(gs, "b", 2, state.ZoneBattlefield)

	next := Apply(gs, act(actions.KindCreateArrow, &actions.CreateArrow{From: "a", To: "b"}), "alice")
	require.Len(t, next.Arrows, 1)
	arrow := next.Arrows[0]
	assert.Equal(t, "a", arrow.From)
	assert.Equal(t, 1, arrow.CreatorSeat)
	assert.NotEmpty(t, arrow.ID)
	// Arrows are cosmetic; no chat line.
	assert.Empty(t, next.Chat)

	// Only the creator may delete.
	kept := Apply(next, act(actions.KindDeleteArrow, &actions.DeleteArrow{ArrowID: arrow.ID}), "bob")
	assert.Len(t, kept.Arrows, 1)

	gone := Apply(next, act(actions.KindDeleteArrow, &actions.DeleteArrow{ArrowID: arrow.ID}), "alice")
	assert.Empty(t, gone.Arrows)
}

func TestCreateArrowGuards(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneBattlefield)

	next := Apply(gs, act(actions.KindCreateArrow, &actions.CreateArrow{From: "a", To: "a"}), "alice")
	assert.Empty(t, next.Arrows)

	next = Apply(gs, act(actions.KindCreateArrow, &actions.CreateArrow{From: "a", To: "ghost"}), "alice")
	assert.Empty(t, next.Arrows)
}

func TestClearArrowsRemovesOwnOnly(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneBattlefield)
	addCard(gs, "b", 2, state.ZoneBattlefield)

	gs = Apply(gs, act(actions.KindCreateArrow, &actions.CreateArrow{From: "a", To: "b"}), "alice")
	gs = Apply(gs, act(actions.KindCreateArrow, &actions.CreateArrow{From: "b", To: "a"}), "bob")
	require.Len(t, gs.Arrows, 2)

	next := Apply(gs, act(actions.KindClearArrows, &actions.ClearArrows{Seat: 1}), "alice")

	require.Len(t, next.Arrows, 1)
	assert.Equal(t, 2, next.Arrows[0].CreatorSeat)
}
