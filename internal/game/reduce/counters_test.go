package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/untapfree/untap-server-go/internal/game/actions"
	"github.com/untapfree/untap-server-go/internal/game/state"
)

func TestLifeSetValue(t *testing.T) {
	gs := newTable()

	next := Apply(gs, act(actions.KindLifeSet, &actions.LifeSet{Seat: 1, Value: intPtr(13)}), "alice")

	assert.Equal(t, 13, next.Players[1].Life)
	assert.Contains(t, lastChat(t, next).Text, "13")
}

func TestLifeSetDelta(t *testing.T) {
	gs := newTable()

	next := Apply(gs, act(actions.KindLifeSet, &actions.LifeSet{Seat: 1, Delta: intPtr(-4)}), "alice")

	assert.Equal(t, 16, next.Players[1].Life)
}

func TestLifeSetValueThenDelta(t *testing.T) {
	gs := newTable()

	next := Apply(gs, act(actions.KindLifeSet, &actions.LifeSet{Seat: 1, Value: intPtr(10), Delta: intPtr(3)}), "alice")

	assert.Equal(t, 13, next.Players[1].Life)
}

func TestLifeSetEmptyPayloadIsNoOp(t *testing.T) {
	gs := newTable()
	before := gs.Checksum()

	next := Apply(gs, act(actions.KindLifeSet, &actions.LifeSet{Seat: 1}), "alice")

	assert.Equal(t, before, next.Checksum())
}

func TestLifeMayGoNegative(t *testing.T) {
	gs := newTable()

	next := Apply(gs, act(actions.KindLifeSet, &actions.LifeSet{Seat: 1, Delta: intPtr(-25)}), "alice")

	assert.Equal(t, -5, next.Players[1].Life)
}

func TestCreateTokens(t *testing.T) {
	gs := newTable()

	next := Apply(gs, act(actions.KindCreateTokens, &actions.CreateTokens{
		Seat:     1,
		Token:    actions.TokenSpec{Name: "Goblin", TypeLine: "Creature - Goblin", Power: "1", Toughness: "1"},
		Quantity: 3,
	}), "alice")

	list := next.ZoneList(1, state.ZoneBattlefield)
	require.Len(t, list, 3)
	for _, id := range list {
		obj := next.Object(id)
		assert.Equal(t, "Goblin", obj.Name)
		assert.Empty(t, obj.CardRef)
		assert.Equal(t, 1, obj.OwnerSeat)
	}
	require.NoError(t, next.CheckZoneIndex())
	assert.Contains(t, lastChat(t, next).Text, "3 Goblins")
}

func TestCreateTokensQuantityClamps(t *testing.T) {
	gs := newTable()

	next := Apply(gs, act(actions.KindCreateTokens, &actions.CreateTokens{
		Seat:     1,
		Token:    actions.TokenSpec{Name: "Rat"},
		Quantity: 500,
	}), "alice")
	assert.Len(t, next.ZoneList(1, state.ZoneBattlefield), maxTokensPerAction)

	next = Apply(gs, act(actions.KindCreateTokens, &actions.CreateTokens{
		Seat:  1,
		Token: actions.TokenSpec{Name: "Rat"},
	}), "alice")
	assert.Len(t, next.ZoneList(1, state.ZoneBattlefield), 1)
}

func TestCreateTokensIntoTradeOfferRejected(t *testing.T) {
	gs := newTable()
	before := gs.Checksum()

	next := Apply(gs, act(actions.KindCreateTokens, &actions.CreateTokens{
		Seat:  1,
		Zone:  state.ZoneTradeOffer,
		Token: actions.TokenSpec{Name: "Rat"},
	}), "alice")

	assert.Equal(t, before, next.Checksum())
}

func TestPlayerCounterAccumulatesAndPrunes(t *testing.T) {
	gs := newTable()

	next := Apply(gs, act(actions.KindPlayerCounter, &actions.PlayerCounter{Seat: 1, Type: "poison", Delta: 2}), "alice")
	assert.Equal(t, 2, next.Players[1].Counters["poison"])

	next = Apply(next, act(actions.KindPlayerCounter, &actions.PlayerCounter{Seat: 1, Type: "poison", Delta: -5}), "alice")
	assert.NotContains(t, next.Players[1].Counters, "poison")
}

func TestPlayerCounterPrunesCommanderTaxToo(t *testing.T) {
	gs := newTable()

	next := Apply(gs, act(actions.KindPlayerCounter, &actions.PlayerCounter{Seat: 1, Type: "commander_tax", Delta: 2}), "alice")
	next = Apply(next, act(actions.KindPlayerCounter, &actions.PlayerCounter{Seat: 1, Type: "commander_tax", Delta: -2}), "alice")

	assert.NotContains(t, next.Players[1].Counters, "commander_tax")
}

func TestCommanderDamageMirrorsLife(t *testing.T) {
	gs := newTable()

	next := Apply(gs, act(actions.KindCommanderDamage, &actions.CommanderDamage{Seat: 1, SourceSeat: 2, Delta: 4}), "alice")

	assert.Equal(t, 4, next.Players[1].CommanderDamage[2])
	assert.Equal(t, 16, next.Players[1].Life)
}

func TestCommanderDamageFloorsAtZero(t *testing.T) {
	gs := newTable()
	gs = Apply(gs, act(actions.KindCommanderDamage, &actions.CommanderDamage{Seat: 1, SourceSeat: 2, Delta: 3}), "alice")

	// The correction lowers the record to its floor and gives the life back.
	next := Apply(gs, act(actions.KindCommanderDamage, &actions.CommanderDamage{Seat: 1, SourceSeat: 2, Delta: -5}), "alice")

	assert.NotContains(t, next.Players[1].CommanderDamage, 2)
	assert.Equal(t, 22, next.Players[1].Life)
}

func TestCommanderDamageUnknownSourceIsNoOp(t *testing.T) {
	gs := newTable()
	before := gs.Checksum()

	next := Apply(gs, act(actions.KindCommanderDamage, &actions.CommanderDamage{Seat: 1, SourceSeat: 9, Delta: 4}), "alice")

	assert.Equal(t, before, next.Checksum())
}

func TestObjectCountersRemoveAtExactlyZero(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneBattlefield)

	next := Apply(gs, act(actions.KindCounters, &actions.Counters{ObjectID: "a", Type: "+1/+1", Delta: 2}), "alice")
	assert.Equal(t, 2, next.Object("a").Counters["+1/+1"])

	next = Apply(next, act(actions.KindCounters, &actions.Counters{ObjectID: "a", Type: "+1/+1", Delta: -2}), "alice")
	assert.NotContains(t, next.Object("a").Counters, "+1/+1")
}

func TestObjectCountersKeepNegativeTotals(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneBattlefield)

	next := Apply(gs, act(actions.KindCounters, &actions.Counters{ObjectID: "a", Type: "-1/-1", Delta: 1}), "alice")
	next = Apply(next, act(actions.KindCounters, &actions.Counters{ObjectID: "a", Type: "-1/-1", Delta: -3}), "alice")

	assert.Equal(t, -2, next.Object("a").Counters["-1/-1"])
}

func TestObjectCountersZeroDeltaIsNoOp(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneBattlefield)
	before := gs.Checksum()

	next := Apply(gs, act(actions.KindCounters, &actions.Counters{ObjectID: "a", Type: "+1/+1", Delta: 0}), "alice")

	assert.Equal(t, before, next.Checksum())
}
