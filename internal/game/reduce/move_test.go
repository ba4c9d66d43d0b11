package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/untapfree/untap-server-go/internal/game/actions"
	"github.com/untapfree/untap-server-go/internal/game/state"
)

func TestMoveHandToBattlefield(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneHand)

	next := Apply(gs, act(actions.KindMove, &actions.Move{
		ObjectID: "a",
		FromZone: state.ZoneHand,
		ToZone:   state.ZoneBattlefield,
	}), "alice")

	obj := next.Object("a")
	assert.Equal(t, state.ZoneBattlefield, obj.Zone)
	assert.Equal(t, []string{"a"}, next.ZoneList(1, state.ZoneBattlefield))
	assert.Empty(t, next.ZoneList(1, state.ZoneHand))
	require.NoError(t, next.CheckZoneIndex())
	assert.Contains(t, lastChat(t, next).Text, "from HAND to BATTLEFIELD")
}

func TestMoveStaleFromZoneIsNoOp(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneGraveyard)
	before := gs.Checksum()

	next := Apply(gs, act(actions.KindMove, &actions.Move{
		ObjectID: "a",
		FromZone: state.ZoneHand,
		ToZone:   state.ZoneBattlefield,
	}), "alice")

	assert.Equal(t, before, next.Checksum())
}

func TestMoveInvalidToZoneIsNoOp(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneHand)
	before := gs.Checksum()

	next := Apply(gs, act(actions.KindMove, &actions.Move{
		ObjectID: "a",
		ToZone:   state.Zone("STACK"),
	}), "alice")

	assert.Equal(t, before, next.Checksum())
}

func TestMoveToLibraryTop(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneLibrary)
	addCard(gs, "b", 1, state.ZoneLibrary)
	addCard(gs, "x", 1, state.ZoneHand)

	next := Apply(gs, act(actions.KindMove, &actions.Move{
		ObjectID: "x",
		ToZone:   state.ZoneLibrary,
		Position: "top",
	}), "alice")

	assert.Equal(t, []string{"x", "a", "b"}, next.ZoneList(1, state.ZoneLibrary))
}

func TestMoveWithExplicitIndex(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneLibrary)
	addCard(gs, "b", 1, state.ZoneLibrary)
	addCard(gs, "x", 1, state.ZoneHand)

	next := Apply(gs, act(actions.KindMove, &actions.Move{
		ObjectID: "x",
		ToZone:   state.ZoneLibrary,
		Index:    intPtr(1),
	}), "alice")

	assert.Equal(t, []string{"a", "x", "b"}, next.ZoneList(1, state.ZoneLibrary))
}

func TestMoveDefaultsToAppend(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneGraveyard)
	addCard(gs, "x", 1, state.ZoneHand)

	next := Apply(gs, act(actions.KindMove, &actions.Move{
		ObjectID: "x",
		ToZone:   state.ZoneGraveyard,
	}), "alice")

	assert.Equal(t, []string{"a", "x"}, next.ZoneList(1, state.ZoneGraveyard))
}

func TestMoveTransfersController(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneBattlefield)

	next := Apply(gs, act(actions.KindMove, &actions.Move{
		ObjectID: "a",
		ToZone:   state.ZoneBattlefield,
		ToSeat:   intPtr(2),
	}), "alice")

	obj := next.Object("a")
	assert.Equal(t, 2, obj.ControllerSeat)
	assert.Equal(t, 1, obj.OwnerSeat)
	assert.Equal(t, []string{"a"}, next.ZoneList(2, state.ZoneBattlefield))
	require.NoError(t, next.CheckZoneIndex())
}

func TestMoveToUnknownSeatIsNoOp(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneHand)
	before := gs.Checksum()

	next := Apply(gs, act(actions.KindMove, &actions.Move{
		ObjectID: "a",
		ToZone:   state.ZoneHand,
		ToSeat:   intPtr(9),
	}), "alice")

	assert.Equal(t, before, next.Checksum())
}

func TestMoveAppliesFaceState(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneHand)

	fd := state.FaceDown
	next := Apply(gs, act(actions.KindMove, &actions.Move{
		ObjectID:  "a",
		ToZone:    state.ZoneBattlefield,
		FaceState: &fd,
	}), "alice")

	assert.Equal(t, state.FaceDown, next.Object("a").FaceState)
}

func TestMoveOffBattlefieldForceDetaches(t *testing.T) {
	gs := newTable()
	addCard(gs, "creature", 1, state.ZoneBattlefield)
	addCard(gs, "sword", 1, state.ZoneHand)
	addCard(gs, "aura", 1, state.ZoneHand)

	gs = Apply(gs, act(actions.KindEquipAttach, &actions.Attach{SourceID: "sword", TargetID: "creature"}), "alice")
	gs = Apply(gs, act(actions.KindEnchantAttach, &actions.Attach{SourceID: "aura", TargetID: "creature"}), "alice")
	require.NotNil(t, gs.Object("sword").Equip)
	require.NotNil(t, gs.Object("aura").Enchant)

	next := Apply(gs, act(actions.KindMove, &actions.Move{
		ObjectID: "creature",
		ToZone:   state.ZoneGraveyard,
	}), "alice")

	// The attached objects stay on the battlefield with their links cleared.
	assert.Nil(t, next.Object("sword").Equip)
	assert.Nil(t, next.Object("aura").Enchant)
	assert.Equal(t, state.ZoneBattlefield, next.Object("sword").Zone)
	assert.Equal(t, state.ZoneBattlefield, next.Object("aura").Zone)
	require.NoError(t, next.CheckZoneIndex())
}

func TestMoveClearsOwnAttachmentLinks(t *testing.T) {
	gs := newTable()
	addCard(gs, "creature", 1, state.ZoneBattlefield)
	addCard(gs, "sword", 1, state.ZoneHand)
	gs = Apply(gs, act(actions.KindEquipAttach, &actions.Attach{SourceID: "sword", TargetID: "creature"}), "alice")

	next := Apply(gs, act(actions.KindMove, &actions.Move{
		ObjectID: "sword",
		ToZone:   state.ZoneGraveyard,
	}), "alice")

	assert.Nil(t, next.Object("sword").Equip)
}

func TestToggleFaceRoundTrip(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneBattlefield)

	down := Apply(gs, act(actions.KindToggleFace, &actions.ToggleFace{ObjectID: "a"}), "alice")
	assert.Equal(t, state.FaceDown, down.Object("a").FaceState)
	// The name is captured before the card goes face down.
	assert.Contains(t, lastChat(t, down).Text, "Card a")

	up := Apply(down, act(actions.KindToggleFace, &actions.ToggleFace{ObjectID: "a"}), "alice")
	assert.Equal(t, state.FaceNormal, up.Object("a").FaceState)
}

func TestTapToggleAndExplicit(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneBattlefield)

	next := Apply(gs, act(actions.KindTap, &actions.Tap{ObjectID: "a"}), "alice")
	assert.True(t, next.Object("a").Tapped)
	assert.Contains(t, lastChat(t, next).Text, "tapped")

	next = Apply(next, act(actions.KindTap, &actions.Tap{ObjectID: "a", Value: boolPtr(false)}), "alice")
	assert.False(t, next.Object("a").Tapped)
	assert.Contains(t, lastChat(t, next).Text, "untapped")
}

func TestTapExplicitSameValueIsNoOp(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneBattlefield)
	before := gs.Checksum()

	next := Apply(gs, act(actions.KindTap, &actions.Tap{ObjectID: "a", Value: boolPtr(false)}), "alice")

	assert.Equal(t, before, next.Checksum())
	assert.Empty(t, next.Chat)
}

func TestAttachDetachRestoresOrigin(t *testing.T) {
	gs := newTable()
	addCard(gs, "creature", 1, state.ZoneBattlefield)
	addCard(gs, "h0", 1, state.ZoneHand)
	addCard(gs, "sword", 1, state.ZoneHand)
	addCard(gs, "h2", 1, state.ZoneHand)

	attached := Apply(gs, act(actions.KindEquipAttach, &actions.Attach{SourceID: "sword", TargetID: "creature"}), "alice")
	sword := attached.Object("sword")
	require.NotNil(t, sword.Equip)
	assert.Equal(t, "creature", sword.Equip.To)
	assert.Equal(t, state.ZoneBattlefield, sword.Zone)
	assert.Equal(t, state.ZoneHand, sword.Equip.OriginZone)
	assert.Equal(t, 1, sword.Equip.OriginIndex)

	detached := Apply(attached, act(actions.KindEquipDetach, &actions.Detach{SourceID: "sword"}), "alice")
	sword = detached.Object("sword")
	assert.Nil(t, sword.Equip)
	assert.Equal(t, state.ZoneHand, sword.Zone)
	assert.Equal(t, []string{"h0", "sword", "h2"}, detached.ZoneList(1, state.ZoneHand))
	require.NoError(t, detached.CheckZoneIndex())
}

func TestAttachRequiresBattlefieldTarget(t *testing.T) {
	gs := newTable()
	addCard(gs, "creature", 1, state.ZoneHand)
	addCard(gs, "sword", 1, state.ZoneHand)
	before := gs.Checksum()

	next := Apply(gs, act(actions.KindEquipAttach, &actions.Attach{SourceID: "sword", TargetID: "creature"}), "alice")

	assert.Equal(t, before, next.Checksum())
}

func TestAttachRequiresControlOfBoth(t *testing.T) {
	gs := newTable()
	addCard(gs, "creature", 2, state.ZoneBattlefield)
	addCard(gs, "sword", 1, state.ZoneHand)
	before := gs.Checksum()

	next := Apply(gs, act(actions.KindEquipAttach, &actions.Attach{SourceID: "sword", TargetID: "creature"}), "alice")

	assert.Equal(t, before, next.Checksum())
}

func TestAttachReplacesPriorLink(t *testing.T) {
	gs := newTable()
	addCard(gs, "c1", 1, state.ZoneBattlefield)
	addCard(gs, "c2", 1, state.ZoneBattlefield)
	addCard(gs, "sword", 1, state.ZoneHand)

	gs = Apply(gs, act(actions.KindEquipAttach, &actions.Attach{SourceID: "sword", TargetID: "c1"}), "alice")
	next := Apply(gs, act(actions.KindEquipAttach, &actions.Attach{SourceID: "sword", TargetID: "c2"}), "alice")

	sword := next.Object("sword")
	require.NotNil(t, sword.Equip)
	assert.Equal(t, "c2", sword.Equip.To)
	assert.Nil(t, sword.Enchant)
	require.NoError(t, next.CheckZoneIndex())
}

func TestDetachWithoutLinkIsNoOp(t *testing.T) {
	gs := newTable()
	addCard(gs, "a", 1, state.ZoneBattlefield)
	before := gs.Checksum()

	next := Apply(gs, act(actions.KindEquipDetach, &actions.Detach{SourceID: "a"}), "alice")

	assert.Equal(t, before, next.Checksum())
}

func TestDetachClampsShrunkOriginIndex(t *testing.T) {
	gs := newTable()
	addCard(gs, "creature", 1, state.ZoneBattlefield)
	addCard(gs, "h0", 1, state.ZoneHand)
	addCard(gs, "sword", 1, state.ZoneHand)

	gs = Apply(gs, act(actions.KindEquipAttach, &actions.Attach{SourceID: "sword", TargetID: "creature"}), "alice")
	// Shrink the origin list below the recorded index.
	gs = Apply(gs, act(actions.KindMove, &actions.Move{ObjectID: "h0", ToZone: state.ZoneGraveyard}), "alice")

	next := Apply(gs, act(actions.KindEquipDetach, &actions.Detach{SourceID: "sword"}), "alice")

	assert.Equal(t, []string{"sword"}, next.ZoneList(1, state.ZoneHand))
	require.NoError(t, next.CheckZoneIndex())
}
