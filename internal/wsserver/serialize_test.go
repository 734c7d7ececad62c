package wsserver

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/riposte/internal/game"
)

func newSerializeTestHand(t *testing.T) *game.HandState {
	t.Helper()
	rng := rand.New(rand.NewSource(5))
	return game.NewHand(rng, []string{"Hero", "Bot"}, 0, 5, 10, game.WithChips([]int{1000, 1000}))
}

func TestSerializeRevealsOnlyViewerHoleCards(t *testing.T) {
	t.Parallel()
	hand := newSerializeTestHand(t)

	state := Serialize("game1", hand, 0)
	assert.NotEmpty(t, state.Players[0].Hand)
	assert.Empty(t, state.Players[1].Hand)
	assert.Equal(t, "game1", state.GameID)
	assert.Equal(t, hand.Street.String(), state.BettingRound)
	assert.Len(t, state.Community, 0)
}

func TestSerializeRevealsBothHandsAtShowdown(t *testing.T) {
	t.Parallel()
	hand := newSerializeTestHand(t)
	hand.Street = game.Showdown

	state := Serialize("game1", hand, 0)
	assert.NotEmpty(t, state.Players[0].Hand)
	assert.NotEmpty(t, state.Players[1].Hand)
}

func TestSerializeActionHistoryMirrorsHand(t *testing.T) {
	t.Parallel()
	hand := newSerializeTestHand(t)
	require.NoError(t, hand.ProcessAction(game.Call, 0))
	require.NoError(t, hand.ProcessAction(game.Check, 0))

	state := Serialize("game1", hand, 0)
	require.Len(t, state.ActionHistory, len(hand.ActionHistory))
	assert.Equal(t, "call", state.ActionHistory[0].Action)
}
