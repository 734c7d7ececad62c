package cfrbot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/riposte/internal/abstraction"
	"github.com/lox/riposte/internal/game"
)

func newTestHand(t *testing.T) *game.HandState {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	return game.NewHand(rng, []string{"A", "B"}, 0, 5, 10, game.WithChips([]int{1000, 1000}))
}

func TestMapToEngineActionFoldCheckCall(t *testing.T) {
	t.Parallel()
	h := newTestHand(t)

	act, amount := MapToEngineAction(abstraction.Fold, h, h.ActivePlayer)
	assert.Equal(t, game.Fold, act)
	assert.Zero(t, amount)
}

func TestMapToEngineActionAllIn(t *testing.T) {
	t.Parallel()
	h := newTestHand(t)
	act, amount := MapToEngineAction(abstraction.AllIn, h, h.ActivePlayer)
	assert.Equal(t, game.AllIn, act)
	assert.Zero(t, amount)
}

func TestMapToEngineActionPreflopOpenRaise(t *testing.T) {
	t.Parallel()
	h := newTestHand(t)
	seat := h.ActivePlayer

	act, amount := MapToEngineAction(abstraction.Raise3_0, h, seat)
	assert.Equal(t, game.Raise, act)
	// Opening preflop raise_3.0 means 3*BB added to the current bet.
	expected := h.Players[seat].Bet + 3*h.Betting.BigBlind
	assert.GreaterOrEqual(t, amount, h.Betting.CurrentBet+h.Betting.MinRaise)
	assert.InDelta(t, expected, amount, float64(h.Betting.MinRaise))
}

func TestClampRaiseFallsBackToAllInWhenShortStacked(t *testing.T) {
	t.Parallel()
	h := newTestHand(t)
	seat := h.ActivePlayer
	player := h.Players[seat]
	player.Chips = 1 // far too short to make any legal raise

	act, amount := clampRaise(h, player, player.Bet+500)
	assert.Equal(t, game.AllIn, act)
	assert.Zero(t, amount)
}

func TestOpponentSeatHeadsUp(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1, opponentSeat(0))
	assert.Equal(t, 0, opponentSeat(1))
}
