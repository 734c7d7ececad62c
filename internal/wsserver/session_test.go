package wsserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/riposte/internal/game"
)

// alwaysCallBot is a minimal Decider used only to exercise the session
// wiring: it calls when facing a bet, checks otherwise.
type alwaysCallBot struct{}

func (alwaysCallBot) Decide(hand *game.HandState, seat int) (game.Action, int, error) {
	player := hand.Players[seat]
	if hand.Betting.CurrentBet > player.Bet {
		return game.Call, 0, nil
	}
	return game.Check, 0, nil
}

func TestNewSessionDealsAHand(t *testing.T) {
	t.Parallel()
	s := NewSession("g1", alwaysCallBot{}, 5, 10, 1000)
	assert.NotNil(t, s.Hand)
	assert.Equal(t, game.Preflop, s.Hand.Street)
}

func TestSessionRunBotTurnRequiresBotToBeActive(t *testing.T) {
	t.Parallel()
	s := NewSession("g1", alwaysCallBot{}, 5, 10, 1000)
	// Heads-up preflop: button (hero seat 0) acts first, so it isn't the
	// bot's (seat 1) turn yet.
	_, _, err := s.RunBotTurn()
	assert.Error(t, err)
}

func TestSessionApplyActionThenBotTurn(t *testing.T) {
	t.Parallel()
	s := NewSession("g1", alwaysCallBot{}, 5, 10, 1000)
	require.NoError(t, s.ApplyAction(game.Call, 0))

	act, _, err := s.RunBotTurn()
	require.NoError(t, err)
	assert.Equal(t, game.Check, act)
	assert.Equal(t, game.Flop, s.Hand.Street)
}

func TestSessionNewHandRotatesButtonAndCarriesStacks(t *testing.T) {
	t.Parallel()
	s := NewSession("g1", alwaysCallBot{}, 5, 10, 1000)
	firstButton := s.Hand.Button

	s.NewHand()
	assert.NotEqual(t, firstButton, s.Hand.Button)
	total := 0
	for _, p := range s.Hand.Players {
		total += p.Chips + p.Bet
	}
	assert.Equal(t, 2000, total)
}

func TestSessionNewHandAwardsThePotToTheWinner(t *testing.T) {
	t.Parallel()
	s := NewSession("g1", alwaysCallBot{}, 5, 10, 1000)

	// Hero (seat 0, button, small blind) folds preflop; the bot (big blind)
	// should be up by the small blind's contribution once the next hand is
	// dealt and stacks are carried forward.
	require.NoError(t, s.ApplyAction(game.Fold, 0))
	require.True(t, s.Hand.IsComplete())

	s.NewHand()

	// The new hand has already posted its blinds, so each stack carried
	// forward is the player's Chips plus the blind in Bet.
	total := 0
	for _, p := range s.Hand.Players {
		total += p.Chips + p.Bet
	}
	hero := s.Hand.Players[s.HeroSeat]
	bot := s.Hand.Players[s.BotSeat]
	assert.Equal(t, 2000, total, "settlement must conserve chips")
	assert.Equal(t, 995, hero.Chips+hero.Bet, "hero lost the 5 chip small blind")
	assert.Equal(t, 1005, bot.Chips+bot.Bet, "bot won the 15 chip pot")
}

func TestStorePutAndGet(t *testing.T) {
	t.Parallel()
	store := NewStore()
	s := NewSession("g1", alwaysCallBot{}, 5, 10, 1000)
	store.Put(s)

	got, ok := store.Get("g1")
	require.True(t, ok)
	assert.Equal(t, s, got)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}
