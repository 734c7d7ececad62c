package cfrbot

import (
	"math/rand"

	"github.com/lox/riposte/internal/game"
)

// FallbackDecision implements the fixed mixed policy used when a trained
// strategy is unavailable or unusable (empty, NaN-contaminated): call 60 /
// fold 40 when facing a bet, check 70 / bet half-pot 30 otherwise.
func FallbackDecision(hand *game.HandState, seat int, rng *rand.Rand) (game.Action, int) {
	player := hand.Players[seat]
	facingBet := hand.Betting.CurrentBet > player.Bet

	if facingBet {
		if rng.Float64() < 0.6 {
			return game.Call, 0
		}
		return game.Fold, 0
	}

	if rng.Float64() < 0.7 {
		return game.Check, 0
	}
	target := player.Bet + potTotal(hand)/2
	return clampRaise(hand, player, target)
}
