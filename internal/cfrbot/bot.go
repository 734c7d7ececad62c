// Package cfrbot serves a frozen CFR blueprint at the table: it builds the
// same InfoSetKey the trainer keyed its strategies on, samples an abstract
// action from the stored (or neural) strategy, and maps that action back to
// a concrete engine action and amount.
package cfrbot

import (
	"fmt"
	"math/rand"

	"github.com/lox/riposte/internal/abstraction"
	"github.com/lox/riposte/internal/game"
	"github.com/lox/riposte/sdk/solver"
	"github.com/lox/riposte/sdk/solver/deepcfr"
)

const maxHistoryActions = 8

// StrategySource is anything that can answer "what's the strategy for this
// info set", whether backed by a live blueprint map or a compacted one.
type StrategySource interface {
	Strategy(key solver.InfoSetKey) ([]float64, bool)
}

// mapStrategySource adapts a raw *solver.Blueprint to StrategySource.
type mapStrategySource struct{ bp *solver.Blueprint }

func (m mapStrategySource) Strategy(key solver.InfoSetKey) ([]float64, bool) {
	return m.bp.Strategy(key)
}

// compactStrategySource adapts a *CompactBlueprint to StrategySource.
type compactStrategySource struct{ cb *CompactBlueprint }

func (c compactStrategySource) Strategy(key solver.InfoSetKey) ([]float64, bool) {
	return c.cb.Strategy(key.String())
}

// Bot decides actions for one seat using a frozen blueprint, optionally
// mixed with a trained Deep-CFR policy network, falling back to the fixed
// mixed policy when the blueprint has no strategy for the info set or when
// nothing legal carries positive probability.
type Bot struct {
	strategies StrategySource
	bucket     *solver.BucketMapper
	deep       *deepcfr.Trainer
	rng        *rand.Rand
}

// NewBot constructs a bot around a live blueprint map.
func NewBot(bp *solver.Blueprint, bucket *solver.BucketMapper, deep *deepcfr.Trainer, rng *rand.Rand) *Bot {
	return &Bot{strategies: mapStrategySource{bp}, bucket: bucket, deep: deep, rng: rng}
}

// NewCompactBot constructs a bot around a perfect-hash-compacted blueprint.
func NewCompactBot(cb *CompactBlueprint, bucket *solver.BucketMapper, deep *deepcfr.Trainer, rng *rand.Rand) *Bot {
	return &Bot{strategies: compactStrategySource{cb}, bucket: bucket, deep: deep, rng: rng}
}

// Decide picks the concrete engine action and amount for seat to play in
// hand, given the betting history of the current hand so far.
func (b *Bot) Decide(hand *game.HandState, seat int) (game.Action, int, error) {
	if hand == nil || seat < 0 || seat >= len(hand.Players) {
		return game.Fold, 0, fmt.Errorf("cfrbot: invalid hand/seat")
	}

	legal := hand.GetValidActions()
	if len(legal) == 0 {
		return game.Fold, 0, fmt.Errorf("cfrbot: no legal actions for seat %d", seat)
	}

	key := b.infoSetKey(hand, seat)
	mask := legalAbstractMask(legal)

	tabular, haveTabular := b.strategies.Strategy(key)
	if !haveTabular || len(tabular) == 0 {
		fallbackAct, fallbackAmount := FallbackDecision(hand, seat, b.rng)
		return fallbackAct, fallbackAmount, nil
	}

	strategy := tabular
	if b.deep != nil {
		features := b.featureVector(hand, seat, key)
		mixed, _ := b.deep.Strategy(features, mask, tabular)
		strategy = mixed
	}

	act, ok := sampleAbstractAction(strategy, mask, b.rng)
	if !ok {
		fallbackAct, fallbackAmount := FallbackDecision(hand, seat, b.rng)
		return fallbackAct, fallbackAmount, nil
	}

	engineAct, amount := MapToEngineAction(act, hand, seat)
	return engineAct, amount, nil
}

func (b *Bot) infoSetKey(hand *game.HandState, seat int) solver.InfoSetKey {
	player := hand.Players[seat]
	holeBucket := b.bucket.HoleBucket(player.HoleCards)
	boardBucket := 0
	if hand.Board != 0 && hand.Board.CountCards() >= 3 {
		boardBucket = b.bucket.BoardBucket(hand.Board)
	}

	pot := potTotal(hand)
	toCall := 0
	if hand.Betting.CurrentBet > player.Bet {
		toCall = hand.Betting.CurrentBet - player.Bet
	}
	bb := hand.Betting.BigBlind
	if bb <= 0 {
		bb = 1
	}

	return solver.InfoSetKey{
		Street:       mapStreet(hand.Street),
		Player:       seat,
		HoleBucket:   holeBucket,
		BoardBucket:  boardBucket,
		PotBucket:    solver.PotBucketFor(float64(pot) / float64(bb)),
		ToCallBucket: toCallBucket(toCall, bb),
		History:      historyString(hand.ActionHistory),
	}
}

// featureVector builds the deep-CFR input vector for hand/seat, reusing the
// already-computed InfoSetKey for the bucket-derived components.
func (b *Bot) featureVector(hand *game.HandState, seat int, key solver.InfoSetKey) []float64 {
	player := hand.Players[seat]
	pot := potTotal(hand)
	toCall := 0
	if hand.Betting.CurrentBet > player.Bet {
		toCall = hand.Betting.CurrentBet - player.Bet
	}

	potOdds := 0.0
	if denom := pot + toCall; denom > 0 {
		potOdds = float64(toCall) / float64(denom)
	}

	spr := 0.0
	if pot > 0 {
		spr = float64(player.Chips) / float64(pot)
	}

	in := solver.FeatureInput{
		PotOdds:       potOdds,
		SPR:           spr,
		HistoryCounts: historyActionCounts(hand.ActionHistory),
		HistoryLength: len(hand.ActionHistory),
		Position:      seat,
	}
	vec := solver.FeatureVector(key, in)
	return vec[:]
}

// historyActionCounts fills the 7-slot raise-count layout FeatureVector
// expects (everything in the alphabet except fold/check/call). The engine's
// action log does not record which abstract raise size was used, so every
// raise or all-in is counted in slot 0 and the other slots stay zero.
func historyActionCounts(log []game.ActionRecord) solver.HistoryActionCounts {
	var counts solver.HistoryActionCounts
	for _, rec := range log {
		if rec.Action == game.Raise || rec.Action == game.AllIn {
			counts[0]++
		}
	}
	return counts
}

func mapStreet(s game.Street) solver.Street {
	switch s {
	case game.Preflop:
		return solver.StreetPreflop
	case game.Flop:
		return solver.StreetFlop
	case game.Turn:
		return solver.StreetTurn
	default:
		return solver.StreetRiver
	}
}

// toCallBucket mirrors the trainer's bucket cutoffs on the amount owed,
// expressed in big blinds: {0, <=2, <=5, <=10, <=25, >25}.
func toCallBucket(toCall, bb int) int {
	if toCall == 0 {
		return 0
	}
	ratio := float64(toCall) / float64(bb)
	switch {
	case ratio <= 2:
		return 1
	case ratio <= 5:
		return 2
	case ratio <= 10:
		return 3
	case ratio <= 25:
		return 4
	default:
		return 5
	}
}

// historyString renders the ordered action log into the same normalized,
// last-K-action form the trainer keys strategies on.
func historyString(log []game.ActionRecord) string {
	if len(log) == 0 {
		return ""
	}
	abbrevs := make([]string, len(log))
	for i, rec := range log {
		abbrevs[i] = actionAbbrev(rec.Action)
	}
	return solver.NormalizeHistory(abbrevs, maxHistoryActions)
}

func actionAbbrev(a game.Action) string {
	switch a {
	case game.Fold:
		return "f"
	case game.Check:
		return "x"
	case game.Call:
		return "c"
	case game.Raise:
		return "r"
	case game.AllIn:
		return "a"
	default:
		return "?"
	}
}

// legalAbstractMask reports, for every action in the abstraction's fixed
// alphabet, whether the engine currently permits that family of action
// (any raise_X shares legality with the concrete Raise action).
func legalAbstractMask(legal []game.Action) []bool {
	var canFold, canCheck, canCall, canRaise, canAllIn bool
	for _, a := range legal {
		switch a {
		case game.Fold:
			canFold = true
		case game.Check:
			canCheck = true
		case game.Call:
			canCall = true
		case game.Raise:
			canRaise = true
		case game.AllIn:
			canAllIn = true
		}
	}

	mask := make([]bool, abstraction.NumActions)
	for i, act := range abstraction.ActionList {
		switch act {
		case abstraction.Fold:
			mask[i] = canFold
		case abstraction.Check:
			mask[i] = canCheck
		case abstraction.Call:
			mask[i] = canCall
		case abstraction.AllIn:
			mask[i] = canAllIn
		default:
			mask[i] = canRaise
		}
	}
	return mask
}

func uniformOver(mask []bool) []float64 {
	count := 0
	for _, ok := range mask {
		if ok {
			count++
		}
	}
	out := make([]float64, len(mask))
	if count == 0 {
		return out
	}
	v := 1.0 / float64(count)
	for i, ok := range mask {
		if ok {
			out[i] = v
		}
	}
	return out
}

// sampleAbstractAction draws an action index from strategy restricted to
// mask, falling back to ok=false when nothing in the distribution is both
// legal and positive (e.g. a stale strategy whose only mass is on an action
// that's no longer legal).
func sampleAbstractAction(strategy []float64, mask []bool, rng *rand.Rand) (abstraction.Action, bool) {
	total := 0.0
	n := len(abstraction.ActionList)
	weights := make([]float64, n)
	for i := 0; i < n && i < len(strategy) && i < len(mask); i++ {
		if !mask[i] || strategy[i] <= 0 {
			continue
		}
		weights[i] = strategy[i]
		total += strategy[i]
	}
	if total <= 0 {
		return abstraction.Fold, false
	}

	r := rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		r -= w
		if r <= 0 {
			return abstraction.ActionList[i], true
		}
	}
	return abstraction.ActionList[n-1], true
}
