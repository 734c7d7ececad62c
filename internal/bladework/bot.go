package bladework

import (
	"fmt"
	"math/rand"

	"github.com/lox/riposte/internal/classification"
	"github.com/lox/riposte/internal/game"
	"github.com/lox/riposte/sdk/analysis"
)

// Bot is the hand-crafted strategy player: a preflop chart oracle backed by
// a committed multi-street postflop plan, adjusted by a running opponent
// model. One Bot tracks one opponent across many hands; it is not safe for
// concurrent use by more than one table.
type Bot struct {
	opponent *OpponentModel
	rng      *rand.Rand

	plan     MultiStreetPlan
	planHand *game.HandState // identity of the hand the current plan was computed for
}

// NewBot builds a bot with a fresh opponent model.
func NewBot(rng *rand.Rand) *Bot {
	return &Bot{opponent: NewOpponentModel(), rng: rng}
}

// Decide chooses hero's action at the current decision point in hand, for
// the given seat, dispatching to the preflop chart oracle or the postflop
// plan depending on the street.
func (b *Bot) Decide(hand *game.HandState, seat int) (game.Action, int, error) {
	if hand == nil || seat < 0 || seat >= len(hand.Players) {
		return game.Fold, 0, fmt.Errorf("bladework: invalid hand/seat")
	}
	legal := hand.GetValidActions()
	if len(legal) == 0 {
		return game.Fold, 0, fmt.Errorf("bladework: no legal actions for seat %d", seat)
	}

	if hand.Street == game.Preflop {
		return b.decidePreflop(hand, seat, legal)
	}
	return b.decidePostflop(hand, seat, legal)
}

func (b *Bot) position(hand *game.HandState, seat int) Position {
	if seat == hand.Button {
		return Button
	}
	return BigBlind
}

func (b *Bot) effectiveStackBB(hand *game.HandState, seat int) float64 {
	bb := hand.Betting.BigBlind
	if bb <= 0 {
		bb = 1
	}
	player := hand.Players[seat]
	opponent := hand.Players[opponentOf(seat)]
	stack := player.Chips + player.Bet
	oppStack := opponent.Chips + opponent.Bet
	if oppStack < stack {
		stack = oppStack
	}
	return float64(stack) / float64(bb)
}

func opponentOf(seat int) int {
	return 1 - seat
}

func containsAction(legal []game.Action, a game.Action) bool {
	for _, x := range legal {
		if x == a {
			return true
		}
	}
	return false
}

// decidePreflop builds a PreflopSituation from the current street's action
// history and runs the chart oracle, mapping its 7-way decision onto a
// concrete engine action and raise-to amount.
func (b *Bot) decidePreflop(hand *game.HandState, seat int, legal []game.Action) (game.Action, int, error) {
	player := hand.Players[seat]
	opponent := hand.Players[opponentOf(seat)]

	numRaises, facedLimp := preflopActionFacing(hand)
	facing := FacingNone
	switch {
	case numRaises > 0:
		facing = FacingRaise
	case facedLimp:
		facing = FacingLimp
	}

	bucket := SizeMinraise
	if facing == FacingRaise {
		isOpen := numRaises == 1
		var multiple float64
		if isOpen {
			bb := hand.Betting.BigBlind
			if bb > 0 {
				multiple = float64(opponent.Bet) / float64(bb)
			}
		} else if opponent.Bet > 0 {
			multiple = float64(hand.Betting.CurrentBet) / float64(player.Bet+1)
		}
		bucket = ClassifySizeBucket(multiple, isOpen)
	}

	situation := PreflopSituation{
		Hero:         player.HoleCards,
		Position:     b.position(hand, seat),
		ActionToHero: facing,
		NumRaises:    numRaises,
		SizeBucket:   bucket,
		StackBB:      b.effectiveStackBB(hand, seat),
	}

	act := Decide(situation)
	return b.mapPreflopAction(act, hand, player, opponent, legal)
}

// preflopActionFacing counts completed raises on the preflop street so far
// (0 = unopened, 1 = facing an open, 2 = facing a 3-bet, ...) and whether
// the only preflop action so far was a limp.
func preflopActionFacing(hand *game.HandState) (numRaises int, facedLimp bool) {
	sawCall := false
	for _, rec := range hand.ActionHistory {
		if rec.Street != game.Preflop {
			continue
		}
		switch rec.Action {
		case game.Raise, game.AllIn:
			numRaises++
			sawCall = false
		case game.Call:
			sawCall = true
		}
	}
	facedLimp = sawCall && numRaises == 0
	return numRaises, facedLimp
}

func (b *Bot) mapPreflopAction(act PreflopAction, hand *game.HandState, player, opponent *game.Player, legal []game.Action) (game.Action, int, error) {
	switch act {
	case PreflopFold:
		if containsAction(legal, game.Check) {
			return game.Check, 0, nil
		}
		return game.Fold, 0, nil
	case PreflopCheck:
		return game.Check, 0, nil
	case PreflopCall:
		if hand.Betting.CurrentBet <= player.Bet {
			return game.Check, 0, nil
		}
		return game.Call, 0, nil
	default: // Raise, ThreeBet, FourBet, FiveBet: all size the same way
		opening := hand.Betting.LastRaiser == -1
		var target int
		if opening {
			target = player.Bet + 3*hand.Betting.BigBlind
		} else {
			target = 3 * opponent.Bet
		}
		return clampRaiseAmount(hand, player, target)
	}
}

// clampRaiseAmount clips a proposed raise-to total into the legal range,
// falling back to an all-in when the player can't reach the minimum.
func clampRaiseAmount(hand *game.HandState, player *game.Player, target int) (game.Action, int, error) {
	stackTotal := player.Chips + player.Bet
	if target >= stackTotal {
		return game.AllIn, 0, nil
	}
	minTarget := hand.Betting.CurrentBet + hand.Betting.MinRaise
	if target < minTarget {
		if minTarget >= stackTotal {
			return game.AllIn, 0, nil
		}
		target = minTarget
	}
	return game.Raise, target, nil
}

// decidePostflop classifies the hand, looks up (or reuses) the committed
// multi-street plan, and translates the planned StreetAction into a
// concrete decision, adjusted by the observed betting line on the river.
func (b *Bot) decidePostflop(hand *game.HandState, seat int, legal []game.Action) (game.Action, int, error) {
	player := hand.Players[seat]

	if b.planHand != hand {
		strength := analysis.QuickEquity(cardStrings(player.HoleCards), cardStrings(hand.Board), 1)
		draws := classification.DetectDraws(player.HoleCards, hand.Board)
		drawEquity := float64(draws.Outs) * 2.0 / 100.0
		if drawEquity > 0.6 {
			drawEquity = 0.6
		}
		category := CategorizeHand(strength, drawEquity)
		b.plan = CreateMultiStreetPlan(category, b.effectiveStackBB(hand, seat))
		b.planHand = hand
	}

	streetIdx := int(hand.Street) - int(game.Flop)
	if streetIdx < 0 {
		streetIdx = 0
	}
	streetAction := b.plan.ForStreet(streetIdx)

	facingBet := hand.Betting.CurrentBet > player.Bet
	if hand.Street == game.River && facingBet && b.plan.Category != PremiumValue && b.plan.Category != StrongValue {
		if !b.riverBluffCatch(hand, player) {
			return game.Fold, 0, nil
		}
	}

	return b.mapStreetAction(streetAction, hand, player, legal)
}

// riverBluffCatch reads a river bet through the opponent's full betting
// line and the board texture, and decides whether a marginal hand should
// look the bet up. A thin value or weaker hand facing a river bet isn't in
// the plan's own sizing table, so this sits ahead of mapStreetAction rather
// than inside it.
func (b *Bot) riverBluffCatch(hand *game.HandState, player *game.Player) bool {
	line := b.observedBettingLine(hand)
	texture := classification.AnalyzeBoardTexture(hand.Board)
	drawHeavy := texture == classification.Wet || texture == classification.VeryWet
	static := texture == classification.Dry

	strength := analysis.QuickEquity(cardStrings(player.HoleCards), cardStrings(hand.Board), 1)
	strength = AdjustRiverStrength(strength, drawHeavy, static)

	callThreshold := 0.45
	switch line.LineType {
	case LineTripleBarrel:
		callThreshold -= 0.05
	case LineCbetCheckBet:
		callThreshold += 0.15
	case LineCheckCheckBet:
		callThreshold += 0.20
	}
	if line.RiverSizing == SizingOverbet {
		callThreshold += 0.05
	}
	if callThreshold < 0.45 {
		callThreshold = 0.45
	} else if callThreshold > 0.95 {
		callThreshold = 0.95
	}

	return strength >= callThreshold
}

func cardStrings(h interface{ String() string }) []string {
	s := h.String()
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ' ' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// observedBettingLine reconstructs the opponent's postflop aggression
// pattern from the hand's action history.
func (b *Bot) observedBettingLine(hand *game.HandState) BettingLine {
	var flop, turn, river StreetAggression
	for _, rec := range hand.ActionHistory {
		if rec.Action != game.Raise && rec.Action != game.AllIn {
			continue
		}
		switch rec.Street {
		case game.Flop:
			flop = StreetAggression{Aggressed: true, BetAmount: rec.Amount}
		case game.Turn:
			turn = StreetAggression{Aggressed: true, BetAmount: rec.Amount}
		case game.River:
			river = StreetAggression{Aggressed: true, BetAmount: rec.Amount}
		}
	}
	return AnalyzeBettingLine(flop, turn, river, potTotal(hand))
}

func potTotal(hand *game.HandState) int {
	total := 0
	for _, p := range hand.GetPots() {
		total += p.Amount
	}
	return total
}

// mapStreetAction translates a planned StreetAction hint into a concrete
// engine action, sizing bets off the current pot.
func (b *Bot) mapStreetAction(a StreetAction, hand *game.HandState, player *game.Player, legal []game.Action) (game.Action, int, error) {
	facingBet := hand.Betting.CurrentBet > player.Bet

	bet := func(potFraction float64) (game.Action, int, error) {
		target := player.Bet + int(potFraction*float64(potTotal(hand)))
		if facingBet {
			target = 3 * hand.Betting.CurrentBet
		}
		return clampRaiseAmount(hand, player, target)
	}
	checkOrCall := func() (game.Action, int, error) {
		if facingBet {
			return game.Call, 0, nil
		}
		return game.Check, 0, nil
	}
	foldOrCheck := func() (game.Action, int, error) {
		if facingBet {
			return game.Fold, 0, nil
		}
		return game.Check, 0, nil
	}

	switch a {
	case ActionBetLarge:
		if facingBet {
			return bet(0)
		}
		return bet(0.75)
	case ActionBetMedium:
		if facingBet {
			return checkOrCall()
		}
		return bet(0.5)
	case ActionBetMediumOrCheck, ActionThinValueOrCheck, ActionCheckOrSmallBet:
		if facingBet {
			return checkOrCall()
		}
		if b.rng.Float64() < 0.6 {
			return bet(0.33)
		}
		return game.Check, 0, nil
	case ActionCheckCall, ActionCheckCallThin, ActionCheckCallOrFold:
		return checkOrCall()
	case ActionSemiBluff:
		if facingBet {
			return checkOrCall()
		}
		return bet(0.66)
	case ActionEvaluateImprovement:
		return checkOrCall()
	case ActionGiveUpOrBluff, ActionBluffOrGiveUp:
		if facingBet {
			return game.Fold, 0, nil
		}
		if b.rng.Float64() < 0.25 {
			return bet(0.66)
		}
		return game.Check, 0, nil
	case ActionCheckFoldOrBluff:
		if facingBet {
			return game.Fold, 0, nil
		}
		if b.rng.Float64() < 0.15 {
			return bet(0.5)
		}
		return game.Check, 0, nil
	case ActionCheckFold:
		return foldOrCheck()
	default:
		return foldOrCheck()
	}
}

// ObserveHandResult folds a completed hand's action history into the
// running opponent model: voluntary preflop participation, preflop
// aggression, and flop c-bet/fold-to-c-bet, from the given seat's
// perspective of the other player.
func (b *Bot) ObserveHandResult(hand *game.HandState, heroSeat int) {
	villain := opponentOf(heroSeat)
	b.opponent.ObserveHandStart()

	voluntary, raised := false, false
	villainWasPreflopAggressor := false
	heroWasPreflopAggressor := false
	cbetOpportunity, didCbet := false, false
	foldOpportunity, foldedToCbet := false, false

	for _, rec := range hand.ActionHistory {
		if rec.Street != game.Preflop {
			continue
		}
		if rec.Action != game.Raise && rec.Action != game.AllIn {
			if rec.Player == villain && rec.Action == game.Call {
				voluntary = true
			}
			continue
		}
		if rec.Player == villain {
			voluntary, raised = true, true
			villainWasPreflopAggressor, heroWasPreflopAggressor = true, false
		} else {
			villainWasPreflopAggressor, heroWasPreflopAggressor = false, true
		}
	}

	for _, rec := range hand.ActionHistory {
		if rec.Street != game.Flop {
			continue
		}
		switch {
		case rec.Player == villain && villainWasPreflopAggressor:
			cbetOpportunity = true
			didCbet = rec.Action == game.Raise || rec.Action == game.AllIn
		case rec.Player == villain && heroWasPreflopAggressor:
			foldOpportunity = true
			foldedToCbet = rec.Action == game.Fold
		}
	}

	if voluntary {
		b.opponent.ObserveVoluntaryAction(raised)
	}
	if cbetOpportunity {
		b.opponent.ObserveCbetOpportunity(didCbet)
	}
	if foldOpportunity {
		b.opponent.ObserveFoldToCbetOpportunity(foldedToCbet)
	}
}

// VillainRangeEstimate exposes the bot's current read on the opponent's
// continuing range, widened or tightened by observed tendencies.
func (b *Bot) VillainRangeEstimate() *analysis.Range {
	action := ActionCalledOpen
	switch {
	case b.opponent.PFR() > 0.3:
		action = ActionThreeBet
	case b.opponent.IsLoose():
		action = ActionOpenLimped
	}
	return EstimateVillainRange(action)
}
