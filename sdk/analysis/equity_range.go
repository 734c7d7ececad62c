package analysis

import (
	"math/rand"

	"github.com/lox/riposte/poker"
)

// CalculateEquityVsRanges performs Monte Carlo simulation to calculate hero's
// equity against one or more opponents whose hole cards are drawn from
// supplied ranges, rather than uniformly from the deck. A nil entry in
// villainRanges falls back to a uniform random opponent, matching
// CalculateEquity's behavior for that seat.
func CalculateEquityVsRanges(heroHoles []string, board []string, villainRanges []*Range, simulations int, rng *rand.Rand) EquityResult {
	if len(heroHoles) != 2 || len(villainRanges) == 0 {
		return EquityResult{}
	}

	heroCards, err := parseCards(heroHoles)
	if err != nil {
		return EquityResult{}
	}
	boardCards, err := parseCards(board)
	if err != nil {
		return EquityResult{}
	}
	usedCards := heroCards | boardCards

	var wins, ties uint32

	for sim := 0; sim < simulations; sim++ {
		dead := usedCards
		opponentHands := make([]poker.Hand, len(villainRanges))
		ok := true

		for i, rg := range villainRanges {
			hand, sampled := sampleFromRange(rg, dead, rng)
			if !sampled {
				ok = false
				break
			}
			opponentHands[i] = hand
			dead |= hand
		}
		if !ok {
			continue
		}

		deck := poker.NewDeck(rng)
		available := make([]poker.Card, 0, 52-dead.CountCards())
		for deck.CardsRemaining() > 0 {
			card := deck.DealOne()
			if !dead.HasCard(card) {
				available = append(available, card)
			}
		}
		for i := len(available) - 1; i > 0; i-- {
			j := rng.Intn(i + 1)
			available[i], available[j] = available[j], available[i]
		}

		finalBoard := boardCards
		cardsNeeded := 5 - len(board)
		for i := 0; i < cardsNeeded && i < len(available); i++ {
			finalBoard.AddCard(available[i])
		}

		heroStrength := poker.Evaluate7Cards(heroCards | finalBoard)

		heroWins := true
		tied := false
		for _, oppHand := range opponentHands {
			cmp := poker.CompareHands(heroStrength, poker.Evaluate7Cards(oppHand|finalBoard))
			if cmp < 0 {
				heroWins = false
				break
			} else if cmp == 0 {
				tied = true
			}
		}

		if heroWins {
			if tied {
				ties++
			} else {
				wins++
			}
		}
	}

	return EquityResult{Wins: wins, Ties: ties, TotalSimulations: uint32(simulations)}
}

// sampleFromRange draws a random hand from rg that does not overlap dead,
// falling back to a uniform random two-card hand when rg is nil. Returns
// ok=false if no non-overlapping hand could be found.
func sampleFromRange(rg *Range, dead poker.Hand, rng *rand.Rand) (poker.Hand, bool) {
	if rg == nil {
		deck := poker.NewDeck(rng)
		available := make([]poker.Card, 0, 52)
		for deck.CardsRemaining() > 0 {
			card := deck.DealOne()
			if !dead.HasCard(card) {
				available = append(available, card)
			}
		}
		if len(available) < 2 {
			return 0, false
		}
		i := rng.Intn(len(available))
		j := rng.Intn(len(available))
		for j == i {
			j = rng.Intn(len(available))
		}
		return poker.NewHand(available[i], available[j]), true
	}

	candidates := rg.Hands()
	if len(candidates) == 0 {
		return 0, false
	}
	// Shuffle a working copy so the retained candidate is uniformly picked
	// among non-overlapping hands without biasing toward list order.
	shuffled := make([]poker.Hand, len(candidates))
	copy(shuffled, candidates)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	for _, hand := range shuffled {
		if hand&dead == 0 {
			return hand, true
		}
	}
	return 0, false
}
