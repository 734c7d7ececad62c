package bladework

import (
	"github.com/lox/riposte/internal/tier"
	"github.com/lox/riposte/poker"
)

// Position is one of the two heads-up seats.
type Position int

const (
	Button Position = iota
	BigBlind
)

// ActionFacing is what hero is reacting to at the point of decision.
type ActionFacing int

const (
	FacingNone ActionFacing = iota
	FacingLimp
	FacingRaise
)

// PreflopAction is one of the seven canonical preflop decisions.
type PreflopAction int

const (
	PreflopFold PreflopAction = iota
	PreflopCheck
	PreflopCall
	PreflopRaise
	PreflopThreeBet
	PreflopFourBet
	PreflopFiveBet
)

func (a PreflopAction) String() string {
	switch a {
	case PreflopFold:
		return "fold"
	case PreflopCheck:
		return "check"
	case PreflopCall:
		return "call"
	case PreflopRaise:
		return "raise"
	case PreflopThreeBet:
		return "3bet"
	case PreflopFourBet:
		return "4bet"
	case PreflopFiveBet:
		return "5bet"
	default:
		return "unknown"
	}
}

// SizeBucket classifies a raise size by its multiple over the previous bet
// (or, for an opening raise, its absolute size in big blinds).
type SizeBucket int

const (
	SizeMinraise SizeBucket = iota
	SizeStandardLow
	SizeStandard
	SizeLarge
	SizeOverbet
)

// ClassifySizeBucket buckets a raise by its multiple over the amount it
// raises (2.5x/3.8x/6x/12x breakpoints), or by absolute big-blind size when
// there is no previous raise to measure against (isOpen true).
func ClassifySizeBucket(multipleOrBB float64, isOpen bool) SizeBucket {
	if isOpen {
		switch {
		case multipleOrBB <= 2.5:
			return SizeMinraise
		case multipleOrBB <= 3.8:
			return SizeStandardLow
		case multipleOrBB <= 6:
			return SizeStandard
		case multipleOrBB <= 12:
			return SizeLarge
		default:
			return SizeOverbet
		}
	}
	switch {
	case multipleOrBB <= 2.5:
		return SizeMinraise
	case multipleOrBB <= 3.8:
		return SizeStandardLow
	case multipleOrBB <= 6:
		return SizeStandard
	case multipleOrBB <= 12:
		return SizeLarge
	default:
		return SizeOverbet
	}
}

// PreflopSituation is the full input to the preflop chart oracle.
type PreflopSituation struct {
	Hero        poker.Hand
	Position    Position
	ActionToHero ActionFacing
	NumRaises   int
	SizeBucket  SizeBucket
	StackBB     float64
}

// rfiTierThreshold returns the loosest tier SB may open-raise first-in, by
// stack depth.
func rfiTierThreshold(stackBB float64) int {
	switch ClassifyStackDepth(stackBB) {
	case ShortStack:
		return 7
	case MediumStack:
		return 8
	default:
		return 8
	}
}

// bbDefenseTiers returns (threeBetTier, callTier) for BB facing an SB raise,
// tightening as the raise size bucket grows.
func bbDefenseTiers(bucket SizeBucket) (threeBet, call int) {
	switch bucket {
	case SizeMinraise:
		return 2, 7
	case SizeStandardLow:
		return 2, 6
	case SizeStandard:
		return 1, 5
	case SizeLarge:
		return 1, 3
	default:
		return 0, 1
	}
}

// sbVs3BetTiers returns (fourBetTier, callTier) for SB facing a BB 3-bet.
func sbVs3BetTiers(bucket SizeBucket) (fourBet, call int) {
	switch bucket {
	case SizeMinraise, SizeStandardLow:
		return 0, 4
	case SizeStandard:
		return 0, 2
	default:
		return 0, 1
	}
}

// bbVs4BetTiers returns (fiveBetTier, callTier) for BB facing an SB 4-bet;
// the 4-bet is nearly always a stack-committing raise, so the continuing
// range is already narrow before sizing is considered.
func bbVs4BetTiers(bucket SizeBucket) (fiveBet, call int) {
	return 0, 1
}

// sbVs5BetCallTier returns the tier SB may call a BB 5-bet (effectively a
// shove) with; anything looser folds.
func sbVs5BetCallTier(bucket SizeBucket) int {
	return 0
}

// Decide runs the preflop chart oracle on a situation and returns the
// canonical action.
func Decide(s PreflopSituation) PreflopAction {
	c0 := s.Hero.GetCard(0)
	c1 := s.Hero.GetCard(1)
	t := tier.TierOfHand(c0, c1)

	switch {
	case s.NumRaises == 0 && s.ActionToHero == FacingNone:
		if s.Position == Button && t <= rfiTierThreshold(s.StackBB) {
			return PreflopRaise
		}
		return PreflopFold

	case s.NumRaises == 0 && s.ActionToHero == FacingLimp:
		if t <= 6 {
			return PreflopRaise
		}
		return PreflopCheck

	case s.NumRaises == 1 && s.ActionToHero == FacingRaise:
		threeBetTier, callTier := bbDefenseTiers(s.SizeBucket)
		switch {
		case t <= threeBetTier:
			return PreflopThreeBet
		case t <= callTier:
			return PreflopCall
		default:
			return PreflopFold
		}

	case s.NumRaises == 2:
		fourBetTier, callTier := sbVs3BetTiers(s.SizeBucket)
		switch {
		case t <= fourBetTier:
			return PreflopFourBet
		case t <= callTier:
			return PreflopCall
		default:
			return PreflopFold
		}

	case s.NumRaises == 3:
		fiveBetTier, callTier := bbVs4BetTiers(s.SizeBucket)
		switch {
		case t <= fiveBetTier:
			return PreflopFiveBet
		case t <= callTier:
			return PreflopCall
		default:
			return PreflopFold
		}

	case s.NumRaises >= 4:
		if t <= sbVs5BetCallTier(s.SizeBucket) {
			return PreflopCall
		}
		return PreflopFold

	default:
		return PreflopFold
	}
}
