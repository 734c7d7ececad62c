package bladework

import (
	"strings"

	"github.com/lox/riposte/internal/tier"
	"github.com/lox/riposte/sdk/analysis"
)

// PreflopActionType is the shape of villain's observed preflop action,
// used to bound an estimated continuing range by tier.
type PreflopActionType int

const (
	ActionCalledOpen PreflopActionType = iota
	ActionThreeBet
	ActionOpenLimped
)

// maxTierFor bounds the loosest tier an observed preflop action implies the
// villain holds, per the tier-union heuristic: a flat call of an open
// implies a middling-or-better range, a 3-bet implies a premium range, and
// an open-limp implies the widest range (limps are rarely made with hands
// that would rather raise).
func maxTierFor(action PreflopActionType) int {
	switch action {
	case ActionThreeBet:
		return 2
	case ActionOpenLimped:
		return 7
	default:
		return 6
	}
}

// EstimateVillainRange builds a preflop range from the tier union implied
// by an observed action: every hand class at or below the bounding tier,
// unioned into one analysis.Range via its standard notation.
func EstimateVillainRange(action PreflopActionType) *analysis.Range {
	maxTier := maxTierFor(action)

	var notations []string
	for t := 0; t <= maxTier; t++ {
		for _, c := range tier.Classes(t) {
			notations = append(notations, c.String())
		}
	}
	if len(notations) == 0 {
		return analysis.NewRange()
	}

	rg, err := analysis.ParseRange(strings.Join(notations, ","))
	if err != nil {
		return analysis.NewRange()
	}
	return rg
}
