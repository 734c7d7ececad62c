// Package bladework implements the hand-crafted strategy bot: a tiered
// preflop oracle, Monte-Carlo postflop equity reasoning, board-texture-aware
// multi-street planning, and opponent modeling from observed action history.
package bladework

// OpponentModel accumulates the frequency statistics bladework uses to
// deviate from its static charts: voluntarily-put-in-pot rate,
// preflop-raise rate, and continuation-bet rate, each tracked as a simple
// counter pair rather than a decaying average, since a single match's
// sample size never justifies more than that.
type OpponentModel struct {
	handsObserved int

	vpipHands int
	pfrHands  int

	cbetOpportunities int
	cbetHands         int

	foldToCbetOpportunities int
	foldToCbetHands         int
}

// NewOpponentModel returns an opponent model with no observations.
func NewOpponentModel() *OpponentModel {
	return &OpponentModel{}
}

// ObserveHandStart records that a new hand began, for VPIP/PFR denominators.
func (m *OpponentModel) ObserveHandStart() {
	m.handsObserved++
}

// ObserveVoluntaryAction records a preflop call or raise (not a blind post).
func (m *OpponentModel) ObserveVoluntaryAction(raised bool) {
	m.vpipHands++
	if raised {
		m.pfrHands++
	}
}

// ObserveCbetOpportunity records that the opponent had the option to
// continuation-bet as preflop aggressor, and whether they took it.
func (m *OpponentModel) ObserveCbetOpportunity(didBet bool) {
	m.cbetOpportunities++
	if didBet {
		m.cbetHands++
	}
}

// ObserveFoldToCbetOpportunity records that the opponent faced a
// continuation bet, and whether they folded to it.
func (m *OpponentModel) ObserveFoldToCbetOpportunity(folded bool) {
	m.foldToCbetOpportunities++
	if folded {
		m.foldToCbetHands++
	}
}

// minSampleSize is how many observations a frequency statistic needs before
// it replaces its neutral default, which reflects a generic, unexploited
// opponent.
const minSampleSize = 10

// VPIP returns the observed voluntarily-put-in-pot rate, or a neutral
// default if too few hands have been observed.
func (m *OpponentModel) VPIP() float64 {
	if m.handsObserved < minSampleSize {
		return 0.25
	}
	return float64(m.vpipHands) / float64(m.handsObserved)
}

// PFR returns the observed preflop-raise rate, or a neutral default.
func (m *OpponentModel) PFR() float64 {
	if m.handsObserved < minSampleSize {
		return 0.18
	}
	return float64(m.pfrHands) / float64(m.handsObserved)
}

// CbetFrequency returns the observed continuation-bet rate as preflop
// aggressor, or a neutral default.
func (m *OpponentModel) CbetFrequency() float64 {
	if m.cbetOpportunities < minSampleSize {
		return 0.65
	}
	return float64(m.cbetHands) / float64(m.cbetOpportunities)
}

// FoldToCbetFrequency returns the observed fold-to-continuation-bet rate,
// or a neutral default.
func (m *OpponentModel) FoldToCbetFrequency() float64 {
	if m.foldToCbetOpportunities < minSampleSize {
		return 0.45
	}
	return float64(m.foldToCbetHands) / float64(m.foldToCbetOpportunities)
}

// IsLoose reports whether the opponent plays a wider range than a
// typical tight-aggressive baseline, per VPIP.
func (m *OpponentModel) IsLoose() bool {
	return m.VPIP() >= 0.35
}

// IsAggressive reports whether the opponent raises a large share of the
// hands they enter, per PFR relative to VPIP.
func (m *OpponentModel) IsAggressive() bool {
	vpip := m.VPIP()
	if vpip == 0 {
		return false
	}
	return m.PFR()/vpip >= 0.65
}
