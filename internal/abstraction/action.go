// Package abstraction implements the card- and action-abstraction layer
// (C7) that the CFR trainer and the CFR bot operate over: a fixed-order
// action alphabet, bucket mappings for preflop and postflop card
// abstraction, and the floating-point sanitation routine every sampler in
// the trainer funnels through.
package abstraction

import "fmt"

// Action is one symbol of the canonical, fixed-order action alphabet.
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise1_0
	Raise3_0
	Raise5_0
	Raise0_35
	Raise0_7
	Raise1_1
	AllIn
)

// ActionList is the canonical action alphabet in stable order. Index i of
// this list is by definition ActionIndex(ActionList[i]).
var ActionList = []Action{
	Fold, Check, Call, Raise1_0, Raise3_0, Raise5_0, Raise0_35, Raise0_7, Raise1_1, AllIn,
}

// NumActions is the size of the abstract action alphabet.
const NumActions = 10

// raiseMultiples maps the raise_X actions to their X multiplier.
var raiseMultiples = map[Action]float64{
	Raise1_0:  1.0,
	Raise3_0:  3.0,
	Raise5_0:  5.0,
	Raise0_35: 0.35,
	Raise0_7:  0.7,
	Raise1_1:  1.1,
}

// Multiple returns the sizing multiplier for a raise_X action, and ok=false
// for non-raise actions.
func (a Action) Multiple() (float64, bool) {
	m, ok := raiseMultiples[a]
	return m, ok
}

// IsRaise reports whether the action is one of the raise_X actions.
func (a Action) IsRaise() bool {
	_, ok := raiseMultiples[a]
	return ok
}

func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case AllIn:
		return "allin"
	default:
		if m, ok := a.Multiple(); ok {
			return fmt.Sprintf("raise_%.2f", m)
		}
		return "unknown"
	}
}

// ActionIndex returns the stable index of an action within ActionList.
// ActionIndex(ActionList[i]) == i for every i, by construction.
func ActionIndex(a Action) int {
	return int(a)
}
