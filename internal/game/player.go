package game

import "github.com/lox/riposte/poker"

// Player is one seat at the table for the duration of a hand.
type Player struct {
	Seat      int
	Name      string
	Chips     int
	Bet       int // chips committed this betting round, uncollected
	TotalBet  int // chips committed this hand, across all rounds
	HoleCards poker.Hand
	Folded    bool
	AllInFlag bool
}
