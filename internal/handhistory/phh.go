package handhistory

import (
	"fmt"
	"os"
	"strings"

	"github.com/lox/riposte/internal/fileutil"
	"github.com/lox/riposte/internal/game"
	"github.com/lox/riposte/internal/phh"
)

// PHHWriter appends one PHH-format (github.com/uoftcprg hand history
// standard) TOML document per hand to a single .phhs file, the format
// poker-research tooling outside this engine expects to read. It mirrors
// Writer's append-by-rewrite behavior so the two sinks can run side by
// side against the same stream of completed hands.
type PHHWriter struct {
	path    string
	handNum int64
}

// NewPHHWriter prepares a PHH writer, numbering hands starting at
// startingHandNum+1. The file is created lazily by the first WriteHand call.
func NewPHHWriter(path string, startingHandNum int64) (*PHHWriter, error) {
	return &PHHWriter{path: path, handNum: startingHandNum}, nil
}

// WriteHand appends one hand encoded as a PHH TOML document, separated
// from any prior document by a blank line.
func (w *PHHWriter) WriteHand(hand *game.HandState, res Result) error {
	w.handNum++

	doc := toPHH(hand, res, w.handNum)
	encoded, err := phh.EncodeToBytes(doc)
	if err != nil {
		return fmt.Errorf("handhistory: encode phh: %w", err)
	}

	existing, err := os.ReadFile(w.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("handhistory: read %s: %w", w.path, err)
	}

	out := append(existing, encoded...)
	out = append(out, '\n')
	if err := fileutil.WriteFileAtomic(w.path, out, 0o644); err != nil {
		return fmt.Errorf("handhistory: write %s: %w", w.path, err)
	}
	return nil
}

// toPHH translates a settled hand into the PHH action/stack vocabulary.
// Blind posts aren't emitted as actions (PHH encodes them via
// BlindsOrStraddles instead); everything from ActionHistory after that
// maps through phh.FormatAction keyed by the engine's own Action.String().
func toPHH(hand *game.HandState, res Result, handNum int64) *phh.HandHistory {
	n := len(hand.Players)

	startingStacks := make([]int, n)
	players := make([]string, n)
	for i, p := range hand.Players {
		startingStacks[i] = p.Chips + p.TotalBet
		players[i] = p.Name
	}

	finishingStacks := make([]int, n)
	winnings := make([]int, n)
	for i, p := range hand.Players {
		finishingStacks[i] = p.Chips
		if i < len(res.Payouts) {
			winnings[i] = res.Payouts[i]
		}
	}

	blinds := make([]int, n)
	sbSeat, bbSeat := blindSeats(hand.Button, n)
	blinds[sbSeat] = res.SmallBlind
	blinds[bbSeat] = res.BigBlind

	actions := make([]string, 0, len(hand.ActionHistory)+n+1)
	for i := range hand.Players {
		if hand.Players[i].HoleCards == 0 {
			continue
		}
		actions = append(actions, fmt.Sprintf("d dh p%d %s", i+1, phhCards(hand.Players[i].HoleCards.String())))
	}

	dealtBoard := false
	for _, rec := range hand.ActionHistory {
		if !dealtBoard && rec.Street != game.Preflop && hand.Board != 0 {
			actions = append(actions, "d db "+phhCards(hand.Board.String()))
			dealtBoard = true
		}
		if a, ok := phh.FormatAction(rec.Player, rec.Action.String(), rec.Amount); ok {
			actions = append(actions, a)
		}
	}

	return &phh.HandHistory{
		Variant:           "NT",
		SeatCount:         n,
		Antes:             make([]int, n),
		BlindsOrStraddles: blinds,
		MinBet:            res.BigBlind,
		StartingStacks:    startingStacks,
		FinishingStacks:   finishingStacks,
		Winnings:          winnings,
		Actions:           actions,
		Players:           players,
		HandID:            fmt.Sprintf("riposte-%05d", handNum),
	}
}

// phhCards normalizes a poker.Hand.String() rendering ("As Kh") into PHH's
// concatenated, space-free card notation ("AsKh").
func phhCards(cardsStr string) string {
	var b strings.Builder
	for _, field := range strings.Fields(cardsStr) {
		b.WriteString(phh.NormalizeCard(field))
	}
	return b.String()
}
