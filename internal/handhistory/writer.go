// Package handhistory appends a plain-text hand history log, one block per
// hand, using the canonical action verbs and header format the engine's
// operators expect to grep and replay by hand.
package handhistory

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/lox/riposte/internal/fileutil"
	"github.com/lox/riposte/internal/game"
)

// Writer appends hand blocks to a single log file. Safe for concurrent use;
// writes are serialized so two hands never interleave in the file. Each
// write rewrites the whole file through fileutil.WriteFileAtomic rather
// than opening in append mode, so a reader never observes a half-written
// hand even if the process is killed mid-write.
type Writer struct {
	mu      sync.Mutex
	path    string
	handNum int64
}

// NewWriter prepares a writer for the hand-history log at path, numbering
// hands starting at startingHandNum+1. The file is created lazily by the
// first WriteHand call.
func NewWriter(path string, startingHandNum int64) (*Writer, error) {
	return &Writer{path: path, handNum: startingHandNum}, nil
}

// Result carries the showdown/summary information a WriteHand caller
// already knows and the engine doesn't retain once a hand is over.
type Result struct {
	SmallBlind int
	BigBlind   int
	Winners    []int // seat indices, empty if uncontested
	Payouts    []int // chips won per seat, parallel to hand.Players
}

// WriteHand appends one hand's block to the log: header, blinds, per-street
// actions, and a summary. Hands are numbered sequentially starting from the
// writer's configured offset; the numbering is entirely local to this
// writer instance, not derived from the hand itself.
func (w *Writer) WriteHand(hand *game.HandState, res Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handNum++

	existing, err := os.ReadFile(w.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("handhistory: read %s: %w", w.path, err)
	}

	var b strings.Builder
	b.Write(existing)
	formatHand(&b, w.handNum, hand, res)

	if err := fileutil.WriteFileAtomic(w.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("handhistory: write %s: %w", w.path, err)
	}
	return nil
}

func formatHand(b *strings.Builder, handNum int64, hand *game.HandState, res Result) {
	fmt.Fprintf(b, "Riposte Hand #%05d  -  Hold'em No Limit ($%d/$%d)\n", handNum, res.SmallBlind, res.BigBlind)
	fmt.Fprintf(b, "Table 'heads-up'\n")

	for i, p := range hand.Players {
		fmt.Fprintf(b, "Seat %d: %s ($%d in chips)\n", i+1, p.Name, p.Chips+p.TotalBet)
	}

	sbSeat, bbSeat := blindSeats(hand.Button, len(hand.Players))
	fmt.Fprintf(b, "%s: posts small blind $%d\n", hand.Players[sbSeat].Name, res.SmallBlind)
	fmt.Fprintf(b, "%s: posts big blind $%d\n", hand.Players[bbSeat].Name, res.BigBlind)

	fmt.Fprintf(b, "*** HOLE CARDS ***\n")
	for _, p := range hand.Players {
		if p.HoleCards != 0 {
			fmt.Fprintf(b, "Dealt to %s [%s]\n", p.Name, p.HoleCards.String())
		}
	}

	writeActions(b, hand)

	fmt.Fprintf(b, "*** SUMMARY ***\n")
	fmt.Fprintf(b, "Total pot $%d\n", totalPot(hand))
	if hand.Board != 0 {
		fmt.Fprintf(b, "Board [%s]\n", hand.Board.String())
	}
	for _, seat := range res.Winners {
		if seat < 0 || seat >= len(hand.Players) {
			continue
		}
		won := 0
		if seat < len(res.Payouts) {
			won = res.Payouts[seat]
		}
		fmt.Fprintf(b, "Seat %d: %s won $%d\n", seat+1, hand.Players[seat].Name, won)
	}
	fmt.Fprintf(b, "\n")
}

// writeActions replays the ordered action log, inserting street markers and
// choosing between "bets"/"raises to" based on whether a street already
// carries aggression.
func writeActions(b *strings.Builder, hand *game.HandState) {
	currentStreet := game.Preflop
	currentBet := 0
	aggression := false
	boardSoFar := ""

	for _, rec := range hand.ActionHistory {
		if rec.Street != currentStreet {
			currentStreet = rec.Street
			currentBet = 0
			aggression = false
			boardSoFar = streetBoardLabel(currentStreet)
			if boardSoFar != "" {
				fmt.Fprintf(b, "*** %s ***\n", boardSoFar)
			}
		}

		name := hand.Players[rec.Player].Name
		switch rec.Action {
		case game.Fold:
			fmt.Fprintf(b, "%s: folds\n", name)
		case game.Check:
			fmt.Fprintf(b, "%s: checks\n", name)
		case game.Call:
			fmt.Fprintf(b, "%s: calls $%d\n", name, rec.Amount)
		case game.Raise, game.AllIn:
			if !aggression {
				fmt.Fprintf(b, "%s: bets $%d\n", name, rec.Amount)
			} else {
				fmt.Fprintf(b, "%s: raises $%d to $%d\n", name, rec.Amount-currentBet, rec.Amount)
			}
			currentBet = rec.Amount
			aggression = true
		}
	}
}

func streetBoardLabel(street game.Street) string {
	switch street {
	case game.Flop:
		return "FLOP"
	case game.Turn:
		return "TURN"
	case game.River:
		return "RIVER"
	default:
		return ""
	}
}

func blindSeats(button, numPlayers int) (sb, bb int) {
	if numPlayers == 2 {
		return button, (button + 1) % numPlayers
	}
	return (button + 1) % numPlayers, (button + 2) % numPlayers
}

func totalPot(hand *game.HandState) int {
	total := 0
	for _, pot := range hand.GetPots() {
		total += pot.Amount
	}
	return total
}
