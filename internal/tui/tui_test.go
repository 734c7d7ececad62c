package tui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lox/riposte/internal/game"
)

// foldingBot always folds, driving any hand it's dealt into straight to
// settlement without needing real strategy.
type foldingBot struct{}

func (foldingBot) Decide(hand *game.HandState, seat int) (game.Action, int, error) {
	return game.Fold, 0, nil
}

func TestParseAction(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input      string
		wantAction game.Action
		wantAmount int
		wantErr    bool
	}{
		{"fold", game.Fold, 0, false},
		{"f", game.Fold, 0, false},
		{"check", game.Check, 0, false},
		{"x", game.Check, 0, false},
		{"call", game.Call, 0, false},
		{"allin", game.AllIn, 0, false},
		{"raise 40", game.Raise, 40, false},
		{"bet 40", game.Raise, 40, false},
		{"r 100", game.Raise, 100, false},
		{"raise", 0, 0, true},
		{"raise abc", 0, 0, true},
		{"", 0, 0, true},
		{"dance", 0, 0, true},
	}

	for _, tt := range tests {
		action, amount, err := parseAction(tt.input, nil)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseAction(%q): expected an error, got none", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAction(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if action != tt.wantAction || amount != tt.wantAmount {
			t.Errorf("parseAction(%q) = (%v, %d), want (%v, %d)", tt.input, action, amount, tt.wantAction, tt.wantAmount)
		}
	}
}

func TestDescribeAction(t *testing.T) {
	t.Parallel()
	if got := describeAction(game.Raise, 50); got != "raise to 50" {
		t.Errorf("describeAction(Raise, 50) = %q, want %q", got, "raise to 50")
	}
	if got := describeAction(game.Call, 0); got != game.Call.String() {
		t.Errorf("describeAction(Call, 0) = %q, want %q", got, game.Call.String())
	}
}

func TestNewModelPlaysHeroFoldThroughToSettlement(t *testing.T) {
	t.Parallel()
	logger := log.New(io.Discard)
	m := NewModel(foldingBot{}, 5, 10, 1000, logger)

	// Heads-up: hero (seat 0) is the button and acts first preflop.
	if m.session.Hand.ActivePlayer != m.session.HeroSeat {
		t.Fatal("expected hero to act first preflop heads-up")
	}

	m.handleInput("fold")

	if !m.session.Hand.IsComplete() {
		t.Fatal("hand should be complete after hero folds")
	}
	if m.lastPayouts == nil {
		t.Fatal("expected SettleHand to have run and recorded payouts")
	}

	joined := strings.Join(m.gameLog, "\n")
	if !strings.Contains(joined, "fold") {
		t.Errorf("expected the game log to mention the fold, got: %q", joined)
	}
}

func TestDealNextHandEndsSessionOnceASeatBusts(t *testing.T) {
	t.Parallel()
	logger := log.New(io.Discard)
	m := NewModel(foldingBot{}, 5, 10, 1000, logger)

	m.session.Hand.Players[m.session.BotSeat].Chips = 0
	m.dealNextHand()

	if !m.quitting {
		t.Error("dealNextHand should end the session once a seat is out of chips")
	}
}
