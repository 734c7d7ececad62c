package wsserver

import "github.com/lox/riposte/internal/game"

// SerializedState is the stable JSON dictionary every engine-facing
// operation returns, matching the required key set verbatim.
type SerializedState struct {
	GameID        string          `json:"game_id"`
	PlayerHand    []string        `json:"player_hand"`
	Community     []string        `json:"community"`
	Pot           int             `json:"pot"`
	Players       []SeatState     `json:"players"`
	CurrentPlayer int             `json:"current_player"`
	BettingRound  string          `json:"betting_round"`
	CurrentBet    int             `json:"current_bet"`
	LastBetAmount int             `json:"last_bet_amount"`
	ActionHistory []ActionEntry   `json:"action_history"`
	DealerPos     int             `json:"dealer_pos"`
}

// SeatState is one player's view within SerializedState.
type SeatState struct {
	Name       string `json:"name"`
	Stack      int    `json:"stack"`
	CurrentBet int    `json:"current_bet"`
	Status     string `json:"status"`
	Hand       []string `json:"hand,omitempty"`
}

// ActionEntry mirrors game.ActionRecord in the wire format.
type ActionEntry struct {
	Player   int    `json:"player"`
	Action   string `json:"action"`
	Amount   int    `json:"amount,omitempty"`
	Round    string `json:"round"`
	PotAfter int    `json:"pot_after"`
}

// Serialize builds the wire representation of hand from the perspective of
// viewerSeat: that seat's hole cards are revealed, every other live seat's
// are hidden unless the hand has reached showdown.
func Serialize(gameID string, hand *game.HandState, viewerSeat int) SerializedState {
	lastBetAmount := 0
	if len(hand.ActionHistory) > 0 {
		lastBetAmount = hand.ActionHistory[len(hand.ActionHistory)-1].Amount
	}

	out := SerializedState{
		GameID:        gameID,
		PlayerHand:    cardStrings(playerHoleCards(hand, viewerSeat)),
		Community:     cardStrings(boardCards(hand)),
		Pot:           totalPot(hand),
		Players:       make([]SeatState, len(hand.Players)),
		CurrentPlayer: hand.ActivePlayer,
		BettingRound:  hand.Street.String(),
		CurrentBet:    hand.Betting.CurrentBet,
		LastBetAmount: lastBetAmount,
		ActionHistory: make([]ActionEntry, len(hand.ActionHistory)),
		DealerPos:     hand.Button,
	}

	showdown := hand.Street == game.Showdown
	for i, p := range hand.Players {
		status := "active"
		switch {
		case p.Folded:
			status = "folded"
		case p.AllInFlag:
			status = "allin"
		}
		seat := SeatState{
			Name:       p.Name,
			Stack:      p.Chips,
			CurrentBet: p.Bet,
			Status:     status,
		}
		if i == viewerSeat || showdown {
			seat.Hand = cardStrings(playerHoleCards(hand, i))
		}
		out.Players[i] = seat
	}

	for i, rec := range hand.ActionHistory {
		out.ActionHistory[i] = ActionEntry{
			Player:   rec.Player,
			Action:   rec.Action.String(),
			Amount:   rec.Amount,
			Round:    rec.Street.String(),
			PotAfter: rec.PotAfter,
		}
	}

	return out
}

func playerHoleCards(hand *game.HandState, seat int) []string {
	if seat < 0 || seat >= len(hand.Players) {
		return nil
	}
	p := hand.Players[seat]
	if p.HoleCards == 0 {
		return nil
	}
	return splitCards(p.HoleCards.String())
}

func boardCards(hand *game.HandState) []string {
	if hand.Board == 0 {
		return nil
	}
	return splitCards(hand.Board.String())
}

func splitCards(s string) []string {
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

func cardStrings(cards []string) []string {
	if cards == nil {
		return []string{}
	}
	return cards
}

func totalPot(hand *game.HandState) int {
	total := 0
	for _, pot := range hand.GetPots() {
		total += pot.Amount
	}
	return total
}
