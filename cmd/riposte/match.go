package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lox/riposte/cmd/riposte/shared"
	"github.com/lox/riposte/internal/game"
	"github.com/lox/riposte/internal/handhistory"
	"github.com/lox/riposte/internal/wsserver"
)

// MatchCmd plays a fixed number of heads-up hands between two bots and
// reports each side's net chip result.
type MatchCmd struct {
	Bot1          string `help:"Seat 0 bot backend: cfr or bladework" default:"bladework"`
	Bot2          string `help:"Seat 1 bot backend: cfr or bladework" default:"bladework"`
	Model1        string `help:"Blueprint path for --bot1 cfr"`
	Model2        string `help:"Blueprint path for --bot2 cfr"`
	Hands         int    `help:"Number of hands to play" default:"1000"`
	SmallBlind    int    `help:"Small blind" default:"5"`
	BigBlind      int    `help:"Big blind" default:"10"`
	StartingStack int    `help:"Starting stack per player" default:"1000"`
	Seed          int64  `help:"RNG seed (0 picks a random seed)"`
	HandHistory   string `help:"Optional path to append a plain-text hand-history log to"`
	PHHHistory    string `name:"phh-history" help:"Optional path to append a PHH-format (.phhs) hand-history log to"`
	Debug         bool   `help:"Enable debug logging"`
}

// matchResult summarizes one completed match.
type matchResult struct {
	HandsPlayed int
	NetChips    [2]int // seat 0, seat 1, relative to starting stacks
}

func (c *MatchCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	bot1, err := buildBot(c.Bot1, c.Model1, rand.New(rand.NewSource(seed+1)))
	if err != nil {
		return fmt.Errorf("bot1: %w", err)
	}
	bot2, err := buildBot(c.Bot2, c.Model2, rand.New(rand.NewSource(seed+2)))
	if err != nil {
		return fmt.Errorf("bot2: %w", err)
	}
	bots := [2]wsserver.Decider{bot1, bot2}

	var writers []historyWriter
	if c.HandHistory != "" {
		w, err := handhistory.NewWriter(c.HandHistory, 0)
		if err != nil {
			return fmt.Errorf("open hand history: %w", err)
		}
		writers = append(writers, w)
	}
	if c.PHHHistory != "" {
		w, err := handhistory.NewPHHWriter(c.PHHHistory, 0)
		if err != nil {
			return fmt.Errorf("open phh history: %w", err)
		}
		writers = append(writers, w)
	}

	res, err := runMatch(matchConfig{
		bots:          bots,
		hands:         c.Hands,
		smallBlind:    c.SmallBlind,
		bigBlind:      c.BigBlind,
		startingStack: c.StartingStack,
		rng:           rng,
		history:       writers,
	})
	if err != nil {
		return err
	}

	logger.Info("match complete",
		"hands", res.HandsPlayed,
		"bot1_net", res.NetChips[0],
		"bot2_net", res.NetChips[1],
		"bot1_bb_per_100", bbPer100(res.NetChips[0], res.HandsPlayed, c.BigBlind),
		"bot2_bb_per_100", bbPer100(res.NetChips[1], res.HandsPlayed, c.BigBlind),
	)
	return nil
}

// historyWriter is satisfied by both handhistory.Writer and
// handhistory.PHHWriter, letting a match feed the same completed hands to
// either or both sinks.
type historyWriter interface {
	WriteHand(hand *game.HandState, res handhistory.Result) error
}

type matchConfig struct {
	bots          [2]wsserver.Decider
	hands         int
	smallBlind    int
	bigBlind      int
	startingStack int
	rng           *rand.Rand
	history       []historyWriter
}

// runMatch plays a series of heads-up hands to completion, carrying stacks
// forward and rotating the button, the same way wsserver.Session does for
// a single live game. Bots never see stack-replenishment: if a seat busts
// (reaches 0 chips) the match ends early.
func runMatch(cfg matchConfig) (matchResult, error) {
	names := []string{"bot1", "bot2"}
	button := 0
	chips := [2]int{cfg.startingStack, cfg.startingStack}

	res := matchResult{}
	for i := 0; i < cfg.hands; i++ {
		if chips[0] <= 0 || chips[1] <= 0 {
			break
		}

		hand := game.NewHand(cfg.rng, names, button, cfg.smallBlind, cfg.bigBlind,
			game.WithChips(chips[:]))

		for !hand.IsComplete() {
			seat := hand.ActivePlayer
			if seat < 0 {
				break
			}
			action, amount, err := cfg.bots[seat].Decide(hand, seat)
			if err != nil {
				return res, fmt.Errorf("hand %d seat %d decide: %w", i, seat, err)
			}
			if err := hand.ProcessAction(action, amount); err != nil {
				return res, fmt.Errorf("hand %d seat %d action %s: %w", i, seat, action, err)
			}
		}

		payouts := hand.SettleHand()
		for _, w := range cfg.history {
			if err := writeMatchHand(w, hand, cfg.smallBlind, cfg.bigBlind, payouts); err != nil {
				return res, err
			}
		}

		chips[0] = hand.Players[0].Chips
		chips[1] = hand.Players[1].Chips
		button = (button + 1) % 2
		res.HandsPlayed++
	}

	res.NetChips[0] = chips[0] - cfg.startingStack
	res.NetChips[1] = chips[1] - cfg.startingStack
	return res, nil
}

func writeMatchHand(w historyWriter, hand *game.HandState, sb, bb int, payouts map[int]int) error {
	winners := make([]int, 0, 2)
	parallelPayouts := make([]int, len(hand.Players))
	for seat, amount := range payouts {
		if amount > 0 {
			winners = append(winners, seat)
		}
		parallelPayouts[seat] = amount
	}
	return w.WriteHand(hand, handhistory.Result{
		SmallBlind: sb,
		BigBlind:   bb,
		Winners:    winners,
		Payouts:    parallelPayouts,
	})
}

// bbPer100 reports a net chip result in big blinds won per 100 hands, the
// standard win-rate unit for heads-up results.
func bbPer100(netChips, hands, bigBlind int) float64 {
	if hands == 0 || bigBlind == 0 {
		return 0
	}
	return float64(netChips) / float64(bigBlind) / float64(hands) * 100
}
