package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lox/riposte/cmd/riposte/shared"
	"github.com/lox/riposte/internal/wsserver"
)

// MatchSeriesCmd runs several independent matches back to back (fresh RNG
// seed and fresh starting stacks each time) and reports the aggregate
// win rate across all of them, smoothing out single-match variance.
type MatchSeriesCmd struct {
	Bot1          string `help:"Seat 0 bot backend: cfr or bladework" default:"bladework"`
	Bot2          string `help:"Seat 1 bot backend: cfr or bladework" default:"bladework"`
	Model1        string `help:"Blueprint path for --bot1 cfr"`
	Model2        string `help:"Blueprint path for --bot2 cfr"`
	Matches       int    `help:"Number of matches to play" default:"10"`
	MaxHands      int    `help:"Maximum hands per match" default:"1000"`
	SmallBlind    int    `help:"Small blind" default:"5"`
	BigBlind      int    `help:"Big blind" default:"10"`
	StartingStack int    `help:"Starting stack per player" default:"1000"`
	Seed          int64  `help:"Base RNG seed (0 picks a random base seed)"`
	Debug         bool   `help:"Enable debug logging"`
}

func (c *MatchSeriesCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	baseSeed := c.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	var totalHands int
	var totalNet [2]int

	for m := 0; m < c.Matches; m++ {
		seed := baseSeed + int64(m)*1_000_003 // spread seeds apart, avoid adjacent correlation
		rng := rand.New(rand.NewSource(seed))

		bot1, err := buildBot(c.Bot1, c.Model1, rand.New(rand.NewSource(seed+1)))
		if err != nil {
			return fmt.Errorf("match %d bot1: %w", m, err)
		}
		bot2, err := buildBot(c.Bot2, c.Model2, rand.New(rand.NewSource(seed+2)))
		if err != nil {
			return fmt.Errorf("match %d bot2: %w", m, err)
		}

		res, err := runMatch(matchConfig{
			bots:          [2]wsserver.Decider{bot1, bot2},
			hands:         c.MaxHands,
			smallBlind:    c.SmallBlind,
			bigBlind:      c.BigBlind,
			startingStack: c.StartingStack,
			rng:           rng,
		})
		if err != nil {
			return fmt.Errorf("match %d: %w", m, err)
		}

		totalHands += res.HandsPlayed
		totalNet[0] += res.NetChips[0]
		totalNet[1] += res.NetChips[1]

		logger.Info("match finished",
			"match", m+1,
			"hands", res.HandsPlayed,
			"bot1_net", res.NetChips[0],
			"bot2_net", res.NetChips[1],
		)
	}

	logger.Info("series complete",
		"matches", c.Matches,
		"total_hands", totalHands,
		"bot1_bb_per_100", bbPer100(totalNet[0], totalHands, c.BigBlind),
		"bot2_bb_per_100", bbPer100(totalNet[1], totalHands, c.BigBlind),
	)
	return nil
}
