package solver

import (
	"math"

	"github.com/lox/riposte/internal/abstraction"
	"github.com/lox/riposte/internal/classification"
	"github.com/lox/riposte/poker"
)

// BucketMapper converts raw poker states into coarse abstractions that CFR can
// operate on. The default implementation is intentionally simple yet deterministic
// so we can iterate quickly while refining the abstraction in later milestones.
type BucketMapper struct {
	config AbstractionConfig
}

// NewBucketMapper returns a mapper backed by the provided abstraction config.
func NewBucketMapper(cfg AbstractionConfig) (*BucketMapper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BucketMapper{config: cfg}, nil
}

// HoleBucket maps a two-card hand to its preflop bucket, which is the tier
// index of its hand class (internal/abstraction.PreflopBucket). The config's
// PreflopBucketCount must agree with abstraction.PreflopBucketCount; this is
// checked by AbstractionConfig.Validate.
func (m *BucketMapper) HoleBucket(hand poker.Hand) int {
	if hand.CountCards() != 2 {
		return 0
	}
	c0 := hand.GetCard(0)
	c1 := hand.GetCard(1)
	return abstraction.PreflopBucket(c0, c1)
}

// BoardBucket maps a board texture (3-5 cards) into a coarse bucket.
func (m *BucketMapper) BoardBucket(board poker.Hand) int {
	if board == 0 {
		return 0
	}

	texture := classification.AnalyzeBoardTexture(board)
	paired := float64(countBoardPairs(board))
	highCards := float64(countHighCards(board))

	score := float64(texture)*2 + paired + highCards*0.5
	bucket := int(math.Round(score / (8.0 / float64(m.config.PostflopBucketCount))))
	if bucket >= m.config.PostflopBucketCount {
		bucket = m.config.PostflopBucketCount - 1
	}
	if bucket < 0 {
		bucket = 0
	}
	return bucket
}

// countBoardPairs is copied locally to avoid exporting from classification.
func countBoardPairs(board poker.Hand) int {
	counts := make(map[uint8]int, 5)
	for i := 0; i < board.CountCards(); i++ {
		c := board.GetCard(i)
		counts[c.Rank()]++
	}
	pairs := 0
	for _, c := range counts {
		if c >= 2 {
			pairs++
		}
	}
	return pairs
}

func countHighCards(board poker.Hand) int {
	high := 0
	for i := 0; i < board.CountCards(); i++ {
		if board.GetCard(i).Rank() >= poker.Ten {
			high++
		}
	}
	return high
}
