package abstraction

import (
	"hash/fnv"

	"github.com/lox/riposte/internal/tier"
	"github.com/lox/riposte/poker"
)

// PreflopBucketCount is the number of preflop card buckets: one per tier.
const PreflopBucketCount = 11

// PreflopBucket is the preflop card bucket for a hole-card pair: the tier
// index directly, per the abstraction contract (C7: "preflop card bucket =
// tier index").
func PreflopBucket(c0, c1 poker.Card) int {
	return tier.TierOfHand(c0, c1)
}

// PostflopBucketCount is the number of postflop equity-cluster buckets per
// street. A deterministic hash of the sorted board is an acceptable initial
// implementation per the abstraction contract; it is replaceable later by
// equity k-means clustering without touching any caller.
const PostflopBucketCount = 20

// PostflopBucket maps a board (3-5 cards) to a coarse equity-cluster id.
// Order-independent: the board's card bitset, not the deal order, is
// hashed.
func PostflopBucket(board poker.Hand) int {
	if board.CountCards() == 0 {
		return 0
	}
	h := fnv.New32a()
	var buf [8]byte
	v := uint64(board)
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	return int(h.Sum32() % PostflopBucketCount)
}
