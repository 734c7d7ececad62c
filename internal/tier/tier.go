// Package tier partitions the 169 canonical Texas Hold'em starting-hand
// classes into 11 strength tiers (0 = strongest).
//
// The partition is built once at init time from a deterministic scoring
// heuristic (pairs score highest, then suited broadway, suited connectors,
// offsuit high cards, trash last), weighted by how many of the 1326
// two-card combinations each class represents, then greedily filled into
// ten roughly-equal buckets. An elite tier is carved out ahead of the
// computed buckets, and a handful of small/medium pocket pairs are pinned
// to explicit tiers by hand, matching the reference chart this package is
// ported from.
package tier

import "github.com/lox/riposte/poker"

// Class identifies one of the 169 canonical starting-hand classes: a pocket
// pair (High == Low, Suited ignored) or a (high, low, suited) triple.
// Ranks are 2..14 (Ace = 14) to match standard hand notation.
type Class struct {
	High   uint8
	Low    uint8
	Suited bool
}

// IsPair reports whether the class is a pocket pair.
func (c Class) IsPair() bool { return c.High == c.Low }

// String renders the class in standard notation, e.g. "AKs", "72o", "TT".
func (c Class) String() string {
	chars := "..23456789TJQKA"
	if c.IsPair() {
		return string([]byte{chars[c.High], chars[c.Low]})
	}
	suffix := byte('o')
	if c.Suited {
		suffix = 's'
	}
	return string([]byte{chars[c.High], chars[c.Low], suffix})
}

const (
	numTiers    = 11
	totalCombos = 1326
	combosPair  = 6
	combosSuit  = 4
	combosOff   = 12
)

var tierOf = map[Class]int{}
var classesByTier [numTiers][]Class

func init() {
	type weighted struct {
		class  Class
		combos int
		score  int
	}

	var all []weighted
	for hi := 14; hi >= 2; hi-- {
		for lo := hi; lo >= 2; lo-- {
			if hi == lo {
				c := Class{High: uint8(hi), Low: uint8(lo)}
				all = append(all, weighted{c, combosPair, strengthScore(c)})
				continue
			}
			suited := Class{High: uint8(hi), Low: uint8(lo), Suited: true}
			all = append(all, weighted{suited, combosSuit, strengthScore(suited)})
			offsuit := Class{High: uint8(hi), Low: uint8(lo), Suited: false}
			all = append(all, weighted{offsuit, combosOff, strengthScore(offsuit)})
		}
	}

	// Sort by descending strength (stable insertion sort keeps generation
	// order for ties, which is deterministic since `all` was built in a
	// fixed nested-loop order).
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].score > all[j-1].score; j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}

	const numComputedTiers = numTiers - 1
	target := float64(totalCombos) / float64(numComputedTiers)

	computed := make([][]Class, numComputedTiers)
	idx := 0
	running := 0.0
	for _, w := range all {
		if running+float64(w.combos) > target && idx < numComputedTiers-1 {
			idx++
			running = 0
		}
		computed[idx] = append(computed[idx], w.class)
		running += float64(w.combos)
	}

	elite := []Class{
		{High: 14, Low: 14}, {High: 13, Low: 13}, {High: 12, Low: 12}, {High: 11, Low: 11},
		{High: 14, Low: 13, Suited: false}, {High: 14, Low: 13, Suited: true}, {High: 14, Low: 12, Suited: true},
	}
	eliteSet := map[Class]bool{}
	for _, c := range elite {
		eliteSet[c] = true
	}

	classesByTier[0] = elite
	for i, bucket := range computed {
		out := bucket[:0]
		for _, c := range bucket {
			if !eliteSet[c] {
				out = append(out, c)
			}
		}
		classesByTier[i+1] = out
	}

	// Pin small/medium pocket pairs to explicit tiers (final tier indices,
	// post elite-tier insertion).
	pairOverride := map[uint8]int{2: 4, 3: 4, 4: 3, 5: 3, 6: 3, 7: 2, 8: 2}
	for rank, dest := range pairOverride {
		pair := Class{High: rank, Low: rank}
		for i := range classesByTier {
			for j, c := range classesByTier[i] {
				if c == pair {
					classesByTier[i] = append(classesByTier[i][:j], classesByTier[i][j+1:]...)
					break
				}
			}
		}
		classesByTier[dest] = append(classesByTier[dest], pair)
	}

	for i, bucket := range classesByTier {
		for _, c := range bucket {
			tierOf[c] = i
		}
	}
}

// strengthScore ranks a class by a heuristic: pairs first (adjusted so
// small pairs don't outrank strong non-pairs), then high-card weight with
// bonuses for connectivity and suitedness.
func strengthScore(c Class) int {
	if c.IsPair() {
		penalty := 0
		if c.High < 9 {
			penalty = (9 - int(c.High)) * 80
		}
		return 300 + 25*int(c.High) - penalty
	}

	hi, lo := int(c.High), int(c.Low)
	gap := hi - lo

	score := hi*20 + lo
	if bonus := 5 - gap; bonus > 0 {
		score += bonus * 10
	}

	switch {
	case hi == 14:
		score += 30
	case hi >= 11:
		score += 10
	}

	if c.Suited {
		score += 40
		switch gap {
		case 1:
			score += 60
		case 2:
			score += 30
		}
	}

	if hi <= 7 && lo <= 5 && !c.Suited {
		score -= 20
	}
	return score
}

// Tier returns the tier (0..10, 0 strongest) of a hand class. Total over
// all 169 classes.
func Tier(c Class) int {
	t, ok := tierOf[c]
	if !ok {
		panic("tier: unknown hand class " + c.String())
	}
	return t
}

// Classes returns every class assigned to the given tier.
func Classes(t int) []Class {
	return classesByTier[t]
}

// ClassOf derives the canonical class for a pair of hole cards.
func ClassOf(c0, c1 poker.Card) Class {
	r0, r1 := rankValue(c0.Rank()), rankValue(c1.Rank())
	suited := c0.Suit() == c1.Suit()
	if r0 < r1 {
		r0, r1 = r1, r0
	}
	return Class{High: r0, Low: r1, Suited: suited && r0 != r1}
}

// TierOfHand returns the tier of a two-card hole hand.
func TierOfHand(c0, c1 poker.Card) int {
	return Tier(ClassOf(c0, c1))
}

func rankValue(r uint8) uint8 {
	if r == poker.Ace {
		return 14
	}
	return r + 2
}
