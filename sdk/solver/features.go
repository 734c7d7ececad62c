package solver

import "strings"

// FeatureVectorSize is the fixed length of the feature vector produced by
// FeatureVector. Every producer/consumer in the deep-CFR networks must
// agree on this constant; a mismatch is a programmer bug, not a runtime
// condition to recover from.
//
// Layout: one-hot street (4) + card_bucket/200 (1) + pot_bucket/20 (1) +
// pot_odds (1) + SPR (1) + 7 clipped history-action counts/5 (7) +
// history length/20 (1) + position (1) = 17.
const FeatureVectorSize = 4 + 1 + 1 + 1 + 1 + 7 + 1 + 1

// HistoryActionCounts tallies, for the 7 raise-shaped actions in the
// canonical alphabet (everything except fold/check/call), how many times
// each appeared in the normalized history, clipped to 5 before the caller
// divides by 5 in FeatureVector.
type HistoryActionCounts [7]int

// ClipAndNormalize returns the counts clipped to [0,5] and divided by 5.
func (c HistoryActionCounts) ClipAndNormalize() [7]float64 {
	var out [7]float64
	for i, n := range c {
		if n > 5 {
			n = 5
		}
		out[i] = float64(n) / 5.0
	}
	return out
}

// FeatureInput is everything FeatureVector needs beyond the InfoSetKey
// itself: derived quantities that are cheap to recompute at the call site
// but don't belong in the key (the key must stay small and hashable).
type FeatureInput struct {
	PotOdds       float64
	SPR           float64
	HistoryCounts HistoryActionCounts
	HistoryLength int
	Position      int // 0 or 1 in heads-up
}

// FeatureVector encodes an information set into the fixed-length vector
// consumed by the deep-CFR value/advantage/policy networks.
func FeatureVector(key InfoSetKey, in FeatureInput) [FeatureVectorSize]float64 {
	var v [FeatureVectorSize]float64
	idx := 0

	for s := 0; s < 4; s++ {
		if int(key.Street) == s {
			v[idx] = 1
		}
		idx++
	}

	v[idx] = float64(key.HoleBucket) / 200.0
	idx++
	v[idx] = float64(key.PotBucket) / 20.0
	idx++
	v[idx] = in.PotOdds
	idx++
	v[idx] = in.SPR
	idx++

	counts := in.HistoryCounts.ClipAndNormalize()
	for _, c := range counts {
		v[idx] = c
		idx++
	}

	v[idx] = float64(in.HistoryLength) / 20.0
	idx++
	v[idx] = float64(in.Position)
	idx++

	return v
}

// NormalizeHistory joins abstract action abbreviations with a separator,
// truncating to the most recent maxActions entries so the history string
// stays bounded regardless of how deep a hand goes.
func NormalizeHistory(actions []string, maxActions int) string {
	if len(actions) > maxActions {
		actions = actions[len(actions)-maxActions:]
	}
	return strings.Join(actions, ":")
}
