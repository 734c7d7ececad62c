package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeatureVectorSize(t *testing.T) {
	t.Parallel()
	key := InfoSetKey{Street: StreetFlop, HoleBucket: 5, PotBucket: 3}
	v := FeatureVector(key, FeatureInput{PotOdds: 0.3, SPR: 4.0, HistoryLength: 3, Position: 1})
	assert.Len(t, v, FeatureVectorSize)
	assert.Equal(t, 1.0, v[1], "street one-hot bit for flop should be set")
}

func TestHistoryActionCounts_ClipAndNormalize(t *testing.T) {
	t.Parallel()
	counts := HistoryActionCounts{10, 0, 2, 0, 0, 0, 0}
	out := counts.ClipAndNormalize()
	assert.InDelta(t, 1.0, out[0], 1e-9)
	assert.InDelta(t, 0.4, out[2], 1e-9)
}

func TestNormalizeHistory_Truncates(t *testing.T) {
	t.Parallel()
	actions := []string{"fold", "check", "call", "raise_1.0", "allin"}
	got := NormalizeHistory(actions, 3)
	assert.Equal(t, "call:raise_1.0:allin", got)
}

func TestPotBucketFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, PotBucketFor(1))
	assert.Equal(t, 3, PotBucketFor(15))
	assert.Equal(t, 6, PotBucketFor(150))
}
