package abstraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionAlphabetStability(t *testing.T) {
	t.Parallel()
	for i, a := range ActionList {
		assert.Equal(t, i, ActionIndex(a))
	}
	assert.Len(t, ActionList, NumActions)
}

func TestNormalizeUniformOnZero(t *testing.T) {
	t.Parallel()
	out := Normalize([]float64{0, 0, 0}, 1e-8)
	for _, v := range out {
		assert.InDelta(t, 1.0/3.0, v, 1e-9)
	}
}

func TestNormalizeClipsNegativeAndSumsToOne(t *testing.T) {
	t.Parallel()
	out := Normalize([]float64{-1, 2, 2}, 1e-8)
	sum := 0.0
	for _, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
