package bladework

import (
	"testing"

	"github.com/lox/riposte/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHand(t *testing.T, s1, s2 string) poker.Hand {
	t.Helper()
	c0, err := poker.ParseCard(s1)
	require.NoError(t, err)
	c1, err := poker.ParseCard(s2)
	require.NoError(t, err)
	return poker.NewHand(c0, c1)
}

func TestDecide_RFIWithAces(t *testing.T) {
	t.Parallel()
	aces := mustHand(t, "As", "Ah")
	action := Decide(PreflopSituation{
		Hero:         aces,
		Position:     Button,
		ActionToHero: FacingNone,
		StackBB:      100,
	})
	assert.Equal(t, PreflopRaise, action)
}

func TestDecide_RFIWithTrash(t *testing.T) {
	t.Parallel()
	trash := mustHand(t, "7c", "2d")
	action := Decide(PreflopSituation{
		Hero:         trash,
		Position:     Button,
		ActionToHero: FacingNone,
		StackBB:      100,
	})
	assert.Equal(t, PreflopFold, action)
}

func TestDecide_BBFacingRaiseThreeBetsAces(t *testing.T) {
	t.Parallel()
	aces := mustHand(t, "As", "Ah")
	action := Decide(PreflopSituation{
		Hero:         aces,
		Position:     BigBlind,
		ActionToHero: FacingRaise,
		NumRaises:    1,
		SizeBucket:   SizeStandard,
		StackBB:      100,
	})
	assert.Equal(t, PreflopThreeBet, action)
}

func TestClassifySizeBucket(t *testing.T) {
	t.Parallel()
	assert.Equal(t, SizeMinraise, ClassifySizeBucket(2.0, false))
	assert.Equal(t, SizeStandard, ClassifySizeBucket(5.0, false))
	assert.Equal(t, SizeOverbet, ClassifySizeBucket(15.0, false))
}
