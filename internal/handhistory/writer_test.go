package handhistory

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/riposte/internal/game"
)

func TestWriteHandProducesCanonicalVerbsAndHeader(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "hands.log")

	w, err := NewWriter(path, 0)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	hand := game.NewHand(rng, []string{"Alice", "Bob"}, 0, 5, 10, game.WithChips([]int{1000, 1000}))

	seat := hand.ActivePlayer
	require.NoError(t, hand.ProcessAction(game.Call, 0))
	other := 1 - seat
	require.NoError(t, hand.ProcessAction(game.Check, 0))
	_ = other

	require.NoError(t, w.WriteHand(hand, Result{
		SmallBlind: 5,
		BigBlind:   10,
		Winners:    []int{0},
		Payouts:    []int{20, 0},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "Riposte Hand #00001"))
	assert.Contains(t, content, "posts small blind $5")
	assert.Contains(t, content, "posts big blind $10")
	assert.Contains(t, content, "*** SUMMARY ***")
	assert.Contains(t, content, "Seat 1: Alice won $20")
}

func TestWriteHandAppendsSequentially(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "hands.log")

	w, err := NewWriter(path, 3)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(2))
	hand1 := game.NewHand(rng, []string{"Alice", "Bob"}, 0, 5, 10, game.WithChips([]int{1000, 1000}))
	require.NoError(t, w.WriteHand(hand1, Result{SmallBlind: 5, BigBlind: 10}))

	hand2 := game.NewHand(rng, []string{"Alice", "Bob"}, 1, 5, 10, game.WithChips([]int{1000, 1000}))
	require.NoError(t, w.WriteHand(hand2, Result{SmallBlind: 5, BigBlind: 10}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Riposte Hand #00004")
	assert.Contains(t, content, "Riposte Hand #00005")
}
