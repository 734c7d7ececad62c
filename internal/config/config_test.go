package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesHCLOverrides(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "riposte.hcl")

	body := `
game {
  small_blind    = 25
  big_blind      = 50
  ante           = 5
  starting_stack = 5000
  num_players    = 2
}

cfr {
  iterations       = 500000
  parallel_tables  = 8
  preflop_buckets  = 11
  postflop_buckets = 30
  bet_sizing       = [0.33, 0.75, 1.5]
}

deep {
  hidden_size    = 256
  num_layers     = 4
  learning_rate  = 0.0005
}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 25, cfg.Game.SmallBlind)
	assert.Equal(t, 50, cfg.Game.BigBlind)
	assert.Equal(t, 5000, cfg.Game.StartingStack)
	assert.Equal(t, 500000, cfg.CFR.Iterations)
	assert.Equal(t, []float64{0.33, 0.75, 1.5}, cfg.CFR.BetSizing)
	require.NotNil(t, cfg.Deep)
	assert.Equal(t, 256, cfg.Deep.HiddenSize)
}

func TestValidateRejectsBadBlinds(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Game.BigBlind = cfg.Game.SmallBlind
	assert.Error(t, cfg.Validate())
}

func TestDeepCFRConfigAbsentWithoutBlock(t *testing.T) {
	t.Parallel()
	cfg := Default()
	_, ok := cfg.DeepCFRConfig(17, 10)
	assert.False(t, ok)
}

func TestDeepCFRConfigPresentWithBlock(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Deep = &DeepSettings{HiddenSize: 128, NumLayers: 2, LearningRate: 0.001}

	deepCfg, ok := cfg.DeepCFRConfig(17, 10)
	require.True(t, ok)
	assert.Equal(t, 17, deepCfg.Network.FeatureSize)
	assert.Equal(t, 10, deepCfg.Network.MaxActions)
	assert.Equal(t, 128, deepCfg.Network.HiddenSize)
}
