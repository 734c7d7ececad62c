// Package config loads the startup constants that govern a table and its
// CFR trainer from an HCL file, the way the teacher's server package loaded
// its table/bot layout.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/riposte/internal/abstraction"
	"github.com/lox/riposte/sdk/solver"
	"github.com/lox/riposte/sdk/solver/deepcfr"
)

// Config is the root of the HCL configuration file: table stakes, and the
// CFR/Deep-CFR hyperparameters the trainer CLI reads at startup.
type Config struct {
	Game GameSettings  `hcl:"game,block"`
	CFR  CFRSettings   `hcl:"cfr,block"`
	Deep *DeepSettings `hcl:"deep,block"`
}

// GameSettings fixes the table's stakes for the lifetime of a process.
type GameSettings struct {
	SmallBlind    int `hcl:"small_blind"`
	BigBlind      int `hcl:"big_blind"`
	Ante          int `hcl:"ante,optional"`
	StartingStack int `hcl:"starting_stack"`
	NumPlayers    int `hcl:"num_players,optional"`
}

// CFRSettings configures the tabular MCCFR trainer.
type CFRSettings struct {
	Iterations           int       `hcl:"iterations,optional"`
	ParallelTables       int       `hcl:"parallel_tables,optional"`
	Seed                 int64     `hcl:"seed,optional"`
	PreflopBuckets       int       `hcl:"preflop_buckets,optional"`
	PostflopBuckets      int       `hcl:"postflop_buckets,optional"`
	BetSizing            []float64 `hcl:"bet_sizing,optional"`
	MaxActionsPerNode    int       `hcl:"max_actions_per_node,optional"`
	MaxRaisesPerBucket   int       `hcl:"max_raises_per_bucket,optional"`
	AdaptiveRaiseVisits  int       `hcl:"adaptive_raise_visits,optional"`
	UseCFRPlus           bool      `hcl:"use_cfr_plus,optional"`
	UseDCFR              bool      `hcl:"use_dcfr,optional"`
	PrintEvery           int       `hcl:"print_every,optional"`
	SaveEvery            int       `hcl:"save_every,optional"`
	EvalEvery            int       `hcl:"eval_every,optional"`
	CheckpointEvery      string    `hcl:"checkpoint_every,optional"`
	MaxNodesPerIteration int64     `hcl:"max_nodes_per_iteration,optional"`
}

// DeepSettings configures the Deep-CFR neural trainer; nil (the block
// omitted) means the trainer CLI's "deep" subcommand is unavailable.
type DeepSettings struct {
	HiddenSize           int     `hcl:"hidden_size,optional"`
	NumLayers            int     `hcl:"num_layers,optional"`
	DropoutRate          float64 `hcl:"dropout_rate,optional"`
	LearningRate         float64 `hcl:"learning_rate,optional"`
	AdvantageMemorySize  int     `hcl:"advantage_memory_size,optional"`
	StrategyMemorySize   int     `hcl:"strategy_memory_size,optional"`
	BatchSize            int     `hcl:"batch_size,optional"`
	TrainAdvantageEvery  int     `hcl:"train_advantage_every,optional"`
	TrainPolicyEvery     int     `hcl:"train_policy_every,optional"`
	NeuralMixProbability float64 `hcl:"neural_mix_probability,optional"`
}

// Default returns the built-in heads-up configuration used when no HCL
// file is present: $5/$10 blinds, no ante, 1000-chip stacks, a modest
// tabular-CFR run, and Deep-CFR left unconfigured.
func Default() *Config {
	return &Config{
		Game: GameSettings{
			SmallBlind:    5,
			BigBlind:      10,
			StartingStack: 1000,
			NumPlayers:    2,
		},
		CFR: CFRSettings{
			Iterations:           100_000,
			ParallelTables:       4,
			PreflopBuckets:       abstraction.PreflopBucketCount,
			PostflopBuckets:      20,
			BetSizing:            []float64{0.5, 1.0, 2.0},
			MaxActionsPerNode:    6,
			MaxRaisesPerBucket:   3,
			PrintEvery:           1000,
			SaveEvery:            10000,
			EvalEvery:            10000,
			CheckpointEvery:      "5m",
			MaxNodesPerIteration: 200_000,
		},
	}
}

// Load reads and decodes an HCL configuration file, falling back to
// Default when the file does not exist.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", path, diags.Error())
	}

	cfg := Default()
	if diags := gohcl.DecodeBody(file.Body, nil, cfg); diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", path, diags.Error())
	}
	return cfg, nil
}

// Validate checks the loaded configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Game.SmallBlind <= 0 {
		return fmt.Errorf("config: small blind must be > 0")
	}
	if c.Game.BigBlind <= c.Game.SmallBlind {
		return fmt.Errorf("config: big blind must exceed small blind")
	}
	if c.Game.Ante < 0 {
		return fmt.Errorf("config: ante cannot be negative")
	}
	if c.Game.StartingStack <= 0 {
		return fmt.Errorf("config: starting stack must be > 0")
	}
	if c.Game.NumPlayers != 2 {
		return fmt.Errorf("config: only heads-up (num_players=2) is supported")
	}
	if c.CFR.Iterations <= 0 {
		return fmt.Errorf("config: cfr iterations must be > 0")
	}
	if c.CFR.ParallelTables <= 0 {
		return fmt.Errorf("config: cfr parallel_tables must be > 0")
	}
	if c.CFR.MaxNodesPerIteration <= 0 {
		return fmt.Errorf("config: cfr max_nodes_per_iteration must be > 0")
	}
	return nil
}

// TrainingConfig maps the loaded CFR settings onto solver.TrainingConfig.
func (c *Config) TrainingConfig() solver.TrainingConfig {
	checkpointEvery, _ := time.ParseDuration(c.CFR.CheckpointEvery)
	return solver.TrainingConfig{
		Iterations:           c.CFR.Iterations,
		Players:              c.Game.NumPlayers,
		Seed:                 c.CFR.Seed,
		ParallelTables:       c.CFR.ParallelTables,
		CheckpointEvery:      checkpointEvery,
		ProgressEvery:        c.CFR.PrintEvery,
		SmallBlind:           c.Game.SmallBlind,
		BigBlind:             c.Game.BigBlind,
		StartingStack:        c.Game.StartingStack,
		EnableRaises:         len(c.CFR.BetSizing) > 0,
		MaxRaisesPerBucket:   c.CFR.MaxRaisesPerBucket,
		AdaptiveRaiseVisits:  c.CFR.AdaptiveRaiseVisits,
		UseCFRPlus:           c.CFR.UseCFRPlus,
		UseDCFR:              c.CFR.UseDCFR,
		MaxNodesPerIteration: c.CFR.MaxNodesPerIteration,
	}
}

// AbstractionConfig maps the loaded CFR settings onto solver.AbstractionConfig.
func (c *Config) AbstractionConfig() solver.AbstractionConfig {
	return solver.AbstractionConfig{
		PreflopBucketCount:  c.CFR.PreflopBuckets,
		PostflopBucketCount: c.CFR.PostflopBuckets,
		BetSizing:           c.CFR.BetSizing,
		MaxActionsPerNode:   c.CFR.MaxActionsPerNode,
		EnableRaises:        len(c.CFR.BetSizing) > 0,
		MaxRaisesPerBucket:  c.CFR.MaxRaisesPerBucket,
	}
}

// DeepCFRConfig maps the loaded Deep-CFR settings onto deepcfr.Config, using
// featureSize/maxActions supplied by the caller (they derive from the
// abstraction, not the file). ok is false when no [deep] block was present.
func (c *Config) DeepCFRConfig(featureSize, maxActions int) (cfg deepcfr.Config, ok bool) {
	if c.Deep == nil {
		return deepcfr.Config{}, false
	}
	d := c.Deep
	return deepcfr.Config{
		Network: deepcfr.NetworkConfig{
			FeatureSize:  featureSize,
			MaxActions:   maxActions,
			HiddenSize:   d.HiddenSize,
			NumLayers:    d.NumLayers,
			DropoutRate:  d.DropoutRate,
			LearningRate: d.LearningRate,
			Seed:         c.CFR.Seed,
		},
		AdvantageMemorySize:  d.AdvantageMemorySize,
		StrategyMemorySize:   d.StrategyMemorySize,
		BatchSize:            d.BatchSize,
		TrainAdvantageEvery:  d.TrainAdvantageEvery,
		TrainPolicyEvery:     d.TrainPolicyEvery,
		NeuralMixProbability: d.NeuralMixProbability,
		Seed:                 c.CFR.Seed,
	}, true
}
