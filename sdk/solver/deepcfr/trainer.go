package deepcfr

import (
	"math"
	"math/rand"
)

// AdvantageMemory is one training example for the advantage network: the
// regret increment observed for a single action at a single info set.
type AdvantageMemory struct {
	Features    []float64
	ActionIndex int
	Advantage   float64
	Iteration   int
}

// StrategyMemory is one training example for the policy network: the
// regret-matching strategy realized at a single info set.
type StrategyMemory struct {
	Features   []float64
	Strategy   []float64
	ActionMask []bool
	Iteration  int
}

// Config bundles the knobs that govern a Deep-CFR run: network
// architecture, reservoir capacity, batch size, and training cadence.
type Config struct {
	Network              NetworkConfig
	AdvantageMemorySize  int
	StrategyMemorySize   int
	BatchSize            int
	TrainAdvantageEvery  int // iterations between advantage-network updates
	TrainPolicyEvery     int // iterations between policy-network updates
	NeuralMixProbability float64
	Seed                 int64
}

func (c Config) withDefaults() Config {
	if c.AdvantageMemorySize <= 0 {
		c.AdvantageMemorySize = 1_000_000
	}
	if c.StrategyMemorySize <= 0 {
		c.StrategyMemorySize = 1_000_000
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 256
	}
	if c.TrainAdvantageEvery <= 0 {
		c.TrainAdvantageEvery = 100
	}
	if c.TrainPolicyEvery <= 0 {
		c.TrainPolicyEvery = 1000
	}
	if c.NeuralMixProbability <= 0 {
		c.NeuralMixProbability = 0.5
	}
	return c
}

// Trainer owns the three approximator networks and their reservoir
// buffers, and decides on the fixed cadence when each network retrains.
// It does not itself run CFR traversals: the tabular trainer's traversal
// loop calls RecordAdvantage/RecordStrategy as it visits nodes, and this
// type folds that experience into the networks on schedule.
type Trainer struct {
	cfg Config

	Value     *ValueNetwork
	Advantage *AdvantageNetwork
	Policy    *PolicyNetwork

	advantageMemory *ReservoirBuffer[AdvantageMemory]
	strategyMemory  *ReservoirBuffer[StrategyMemory]

	rng *rand.Rand

	AdvantagesTrained int
	StrategiesTrained int
}

func NewTrainer(cfg Config) *Trainer {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))
	return &Trainer{
		cfg:             cfg,
		Value:           NewValueNetwork(cfg.Network),
		Advantage:       NewAdvantageNetwork(cfg.Network),
		Policy:          NewPolicyNetwork(cfg.Network),
		advantageMemory: NewReservoirBuffer[AdvantageMemory](cfg.AdvantageMemorySize, rng),
		strategyMemory:  NewReservoirBuffer[StrategyMemory](cfg.StrategyMemorySize, rng),
		rng:             rng,
	}
}

// RecordAdvantage stores one (features, action, advantage) observation
// produced while traversing the game tree for the traversing player.
func (t *Trainer) RecordAdvantage(features []float64, actionIndex int, advantage float64, iteration int) {
	t.advantageMemory.Add(AdvantageMemory{
		Features:    append([]float64(nil), features...),
		ActionIndex: actionIndex,
		Advantage:   advantage,
		Iteration:   iteration,
	})
}

// RecordStrategy stores the regret-matching strategy realized at a node,
// for later distillation into the policy network.
func (t *Trainer) RecordStrategy(features []float64, strategy []float64, mask []bool, iteration int) {
	t.strategyMemory.Add(StrategyMemory{
		Features:   append([]float64(nil), features...),
		Strategy:   append([]float64(nil), strategy...),
		ActionMask: append([]bool(nil), mask...),
		Iteration:  iteration,
	})
}

// MaybeTrain checks the fixed cadence (advantage every TrainAdvantageEvery
// iterations, policy every TrainPolicyEvery) and trains whichever networks
// are due, skipping any network whose reservoir has fewer than a batch's
// worth of examples.
func (t *Trainer) MaybeTrain(iteration int) (advantageLoss, policyLoss float64, advantageTrained, policyTrained bool) {
	if iteration > 0 && iteration%t.cfg.TrainAdvantageEvery == 0 {
		if loss, ok := t.trainAdvantage(); ok {
			advantageLoss, advantageTrained = loss, true
		}
	}
	if iteration > 0 && iteration%t.cfg.TrainPolicyEvery == 0 {
		if loss, ok := t.trainPolicy(); ok {
			policyLoss, policyTrained = loss, true
		}
	}
	return
}

func (t *Trainer) trainAdvantage() (float64, bool) {
	if t.advantageMemory.Len() < t.cfg.BatchSize {
		return 0, false
	}
	batch := t.advantageMemory.Sample(t.cfg.BatchSize)
	features := make([][]float64, len(batch))
	actions := make([]int, len(batch))
	advantages := make([]float64, len(batch))
	for i, item := range batch {
		features[i] = item.Features
		actions[i] = item.ActionIndex
		advantages[i] = item.Advantage
	}
	loss := t.Advantage.Train(features, actions, advantages)
	t.AdvantagesTrained += len(batch)
	return loss, true
}

func (t *Trainer) trainPolicy() (float64, bool) {
	if t.strategyMemory.Len() < t.cfg.BatchSize {
		return 0, false
	}
	batch := t.strategyMemory.Sample(t.cfg.BatchSize)
	features := make([][]float64, len(batch))
	targets := make([][]float64, len(batch))
	masks := make([][]bool, len(batch))
	for i, item := range batch {
		features[i] = item.Features
		targets[i] = item.Strategy
		masks[i] = item.ActionMask
	}
	loss := t.Policy.Train(features, targets, masks)
	t.StrategiesTrained += len(batch)
	return loss, true
}

// Strategy returns a decision-time strategy over the legal actions,
// mixing the neural policy network with the tabular regret-matching
// strategy per the configured probability, and falling back to the
// tabular strategy outright if the neural prediction contains a NaN or
// the network panics (guarded by recover, matching the original's
// try/except fallback).
func (t *Trainer) Strategy(features []float64, legalMask []bool, tabular []float64) (strategy []float64, usedNeural bool) {
	if t.rng.Float64() >= t.cfg.NeuralMixProbability {
		return tabular, false
	}

	strategy, ok := t.safeNeuralStrategy(features, legalMask)
	if !ok {
		return tabular, false
	}
	return strategy, true
}

func (t *Trainer) safeNeuralStrategy(features []float64, legalMask []bool) (result []float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			result, ok = nil, false
		}
	}()
	pred := t.Policy.Predict(features, legalMask)
	for _, p := range pred {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, false
		}
	}
	return pred, true
}
