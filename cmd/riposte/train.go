package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/riposte/cmd/riposte/shared"
	"github.com/lox/riposte/internal/config"
	"github.com/lox/riposte/sdk/solver"
	"github.com/lox/riposte/sdk/solver/deepcfr"
)

// TrainCmd groups the two CFR training modes.
type TrainCmd struct {
	Basic TrainBasicCmd `cmd:"" help:"Run the tabular MCCFR trainer"`
	Deep  TrainDeepCmd  `cmd:"" help:"Run the tabular trainer, then distill the blueprint into Deep-CFR networks"`
}

// TrainBasicCmd runs the tabular MCCFR trainer to produce a Blueprint.
type TrainBasicCmd struct {
	Iterations int    `help:"Number of CFR iterations to run" default:"0"`
	Config     string `help:"Path to an HCL config file (falls back to built-in defaults)"`
	Checkpoint string `help:"Checkpoint file path; resumes from it if present"`
	Debug      bool   `help:"Enable debug logging"`
	Out        string `help:"Blueprint output path" default:"blueprint.json"`
}

func (c *TrainBasicCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	ctx := shared.SetupSignalHandler(logger)

	trainer, cfg, err := loadOrResumeTrainer(c.Config, c.Checkpoint, c.Iterations)
	if err != nil {
		return err
	}
	if c.Checkpoint != "" {
		trainer.EnableCheckpoints(c.Checkpoint, cfg.CFR.SaveEvery)
	}

	logger.Info("training started",
		"iterations", trainer.TrainingConfig().Iterations,
		"parallel_tables", trainer.TrainingConfig().ParallelTables,
		"small_blind", trainer.TrainingConfig().SmallBlind,
		"big_blind", trainer.TrainingConfig().BigBlind,
	)

	if err := trainer.Run(ctx, func(p solver.Progress) {
		logger.Info("progress",
			"iteration", p.Iteration,
			"regret_table_size", p.RegretTableSize,
			"nodes_visited", p.Stats.NodesVisited,
		)
	}); err != nil {
		return fmt.Errorf("train: %w", err)
	}

	bp := trainer.Blueprint()
	if err := bp.Save(c.Out); err != nil {
		return fmt.Errorf("save blueprint: %w", err)
	}
	logger.Info("blueprint saved", "path", c.Out, "infosets", len(bp.Strategies))
	return nil
}

// TrainDeepCmd runs the tabular traversal with a Deep-CFR trainer attached,
// so the advantage and policy networks train on the live per-action regret
// increments the traversal produces, then distills the converged blueprint's
// average strategies into the policy network as a final imitation pass.
// deepcfr.Trainer has no serialization of its own, so the artifact this
// command persists is still the tabular Blueprint JSON; the neural pass is
// reported via its training losses rather than a saved model file.
type TrainDeepCmd struct {
	Iterations int    `help:"Number of CFR iterations to run" default:"0"`
	Config     string `help:"Path to an HCL config file (must contain a [deep] block)"`
	Checkpoint string `help:"Checkpoint file path; resumes from it if present"`
	Debug      bool   `help:"Enable debug logging"`
	Out        string `help:"Blueprint output path" default:"blueprint.json"`
}

func (c *TrainDeepCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	ctx := shared.SetupSignalHandler(logger)

	trainer, cfg, err := loadOrResumeTrainer(c.Config, c.Checkpoint, c.Iterations)
	if err != nil {
		return err
	}
	if c.Checkpoint != "" {
		trainer.EnableCheckpoints(c.Checkpoint, cfg.CFR.SaveEvery)
	}

	deepCfg, ok := cfg.DeepCFRConfig(solver.FeatureVectorSize, cfg.CFR.MaxActionsPerNode)
	if !ok {
		return fmt.Errorf("train deep: config has no [deep] block")
	}
	deep := deepcfr.NewTrainer(deepCfg)
	trainer.EnableDeepCFR(deep)

	logger.Info("training started (tabular + deep distillation)",
		"iterations", trainer.TrainingConfig().Iterations,
		"hidden_size", deepCfg.Network.HiddenSize,
	)

	if err := trainer.Run(ctx, func(p solver.Progress) {
		logger.Info("progress", "iteration", p.Iteration, "regret_table_size", p.RegretTableSize)
	}); err != nil {
		return fmt.Errorf("train: %w", err)
	}

	bp := trainer.Blueprint()
	if err := bp.Save(c.Out); err != nil {
		return fmt.Errorf("save blueprint: %w", err)
	}
	logger.Info("blueprint saved", "path", c.Out, "infosets", len(bp.Strategies))

	advLoss, polLoss, trained := distillBlueprint(deep, bp)
	if trained {
		logger.Info("deep distillation complete", "advantage_loss", advLoss, "policy_loss", polLoss)
	} else {
		logger.Warn("deep distillation produced no training batches (too few infosets for batch size)")
	}
	return nil
}

// distillBlueprint feeds every stored average strategy through the
// Deep-CFR policy network as a strategy-memory example, so the networks
// see the same converged target the tabular trainer produced. It returns
// the last reported losses and whether any training batch actually ran.
func distillBlueprint(deep *deepcfr.Trainer, bp *solver.Blueprint) (advLoss, polLoss float64, trained bool) {
	iteration := 0
	for rawKey, strategy := range bp.Strategies {
		key, ok := parseInfoSetKey(rawKey)
		if !ok {
			continue
		}
		mask := make([]bool, len(strategy))
		for i := range mask {
			mask[i] = true
		}
		features := solver.FeatureVector(key, solver.FeatureInput{
			PotOdds:       0.5,
			SPR:           1.0,
			HistoryLength: len(strings.Split(key.History, ":")),
			Position:      key.Player,
		})
		deep.RecordStrategy(features[:], strategy, mask, iteration)

		aLoss, pLoss, advTrained, polTrained := deep.MaybeTrain(iteration)
		if advTrained {
			advLoss = aLoss
			trained = true
		}
		if polTrained {
			polLoss = pLoss
			trained = true
		}
		iteration++
	}
	return advLoss, polLoss, trained
}

// parseInfoSetKey reverses InfoSetKey.String()'s
// "street/player/hole/board/pot/toCall/history" layout. Returns ok=false
// for malformed keys rather than erroring — distillation just skips them.
func parseInfoSetKey(raw string) (solver.InfoSetKey, bool) {
	parts := strings.SplitN(raw, "/", 7)
	if len(parts) != 7 {
		return solver.InfoSetKey{}, false
	}
	ints := make([]int, 6)
	for i := 0; i < 6; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return solver.InfoSetKey{}, false
		}
		ints[i] = n
	}
	return solver.InfoSetKey{
		Street:       solver.Street(ints[0]),
		Player:       ints[1],
		HoleBucket:   ints[2],
		BoardBucket:  ints[3],
		PotBucket:    ints[4],
		ToCallBucket: ints[5],
		History:      parts[6],
	}, true
}

func loadOrResumeTrainer(configPath, checkpointPath string, iterations int) (*solver.Trainer, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if iterations > 0 {
		cfg.CFR.Iterations = iterations
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	if checkpointPath != "" {
		if trainer, err := solver.LoadTrainerFromCheckpoint(checkpointPath); err == nil {
			if iterations > 0 {
				if err := trainer.SetTotalIterations(iterations); err != nil {
					return nil, nil, err
				}
			}
			return trainer, cfg, nil
		}
	}

	trainer, err := solver.NewTrainer(cfg.AbstractionConfig(), cfg.TrainingConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("new trainer: %w", err)
	}
	return trainer, cfg, nil
}
