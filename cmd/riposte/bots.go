package main

import (
	"fmt"
	"math/rand"

	"github.com/lox/riposte/internal/bladework"
	"github.com/lox/riposte/internal/cfrbot"
	"github.com/lox/riposte/internal/wsserver"
	"github.com/lox/riposte/sdk/solver"
	"github.com/lox/riposte/sdk/solver/runtime"
)

// buildBot constructs a Decider for the given backend name ("cfr" or
// "bladework"). modelPath is required for "cfr" and ignored otherwise.
func buildBot(name, modelPath string, rng *rand.Rand) (wsserver.Decider, error) {
	switch name {
	case "bladework":
		return bladework.NewBot(rng), nil
	case "cfr":
		if modelPath == "" {
			return nil, fmt.Errorf("cfr bot requires --model path to a saved blueprint")
		}
		policy, err := runtime.Load(modelPath)
		if err != nil {
			return nil, fmt.Errorf("load blueprint %s: %w", modelPath, err)
		}
		bp := policy.Blueprint()
		bucket, err := solver.NewBucketMapper(bp.Abstraction)
		if err != nil {
			return nil, fmt.Errorf("rebuild bucket mapper: %w", err)
		}
		return cfrbot.NewBot(bp, bucket, nil, rng), nil
	default:
		return nil, fmt.Errorf("unknown bot %q (want cfr or bladework)", name)
	}
}
