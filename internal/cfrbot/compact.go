package cfrbot

import (
	"fmt"
	"sort"

	"github.com/opencoff/go-chd"

	"github.com/lox/riposte/sdk/solver"
)

// CompactBlueprint is a read-only, perfect-hash-backed view over a frozen
// solver.Blueprint. It avoids keeping the full map[string][]float64 resident
// (and its associated bucket/hash overhead) once a blueprint is frozen for
// serving: a CHD minimal perfect hash maps each info-set key string straight
// to its slot in a flat strategy table.
type CompactBlueprint struct {
	keys       []string
	strategies [][]float64
	index      *chd.CHD
}

// NewCompactBlueprint builds a perfect-hash index over every info-set key in
// bp. The blueprint must not change after this call; CompactBlueprint keeps
// its own copy of the strategy table.
func NewCompactBlueprint(bp *solver.Blueprint) (*CompactBlueprint, error) {
	if bp == nil {
		return nil, fmt.Errorf("cfrbot: nil blueprint")
	}

	keys := make([]string, 0, len(bp.Strategies))
	for k := range bp.Strategies {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	builder, err := chd.NewBuilder(len(keys))
	if err != nil {
		return nil, fmt.Errorf("cfrbot: new chd builder: %w", err)
	}
	for _, k := range keys {
		builder.Add([]byte(k))
	}

	index, err := builder.Freeze(0)
	if err != nil {
		return nil, fmt.Errorf("cfrbot: freeze chd index: %w", err)
	}

	strategies := make([][]float64, len(keys))
	for i, k := range keys {
		strategies[i] = bp.Strategies[k]
	}

	return &CompactBlueprint{keys: keys, strategies: strategies, index: index}, nil
}

// Strategy looks up the stored average strategy for key.String(), verifying
// the slot the perfect hash returns actually holds that key (a CHD index
// gives no collision guarantee for keys it was never built with).
func (c *CompactBlueprint) Strategy(keyString string) ([]float64, bool) {
	if c == nil || c.index == nil {
		return nil, false
	}
	slot := c.index.Find([]byte(keyString))
	if slot >= uint64(len(c.keys)) || c.keys[slot] != keyString {
		return nil, false
	}
	return c.strategies[slot], true
}

// Len reports the number of info-set keys held in the index.
func (c *CompactBlueprint) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}
