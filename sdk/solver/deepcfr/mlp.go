package deepcfr

import "math/rand"

// block is one input/hidden layer of the original network's stack:
// linear -> layer norm -> ReLU -> dropout.
type block struct {
	lin *linear
	ln  *layerNorm
	act *relu
	drp *dropout
}

func newBlock(in, out int, dropoutRate float64, rng *rand.Rand) *block {
	return &block{
		lin: newLinear(in, out, rng),
		ln:  newLayerNorm(out),
		act: &relu{},
		drp: newDropout(dropoutRate, rng),
	}
}

func (b *block) forward(x [][]float64) [][]float64 {
	x = b.lin.forward(x)
	x = b.ln.forward(x)
	x = b.act.forward(x)
	x = b.drp.forward(x)
	return x
}

func (b *block) backward(grad [][]float64) [][]float64 {
	grad = b.drp.backward(grad)
	grad = b.act.backward(grad)
	grad = b.ln.backward(grad)
	grad = b.lin.backward(grad)
	return grad
}

func (b *block) setTraining(t bool) { b.drp.training = t }

func (b *block) zeroGrad() {
	b.lin.zeroGrad()
	b.ln.zeroGrad()
}

func (b *block) params() []*paramTensor {
	return append(b.lin.params(), b.ln.params()...)
}

// mlp is the shared feedforward backbone for all three Deep-CFR networks:
// an input block, numLayers-1 hidden blocks, and a final plain linear
// output layer (no norm/activation on the output per the original
// architecture).
type mlp struct {
	blocks []*block
	output *linear
}

// mlpConfig mirrors the original network's constructor knobs.
type mlpConfig struct {
	InputSize   int
	OutputSize  int
	HiddenSize  int
	NumLayers   int
	DropoutRate float64
}

func newMLP(cfg mlpConfig, rng *rand.Rand) *mlp {
	if cfg.NumLayers < 1 {
		cfg.NumLayers = 1
	}
	m := &mlp{}
	m.blocks = append(m.blocks, newBlock(cfg.InputSize, cfg.HiddenSize, cfg.DropoutRate, rng))
	for i := 0; i < cfg.NumLayers-1; i++ {
		m.blocks = append(m.blocks, newBlock(cfg.HiddenSize, cfg.HiddenSize, cfg.DropoutRate, rng))
	}
	m.output = newLinear(cfg.HiddenSize, cfg.OutputSize, rng)
	return m
}

func (m *mlp) forward(x [][]float64) [][]float64 {
	for _, b := range m.blocks {
		x = b.forward(x)
	}
	return m.output.forward(x)
}

func (m *mlp) backward(grad [][]float64) [][]float64 {
	grad = m.output.backward(grad)
	for i := len(m.blocks) - 1; i >= 0; i-- {
		grad = m.blocks[i].backward(grad)
	}
	return grad
}

func (m *mlp) setTraining(t bool) {
	for _, b := range m.blocks {
		b.setTraining(t)
	}
}

func (m *mlp) zeroGrad() {
	m.output.zeroGrad()
	for _, b := range m.blocks {
		b.zeroGrad()
	}
}

func (m *mlp) params() []*paramTensor {
	params := append([]*paramTensor{}, m.output.params()...)
	for _, b := range m.blocks {
		params = append(params, b.params()...)
	}
	return params
}
