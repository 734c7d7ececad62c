package deepcfr

import (
	"math"
	"math/rand"
)

const actionEmbedDim = 32

// NetworkConfig mirrors the original trainer's config knobs for network
// width/depth/regularization, plus the fixed action alphabet size.
type NetworkConfig struct {
	FeatureSize  int
	MaxActions   int
	HiddenSize   int
	NumLayers    int
	DropoutRate  float64
	LearningRate float64
	Seed         int64
}

func (c NetworkConfig) withDefaults() NetworkConfig {
	if c.HiddenSize <= 0 {
		c.HiddenSize = 512
	}
	if c.NumLayers <= 0 {
		c.NumLayers = 3
	}
	if c.LearningRate <= 0 {
		c.LearningRate = 1e-4
	}
	return c
}

// ValueNetwork approximates the expected counterfactual value of an
// information set from its feature vector alone.
type ValueNetwork struct {
	net *mlp
	opt *sgd
}

func NewValueNetwork(cfg NetworkConfig) *ValueNetwork {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))
	net := newMLP(mlpConfig{
		InputSize:   cfg.FeatureSize,
		OutputSize:  1,
		HiddenSize:  cfg.HiddenSize,
		NumLayers:   cfg.NumLayers,
		DropoutRate: cfg.DropoutRate,
	}, rng)
	return &ValueNetwork{net: net, opt: newSGD(cfg.LearningRate, 1.0, 0.9)}
}

// Predict returns the scalar value estimate for a single feature vector.
func (v *ValueNetwork) Predict(features []float64) float64 {
	v.net.setTraining(false)
	out := v.net.forward([][]float64{features})
	return out[0][0]
}

// Train performs one MSE-loss gradient step against target values and
// returns the pre-update loss.
func (v *ValueNetwork) Train(features [][]float64, targets []float64) float64 {
	v.net.setTraining(true)
	v.net.zeroGrad()
	preds := v.net.forward(features)

	n := float64(len(features))
	loss := 0.0
	grad := make([][]float64, len(features))
	for i, p := range preds {
		diff := p[0] - targets[i]
		loss += diff * diff
		grad[i] = []float64{2 * diff / n}
	}
	loss /= n

	v.net.backward(grad)
	v.opt.step(v.net.params())
	return loss
}

// AdvantageNetwork approximates the counterfactual regret increment for a
// specific action, conditioned on an embedding of that action concatenated
// to the information-set features.
type AdvantageNetwork struct {
	net        *mlp
	embeddings [][]float64
	dEmbed     [][]float64
	opt        *sgd
	maxActions int
}

func NewAdvantageNetwork(cfg NetworkConfig) *AdvantageNetwork {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed + 1))
	net := newMLP(mlpConfig{
		InputSize:   cfg.FeatureSize + actionEmbedDim,
		OutputSize:  1,
		HiddenSize:  cfg.HiddenSize,
		NumLayers:   cfg.NumLayers,
		DropoutRate: cfg.DropoutRate,
	}, rng)

	embed := make([][]float64, cfg.MaxActions)
	dEmbed := make([][]float64, cfg.MaxActions)
	for i := range embed {
		embed[i] = make([]float64, actionEmbedDim)
		dEmbed[i] = make([]float64, actionEmbedDim)
		for j := range embed[i] {
			embed[i][j] = rng.NormFloat64() * 0.1
		}
	}

	return &AdvantageNetwork{
		net:        net,
		embeddings: embed,
		dEmbed:     dEmbed,
		opt:        newSGD(cfg.LearningRate, 1.0, 0.9),
		maxActions: cfg.MaxActions,
	}
}

func (a *AdvantageNetwork) combine(features []float64, actionIdx int) []float64 {
	out := make([]float64, len(features)+actionEmbedDim)
	copy(out, features)
	copy(out[len(features):], a.embeddings[actionIdx])
	return out
}

// Predict returns the advantage estimate for one (features, action) pair.
func (a *AdvantageNetwork) Predict(features []float64, actionIdx int) float64 {
	a.net.setTraining(false)
	out := a.net.forward([][]float64{a.combine(features, actionIdx)})
	return out[0][0]
}

// Train performs one z-scored-MSE gradient step over a batch of
// (features, action, advantage) triples, per spec: advantages are
// normalized to zero mean/unit variance before the loss is computed.
func (a *AdvantageNetwork) Train(features [][]float64, actionIdx []int, advantages []float64) float64 {
	n := len(features)
	if n == 0 {
		return 0
	}

	mean := 0.0
	for _, v := range advantages {
		mean += v
	}
	mean /= float64(n)
	variance := 0.0
	for _, v := range advantages {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)
	std := math.Sqrt(variance)
	if std < 1e-6 {
		std = 1e-6
	}

	targets := make([]float64, n)
	for i, v := range advantages {
		targets[i] = (v - mean) / std
	}

	a.net.setTraining(true)
	a.net.zeroGrad()
	for i := range a.dEmbed {
		for j := range a.dEmbed[i] {
			a.dEmbed[i][j] = 0
		}
	}

	combined := make([][]float64, n)
	for i := range features {
		combined[i] = a.combine(features[i], actionIdx[i])
	}
	preds := a.net.forward(combined)

	loss := 0.0
	grad := make([][]float64, n)
	fn := float64(n)
	for i, p := range preds {
		diff := p[0] - targets[i]
		loss += diff * diff
		grad[i] = []float64{2 * diff / fn}
	}
	loss /= fn

	dCombined := a.net.backward(grad)
	featLen := len(features[0])
	for i, idx := range actionIdx {
		dEmb := dCombined[i][featLen:]
		for j, g := range dEmb {
			a.dEmbed[idx][j] += g
		}
	}

	params := append(a.net.params(), &paramTensor{values: a.embeddings, grads: a.dEmbed})
	a.opt.step(params)
	return loss
}

// PolicyNetwork approximates the average strategy over the full action
// alphabet, masked to the legal actions at decision time.
type PolicyNetwork struct {
	net        *mlp
	opt        *sgd
	maxActions int
}

func NewPolicyNetwork(cfg NetworkConfig) *PolicyNetwork {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed + 2))
	net := newMLP(mlpConfig{
		InputSize:   cfg.FeatureSize,
		OutputSize:  cfg.MaxActions,
		HiddenSize:  cfg.HiddenSize,
		NumLayers:   cfg.NumLayers,
		DropoutRate: cfg.DropoutRate,
	}, rng)
	return &PolicyNetwork{net: net, opt: newSGD(cfg.LearningRate, 1.0, 0.9), maxActions: cfg.MaxActions}
}

// softmaxMasked applies the legal-action mask as -1e9 on illegal logits
// before taking a numerically stable softmax.
func softmaxMasked(logits []float64, mask []bool) []float64 {
	masked := make([]float64, len(logits))
	maxV := math.Inf(-1)
	for i, l := range logits {
		if mask != nil && !mask[i] {
			masked[i] = -1e9
		} else {
			masked[i] = l
		}
		if masked[i] > maxV {
			maxV = masked[i]
		}
	}
	sum := 0.0
	out := make([]float64, len(logits))
	for i, v := range masked {
		e := math.Exp(v - maxV)
		out[i] = e
		sum += e
	}
	if sum <= 0 {
		uniform := 1.0 / float64(len(logits))
		for i := range out {
			out[i] = uniform
		}
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Predict returns a softmax distribution over the full action alphabet,
// masked to legalMask (true = legal).
func (p *PolicyNetwork) Predict(features []float64, legalMask []bool) []float64 {
	p.net.setTraining(false)
	out := p.net.forward([][]float64{features})
	return softmaxMasked(out[0], legalMask)
}

// Train performs one KL(target || predicted) gradient step. The gradient
// of softmax-cross-entropy-style KL divergence w.r.t. pre-softmax logits
// reduces to (predicted - target), which is what is backpropagated.
func (p *PolicyNetwork) Train(features [][]float64, targets [][]float64, masks [][]bool) float64 {
	n := len(features)
	if n == 0 {
		return 0
	}
	p.net.setTraining(true)
	p.net.zeroGrad()

	logits := p.net.forward(features)
	loss := 0.0
	grad := make([][]float64, n)
	fn := float64(n)
	for i, l := range logits {
		pred := softmaxMasked(l, masks[i])
		g := make([]float64, len(l))
		for j := range l {
			t := targets[i][j]
			pr := pred[j]
			if t > 0 {
				loss += t * math.Log((t+1e-12)/(pr+1e-12))
			}
			g[j] = (pr - t) / fn
		}
		grad[i] = g
	}
	loss /= fn

	p.net.backward(grad)
	p.opt.step(p.net.params())
	return loss
}
