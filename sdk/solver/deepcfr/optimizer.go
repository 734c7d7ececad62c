package deepcfr

import "math"

// sgd is a plain stochastic-gradient-descent optimizer with global
// gradient-norm clipping, applied uniformly across every parameter tensor
// registered with it. Every Deep-CFR network update clips to norm 1.0
// before stepping.
type sgd struct {
	lr        float64
	clipNorm  float64
	momentum  float64
	velocity  map[*paramTensor][][]float64
	velVec    map[*paramTensor][]float64
}

func newSGD(lr, clipNorm, momentum float64) *sgd {
	return &sgd{
		lr:       lr,
		clipNorm: clipNorm,
		momentum: momentum,
		velocity: make(map[*paramTensor][][]float64),
		velVec:   make(map[*paramTensor][]float64),
	}
}

// step applies one gradient update across all of the given parameter
// tensors, first rescaling every gradient so the combined L2 norm across
// all tensors does not exceed clipNorm.
func (o *sgd) step(params []*paramTensor) {
	total := 0.0
	for _, p := range params {
		for _, row := range p.grads {
			for _, g := range row {
				total += g * g
			}
		}
		for _, g := range p.gradsVec {
			total += g * g
		}
	}
	norm := math.Sqrt(total)
	scale := 1.0
	if o.clipNorm > 0 && norm > o.clipNorm {
		scale = o.clipNorm / norm
	}

	for _, p := range params {
		if p.values != nil {
			vel := o.velocity[p]
			if vel == nil {
				vel = make([][]float64, len(p.values))
				for i := range vel {
					vel[i] = make([]float64, len(p.values[i]))
				}
				o.velocity[p] = vel
			}
			for i := range p.values {
				for j := range p.values[i] {
					g := p.grads[i][j] * scale
					vel[i][j] = o.momentum*vel[i][j] - o.lr*g
					p.values[i][j] += vel[i][j]
				}
			}
		}
		if p.valuesVec != nil {
			vel := o.velVec[p]
			if vel == nil {
				vel = make([]float64, len(p.valuesVec))
				o.velVec[p] = vel
			}
			for i := range p.valuesVec {
				g := p.gradsVec[i] * scale
				vel[i] = o.momentum*vel[i] - o.lr*g
				p.valuesVec[i] += vel[i]
			}
		}
	}
}
