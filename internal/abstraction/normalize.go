package abstraction

// Normalize centralizes the sanitation every sampler in the trainer applies
// to a weight vector before treating it as a probability distribution:
// negative weights are clipped to zero, entries below eps are zeroed, and
// the result is renormalized to sum to 1. If every weight is zero (or the
// slice is empty) the result is a uniform distribution.
func Normalize(weights []float64, eps float64) []float64 {
	out := make([]float64, len(weights))
	sum := 0.0
	for i, w := range weights {
		if w < 0 {
			w = 0
		}
		out[i] = w
		sum += w
	}

	if sum <= 0 {
		if len(out) == 0 {
			return out
		}
		u := 1.0 / float64(len(out))
		for i := range out {
			out[i] = u
		}
		return out
	}

	for i := range out {
		out[i] /= sum
	}

	// Second pass: drop near-zero noise and renormalize once more.
	sum = 0
	for i, w := range out {
		if w < eps {
			out[i] = 0
			continue
		}
		sum += w
	}
	if sum <= 0 {
		u := 1.0 / float64(len(out))
		for i := range out {
			out[i] = u
		}
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
