package search

import "math"

// dot returns the inner product of two equal-length vectors. Bundle vectors
// are unit length, so against a normalized query this equals cosine
// similarity.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// normalize returns a unit-length copy of v. The zero vector is returned
// unchanged since it has no direction to preserve.
func normalize(v []float32) []float32 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	if sumSquares == 0 {
		return v
	}

	inv := 1 / math.Sqrt(sumSquares)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}
