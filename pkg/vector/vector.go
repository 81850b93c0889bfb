// Package vector provides the numeric primitives used to compare embeddings.
package vector

import "math"

// CosineSimilarity returns the cosine of the angle between a and b.
//
// The second return value is false when no similarity can be computed:
// the vectors differ in length, either is empty, or either has zero
// magnitude. Otherwise the result lies in [-1, 1] up to floating error.
// The arithmetic is done in float64 regardless of the float32 inputs.
func CosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	magA, magB := Magnitude(a), Magnitude(b)
	if magA == 0 || magB == 0 {
		return 0, false
	}

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}

	return dot / (magA * magB), true
}

// Magnitude returns the euclidean norm of v.
func Magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
