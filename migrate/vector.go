package migrate

import "math"

// NormalizeVector scales v to unit length before it is written to the
// vector sub-index, so stored embeddings compare by plain dot product.
// The magnitude is accumulated in float64 to keep precision over long
// vectors. Returns a new slice; a zero vector has no direction and comes
// back as a fresh zero vector of the same length.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	magnitude := math.Sqrt(sum)

	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = float32(float64(val) / magnitude)
	}
	return result
}
