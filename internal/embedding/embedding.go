// Package embedding provides a deterministic stand-in for a real embedding
// model. It exists only to exercise the vector-indexing path: identical input
// always yields an identical vector, which lets the fan-out be tested without
// a live model. Semantic quality is explicitly not a goal.
package embedding

import "crypto/sha256"

// DefaultDim matches the dimensionality commonly configured on hosted vector
// indexes.
const DefaultDim = 1536

// hashBytes is how many digest bytes contribute non-zero components.
const hashBytes = 16

// Embedder produces fixed-dimension vectors from text.
type Embedder struct {
	dim int
}

// New returns an Embedder producing vectors of the given dimension. A
// non-positive dim falls back to DefaultDim.
func New(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &Embedder{dim: dim}
}

// Dim reports the configured vector dimension.
func (e *Embedder) Dim() int { return e.dim }

// Embed maps text to a vector: the first 16 bytes of the SHA-256 digest,
// scaled into [0,1], zero-padded to the configured dimension.
func (e *Embedder) Embed(text string) []float32 {
	digest := sha256.Sum256([]byte(text))

	vector := make([]float32, e.dim)
	n := hashBytes
	if n > e.dim {
		n = e.dim
	}
	for i := 0; i < n; i++ {
		vector[i] = float32(digest[i]) / 255.0
	}
	return vector
}
