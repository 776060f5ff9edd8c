package area

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Leaf pairs a frontier box with the accumulated log area of its ancestor.
// The box is expressed in the ancestor's own [-1,1]^n frame. A zero
// AncestorLogArea measures the box against the root domain.
type Leaf struct {
	Box             Box
	AncestorLogArea float64
}

// RootLeaves pairs every box with the root domain as its ancestor.
func RootLeaves(boxes []Box) []Leaf {
	leaves := make([]Leaf, len(boxes))
	for i, b := range boxes {
		leaves[i] = Leaf{Box: b}
	}
	return leaves
}

// LogSumExp returns log(sum(exp(x))) over logAreas without overflow or
// underflow. Every term is shifted by the maximum m, so the maximum itself
// contributes exactly 1 and the rest lie in [0,1]:
//
//	m + log1p(sum_{i != argmax} exp(x_i - m))
//
// If every term is -Inf the result is -Inf (zero total area).
func LogSumExp(logAreas []float64) (float64, error) {
	if len(logAreas) == 0 {
		return 0, fmt.Errorf("%w: no log areas to sum", ErrInvalidInput)
	}
	for i, x := range logAreas {
		if math.IsNaN(x) {
			return 0, fmt.Errorf("%w: log area %d is NaN", ErrInvalidInput, i)
		}
	}

	maxIdx := floats.MaxIdx(logAreas)
	maxLog := logAreas[maxIdx]
	if math.IsInf(maxLog, 0) {
		return maxLog, nil
	}

	var rest float64
	for i, x := range logAreas {
		if i == maxIdx {
			continue
		}
		rest += math.Exp(x - maxLog)
	}
	return maxLog + math.Log1p(rest), nil
}

// AggregateLogAreas computes the log area of every leaf and the log of
// their combined area relative to the original domain. The per-leaf slice
// is returned so the caller can hand it on as the ancestor log areas of the
// next subdivision level.
//
// All leaves must share one dimension; an empty frontier is rejected.
func AggregateLogAreas(leaves []Leaf) (total float64, perLeaf []float64, err error) {
	if len(leaves) == 0 {
		return 0, nil, fmt.Errorf("%w: no leaves to aggregate", ErrInvalidInput)
	}

	dim := leaves[0].Box.Dim()
	perLeaf = make([]float64, len(leaves))
	for i, leaf := range leaves {
		if leaf.Box.Dim() != dim {
			return 0, nil, fmt.Errorf("%w: leaf %d has dimension %d, want %d",
				ErrInvalidInput, i, leaf.Box.Dim(), dim)
		}
		if math.IsNaN(leaf.AncestorLogArea) {
			return 0, nil, fmt.Errorf("%w: leaf %d has a NaN ancestor log area", ErrInvalidInput, i)
		}
		la, err := LogArea(leaf.Box, &leaf.AncestorLogArea)
		if err != nil {
			return 0, nil, fmt.Errorf("leaf %d: %w", i, err)
		}
		perLeaf[i] = la
	}

	total, err = LogSumExp(perLeaf)
	if err != nil {
		return 0, nil, err
	}
	return total, perLeaf, nil
}
