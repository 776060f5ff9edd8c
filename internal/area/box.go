package area

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is wrapped by every error returned for structurally
// invalid arguments. Numerically degenerate inputs, such as a box with zero
// width, are not errors.
var ErrInvalidInput = errors.New("invalid input")

// Box is an axis-aligned hyperrectangle given by per-dimension bounds.
// Lower and Upper must have equal length, be finite and satisfy
// Lower[i] <= Upper[i].
type Box struct {
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
}

// Domain returns the full [-1,1]^n box.
func Domain(n int) Box {
	b := Box{Lower: make([]float64, n), Upper: make([]float64, n)}
	for i := 0; i < n; i++ {
		b.Lower[i] = -1
		b.Upper[i] = 1
	}
	return b
}

// Dim returns the number of dimensions of the box.
func (b Box) Dim() int {
	return len(b.Lower)
}

// Widths returns Upper[i]-Lower[i] for every dimension.
func (b Box) Widths() []float64 {
	w := make([]float64, len(b.Lower))
	for i := range b.Lower {
		w[i] = b.Upper[i] - b.Lower[i]
	}
	return w
}

// Validate checks the structural invariants of the box.
func (b Box) Validate() error {
	if len(b.Lower) == 0 {
		return fmt.Errorf("%w: box has no dimensions", ErrInvalidInput)
	}
	if len(b.Lower) != len(b.Upper) {
		return fmt.Errorf("%w: box has %d lower bounds but %d upper bounds",
			ErrInvalidInput, len(b.Lower), len(b.Upper))
	}
	for i := range b.Lower {
		lo, hi := b.Lower[i], b.Upper[i]
		if math.IsNaN(lo) || math.IsNaN(hi) {
			return fmt.Errorf("%w: dimension %d has a NaN bound", ErrInvalidInput, i)
		}
		if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return fmt.Errorf("%w: dimension %d has an infinite bound", ErrInvalidInput, i)
		}
		if hi < lo {
			return fmt.Errorf("%w: dimension %d has upper %g below lower %g", ErrInvalidInput, i, hi, lo)
		}
	}
	return nil
}

// Bisect splits the box into two halves along dimension d.
func (b Box) Bisect(d int) (Box, Box, error) {
	if err := b.Validate(); err != nil {
		return Box{}, Box{}, err
	}
	if d < 0 || d >= b.Dim() {
		return Box{}, Box{}, fmt.Errorf("%w: bisect dimension %d out of range [0,%d)", ErrInvalidInput, d, b.Dim())
	}
	mid := b.Lower[d] + (b.Upper[d]-b.Lower[d])/2

	left := b.clone()
	left.Upper[d] = mid
	right := b.clone()
	right.Lower[d] = mid
	return left, right, nil
}

func (b Box) clone() Box {
	return Box{
		Lower: append([]float64(nil), b.Lower...),
		Upper: append([]float64(nil), b.Upper...),
	}
}
